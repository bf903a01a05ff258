package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	SQLite = "sqlite"
	Files  = "file"
	Redis  = "redis"
)

const EnvPrefix = "GONOVEL"

type Configuration struct {
	// Name of the site, shown in the page header.
	Name string
	Port uint16
	// Debug, if true, will make the application log all HTTP requests and other events.
	Debug bool
	// Backend selects where the key space lives: sqlite, file or redis.
	Backend string
	// DbUrl is the path to the SQLite database file.
	DbUrl            string
	MigrationsFolder string
	// FsRoot is the directory used by the file backend, one file per key.
	FsRoot      string
	RedisUrl    string
	RedisPrefix string
	// CatalogSource is either a path to the catalog JSON file or an http(s) URL serving it.
	CatalogSource string
	// StaticDir is the directory on which the stylesheet and other static files can be found.
	StaticDir string
	// SessionKey is the 32 byte key used to encrypt the flash message cookie. When empty a random key is used.
	SessionKey string
}

// NormalizeFlag lets command line flags be spelled with dashes while matching the underscored configuration keys.
func NormalizeFlag(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "-", "_"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("name", "gonovel")
	v.SetDefault("port", 8080)
	v.SetDefault("debug", false)
	v.SetDefault("backend", SQLite)
	v.SetDefault("db_url", "gonovel.db")
	v.SetDefault("migrations_folder", "migrations")
	v.SetDefault("fs_root", "data/store")
	v.SetDefault("redis_url", "redis://localhost:6379/0")
	v.SetDefault("redis_prefix", "gonovel:")
	v.SetDefault("catalog_source", "data/catalog.json")
	v.SetDefault("static_dir", "static")
	v.SetDefault("session_key", "")
}

// ReadConfig builds the configuration from, in increasing order of precedence, the defaults, an optional
// config.yaml in the working directory, GONOVEL_* environment variables (a .env file is loaded first, if present)
// and the given command line flags. flags may be nil.
func ReadConfig(flags *pflag.FlagSet) (Configuration, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Configuration{}, fmt.Errorf("read config file: %w", err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Configuration{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	cfg := Configuration{
		Name:             v.GetString("name"),
		Port:             v.GetUint16("port"),
		Debug:            v.GetBool("debug"),
		Backend:          strings.ToLower(v.GetString("backend")),
		DbUrl:            v.GetString("db_url"),
		MigrationsFolder: v.GetString("migrations_folder"),
		FsRoot:           v.GetString("fs_root"),
		RedisUrl:         v.GetString("redis_url"),
		RedisPrefix:      v.GetString("redis_prefix"),
		CatalogSource:    v.GetString("catalog_source"),
		StaticDir:        v.GetString("static_dir"),
		SessionKey:       v.GetString("session_key"),
	}
	if cfg.SessionKey == "" {
		key, err := RandomSessionKey()
		if err != nil {
			return cfg, fmt.Errorf("generate session key: %w", err)
		}
		log.Warn().Msg("no session key configured; using a random one, so flash cookies will not survive a restart")
		cfg.SessionKey = key
	}
	return cfg, cfg.Validate()
}

// RandomSessionKey returns a fresh 32 character key for the flash message cookie.
func RandomSessionKey() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (c Configuration) Validate() error {
	var errs []error
	switch c.Backend {
	case SQLite, Files, Redis:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q; expected %s, %s or %s", c.Backend, SQLite, Files, Redis))
	}
	if c.Port == 0 {
		errs = append(errs, errors.New("port must not be zero"))
	}
	if len(c.SessionKey) != 32 {
		errs = append(errs, fmt.Errorf("session key must be 32 bytes long, got %d", len(c.SessionKey)))
	}
	if strings.TrimSpace(c.CatalogSource) == "" {
		errs = append(errs, errors.New("empty catalog source"))
	}
	return errors.Join(errs...)
}
