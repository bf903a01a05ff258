// Package cli holds the gonovel commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gonovel/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gonovel",
	Short: "gonovel - a small site for reading web novels",
	Long: `gonovel serves a catalog of novels to a local reader. Readers can register, track the chapters they
have read, comment on chapters and upgrade to a premium membership to unlock premium chapters.

Configuration is read from config.yaml, GONOVEL_* environment variables (and a .env file) and flags.`,
	SilenceUsage: true,
}

// Execute runs the command named on the command line. It is called by main.main.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetGlobalNormalizationFunc(config.NormalizeFlag)
	flags := rootCmd.PersistentFlags()
	flags.Bool("debug", false, "log debug messages and every request")
	flags.String("backend", config.SQLite, "where user data is kept: sqlite, file or redis")
	flags.String("db-url", "gonovel.db", "SQLite database file")
	flags.String("migrations-folder", "migrations", "folder holding the SQLite migrations")
	flags.String("fs-root", "data/store", "directory used by the file backend")
	flags.String("redis-url", "redis://localhost:6379/0", "Redis server used by the redis backend")
	flags.String("catalog-source", "data/catalog.json", "catalog file path or http(s) URL")

	rootCmd.AddCommand(serveCmd, migrateCmd, catalogCmd)
}

// loadConfig reads the configuration with the command's flags applied and sets up the global logger.
func loadConfig(cmd *cobra.Command) (config.Configuration, error) {
	cfg, err := config.ReadConfig(cmd.Flags())
	if err != nil {
		return cfg, err
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	return cfg, nil
}
