package cli

import (
	"errors"

	"github.com/sidereusnuntius/gonovel/internal/config"
	"github.com/sidereusnuntius/gonovel/internal/initialization"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the SQLite database",
	Long:  `Applies every pending migration to the SQLite database. serve does this on its own; migrate is for setting up a database ahead of time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Backend != config.SQLite {
			return errors.New("migrate only applies to the sqlite backend")
		}

		d, err := initialization.OpenDB(cfg.DbUrl)
		if err != nil {
			return err
		}
		defer d.Close()
		return initialization.SetupDB(d, cfg.MigrationsFolder, cfg.DbUrl)
	},
}
