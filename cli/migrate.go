package cli

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/andrewpaige1/flashgen-api/config"
)

func newMigrateCommand(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadDatabaseConfig(flags)
			if err != nil {
				return err
			}
			db, err := config.OpenDatabase(cfg.Database)
			if err != nil {
				return err
			}
			defer func() {
				if err := config.CloseDatabase(db); err != nil {
					log.Printf("migrate: failed to close database: %v", err)
				}
			}()

			if err := config.Migrate(db); err != nil {
				return err
			}
			log.Printf("Migrated %s database", cfg.Database.Driver)
			return nil
		},
	}
}
