package commands

import (
	"pipeline/migrations"

	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(opts)
			if err != nil {
				return err
			}
			db, err := a.openDB()
			if err != nil {
				return err
			}
			if err := migrations.Up(db); err != nil {
				return err
			}
			a.logger.Info("Database migration completed successfully")
			return nil
		},
	}
}
