package cmd

import (
	"github.com/spf13/cobra"

	"github.com/DhavalSuthar-24/crease/config"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			db, err := config.ConnectDB(*cfg)
			if err != nil {
				return err
			}
			return migrate(db)
		},
	}
}
