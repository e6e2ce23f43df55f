package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kotoba-dev/kotoba/internal/database"
	"github.com/kotoba-dev/kotoba/schemas"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = db.Close() }()

			if err := database.Migrate(ctx, db, schemas.Migrations, "migrations"); err != nil {
				return err
			}
			fmt.Println("Migrations applied.")
			return nil
		},
	}
}
