package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kotoba-dev/kotoba/internal/cli"
)

func newReviewCommand() *cobra.Command {
	var userID string
	var collectionID string
	var limit int

	command := &cobra.Command{
		Use:   "review",
		Short: "Run an interactive review session over the due cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if limit == 0 {
				limit = cfg.Scheduler.DueLimit
			}

			repo, db, err := openRepository(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			sessionCLI := cli.NewReviewSessionCLI(newController(cfg, repo))
			return sessionCLI.Run(ctx, userID, collectionID, limit)
		},
	}
	command.Flags().StringVar(&userID, "user", "", "user id to review cards for")
	command.Flags().StringVar(&collectionID, "collection", "", "restrict the session to one collection")
	command.Flags().IntVar(&limit, "limit", 0, "maximum cards in the session (0 uses the configured limit)")
	_ = command.MarkFlagRequired("user")

	return command
}
