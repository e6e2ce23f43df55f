package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newDueCommand() *cobra.Command {
	var userID string
	var collectionID string
	var limit int

	command := &cobra.Command{
		Use:   "due",
		Short: "List the cards due for review today",
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

			cards, err := repo.FindDue(ctx, userID, collectionID, limit, time.Now())
			if err != nil {
				return fmt.Errorf("find due cards: %w", err)
			}
			if len(cards) == 0 {
				fmt.Println("No cards are due.")
				return nil
			}

			for _, c := range cards {
				due := "new"
				if c.NextReviewDate != nil {
					due = c.NextReviewDate.Format("2006-01-02")
				}
				fmt.Printf("%s\t%s\tease %.2f\t%d reviews\n", due, c.ContentRef, c.EasinessFactor, c.ReviewCount)
			}
			return nil
		},
	}
	command.Flags().StringVar(&userID, "user", "", "user id to list due cards for")
	command.Flags().StringVar(&collectionID, "collection", "", "restrict the due set to one collection")
	command.Flags().IntVar(&limit, "limit", 0, "maximum cards to list (0 uses the configured limit)")
	_ = command.MarkFlagRequired("user")

	return command
}
