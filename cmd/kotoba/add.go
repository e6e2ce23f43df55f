package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kotoba-dev/kotoba/internal/card"
)

func newAddCommand() *cobra.Command {
	var userID string
	var collectionID string

	command := &cobra.Command{
		Use:   "add [content refs]",
		Short: "Add new cards for a user",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			repo, db, err := openRepository(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			now := time.Now()
			cards := make([]*card.Card, 0, len(args))
			for _, contentRef := range args {
				cards = append(cards, &card.Card{
					ID:             uuid.NewString(),
					UserID:         userID,
					ContentRef:     contentRef,
					EasinessFactor: card.DefaultEasinessFactor,
					CreatedAt:      now,
					UpdatedAt:      now,
				})
			}
			if err := repo.BatchCreateCards(ctx, cards); err != nil {
				return fmt.Errorf("create cards: %w", err)
			}

			if collectionID != "" {
				for _, c := range cards {
					if err := repo.AddToCollection(ctx, collectionID, c.ID); err != nil {
						return fmt.Errorf("add card %s to collection: %w", c.ID, err)
					}
				}
			}

			fmt.Printf("Added %d cards\n", len(cards))
			return nil
		},
	}
	command.Flags().StringVar(&userID, "user", "", "user id owning the cards")
	command.Flags().StringVar(&collectionID, "collection", "", "collection to add the cards to")
	_ = command.MarkFlagRequired("user")

	return command
}
