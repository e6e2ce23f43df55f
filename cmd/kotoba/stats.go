package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kotoba-dev/kotoba/internal/statistics"
)

func newStatsCommand() *cobra.Command {
	var userID string

	command := &cobra.Command{
		Use:   "stats",
		Short: "Show review statistics for a user",
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

			aggregator := statistics.NewAggregator(repo)
			overview, err := aggregator.Overview(ctx, userID)
			if err != nil {
				return fmt.Errorf("compute overview: %w", err)
			}
			forecast, err := aggregator.Forecast(ctx, userID, cfg.Scheduler.ForecastDays)
			if err != nil {
				return fmt.Errorf("compute forecast: %w", err)
			}

			fmt.Printf("Total reviews:   %d\n", overview.TotalReviews)
			fmt.Printf("Correct reviews: %d\n", overview.CorrectReviews)
			fmt.Printf("Accuracy:        %.1f%%\n", overview.Accuracy*100)
			fmt.Printf("Due today:       %d\n", overview.DueToday)
			fmt.Printf("Streak:          %d days\n", overview.StreakDays)
			fmt.Printf("Average ease:    %.2f\n", overview.AverageEase)
			fmt.Println()
			fmt.Println("Upcoming reviews:")
			for _, day := range forecast {
				fmt.Printf("  %s  %d\n", day.Date.Format("2006-01-02"), day.Due)
			}
			return nil
		},
	}
	command.Flags().StringVar(&userID, "user", "", "user id to show statistics for")
	_ = command.MarkFlagRequired("user")

	return command
}
