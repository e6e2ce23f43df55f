package main

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kotoba-dev/kotoba/internal/card"
	"github.com/kotoba-dev/kotoba/internal/config"
	"github.com/kotoba-dev/kotoba/internal/database"
	"github.com/kotoba-dev/kotoba/internal/ratelimit"
	"github.com/kotoba-dev/kotoba/internal/review"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

func openRepository(cfg *config.Config) (*card.DBRepository, *sqlx.DB, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return card.NewDBRepository(db), db, nil
}

func newController(cfg *config.Config, repo card.Repository) *review.Controller {
	limiter := ratelimit.NewSlidingWindow(
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
		cfg.RateLimit.MaxRequests,
	)
	return review.NewController(repo, limiter)
}
