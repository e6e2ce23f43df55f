// Package statistics computes read-only derived views over card state and
// review history. Every view tolerates a user with zero cards and zero events.
package statistics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/kotoba-dev/kotoba/internal/card"
)

// Aggregator computes per-user statistics from the card repository.
type Aggregator struct {
	repo card.Repository
	now  func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// NewAggregator creates an Aggregator.
func NewAggregator(repo card.Repository, opts ...Option) *Aggregator {
	a := &Aggregator{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Overview is the per-user statistics summary.
type Overview struct {
	TotalReviews   int
	CorrectReviews int
	// Accuracy is CorrectReviews / TotalReviews, 0 when there is no history.
	Accuracy float64
	// DueToday counts cards due on the current calendar day, including
	// overdue and never-reviewed cards.
	DueToday int
	// StreakDays counts consecutive calendar days with at least one review,
	// walking backward from the most recent active day.
	StreakDays int
	// AverageEase is the arithmetic mean ease factor over all cards, or the
	// default ease factor when the user has no cards.
	AverageEase float64
}

// Overview computes the summary for one user.
func (a *Aggregator) Overview(ctx context.Context, userID string) (Overview, error) {
	events, err := a.repo.ListEvents(ctx, userID)
	if err != nil {
		return Overview{}, fmt.Errorf("load review history: %w", err)
	}
	cards, err := a.repo.ListCards(ctx, userID)
	if err != nil {
		return Overview{}, fmt.Errorf("load cards: %w", err)
	}
	due, err := a.repo.FindDue(ctx, userID, "", 0, a.now())
	if err != nil {
		return Overview{}, fmt.Errorf("count due cards: %w", err)
	}

	overview := Overview{
		TotalReviews: len(events),
		DueToday:     len(due),
		StreakDays:   streak(events),
		AverageEase:  averageEase(cards),
	}
	for _, event := range events {
		if event.Correct() {
			overview.CorrectReviews++
		}
	}
	if overview.TotalReviews > 0 {
		overview.Accuracy = float64(overview.CorrectReviews) / float64(overview.TotalReviews)
	}
	return overview, nil
}

// ForecastDay is the number of cards coming due on one future calendar day.
type ForecastDay struct {
	Date time.Time
	Due  int
}

// Forecast buckets upcoming reviews for the next days calendar days. The
// first bucket is today and includes overdue and never-reviewed cards; later
// buckets count cards scheduled exactly on that day.
func (a *Aggregator) Forecast(ctx context.Context, userID string, days int) ([]ForecastDay, error) {
	if days <= 0 {
		return nil, fmt.Errorf("forecast days must be positive, got %d: %w", days, card.ErrInvalidInput)
	}

	cards, err := a.repo.ListCards(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cards: %w", err)
	}

	now := a.now()
	today := card.StartOfDay(now)
	forecast := make([]ForecastDay, days)
	for i := range forecast {
		forecast[i] = ForecastDay{Date: today.AddDate(0, 0, i)}
	}

	for _, c := range cards {
		switch {
		case c.DueOn(now):
			forecast[0].Due++
		case c.NextReviewDate != nil:
			// Round absorbs the off-by-an-hour midnights around DST changes.
			offset := int(math.Round(card.StartOfDay(*c.NextReviewDate).Sub(today).Hours() / 24))
			if offset >= 1 && offset < days {
				forecast[offset].Due++
			}
		}
	}
	return forecast, nil
}

// streak walks backward from the most recent active day and counts
// consecutive calendar days with at least one review. A full day without any
// event breaks the streak.
func streak(events []card.ReviewEvent) int {
	if len(events) == 0 {
		return 0
	}

	active := make(map[time.Time]struct{}, len(events))
	latest := time.Time{}
	for _, event := range events {
		day := card.StartOfDay(event.ReviewedAt)
		active[day] = struct{}{}
		if day.After(latest) {
			latest = day
		}
	}

	count := 0
	for day := latest; ; day = day.AddDate(0, 0, -1) {
		if _, ok := active[day]; !ok {
			break
		}
		count++
	}
	return count
}

func averageEase(cards []card.Card) float64 {
	if len(cards) == 0 {
		return card.DefaultEasinessFactor
	}

	sum := 0.0
	for _, c := range cards {
		sum += c.EasinessFactor
	}
	return sum / float64(len(cards))
}
