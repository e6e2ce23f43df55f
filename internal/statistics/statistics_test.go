package statistics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kotoba-dev/kotoba/internal/card"
)

func seedCards(t *testing.T, repo *card.MemoryRepository, cards ...card.Card) {
	t.Helper()
	for i := range cards {
		require.NoError(t, repo.CreateCard(context.Background(), &cards[i]))
	}
}

func seedEvent(t *testing.T, repo *card.MemoryRepository, userID string, quality int, reviewedAt time.Time) {
	t.Helper()

	cardID := "c-" + reviewedAt.Format("20060102T150405")
	c := card.Card{ID: cardID, UserID: userID, EasinessFactor: 2.5, ReviewCount: 1}
	_ = repo.CreateCard(context.Background(), &c)
	require.NoError(t, repo.ApplyReview(context.Background(), c, c.ReviewCount, card.ReviewEvent{
		ID:         cardID + "-event",
		CardID:     cardID,
		UserID:     userID,
		RequestID:  cardID + "-req",
		Quality:    quality,
		ReviewedAt: reviewedAt,
	}, card.SessionTotals{}))
}

func TestAggregator_Overview(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 18, 0, 0, 0, time.Local)

	t.Run("empty user gets zero values, not errors", func(t *testing.T) {
		repo := card.NewMemoryRepository()
		aggregator := NewAggregator(repo, WithClock(func() time.Time { return now }))

		overview, err := aggregator.Overview(ctx, "u1")
		require.NoError(t, err)

		assert.Equal(t, 0, overview.TotalReviews)
		assert.Equal(t, 0, overview.CorrectReviews)
		assert.Equal(t, 0.0, overview.Accuracy)
		assert.Equal(t, 0, overview.DueToday)
		assert.Equal(t, 0, overview.StreakDays)
		assert.Equal(t, card.DefaultEasinessFactor, overview.AverageEase)
	})

	t.Run("accuracy and average ease", func(t *testing.T) {
		repo := card.NewMemoryRepository()
		aggregator := NewAggregator(repo, WithClock(func() time.Time { return now }))

		seedEvent(t, repo, "u1", 5, now.Add(-3*time.Hour))
		seedEvent(t, repo, "u1", 3, now.Add(-2*time.Hour))
		seedEvent(t, repo, "u1", 1, now.Add(-1*time.Hour))
		future := card.StartOfDay(now).AddDate(0, 0, 30)
		seedCards(t, repo, card.Card{ID: "easy", UserID: "u1", EasinessFactor: 1.7, ReviewCount: 5, NextReviewDate: &future})

		overview, err := aggregator.Overview(ctx, "u1")
		require.NoError(t, err)

		assert.Equal(t, 3, overview.TotalReviews)
		assert.Equal(t, 2, overview.CorrectReviews)
		assert.InDelta(t, 2.0/3.0, overview.Accuracy, 0.0001)
		// Three seeded review cards at 2.5 plus one at 1.7.
		assert.InDelta(t, (2.5*3+1.7)/4, overview.AverageEase, 0.0001)
	})

	t.Run("due today counts unset and overdue cards", func(t *testing.T) {
		repo := card.NewMemoryRepository()
		aggregator := NewAggregator(repo, WithClock(func() time.Time { return now }))

		yesterday := card.StartOfDay(now).AddDate(0, 0, -1)
		tomorrow := card.StartOfDay(now).AddDate(0, 0, 1)
		seedCards(t, repo,
			card.Card{ID: "new", UserID: "u1", EasinessFactor: 2.5},
			card.Card{ID: "overdue", UserID: "u1", EasinessFactor: 2.5, ReviewCount: 1, NextReviewDate: &yesterday},
			card.Card{ID: "future", UserID: "u1", EasinessFactor: 2.5, ReviewCount: 1, NextReviewDate: &tomorrow},
			card.Card{ID: "other-user", UserID: "u2", EasinessFactor: 2.5},
		)

		overview, err := aggregator.Overview(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 2, overview.DueToday)
	})

	t.Run("other users do not leak into the overview", func(t *testing.T) {
		repo := card.NewMemoryRepository()
		aggregator := NewAggregator(repo, WithClock(func() time.Time { return now }))

		seedEvent(t, repo, "u2", 5, now.Add(-time.Hour))

		overview, err := aggregator.Overview(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 0, overview.TotalReviews)
	})
}

func TestAggregator_Streak(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 18, 0, 0, 0, time.Local)
	day := func(offset int, hour int) time.Time {
		return time.Date(2025, 3, 10+offset, hour, 0, 0, 0, time.Local)
	}

	tests := []struct {
		name       string
		eventTimes []time.Time
		want       int
	}{
		{
			name: "no history",
			want: 0,
		},
		{
			name:       "three consecutive days ending today",
			eventTimes: []time.Time{day(-2, 9), day(-1, 22), day(0, 7)},
			want:       3,
		},
		{
			name:       "gap breaks the streak",
			eventTimes: []time.Time{day(-3, 9), day(-2, 9), day(0, 9)},
			want:       1,
		},
		{
			name:       "multiple reviews on one day count once",
			eventTimes: []time.Time{day(-1, 8), day(-1, 20), day(0, 9)},
			want:       2,
		},
		{
			name:       "streak is anchored at the most recent active day, not today",
			eventTimes: []time.Time{day(-5, 9), day(-4, 9)},
			want:       2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := card.NewMemoryRepository()
			aggregator := NewAggregator(repo, WithClock(func() time.Time { return now }))
			for _, ts := range tt.eventTimes {
				seedEvent(t, repo, "u1", 4, ts)
			}

			overview, err := aggregator.Overview(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, overview.StreakDays)
		})
	}
}

func TestAggregator_Forecast(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 18, 0, 0, 0, time.Local)
	today := card.StartOfDay(now)

	t.Run("buckets cards by calendar day", func(t *testing.T) {
		repo := card.NewMemoryRepository()
		aggregator := NewAggregator(repo, WithClock(func() time.Time { return now }))

		in1 := today.AddDate(0, 0, 1)
		in3a := today.AddDate(0, 0, 3)
		in3b := today.AddDate(0, 0, 3)
		beyond := today.AddDate(0, 0, 10)
		overdue := today.AddDate(0, 0, -2)
		seedCards(t, repo,
			card.Card{ID: "new", UserID: "u1", EasinessFactor: 2.5},
			card.Card{ID: "overdue", UserID: "u1", EasinessFactor: 2.5, ReviewCount: 1, NextReviewDate: &overdue},
			card.Card{ID: "in1", UserID: "u1", EasinessFactor: 2.5, ReviewCount: 1, NextReviewDate: &in1},
			card.Card{ID: "in3a", UserID: "u1", EasinessFactor: 2.5, ReviewCount: 1, NextReviewDate: &in3a},
			card.Card{ID: "in3b", UserID: "u1", EasinessFactor: 2.5, ReviewCount: 2, NextReviewDate: &in3b},
			card.Card{ID: "beyond", UserID: "u1", EasinessFactor: 2.5, ReviewCount: 1, NextReviewDate: &beyond},
		)

		forecast, err := aggregator.Forecast(ctx, "u1", 7)
		require.NoError(t, err)
		require.Len(t, forecast, 7)

		assert.Equal(t, today, forecast[0].Date)
		assert.Equal(t, 2, forecast[0].Due, "today includes unset and overdue")
		assert.Equal(t, 1, forecast[1].Due)
		assert.Equal(t, 0, forecast[2].Due)
		assert.Equal(t, 2, forecast[3].Due)
		assert.Equal(t, 0, forecast[6].Due)
	})

	t.Run("empty card set yields all-zero buckets", func(t *testing.T) {
		repo := card.NewMemoryRepository()
		aggregator := NewAggregator(repo, WithClock(func() time.Time { return now }))

		forecast, err := aggregator.Forecast(ctx, "u1", 3)
		require.NoError(t, err)
		require.Len(t, forecast, 3)
		for _, bucket := range forecast {
			assert.Equal(t, 0, bucket.Due)
		}
	})

	t.Run("rejects a non-positive horizon", func(t *testing.T) {
		aggregator := NewAggregator(card.NewMemoryRepository())
		_, err := aggregator.Forecast(ctx, "u1", 0)
		assert.ErrorIs(t, err, card.ErrInvalidInput)
	})
}
