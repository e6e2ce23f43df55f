package review

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/kotoba-dev/kotoba/internal/card"
	mock_card "github.com/kotoba-dev/kotoba/internal/mocks/card"
	"github.com/kotoba-dev/kotoba/internal/ratelimit"
)

func newTestController(t *testing.T, repo card.Repository, now time.Time) *Controller {
	t.Helper()
	return NewController(repo, ratelimit.Unlimited{}, WithClock(func() time.Time { return now }))
}

func seedCard(t *testing.T, repo card.Repository, c card.Card) card.Card {
	t.Helper()
	require.NoError(t, repo.CreateCard(context.Background(), &c))
	return c
}

func TestController_SubmitReview(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local)
	tomorrow := time.Date(2025, 3, 11, 0, 0, 0, 0, time.Local)

	t.Run("first review schedules tomorrow and records everything", func(t *testing.T) {
		repo := card.NewMemoryRepository()
		controller := newTestController(t, repo, now)
		seedCard(t, repo, card.Card{ID: "c1", UserID: "u1", EasinessFactor: 2.5})

		session, err := controller.StartSession(ctx, "u1")
		require.NoError(t, err)

		result, err := controller.SubmitReview(ctx, "u1", Submission{
			SessionID: session.ID,
			CardID:    "c1",
			Quality:   5,
		})
		require.NoError(t, err)

		assert.Equal(t, 1, result.IntervalDays)
		assert.Equal(t, 2.5, result.EasinessFactor)
		require.NotNil(t, result.NextReviewDate)
		assert.Equal(t, tomorrow, *result.NextReviewDate)
		assert.False(t, result.Replayed)

		stored, err := repo.FindByID(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, 1, stored.ReviewCount)

		events, err := repo.ListEvents(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, 5, events[0].Quality)
		assert.Equal(t, 0, events[0].PrevInterval)
		assert.Equal(t, 1, events[0].NewInterval)

		updated, err := repo.FindSession(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, card.SessionTotals{CardsSeen: 1, Correct: 1}, updated.Totals)
	})

	t.Run("failed review counts as wrong in the totals", func(t *testing.T) {
		repo := card.NewMemoryRepository()
		controller := newTestController(t, repo, now)
		seedCard(t, repo, card.Card{ID: "c1", UserID: "u1", EasinessFactor: 2.0, IntervalDays: 6, ReviewCount: 2})

		session, err := controller.StartSession(ctx, "u1")
		require.NoError(t, err)

		result, err := controller.SubmitReview(ctx, "u1", Submission{SessionID: session.ID, CardID: "c1", Quality: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, result.IntervalDays)
		assert.Equal(t, 2.0, result.EasinessFactor)

		updated, err := repo.FindSession(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, card.SessionTotals{CardsSeen: 1, Wrong: 1}, updated.Totals)
	})

	t.Run("retried submission is a no-op", func(t *testing.T) {
		repo := card.NewMemoryRepository()
		controller := newTestController(t, repo, now)
		seedCard(t, repo, card.Card{ID: "c1", UserID: "u1", EasinessFactor: 2.5, IntervalDays: 1, ReviewCount: 1})

		session, err := controller.StartSession(ctx, "u1")
		require.NoError(t, err)

		sub := Submission{SessionID: session.ID, CardID: "c1", Quality: 4, RequestID: "req-1"}
		first, err := controller.SubmitReview(ctx, "u1", sub)
		require.NoError(t, err)
		require.False(t, first.Replayed)

		second, err := controller.SubmitReview(ctx, "u1", sub)
		require.NoError(t, err)
		assert.True(t, second.Replayed)
		assert.Equal(t, first.IntervalDays, second.IntervalDays)
		assert.Equal(t, first.EasinessFactor, second.EasinessFactor)
		assert.Equal(t, first.NextReviewDate, second.NextReviewDate)

		// Exactly one event and one state transition.
		events, err := repo.ListEvents(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, events, 1)

		stored, err := repo.FindByID(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, 2, stored.ReviewCount)
	})

	t.Run("invalid quality leaves the card untouched", func(t *testing.T) {
		repo := card.NewMemoryRepository()
		controller := newTestController(t, repo, now)
		seeded := seedCard(t, repo, card.Card{ID: "c1", UserID: "u1", EasinessFactor: 2.5, IntervalDays: 6, ReviewCount: 2})

		session, err := controller.StartSession(ctx, "u1")
		require.NoError(t, err)

		_, err = controller.SubmitReview(ctx, "u1", Submission{SessionID: session.ID, CardID: "c1", Quality: 7})
		require.ErrorIs(t, err, card.ErrInvalidQuality)

		stored, err := repo.FindByID(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, seeded, stored)

		events, err := repo.ListEvents(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("closed session rejects submissions", func(t *testing.T) {
		repo := card.NewMemoryRepository()
		controller := newTestController(t, repo, now)
		seedCard(t, repo, card.Card{ID: "c1", UserID: "u1", EasinessFactor: 2.5})

		session, err := controller.StartSession(ctx, "u1")
		require.NoError(t, err)
		_, err = controller.CloseSession(ctx, "u1", session.ID)
		require.NoError(t, err)

		_, err = controller.SubmitReview(ctx, "u1", Submission{SessionID: session.ID, CardID: "c1", Quality: 4})
		assert.ErrorIs(t, err, card.ErrSessionClosed)
	})

	t.Run("foreign session is unauthorized", func(t *testing.T) {
		repo := card.NewMemoryRepository()
		controller := newTestController(t, repo, now)

		session, err := controller.StartSession(ctx, "u1")
		require.NoError(t, err)

		_, err = controller.SubmitReview(ctx, "u2", Submission{SessionID: session.ID, CardID: "c1", Quality: 4})
		assert.ErrorIs(t, err, card.ErrUnauthorized)
	})

	t.Run("foreign card is unauthorized", func(t *testing.T) {
		repo := card.NewMemoryRepository()
		controller := newTestController(t, repo, now)
		seedCard(t, repo, card.Card{ID: "c1", UserID: "u2", EasinessFactor: 2.5})

		session, err := controller.StartSession(ctx, "u1")
		require.NoError(t, err)

		_, err = controller.SubmitReview(ctx, "u1", Submission{SessionID: session.ID, CardID: "c1", Quality: 4})
		assert.ErrorIs(t, err, card.ErrUnauthorized)
	})

	t.Run("rate limit rejects the submission before any write", func(t *testing.T) {
		repo := card.NewMemoryRepository()
		limiter := ratelimit.NewSlidingWindow(time.Minute, 1, ratelimit.WithClock(func() time.Time { return now }))
		controller := NewController(repo, limiter, WithClock(func() time.Time { return now }))
		seedCard(t, repo, card.Card{ID: "c1", UserID: "u1", EasinessFactor: 2.5})

		session, err := controller.StartSession(ctx, "u1")
		require.NoError(t, err)

		sub := Submission{SessionID: session.ID, CardID: "c1", Quality: 4}
		_, err = controller.SubmitReview(ctx, "u1", sub)
		require.NoError(t, err)

		_, err = controller.SubmitReview(ctx, "u1", sub)
		require.ErrorIs(t, err, card.ErrRateLimited)

		events, err := repo.ListEvents(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})
}

func TestController_SubmitReview_StorageFailures(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local)
	openSession := card.ReviewSession{ID: "s1", UserID: "u1", StartedAt: now}
	storedCard := card.Card{ID: "c1", UserID: "u1", EasinessFactor: 2.5, IntervalDays: 1, ReviewCount: 1}

	t.Run("persistence failure surfaces as a storage error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_card.NewMockRepository(ctrl)

		repo.EXPECT().FindSession(gomock.Any(), "s1").Return(openSession, nil)
		repo.EXPECT().FindByID(gomock.Any(), "c1").Return(storedCard, nil)
		repo.EXPECT().ApplyReview(gomock.Any(), gomock.Any(), 1, gomock.Any(), gomock.Any()).
			Return(fmt.Errorf("apply review: %w: %w", card.ErrStorage, errors.New("i/o timeout")))

		controller := newTestController(t, repo, now)
		_, err := controller.SubmitReview(ctx, "u1", Submission{SessionID: "s1", CardID: "c1", Quality: 4})
		assert.ErrorIs(t, err, card.ErrStorage)
	})

	t.Run("version conflict without a stored event is a conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_card.NewMockRepository(ctrl)

		repo.EXPECT().FindSession(gomock.Any(), "s1").Return(openSession, nil)
		// Once for the replay pre-check, once after the conflict.
		repo.EXPECT().FindEventByRequestID(gomock.Any(), "req-1").
			Return(card.ReviewEvent{}, fmt.Errorf("review event for request req-1: %w", card.ErrNotFound)).
			Times(2)
		repo.EXPECT().FindByID(gomock.Any(), "c1").Return(storedCard, nil)
		repo.EXPECT().ApplyReview(gomock.Any(), gomock.Any(), 1, gomock.Any(), gomock.Any()).Return(card.ErrConflict)

		controller := newTestController(t, repo, now)
		_, err := controller.SubmitReview(ctx, "u1", Submission{SessionID: "s1", CardID: "c1", Quality: 4, RequestID: "req-1"})
		assert.ErrorIs(t, err, card.ErrConflict)
	})
}

func TestController_SkipCard(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local)

	repo := card.NewMemoryRepository()
	controller := newTestController(t, repo, now)
	seeded := seedCard(t, repo, card.Card{ID: "c1", UserID: "u1", EasinessFactor: 2.5, IntervalDays: 6, ReviewCount: 2})

	session, err := controller.StartSession(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, controller.SkipCard(ctx, "u1", session.ID))

	updated, err := repo.FindSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, card.SessionTotals{CardsSeen: 1, Skipped: 1}, updated.Totals)

	// Skipping never reschedules the card.
	stored, err := repo.FindByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, seeded, stored)
}

func TestController_CloseSession(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local)

	repo := card.NewMemoryRepository()
	controller := newTestController(t, repo, now)

	session, err := controller.StartSession(ctx, "u1")
	require.NoError(t, err)

	closed, err := controller.CloseSession(ctx, "u1", session.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.EndedAt)
	assert.Equal(t, now, *closed.EndedAt)

	_, err = controller.CloseSession(ctx, "u1", session.ID)
	assert.ErrorIs(t, err, card.ErrSessionClosed)
}

func TestController_DueCards(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 23, 30, 0, 0, time.Local)

	repo := card.NewMemoryRepository()
	controller := newTestController(t, repo, now)

	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	later := today.AddDate(0, 0, 6)
	overdue := today.AddDate(0, 0, -3)

	seedCard(t, repo, card.Card{ID: "new", UserID: "u1", EasinessFactor: 2.5})
	seedCard(t, repo, card.Card{ID: "overdue", UserID: "u1", EasinessFactor: 2.5, ReviewCount: 2, NextReviewDate: &overdue})
	seedCard(t, repo, card.Card{ID: "today", UserID: "u1", EasinessFactor: 2.5, ReviewCount: 1, NextReviewDate: &today})
	seedCard(t, repo, card.Card{ID: "future", UserID: "u1", EasinessFactor: 2.5, ReviewCount: 3, NextReviewDate: &later})

	t.Run("orders unset first then ascending, today inclusive", func(t *testing.T) {
		cards, err := controller.DueCards(ctx, "u1", "", 10)
		require.NoError(t, err)

		ids := make([]string, 0, len(cards))
		for _, c := range cards {
			ids = append(ids, c.ID)
		}
		assert.Equal(t, []string{"new", "overdue", "today"}, ids)
	})

	t.Run("future card shows up once its day arrives", func(t *testing.T) {
		laterController := newTestController(t, repo, now.AddDate(0, 0, 6))
		cards, err := laterController.DueCards(ctx, "u1", "", 10)
		require.NoError(t, err)
		assert.Len(t, cards, 4)
	})

	t.Run("empty collection yields empty result", func(t *testing.T) {
		cards, err := controller.DueCards(ctx, "u1", "empty-collection", 10)
		require.NoError(t, err)
		assert.Empty(t, cards)
	})

	t.Run("collection filter restricts the set", func(t *testing.T) {
		require.NoError(t, repo.AddToCollection(ctx, "verbs", "today"))
		cards, err := controller.DueCards(ctx, "u1", "verbs", 10)
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, "today", cards[0].ID)
	})
}
