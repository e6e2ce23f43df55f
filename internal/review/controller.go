// Package review sequences study sessions: it validates submissions, runs the
// scheduling algorithm and persists the outcome through the card repository.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kotoba-dev/kotoba/internal/card"
	"github.com/kotoba-dev/kotoba/internal/ratelimit"
	"github.com/kotoba-dev/kotoba/internal/scheduler"
)

// Controller drives the Open -> (SubmitReview | SkipCard)* -> Closed session
// state machine. It holds no session state of its own; everything lives in the
// repository so any instance can serve any session.
type Controller struct {
	repo    card.Repository
	limiter ratelimit.Limiter
	now     func() time.Time
	newID   func() string
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithIDGenerator overrides how session and event ids are generated.
func WithIDGenerator(newID func() string) Option {
	return func(c *Controller) {
		c.newID = newID
	}
}

// NewController creates a Controller. The rate limiter is mandatory; hosts
// that limit upstream pass ratelimit.Unlimited{}.
func NewController(repo card.Repository, limiter ratelimit.Limiter, opts ...Option) *Controller {
	c := &Controller{
		repo:    repo,
		limiter: limiter,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submission is one graded card within a session. RequestID identifies the
// submission across retries: a retried call must reuse the id of the original
// so it is recognized as already applied. An empty RequestID gets a fresh id.
type Submission struct {
	SessionID string
	CardID    string
	Quality   int
	RequestID string
}

// Result is what a host displays after a submission.
type Result struct {
	NextReviewDate *time.Time
	IntervalDays   int
	EasinessFactor float64
	// Replayed is true when the submission had already been applied and this
	// call was a no-op returning the stored outcome.
	Replayed bool
}

// StartSession opens a new session for a user.
func (c *Controller) StartSession(ctx context.Context, userID string) (card.ReviewSession, error) {
	session := card.ReviewSession{
		ID:        c.newID(),
		UserID:    userID,
		StartedAt: c.now(),
	}
	if err := c.repo.CreateSession(ctx, &session); err != nil {
		return card.ReviewSession{}, fmt.Errorf("start session: %w", err)
	}
	return session, nil
}

// DueCards returns the ordered due set for a user, optionally restricted to a
// collection. Read-only; safe to call repeatedly.
func (c *Controller) DueCards(ctx context.Context, userID, collectionID string, limit int) ([]card.Card, error) {
	cards, err := c.repo.FindDue(ctx, userID, collectionID, limit, c.now())
	if err != nil {
		return nil, fmt.Errorf("resolve due cards: %w", err)
	}
	return cards, nil
}

// SubmitReview applies one quality grade to one card. The card update, the
// review event and the session totals are persisted as a single atomic unit.
// A retried submission with the same RequestID is detected through the
// optimistic version check on the card and replayed as a no-op.
func (c *Controller) SubmitReview(ctx context.Context, userID string, sub Submission) (Result, error) {
	if !c.limiter.Allow(userID) {
		return Result{}, fmt.Errorf("submit review for user %s: %w", userID, card.ErrRateLimited)
	}

	session, err := c.openSession(ctx, userID, sub.SessionID)
	if err != nil {
		return Result{}, err
	}

	if sub.RequestID == "" {
		sub.RequestID = c.newID()
	} else {
		// A caller-supplied request id may be a retry of a submission that
		// already went through. Replay it instead of applying it twice.
		switch _, err := c.repo.FindEventByRequestID(ctx, sub.RequestID); {
		case err == nil:
			return c.replay(ctx, sub)
		case !errors.Is(err, card.ErrNotFound):
			return Result{}, fmt.Errorf("check replayed review: %w", err)
		}
	}

	current, err := c.repo.FindByID(ctx, sub.CardID)
	if err != nil {
		return Result{}, fmt.Errorf("load card: %w", err)
	}
	if current.UserID != userID {
		return Result{}, fmt.Errorf("card %s: %w", sub.CardID, card.ErrUnauthorized)
	}

	now := c.now()
	updated, err := scheduler.Next(current, sub.Quality, now)
	if err != nil {
		return Result{}, err
	}
	updated.UpdatedAt = now

	event := card.ReviewEvent{
		ID:           c.newID(),
		CardID:       current.ID,
		UserID:       userID,
		SessionID:    session.ID,
		RequestID:    sub.RequestID,
		Quality:      sub.Quality,
		PrevEasiness: current.EasinessFactor,
		NewEasiness:  updated.EasinessFactor,
		PrevInterval: current.IntervalDays,
		NewInterval:  updated.IntervalDays,
		ReviewedAt:   now,
	}

	totals := session.Totals
	totals.CardsSeen++
	if event.Correct() {
		totals.Correct++
	} else {
		totals.Wrong++
	}

	err = c.repo.ApplyReview(ctx, updated, current.ReviewCount, event, totals)
	if errors.Is(err, card.ErrConflict) {
		return c.replay(ctx, sub)
	}
	if err != nil {
		return Result{}, fmt.Errorf("persist review: %w", err)
	}

	return Result{
		NextReviewDate: updated.NextReviewDate,
		IntervalDays:   updated.IntervalDays,
		EasinessFactor: updated.EasinessFactor,
	}, nil
}

// replay resolves a version conflict. If an event with this request id exists,
// the submission was already applied and its stored outcome is returned;
// otherwise the card moved under a different request and the caller must
// refetch it.
func (c *Controller) replay(ctx context.Context, sub Submission) (Result, error) {
	event, err := c.repo.FindEventByRequestID(ctx, sub.RequestID)
	if errors.Is(err, card.ErrNotFound) {
		return Result{}, fmt.Errorf("card %s changed under a concurrent review: %w", sub.CardID, card.ErrConflict)
	}
	if err != nil {
		return Result{}, fmt.Errorf("check replayed review: %w", err)
	}

	current, err := c.repo.FindByID(ctx, sub.CardID)
	if err != nil {
		return Result{}, fmt.Errorf("load reviewed card: %w", err)
	}
	return Result{
		NextReviewDate: current.NextReviewDate,
		IntervalDays:   event.NewInterval,
		EasinessFactor: event.NewEasiness,
		Replayed:       true,
	}, nil
}

// SkipCard counts a skipped card in the session totals without running the
// algorithm; the card keeps its current schedule.
func (c *Controller) SkipCard(ctx context.Context, userID, sessionID string) error {
	session, err := c.openSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}

	totals := session.Totals
	totals.CardsSeen++
	totals.Skipped++
	if err := c.repo.UpdateSessionTotals(ctx, sessionID, totals); err != nil {
		return fmt.Errorf("record skipped card: %w", err)
	}
	return nil
}

// CloseSession ends a session. No submissions are accepted afterwards.
func (c *Controller) CloseSession(ctx context.Context, userID, sessionID string) (card.ReviewSession, error) {
	session, err := c.openSession(ctx, userID, sessionID)
	if err != nil {
		return card.ReviewSession{}, err
	}

	endedAt := c.now()
	if err := c.repo.CloseSession(ctx, sessionID, endedAt); err != nil {
		return card.ReviewSession{}, fmt.Errorf("close session: %w", err)
	}
	session.EndedAt = &endedAt
	return session, nil
}

// openSession loads a session and verifies it is open and owned by userID.
func (c *Controller) openSession(ctx context.Context, userID, sessionID string) (card.ReviewSession, error) {
	session, err := c.repo.FindSession(ctx, sessionID)
	if err != nil {
		return card.ReviewSession{}, fmt.Errorf("load session: %w", err)
	}
	if session.UserID != userID {
		return card.ReviewSession{}, fmt.Errorf("session %s: %w", sessionID, card.ErrUnauthorized)
	}
	if !session.Open() {
		return card.ReviewSession{}, fmt.Errorf("session %s: %w", sessionID, card.ErrSessionClosed)
	}
	return session, nil
}
