package card

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-memory Repository. It backs tests and hosts that
// run without a database; the semantics mirror DBRepository exactly.
type MemoryRepository struct {
	mu          sync.Mutex
	cards       map[string]Card
	events      []ReviewEvent
	sessions    map[string]ReviewSession
	collections map[string]map[string]struct{} // collection id -> card ids
}

// NewMemoryRepository creates an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		cards:       make(map[string]Card),
		sessions:    make(map[string]ReviewSession),
		collections: make(map[string]map[string]struct{}),
	}
}

// AddToCollection records membership of a card in a named collection.
// Attaching the same card twice is a no-op.
func (r *MemoryRepository) AddToCollection(_ context.Context, collectionID, cardID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.collections[collectionID] == nil {
		r.collections[collectionID] = make(map[string]struct{})
	}
	r.collections[collectionID][cardID] = struct{}{}
	return nil
}

// CreateCard stores a new card.
func (r *MemoryRepository) CreateCard(_ context.Context, c *Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cards[c.ID]; ok {
		return fmt.Errorf("card %s already exists: %w", c.ID, ErrConflict)
	}
	r.cards[c.ID] = *c
	return nil
}

// BatchCreateCards stores multiple new cards. All or none are stored.
func (r *MemoryRepository) BatchCreateCards(_ context.Context, cards []*Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range cards {
		if _, ok := r.cards[c.ID]; ok {
			return fmt.Errorf("card %s already exists: %w", c.ID, ErrConflict)
		}
	}
	for _, c := range cards {
		r.cards[c.ID] = *c
	}
	return nil
}

// FindByID returns a card by id.
func (r *MemoryRepository) FindByID(_ context.Context, cardID string) (Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cards[cardID]
	if !ok {
		return Card{}, fmt.Errorf("card %s: %w", cardID, ErrNotFound)
	}
	return c, nil
}

// FindDue returns the ordered due set for a user: unset review dates first,
// then ascending by date, capped at limit.
func (r *MemoryRepository) FindDue(_ context.Context, userID, collectionID string, limit int, now time.Time) ([]Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []Card
	for _, c := range r.cards {
		if c.UserID != userID || !c.DueOn(now) {
			continue
		}
		if collectionID != "" {
			if _, member := r.collections[collectionID][c.ID]; !member {
				continue
			}
		}
		due = append(due, c)
	}

	sort.Slice(due, func(i, j int) bool {
		a, b := due[i].NextReviewDate, due[j].NextReviewDate
		switch {
		case a == nil && b == nil:
			return due[i].ID < due[j].ID
		case a == nil:
			return true
		case b == nil:
			return false
		case a.Equal(*b):
			return due[i].ID < due[j].ID
		default:
			return a.Before(*b)
		}
	})

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// ListCards returns all cards owned by a user.
func (r *MemoryRepository) ListCards(_ context.Context, userID string) ([]Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var cards []Card
	for _, c := range r.cards {
		if c.UserID == userID {
			cards = append(cards, c)
		}
	}
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].CreatedAt.Before(cards[j].CreatedAt)
	})
	return cards, nil
}

// ApplyReview applies the card update, event append and session totals as one
// unit, guarded by the expected review count.
func (r *MemoryRepository) ApplyReview(_ context.Context, c Card, expectedReviewCount int, event ReviewEvent, totals SessionTotals) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.cards[c.ID]
	if !ok {
		return fmt.Errorf("card %s: %w", c.ID, ErrNotFound)
	}
	if stored.ReviewCount != expectedReviewCount {
		return ErrConflict
	}
	// The review_count guard alone cannot catch a retried relapse (the count
	// does not advance), so enforce request-id uniqueness like the database
	// schema does.
	for _, e := range r.events {
		if e.RequestID == event.RequestID {
			return ErrConflict
		}
	}

	r.cards[c.ID] = c
	r.events = append(r.events, event)

	session, ok := r.sessions[event.SessionID]
	if ok {
		session.Totals = totals
		r.sessions[event.SessionID] = session
	}
	return nil
}

// FindEventByRequestID returns the event recorded for a request id, if any.
func (r *MemoryRepository) FindEventByRequestID(_ context.Context, requestID string) (ReviewEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, event := range r.events {
		if event.RequestID == requestID {
			return event, nil
		}
	}
	return ReviewEvent{}, fmt.Errorf("review event for request %s: %w", requestID, ErrNotFound)
}

// ListEvents returns all review events of a user, newest first.
func (r *MemoryRepository) ListEvents(_ context.Context, userID string) ([]ReviewEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var events []ReviewEvent
	for _, event := range r.events {
		if event.UserID == userID {
			events = append(events, event)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].ReviewedAt.After(events[j].ReviewedAt)
	})
	return events, nil
}

// CreateSession stores a new open session.
func (r *MemoryRepository) CreateSession(_ context.Context, s *ReviewSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s.ID]; ok {
		return fmt.Errorf("session %s already exists: %w", s.ID, ErrConflict)
	}
	r.sessions[s.ID] = *s
	return nil
}

// FindSession returns a session by id.
func (r *MemoryRepository) FindSession(_ context.Context, sessionID string) (ReviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return ReviewSession{}, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	return s, nil
}

// UpdateSessionTotals stores the running counters of a session.
func (r *MemoryRepository) UpdateSessionTotals(_ context.Context, sessionID string, totals SessionTotals) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	s.Totals = totals
	r.sessions[sessionID] = s
	return nil
}

// ListSessions returns all sessions of a user in insertion-independent
// chronological order.
func (r *MemoryRepository) ListSessions(_ context.Context, userID string) ([]ReviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sessions []ReviewSession
	for _, s := range r.sessions {
		if s.UserID == userID {
			sessions = append(sessions, s)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].StartedAt.Equal(sessions[j].StartedAt) {
			return sessions[i].StartedAt.Before(sessions[j].StartedAt)
		}
		return sessions[i].ID < sessions[j].ID
	})
	return sessions, nil
}

// CloseSession marks a session as ended.
func (r *MemoryRepository) CloseSession(_ context.Context, sessionID string, endedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	s.EndedAt = &endedAt
	r.sessions[sessionID] = s
	return nil
}
