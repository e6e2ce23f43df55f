// Package card defines the domain types of the scheduling engine and the
// repository contract that storage adapters implement.
package card

import (
	"time"
)

const (
	// DefaultEasinessFactor is the ease factor assigned to cards that have
	// never been reviewed.
	DefaultEasinessFactor = 2.5
	// MinEasinessFactor is the floor below which the ease factor never drops.
	MinEasinessFactor = 1.3
	// MaxEasinessFactor is the ceiling above which the ease factor never grows.
	MaxEasinessFactor = 2.5

	// MinQuality and MaxQuality bound the learner's self-reported recall grade.
	MinQuality = 0
	MaxQuality = 5

	// PassThreshold is the lowest quality grade that counts as a successful
	// recall. Grades below it are failures.
	PassThreshold = 3
)

// Card is one vocabulary item a learner studies. ContentRef is opaque to the
// scheduler; it only identifies what the host application shows the learner.
type Card struct {
	ID             string     `db:"id"`
	UserID         string     `db:"user_id"`
	ContentRef     string     `db:"content_ref"`
	EasinessFactor float64    `db:"ease_factor"`
	IntervalDays   int        `db:"interval_days"`
	ReviewCount    int        `db:"review_count"`
	NextReviewDate *time.Time `db:"next_review_date"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// IsNew reports whether the card has never been reviewed.
func (c Card) IsNew() bool {
	return c.ReviewCount == 0
}

// DueOn reports whether the card is due at any point on the calendar day
// containing t. Cards with no next review date are always due.
func (c Card) DueOn(t time.Time) bool {
	if c.NextReviewDate == nil {
		return true
	}
	return !c.NextReviewDate.After(EndOfDay(t))
}

// ReviewEvent is one immutable record of a submitted review. Events are
// append-only; statistics are derived from them.
type ReviewEvent struct {
	ID             string    `db:"id"`
	CardID         string    `db:"card_id"`
	UserID         string    `db:"user_id"`
	SessionID      string    `db:"session_id"`
	RequestID      string    `db:"request_id"`
	Quality        int       `db:"quality"`
	PrevEasiness   float64   `db:"prev_ease_factor"`
	NewEasiness    float64   `db:"new_ease_factor"`
	PrevInterval   int       `db:"prev_interval_days"`
	NewInterval    int       `db:"new_interval_days"`
	ReviewedAt     time.Time `db:"reviewed_at"`
}

// Correct reports whether the event recorded a successful recall.
func (e ReviewEvent) Correct() bool {
	return e.Quality >= PassThreshold
}

// SessionTotals are the running counters of one review session.
type SessionTotals struct {
	CardsSeen int `db:"cards_seen"`
	Correct   int `db:"correct"`
	Wrong     int `db:"wrong"`
	Skipped   int `db:"skipped"`
}

// ReviewSession tracks one sitting of reviews. EndedAt is nil while the
// session is open; no submissions are accepted after it closes.
type ReviewSession struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	StartedAt time.Time  `db:"started_at"`
	EndedAt   *time.Time `db:"ended_at"`
	Totals    SessionTotals
}

// Open reports whether the session still accepts submissions.
func (s ReviewSession) Open() bool {
	return s.EndedAt == nil
}

// Duration returns the session length, or the elapsed time so far when the
// session is still open.
func (s ReviewSession) Duration(now time.Time) time.Duration {
	if s.EndedAt != nil {
		return s.EndedAt.Sub(s.StartedAt)
	}
	return now.Sub(s.StartedAt)
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last instant of the calendar day containing t, so that
// a due check on any time of day covers the whole day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ClampEasinessFactor forces ef back into the valid range. Corrupted stored
// values are repaired rather than propagated.
func ClampEasinessFactor(ef float64) float64 {
	if ef < MinEasinessFactor {
		return MinEasinessFactor
	}
	if ef > MaxEasinessFactor {
		return MaxEasinessFactor
	}
	return ef
}

// ValidQuality reports whether q is a grade the algorithm accepts.
func ValidQuality(q int) bool {
	return q >= MinQuality && q <= MaxQuality
}
