package card

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/kotoba-dev/kotoba/internal/database"
)

// duplicateEntryErrNo is MySQL error 1062 (ER_DUP_ENTRY).
const duplicateEntryErrNo = 1062

//go:generate mockgen -source=repository.go -destination=../mocks/card/mock_repository.go -package=mock_card

// Repository defines the storage operations the scheduling engine consumes.
// Implementations translate between their own row formats and the domain
// types; nothing above this interface sees a raw row.
type Repository interface {
	CreateCard(ctx context.Context, c *Card) error
	BatchCreateCards(ctx context.Context, cards []*Card) error
	FindByID(ctx context.Context, cardID string) (Card, error)
	// FindDue returns cards whose next review date is unset or falls on or
	// before the calendar day containing now, earliest due first with unset
	// dates leading. A non-empty collectionID restricts the result to cards
	// that are members of that collection.
	FindDue(ctx context.Context, userID, collectionID string, limit int, now time.Time) ([]Card, error)
	ListCards(ctx context.Context, userID string) ([]Card, error)

	// ApplyReview persists the reviewed card, appends its event and stores the
	// session totals as one atomic unit. The card row is only written when its
	// stored review_count still equals expectedReviewCount; otherwise
	// ErrConflict is returned and nothing is applied.
	ApplyReview(ctx context.Context, c Card, expectedReviewCount int, event ReviewEvent, totals SessionTotals) error
	FindEventByRequestID(ctx context.Context, requestID string) (ReviewEvent, error)
	ListEvents(ctx context.Context, userID string) ([]ReviewEvent, error)

	CreateSession(ctx context.Context, s *ReviewSession) error
	FindSession(ctx context.Context, sessionID string) (ReviewSession, error)
	UpdateSessionTotals(ctx context.Context, sessionID string, totals SessionTotals) error
	CloseSession(ctx context.Context, sessionID string, endedAt time.Time) error
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// sessionRow is the flat wire shape of review_sessions.
type sessionRow struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	StartedAt time.Time  `db:"started_at"`
	EndedAt   *time.Time `db:"ended_at"`
	CardsSeen int        `db:"cards_seen"`
	Correct   int        `db:"correct"`
	Wrong     int        `db:"wrong"`
	Skipped   int        `db:"skipped"`
}

func (row sessionRow) toDomain() ReviewSession {
	return ReviewSession{
		ID:        row.ID,
		UserID:    row.UserID,
		StartedAt: row.StartedAt,
		EndedAt:   row.EndedAt,
		Totals: SessionTotals{
			CardsSeen: row.CardsSeen,
			Correct:   row.Correct,
			Wrong:     row.Wrong,
			Skipped:   row.Skipped,
		},
	}
}

// CreateCard inserts a new card.
func (r *DBRepository) CreateCard(ctx context.Context, c *Card) error {
	query := `
		INSERT INTO cards (id, user_id, content_ref, ease_factor, interval_days, review_count, next_review_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.ContentRef, c.EasinessFactor, c.IntervalDays, c.ReviewCount, c.NextReviewDate, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert card: %w: %w", ErrStorage, err)
	}
	return nil
}

// BatchCreateCards inserts multiple cards in a single transaction using a
// multi-row INSERT.
func (r *DBRepository) BatchCreateCards(ctx context.Context, cards []*Card) error {
	if len(cards) == 0 {
		return nil
	}

	err := database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		columns := []string{"id", "user_id", "content_ref", "ease_factor", "interval_days", "review_count", "next_review_date", "created_at", "updated_at"}
		query := database.BuildMultiRowInsert("cards", columns, len(cards))

		var args []interface{}
		for _, c := range cards {
			args = append(args, c.ID, c.UserID, c.ContentRef, c.EasinessFactor, c.IntervalDays, c.ReviewCount, c.NextReviewDate, c.CreatedAt, c.UpdatedAt)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert cards: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("batch create cards: %w: %w", ErrStorage, err)
	}
	return nil
}

// AddToCollection attaches an existing card to a collection. Attaching the
// same card twice is a no-op.
func (r *DBRepository) AddToCollection(ctx context.Context, collectionID, cardID string) error {
	query := `
		INSERT INTO collection_cards (collection_id, card_id)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE card_id = card_id`
	if _, err := r.db.ExecContext(ctx, query, collectionID, cardID); err != nil {
		return fmt.Errorf("insert collection card: %w: %w", ErrStorage, err)
	}
	return nil
}

// FindByID returns a single card by id.
func (r *DBRepository) FindByID(ctx context.Context, cardID string) (Card, error) {
	var c Card
	err := r.db.GetContext(ctx, &c, "SELECT * FROM cards WHERE id = ?", cardID)
	if errors.Is(err, sql.ErrNoRows) {
		return Card{}, fmt.Errorf("card %s: %w", cardID, ErrNotFound)
	}
	if err != nil {
		return Card{}, fmt.Errorf("select card: %w: %w", ErrStorage, err)
	}
	return c, nil
}

// FindDue returns the ordered due set for a user. The boundary is the end of
// the calendar day containing now, so everything due today is included no
// matter when the query runs.
func (r *DBRepository) FindDue(ctx context.Context, userID, collectionID string, limit int, now time.Time) ([]Card, error) {
	boundary := EndOfDay(now)

	query := `
		SELECT c.* FROM cards c
		WHERE c.user_id = ?
		AND (c.next_review_date IS NULL OR c.next_review_date <= ?)
		ORDER BY (c.next_review_date IS NULL) DESC, c.next_review_date ASC`
	args := []interface{}{userID, boundary}

	if collectionID != "" {
		query = `
		SELECT c.* FROM cards c
		JOIN collection_cards cc ON cc.card_id = c.id
		WHERE cc.collection_id = ?
		AND c.user_id = ?
		AND (c.next_review_date IS NULL OR c.next_review_date <= ?)
		ORDER BY (c.next_review_date IS NULL) DESC, c.next_review_date ASC`
		args = []interface{}{collectionID, userID, boundary}
	}

	// limit <= 0 means unbounded
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var cards []Card
	if err := r.db.SelectContext(ctx, &cards, query, args...); err != nil {
		return nil, fmt.Errorf("select due cards: %w: %w", ErrStorage, err)
	}
	return cards, nil
}

// ListCards returns all cards owned by a user.
func (r *DBRepository) ListCards(ctx context.Context, userID string) ([]Card, error) {
	var cards []Card
	err := r.db.SelectContext(ctx, &cards, "SELECT * FROM cards WHERE user_id = ? ORDER BY created_at", userID)
	if err != nil {
		return nil, fmt.Errorf("select cards: %w: %w", ErrStorage, err)
	}
	return cards, nil
}

// ApplyReview writes the card, the event and the session totals in one
// transaction. The conditional update on review_count is the optimistic guard
// against a retried or concurrent submission for the same card.
func (r *DBRepository) ApplyReview(ctx context.Context, c Card, expectedReviewCount int, event ReviewEvent, totals SessionTotals) error {
	err := database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE cards SET
				ease_factor = ?,
				interval_days = ?,
				review_count = ?,
				next_review_date = ?,
				updated_at = ?
			WHERE id = ? AND review_count = ?`,
			c.EasinessFactor, c.IntervalDays, c.ReviewCount, c.NextReviewDate, c.UpdatedAt,
			c.ID, expectedReviewCount,
		)
		if err != nil {
			return fmt.Errorf("update card: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("update card rows affected: %w", err)
		}
		if rows == 0 {
			return ErrConflict
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO review_events (id, card_id, user_id, session_id, request_id, quality, prev_ease_factor, new_ease_factor, prev_interval_days, new_interval_days, reviewed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			event.ID, event.CardID, event.UserID, event.SessionID, event.RequestID, event.Quality,
			event.PrevEasiness, event.NewEasiness, event.PrevInterval, event.NewInterval, event.ReviewedAt,
		); err != nil {
			// The unique key on request_id catches a retried relapse, which the
			// review_count guard cannot (the count does not advance).
			var mysqlErr *mysql.MySQLError
			if errors.As(err, &mysqlErr) && mysqlErr.Number == duplicateEntryErrNo {
				return ErrConflict
			}
			return fmt.Errorf("insert review event: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE review_sessions SET cards_seen = ?, correct = ?, wrong = ?, skipped = ?
			WHERE id = ?`,
			totals.CardsSeen, totals.Correct, totals.Wrong, totals.Skipped, event.SessionID,
		); err != nil {
			return fmt.Errorf("update session totals: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return ErrConflict
		}
		return fmt.Errorf("apply review: %w: %w", ErrStorage, err)
	}
	return nil
}

// FindEventByRequestID returns the event recorded for a request id, if any.
func (r *DBRepository) FindEventByRequestID(ctx context.Context, requestID string) (ReviewEvent, error) {
	var event ReviewEvent
	err := r.db.GetContext(ctx, &event, "SELECT * FROM review_events WHERE request_id = ?", requestID)
	if errors.Is(err, sql.ErrNoRows) {
		return ReviewEvent{}, fmt.Errorf("review event for request %s: %w", requestID, ErrNotFound)
	}
	if err != nil {
		return ReviewEvent{}, fmt.Errorf("select review event: %w: %w", ErrStorage, err)
	}
	return event, nil
}

// ListEvents returns all review events of a user, newest first.
func (r *DBRepository) ListEvents(ctx context.Context, userID string) ([]ReviewEvent, error) {
	var events []ReviewEvent
	err := r.db.SelectContext(ctx, &events, "SELECT * FROM review_events WHERE user_id = ? ORDER BY reviewed_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("select review events: %w: %w", ErrStorage, err)
	}
	return events, nil
}

// CreateSession inserts a new open session.
func (r *DBRepository) CreateSession(ctx context.Context, s *ReviewSession) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO review_sessions (id, user_id, started_at, ended_at, cards_seen, correct, wrong, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.StartedAt, s.EndedAt,
		s.Totals.CardsSeen, s.Totals.Correct, s.Totals.Wrong, s.Totals.Skipped,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w: %w", ErrStorage, err)
	}
	return nil
}

// FindSession returns a session by id.
func (r *DBRepository) FindSession(ctx context.Context, sessionID string) (ReviewSession, error) {
	var row sessionRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM review_sessions WHERE id = ?", sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return ReviewSession{}, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return ReviewSession{}, fmt.Errorf("select session: %w: %w", ErrStorage, err)
	}
	return row.toDomain(), nil
}

// UpdateSessionTotals stores the running counters of an open session.
func (r *DBRepository) UpdateSessionTotals(ctx context.Context, sessionID string, totals SessionTotals) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE review_sessions SET cards_seen = ?, correct = ?, wrong = ?, skipped = ?
		WHERE id = ?`,
		totals.CardsSeen, totals.Correct, totals.Wrong, totals.Skipped, sessionID,
	)
	if err != nil {
		return fmt.Errorf("update session totals: %w: %w", ErrStorage, err)
	}
	return nil
}

// ListSessions returns all sessions of a user, oldest first.
func (r *DBRepository) ListSessions(ctx context.Context, userID string) ([]ReviewSession, error) {
	var rows []sessionRow
	err := r.db.SelectContext(ctx, &rows, "SELECT * FROM review_sessions WHERE user_id = ? ORDER BY started_at, id", userID)
	if err != nil {
		return nil, fmt.Errorf("select sessions: %w: %w", ErrStorage, err)
	}

	sessions := make([]ReviewSession, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, row.toDomain())
	}
	return sessions, nil
}

// CloseSession marks a session as ended.
func (r *DBRepository) CloseSession(ctx context.Context, sessionID string, endedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, "UPDATE review_sessions SET ended_at = ? WHERE id = ?", endedAt, sessionID)
	if err != nil {
		return fmt.Errorf("close session: %w: %w", ErrStorage, err)
	}
	return nil
}
