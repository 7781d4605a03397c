// Package audit provides access to the audit_logs table, the durable
// record of every state transition the panel has made.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record is a single transition audit entry.
type Record struct {
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
	Actor      string    `json:"actor"` // code-table name, keyfob/button/sensor name, or "system"
	FromState  string    `json:"from_state"`
	ToState    string    `json:"to_state"`
	Event      string    `json:"event"`
	Note       string    `json:"note,omitempty"`
}

// Filter controls which audit records to return.
type Filter struct {
	Actor     string // optional: filter by actor
	ToState   string // optional: filter by resulting state
	Limit     int    // default 50, max 200
	Offset    int    // pagination offset
}

// ListResult contains the paginated audit record results.
type ListResult struct {
	Records []Record `json:"records"`
	Total   int      `json:"total"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
}

// Repository defines the interface for audit log operations.
//
// Create is called from the state machine's dispatch loop on every
// transition; implementations must never block the caller for long and
// must never panic on a write failure.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	List(ctx context.Context, filter Filter) (*ListResult, error)
}

// SQLiteRepository persists audit records to SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new audit log repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new audit record. ID and OccurredAt are generated if empty.
func (r *SQLiteRepository) Create(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = "aud-" + uuid.NewString()[:8]
	}
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, occurred_at, actor, from_state, to_state, event, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.OccurredAt.Format(time.RFC3339),
		rec.Actor, rec.FromState, rec.ToState, rec.Event,
		nullableString(rec.Note),
	)
	if err != nil {
		return fmt.Errorf("inserting audit record: %w", err)
	}

	return nil
}

// nullableString returns nil for empty strings, or the string itself otherwise.
// Used for nullable TEXT columns in SQLite.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// List returns audit records matching the filter, ordered by most recent first.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) (*ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 { //nolint:mnd // max page size for audit record queries
		filter.Limit = 200
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	var conditions []string
	var args []any

	if filter.Actor != "" {
		conditions = append(conditions, "actor = ?")
		args = append(args, filter.Actor)
	}
	if filter.ToState != "" {
		conditions = append(conditions, "to_state = ?")
		args = append(args, filter.ToState)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	// WHERE clause is built from parameterised conditions (? placeholders) — no user input in SQL string.
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM audit_logs %s", where) //nolint:gosec // WHERE built from parameterised conditions, not user input
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting audit records: %w", err)
	}

	query := fmt.Sprintf( //nolint:gosec // WHERE built from parameterised conditions, not user input
		"SELECT id, occurred_at, actor, from_state, to_state, event, note FROM audit_logs %s ORDER BY occurred_at DESC LIMIT ? OFFSET ?",
		where,
	)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var note sql.NullString
		var occurredAt string

		if err := rows.Scan(&rec.ID, &occurredAt, &rec.Actor, &rec.FromState, &rec.ToState, &rec.Event, &note); err != nil {
			return nil, fmt.Errorf("scanning audit record: %w", err)
		}

		if note.Valid {
			rec.Note = note.String
		}

		t, err := time.Parse(time.RFC3339, occurredAt)
		if err != nil {
			return nil, fmt.Errorf("parsing audit record timestamp %q: %w", occurredAt, err)
		}
		rec.OccurredAt = t

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit records: %w", err)
	}

	if records == nil {
		records = []Record{}
	}

	return &ListResult{
		Records: records,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}, nil
}
