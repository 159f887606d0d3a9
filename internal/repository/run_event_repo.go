package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"heatkeeper/internal/models"
)

type RunEventSQLite struct {
	db *sql.DB
}

func NewRunEventSQLite(db *sql.DB) *RunEventSQLite { return &RunEventSQLite{db: db} }

var _ RunEventRepo = (*RunEventSQLite)(nil)

// Append inserts a new run event. If EventID or OccurredAt are empty, they're set.
func (r *RunEventSQLite) Append(ctx context.Context, e models.RunEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}

	// marshal metadata if present
	var metaPtr *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO run_events (id, run_id, occurred_at, user_id, action, outcome, message, meta)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.EventID,
		e.RunID,
		e.OccurredAt.Format("2006-01-02 15:04:05"),
		e.UserID,
		strings.ToUpper(strings.TrimSpace(e.Action)),
		strings.ToUpper(strings.TrimSpace(e.Outcome)),
		e.Description,
		metaPtr,
	)

	return err
}

// List returns events filtered by [from, to] (inclusive) and/or outcome, ordered ASC.
func (r *RunEventSQLite) List(ctx context.Context, from, to time.Time, outcome string) ([]models.RunEvent, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC())
	}
	if outcome = strings.ToUpper(strings.TrimSpace(outcome)); outcome != "" {
		conds = append(conds, "outcome = ?")
		args = append(args, outcome)
	}

	q := `SELECT id, run_id, occurred_at, user_id, action, outcome, message, meta FROM run_events`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.RunEvent, 0, 64)
	for rows.Next() {
		var ev models.RunEvent
		var metaStr sql.NullString
		if err := rows.Scan(&ev.EventID, &ev.RunID, &ev.OccurredAt, &ev.UserID, &ev.Action, &ev.Outcome, &ev.Description, &metaStr); err != nil {
			return nil, err
		}
		ev.OccurredAt = ev.OccurredAt.UTC()

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
