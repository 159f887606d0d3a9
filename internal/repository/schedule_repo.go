package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"heatkeeper/internal/models"
)

type ScheduleSQLite struct {
	db *sql.DB
}

func NewScheduleSQLite(db *sql.DB) *ScheduleSQLite {
	return &ScheduleSQLite{db: db}
}

var _ ScheduleRepo = (*ScheduleSQLite)(nil)

const (
	selectScheduleSQL = `
		SELECT id, name, allow_manual_override FROM schedules WHERE id=?
	`
	selectPhasesSQL = `
		SELECT time, level FROM schedule_phases WHERE schedule_id=? ORDER BY position ASC
	`
)

// GetByID loads a schedule with its phases in stored order. Returns
// (nil, nil) when the schedule does not exist.
func (r *ScheduleSQLite) GetByID(ctx context.Context, id int) (*models.Schedule, error) {
	var s models.Schedule
	err := r.db.QueryRowContext(ctx, selectScheduleSQL, id).
		Scan(&s.ID, &s.Name, &s.AllowManualOverride)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select schedule %d: %w", id, err)
	}

	rows, err := r.db.QueryContext(ctx, selectPhasesSQL, id)
	if err != nil {
		return nil, fmt.Errorf("select phases for schedule %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p     models.Phase
			level sql.NullInt64
		)
		if err := rows.Scan(&p.Time, &level); err != nil {
			return nil, fmt.Errorf("scan phase for schedule %d: %w", id, err)
		}
		p.Level = nullableInt(level)
		s.Phases = append(s.Phases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate phases for schedule %d: %w", id, err)
	}
	return &s, nil
}
