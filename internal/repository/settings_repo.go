package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"heatkeeper/internal/models"
)

type SettingsSQLite struct {
	db *sql.DB
}

func NewSettingsSQLite(db *sql.DB) *SettingsSQLite {
	return &SettingsSQLite{db: db}
}

var _ SettingsRepo = (*SettingsSQLite)(nil)

const (
	selectAllSettingsSQL = `
		SELECT user_id, device_id, device_user_id,
		       preheat_only, preheat_time, preheat_level,
		       timezone, active_schedule_id,
		       access_token, refresh_token, token_expires_at,
		       schedule_overridden_at, last_commanded_at,
		       last_commanded_level, manual_level_override_at
		FROM temperature_settings ORDER BY user_id
	`

	// Single-statement write keeps the per-user bookkeeping update atomic.
	updateOverrideStateSQL = `
		UPDATE temperature_settings SET
			schedule_overridden_at=?,
			last_commanded_at=?,
			last_commanded_level=?,
			manual_level_override_at=?
		WHERE user_id=?
	`

	updateCredentialsSQL = `
		UPDATE temperature_settings SET
			access_token=?, refresh_token=?, token_expires_at=?
		WHERE user_id=?
	`
)

// ListAll fetches every user's temperature settings for one batch run.
func (r *SettingsSQLite) ListAll(ctx context.Context) ([]models.TemperatureSettings, error) {
	rows, err := r.db.QueryContext(ctx, selectAllSettingsSQL)
	if err != nil {
		return nil, fmt.Errorf("list temperature settings: %w", err)
	}
	defer rows.Close()

	out := make([]models.TemperatureSettings, 0, 32)
	for rows.Next() {
		var (
			s          models.TemperatureSettings
			scheduleID sql.NullInt64
			overrideAt sql.NullTime
			commandAt  sql.NullTime
			commandLvl sql.NullInt64
			tweakAt    sql.NullTime
		)
		if err := rows.Scan(
			&s.UserID, &s.DeviceID, &s.DeviceUserID,
			&s.PreheatOnly, &s.PreheatTime, &s.PreheatLevel,
			&s.Timezone, &scheduleID,
			&s.Credentials.AccessToken, &s.Credentials.RefreshToken, &s.Credentials.ExpiresAt,
			&overrideAt, &commandAt, &commandLvl, &tweakAt,
		); err != nil {
			return nil, fmt.Errorf("scan temperature settings: %w", err)
		}
		if scheduleID.Valid {
			id := int(scheduleID.Int64)
			s.ActiveScheduleID = &id
		}
		s.Override = models.OverrideState{
			ScheduleOverriddenAt:  nullableUTC(overrideAt),
			LastCommandedAt:       nullableUTC(commandAt),
			LastCommandedLevel:    nullableInt(commandLvl),
			ManualLevelOverrideAt: nullableUTC(tweakAt),
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate temperature settings: %w", err)
	}
	return out, nil
}

// SaveOverrideState writes the four bookkeeping columns for one user.
func (r *SettingsSQLite) SaveOverrideState(ctx context.Context, userID int, st models.OverrideState) error {
	res, err := r.db.ExecContext(ctx, updateOverrideStateSQL,
		timeArg(st.ScheduleOverriddenAt),
		timeArg(st.LastCommandedAt),
		intArg(st.LastCommandedLevel),
		timeArg(st.ManualLevelOverrideAt),
		userID,
	)
	if err != nil {
		return fmt.Errorf("save override state for user %d: %w", userID, err)
	}
	return requireRow(res, userID)
}

// SaveCredentials persists freshly refreshed device tokens for one user.
func (r *SettingsSQLite) SaveCredentials(ctx context.Context, userID int, creds models.DeviceCredentials) error {
	res, err := r.db.ExecContext(ctx, updateCredentialsSQL,
		creds.AccessToken, creds.RefreshToken, creds.ExpiresAt, userID,
	)
	if err != nil {
		return fmt.Errorf("save credentials for user %d: %w", userID, err)
	}
	return requireRow(res, userID)
}

func requireRow(res sql.Result, userID int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no settings row for user %d", userID)
	}
	return nil
}

func nullableUTC(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	utc := t.Time.UTC()
	return &utc
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func timeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func intArg(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
