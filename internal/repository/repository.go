package repository

import (
	"context"
	"database/sql"
	"time"

	"heatkeeper/internal/models"
	"heatkeeper/internal/repository/db"
)

// SettingsRepo reads every user's heating profile and writes back the two
// slices of it the reconciler owns: override bookkeeping and refreshed
// device credentials.
type SettingsRepo interface {
	ListAll(ctx context.Context) ([]models.TemperatureSettings, error)
	SaveOverrideState(ctx context.Context, userID int, st models.OverrideState) error
	SaveCredentials(ctx context.Context, userID int, creds models.DeviceCredentials) error
}

type ScheduleRepo interface {
	// GetByID returns (nil, nil) when no such schedule exists.
	GetByID(ctx context.Context, id int) (*models.Schedule, error)
}

// RunEventRepo is the append-only run outcome log.
type RunEventRepo interface {
	Append(ctx context.Context, e models.RunEvent) error
	List(ctx context.Context, from, to time.Time, outcome string) ([]models.RunEvent, error)
}

type Repository struct {
	Settings  SettingsRepo
	Schedules ScheduleRepo
	RunEvents RunEventRepo
}

func NewRepository(database *sql.DB) *Repository {
	return &Repository{
		Settings:  NewSettingsSQLite(database),
		Schedules: NewScheduleSQLite(database),
		RunEvents: NewRunEventSQLite(database),
	}
}

// InitDB opens the SQLite file and ensures the schema exists.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
