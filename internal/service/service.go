package service

import (
	"context"
	"time"

	"heatkeeper/internal/device"
	"heatkeeper/internal/logger"
	"heatkeeper/internal/models"
	"heatkeeper/internal/repository"
)

// Reconciler runs one batch reconciliation pass over every user profile.
// A simulated time in RunOptions switches the pass to dry-run: evaluation
// only, no device calls, no persisted state.
type Reconciler interface {
	Run(ctx context.Context, opts RunOptions) (RunSummary, error)
}

// RunLog exposes the persisted per-user outcome history with filtering.
type RunLog interface {
	List(ctx context.Context, f LogFilter) ([]models.RunEvent, error)
}

type Service struct {
	Reconciler
	RunLog
}

func NewService(repos *repository.Repository, deviceClient device.Client, log *logger.Logger) *Service {
	return &Service{
		Reconciler: NewReconcilerService(repos.Settings, repos.Schedules, repos.RunEvents, deviceClient, NewExecutor(log), log),
		RunLog:     NewRunLogService(repos.RunEvents),
	}
}

// RunOptions selects live or dry-run mode for one invocation.
type RunOptions struct {
	SimulatedTime *time.Time // nil = live run on wall-clock time
}

// UserOutcome is what one user's reconciliation produced.
type UserOutcome struct {
	UserID  int    `json:"user_id"`
	Action  string `json:"action"`
	Level   *int   `json:"level,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
}

// RunSummary is the materialized result of one batch invocation.
type RunSummary struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	DryRun    bool          `json:"dry_run"`
	Processed int           `json:"processed"`
	Failed    int           `json:"failed"`
	Outcomes  []UserOutcome `json:"outcomes"`
}

const (
	OutcomeOK     = "OK"
	OutcomeFailed = "FAILED"
)

// LogFilter supports run history filtering by time range and outcome.
type LogFilter struct {
	From    time.Time // inclusive; zero means no lower bound
	To      time.Time // inclusive; zero means no upper bound
	Outcome string    // "", "OK", "FAILED"
}
