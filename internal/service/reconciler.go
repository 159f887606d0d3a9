package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"heatkeeper/internal/device"
	"heatkeeper/internal/engine"
	"heatkeeper/internal/logger"
	"heatkeeper/internal/models"
	"heatkeeper/internal/repository"
)

// ReconcilerService walks all user profiles once per invocation. Per-user
// failures are isolated: they are logged, recorded in the outcome list, and
// never abort the rest of the batch. Only a failure to list the profiles
// themselves fails the whole run.
type ReconcilerService struct {
	settings  repository.SettingsRepo
	schedules repository.ScheduleRepo
	events    repository.RunEventRepo
	device    device.Client
	exec      *Executor
	log       *logger.Logger
	now       func() time.Time // injectable clock for tests
}

func NewReconcilerService(
	settings repository.SettingsRepo,
	schedules repository.ScheduleRepo,
	events repository.RunEventRepo,
	deviceClient device.Client,
	exec *Executor,
	log *logger.Logger,
) *ReconcilerService {
	return &ReconcilerService{
		settings:  settings,
		schedules: schedules,
		events:    events,
		device:    deviceClient,
		exec:      exec,
		log:       log,
		now:       time.Now,
	}
}

// Run executes one batch pass. With a simulated time the pass is a dry run:
// the device is never contacted, a synthetic not-heating status is assumed,
// and nothing is persisted.
func (s *ReconcilerService) Run(ctx context.Context, opts RunOptions) (RunSummary, error) {
	profiles, err := s.settings.ListAll(ctx)
	if err != nil {
		return RunSummary{}, fmt.Errorf("list temperature settings: %w", err)
	}

	sum := RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: s.now().UTC(),
		DryRun:    opts.SimulatedTime != nil,
		Outcomes:  make([]UserOutcome, 0, len(profiles)),
	}

	for _, profile := range profiles {
		out := s.reconcileUser(ctx, profile, opts)
		sum.Outcomes = append(sum.Outcomes, out)
		sum.Processed++
		if out.Outcome == OutcomeFailed {
			sum.Failed++
			s.logw().Errorw("user reconciliation failed", "run_id", sum.RunID, "user_id", out.UserID, "err", out.Error)
		}
		if !sum.DryRun {
			s.appendEvent(ctx, sum.RunID, out)
		}
	}

	s.logw().Infow("reconciliation run finished",
		"run_id", sum.RunID, "dry_run", sum.DryRun, "processed", sum.Processed, "failed", sum.Failed)
	return sum, nil
}

func (s *ReconcilerService) reconcileUser(ctx context.Context, profile models.TemperatureSettings, opts RunOptions) UserOutcome {
	dryRun := opts.SimulatedTime != nil

	loc, err := time.LoadLocation(profile.Timezone)
	if err != nil {
		return failed(profile.UserID, fmt.Errorf("load timezone %q: %w", profile.Timezone, err))
	}

	var localNow time.Time
	if dryRun {
		localNow = opts.SimulatedTime.In(loc)
	} else {
		localNow = s.now().In(loc)
	}

	creds := profile.Credentials
	if !dryRun && creds.Expired(s.now().Unix()) {
		if err := s.exec.Do(ctx, "refresh credentials", func(ctx context.Context) error {
			fresh, rerr := s.device.Refresh(ctx, creds.RefreshToken, profile.DeviceUserID)
			if rerr != nil {
				return rerr
			}
			creds = fresh
			return nil
		}); err != nil {
			return failed(profile.UserID, err)
		}
		if err := s.settings.SaveCredentials(ctx, profile.UserID, creds); err != nil {
			return failed(profile.UserID, err)
		}
	}

	// Dry runs evaluate against a synthetic not-heating status.
	var status models.DeviceHeatingStatus
	if !dryRun {
		if err := s.exec.Do(ctx, "query heater status", func(ctx context.Context) error {
			st, qerr := s.device.QueryStatus(ctx, creds)
			if qerr != nil {
				return qerr
			}
			status = st
			return nil
		}); err != nil {
			return failed(profile.UserID, err)
		}
	}

	var schedule *models.Schedule
	if !profile.PreheatOnly && profile.ActiveScheduleID != nil {
		schedule, err = s.schedules.GetByID(ctx, *profile.ActiveScheduleID)
		if err != nil {
			return failed(profile.UserID, err)
		}
		// A dangling schedule id degrades to "no active schedule".
	}

	dec, err := engine.Evaluate(engine.EvalInput{
		Now:      localNow,
		Settings: profile,
		Schedule: schedule,
		Status:   status,
	})
	if err != nil {
		return failed(profile.UserID, err)
	}

	if err := s.applyAction(ctx, profile, creds, dec.Action, dryRun); err != nil {
		return failed(profile.UserID, err)
	}

	// Bookkeeping is committed only once the command (if any) went through.
	scheduleMode := !profile.PreheatOnly && profile.ActiveScheduleID != nil
	if !dryRun && scheduleMode && dec.StateChanged {
		if err := s.settings.SaveOverrideState(ctx, profile.UserID, dec.State); err != nil {
			return failed(profile.UserID, err)
		}
	}

	out := UserOutcome{
		UserID:  profile.UserID,
		Action:  string(dec.Action.Kind),
		Reason:  dec.Reason,
		Outcome: OutcomeOK,
	}
	if dec.Action.Kind == engine.ActionSetLevel {
		level := dec.Action.Level
		out.Level = &level
	}
	return out
}

func (s *ReconcilerService) applyAction(ctx context.Context, profile models.TemperatureSettings, creds models.DeviceCredentials, action engine.Action, dryRun bool) error {
	if dryRun {
		if action.Kind != engine.ActionNoOp {
			s.logw().Infow("dry run, skipping device command",
				"user_id", profile.UserID, "action", action.String())
		}
		return nil
	}
	switch action.Kind {
	case engine.ActionSetLevel:
		return s.exec.Do(ctx, "set heater level", func(ctx context.Context) error {
			return s.device.SetLevel(ctx, creds, profile.DeviceID, action.Level, action.DurationSeconds)
		})
	case engine.ActionTurnOff:
		return s.exec.Do(ctx, "turn heater off", func(ctx context.Context) error {
			return s.device.TurnOff(ctx, creds, profile.DeviceID)
		})
	default:
		return nil
	}
}

func (s *ReconcilerService) appendEvent(ctx context.Context, runID string, out UserOutcome) {
	description := out.Reason
	if out.Error != "" {
		description = out.Error
	}
	ev := models.RunEvent{
		RunID:       runID,
		UserID:      out.UserID,
		Action:      out.Action,
		Outcome:     out.Outcome,
		Description: description,
	}
	if out.Level != nil {
		ev.Metadata = map[string]any{"level": *out.Level}
	}
	if err := s.events.Append(ctx, ev); err != nil {
		s.logw().Errorw("append run event failed", "run_id", runID, "user_id", out.UserID, "err", err)
	}
}

func failed(userID int, err error) UserOutcome {
	return UserOutcome{
		UserID:  userID,
		Action:  string(engine.ActionNoOp),
		Outcome: OutcomeFailed,
		Error:   err.Error(),
	}
}

// logw never returns nil so call sites stay unconditional.
func (s *ReconcilerService) logw() *logger.Logger {
	if s.log != nil {
		return s.log
	}
	return logger.Nop()
}
