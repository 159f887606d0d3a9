// Package engine holds the pure decision core of the reconciler: time window
// evaluation, phase resolution, override detection, and the top-level
// per-user evaluation. Nothing here touches the network, the clock, or the
// database; callers supply "now" and observed device state.
package engine

import (
	"fmt"
	"time"

	"heatkeeper/internal/models"
)

const (
	// Preheat-only mode: a single activation chance per day.
	preheatWindow      = 45 * time.Minute
	preheatHoldSeconds = 43200 // 12h; mode never turns the heater off itself

	// Stored preheat levels are [-10,10]; the device API expects [-100,100].
	preheatLevelScale = 10

	minPreheatLevel = -10
	maxPreheatLevel = 10
	minPhaseLevel   = -100
	maxPhaseLevel   = 100
)

// EvalInput is everything needed to decide one user in one run.
type EvalInput struct {
	Now      time.Time // already in the user's local zone
	Settings models.TemperatureSettings
	Schedule *models.Schedule // nil when none is active
	Status   models.DeviceHeatingStatus
}

// Evaluate runs the mode dispatch from the user's settings: preheat-only or
// schedule mode, mutually exclusive. Validation failures are returned as
// errors so the caller can fail this user without touching the device.
func Evaluate(in EvalInput) (Decision, error) {
	if in.Settings.PreheatOnly {
		action, err := evaluatePreheat(in)
		if err != nil {
			return Decision{}, err
		}
		// Preheat mode never reads or writes override bookkeeping.
		return Decision{Action: action, State: in.Settings.Override, Reason: "preheat mode"}, nil
	}

	if in.Settings.ActiveScheduleID == nil || in.Schedule == nil {
		return Decision{Action: NoOp(), State: in.Settings.Override, Reason: "no active schedule"}, nil
	}
	if len(in.Schedule.Phases) == 0 {
		return Decision{Action: NoOp(), State: in.Settings.Override, Reason: "schedule has no phases"}, nil
	}
	if err := validatePhases(in.Schedule.Phases); err != nil {
		return Decision{}, err
	}

	phase, err := Resolve(in.Now, in.Schedule.Phases)
	if err != nil {
		return Decision{}, err
	}
	return Decide(DecisionInput{
		Now:                 in.Now,
		Phase:               phase,
		Status:              in.Status,
		AllowManualOverride: in.Schedule.AllowManualOverride,
		State:               in.Settings.Override,
	}), nil
}

// evaluatePreheat fires one set-level command when now is inside the
// activation window and the heater is off. Afterwards manual control is
// fully respected: the mode never corrects or turns anything off.
func evaluatePreheat(in EvalInput) (Action, error) {
	level := in.Settings.PreheatLevel
	if level < minPreheatLevel || level > maxPreheatLevel {
		return Action{}, fmt.Errorf("preheat level %d out of range [%d,%d]", level, minPreheatLevel, maxPreheatLevel)
	}
	hour, minute, err := ParseTimeOfDay(in.Settings.PreheatTime)
	if err != nil {
		return Action{}, err
	}

	start := timeOfDayOn(in.Now, hour, minute)
	end := start.Add(preheatWindow)
	if !InWindow(in.Now, start, end) {
		return NoOp(), nil
	}
	if in.Status.IsHeating {
		return NoOp(), nil
	}
	return SetLevel(level*preheatLevelScale, preheatHoldSeconds), nil
}

func validatePhases(phases []models.Phase) error {
	for i, p := range phases {
		if p.Level == nil {
			continue
		}
		if *p.Level < minPhaseLevel || *p.Level > maxPhaseLevel {
			return fmt.Errorf("phase %d level %d out of range [%d,%d]", i, *p.Level, minPhaseLevel, maxPhaseLevel)
		}
	}
	return nil
}
