package engine

import (
	"time"

	"heatkeeper/internal/models"
)

const (
	// fullOverrideTTL caps how long an inferred full shutoff suppresses the
	// schedule before the cycle resets.
	fullOverrideTTL = 18 * time.Hour

	// levelTweakTTL protects a user's manual level adjustment from being
	// corrected back.
	levelTweakTTL = 90 * time.Minute

	// phaseHoldSeconds is the hold duration sent with every schedule-mode
	// set-level command; the next run re-affirms it before it lapses.
	phaseHoldSeconds = 3600
)

// DecisionInput feeds one reconciliation decision. It carries everything the
// rules need so Decide stays a pure function.
type DecisionInput struct {
	Now                 time.Time
	Phase               ResolvedPhase
	Status              models.DeviceHeatingStatus
	AllowManualOverride bool
	State               models.OverrideState
}

// Decision pairs the chosen action with the next override bookkeeping value.
// StateChanged is true when the bookkeeping must be persisted.
type Decision struct {
	Action       Action
	State        models.OverrideState
	StateChanged bool
	Reason       string
}

// Decide resolves (phase, override state, device status) into an Action.
//
// For an active heating phase the rules run in order: honor an unexpired full
// override, infer a manual shutoff, first activation, level-mismatch
// handling with tweak protection, and finally no-op when the device already
// matches. An off-phase in effect clears all bookkeeping and turns the
// heater off if it is running. No phase in effect means no action.
func Decide(in DecisionInput) Decision {
	if !in.Phase.Active {
		return decision(in, NoOp(), in.State, "no phase in effect")
	}
	if in.Phase.Level == nil {
		return decideOffPhase(in)
	}
	return decideHeatingPhase(in, *in.Phase.Level)
}

func decideOffPhase(in DecisionInput) Decision {
	// Each off period starts a clean override cycle.
	next := models.OverrideState{}
	if in.Status.IsHeating {
		return decision(in, TurnOff(), next, "off phase, heater still running")
	}
	return decision(in, NoOp(), next, "off phase")
}

func decideHeatingPhase(in DecisionInput, level int) Decision {
	st := in.State

	if st.ScheduleOverriddenAt != nil {
		if in.Now.Sub(*st.ScheduleOverriddenAt) >= fullOverrideTTL {
			// Stale override; reset the whole cycle and keep evaluating.
			st = models.OverrideState{}
		} else if in.AllowManualOverride {
			return decision(in, NoOp(), st, "manual shutoff still honored")
		}
	}

	if !in.Status.IsHeating {
		if in.AllowManualOverride && st.LastCommandedAt != nil {
			// We turned it on earlier and it is off now: the user did that.
			now := in.Now
			st.ScheduleOverriddenAt = &now
			return decision(in, NoOp(), st, "heater off after our command, manual shutoff inferred")
		}
		return decision(in, commandLevel(&st, in.Now, level), st, "phase activation")
	}

	if in.Status.HeatingLevel != level {
		return decideLevelMismatch(in, st, level)
	}

	return decision(in, NoOp(), st, "already at phase level")
}

func decideLevelMismatch(in DecisionInput, st models.OverrideState, level int) Decision {
	if st.ManualLevelOverrideAt != nil {
		if in.Now.Sub(*st.ManualLevelOverrideAt) < levelTweakTTL {
			return decision(in, NoOp(), st, "recent manual level tweak honored")
		}
		if st.LastCommandedLevel != nil && *st.LastCommandedLevel == level {
			// Same phase as when the user adjusted: their level stands.
			return decision(in, NoOp(), st, "manual level kept for rest of phase")
		}
		return decision(in, commandLevel(&st, in.Now, level), st, "new phase supersedes manual level")
	}

	if in.AllowManualOverride && st.LastCommandedLevel != nil && *st.LastCommandedLevel == level {
		// We set exactly this level before and the device now differs: the
		// user moved the dial.
		now := in.Now
		st.ManualLevelOverrideAt = &now
		return decision(in, NoOp(), st, "manual level tweak inferred")
	}

	return decision(in, commandLevel(&st, in.Now, level), st, "phase level correction")
}

// commandLevel records a fresh set-level command in the bookkeeping and
// returns the action for it.
func commandLevel(st *models.OverrideState, now time.Time, level int) Action {
	at := now
	lvl := level
	st.LastCommandedAt = &at
	st.LastCommandedLevel = &lvl
	st.ManualLevelOverrideAt = nil
	return SetLevel(level, phaseHoldSeconds)
}

func decision(in DecisionInput, action Action, next models.OverrideState, reason string) Decision {
	return Decision{
		Action:       action,
		State:        next,
		StateChanged: !in.State.Equal(next),
		Reason:       reason,
	}
}
