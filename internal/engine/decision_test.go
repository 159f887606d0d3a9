package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heatkeeper/internal/models"
)

var decideNow = time.Date(2025, time.November, 4, 23, 30, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time { return &t }

func activePhase(level int) ResolvedPhase {
	return ResolvedPhase{Level: intPtr(level), Active: true, StartedAt: decideNow.Add(-90 * time.Minute)}
}

func offPhase() ResolvedPhase {
	return ResolvedPhase{Active: true, StartedAt: decideNow.Add(-10 * time.Minute)}
}

func TestDecide(t *testing.T) {
	cases := []struct {
		name        string
		in          DecisionInput
		wantAction  Action
		wantState   models.OverrideState
		wantChanged bool
	}{
		{
			name: "inactive_noop",
			in: DecisionInput{
				Now:    decideNow,
				Phase:  ResolvedPhase{},
				Status: models.DeviceHeatingStatus{IsHeating: true, HeatingLevel: 50},
			},
			wantAction: NoOp(),
		},
		{
			name: "off_phase_turns_heater_off_and_clears_bookkeeping",
			in: DecisionInput{
				Now:    decideNow,
				Phase:  offPhase(),
				Status: models.DeviceHeatingStatus{IsHeating: true, HeatingLevel: 20},
				State: models.OverrideState{
					LastCommandedAt:    timePtr(decideNow.Add(-2 * time.Hour)),
					LastCommandedLevel: intPtr(20),
				},
			},
			wantAction:  TurnOff(),
			wantState:   models.OverrideState{},
			wantChanged: true,
		},
		{
			name: "off_phase_idle_heater_noop",
			in: DecisionInput{
				Now:   decideNow,
				Phase: offPhase(),
			},
			wantAction: NoOp(),
		},
		{
			name: "full_override_unexpired_suppresses",
			in: DecisionInput{
				Now:                 decideNow,
				Phase:               activePhase(20),
				AllowManualOverride: true,
				State: models.OverrideState{
					ScheduleOverriddenAt: timePtr(decideNow.Add(-17 * time.Hour)),
					LastCommandedAt:      timePtr(decideNow.Add(-18 * time.Hour)),
					LastCommandedLevel:   intPtr(20),
				},
			},
			wantAction: NoOp(),
			wantState: models.OverrideState{
				ScheduleOverriddenAt: timePtr(decideNow.Add(-17 * time.Hour)),
				LastCommandedAt:      timePtr(decideNow.Add(-18 * time.Hour)),
				LastCommandedLevel:   intPtr(20),
			},
		},
		{
			name: "full_override_expired_reactivates",
			in: DecisionInput{
				Now:                 decideNow,
				Phase:               activePhase(20),
				AllowManualOverride: true,
				State: models.OverrideState{
					ScheduleOverriddenAt: timePtr(decideNow.Add(-18*time.Hour - time.Second)),
					LastCommandedAt:      timePtr(decideNow.Add(-20 * time.Hour)),
					LastCommandedLevel:   intPtr(20),
				},
			},
			wantAction: SetLevel(20, phaseHoldSeconds),
			wantState: models.OverrideState{
				LastCommandedAt:    timePtr(decideNow),
				LastCommandedLevel: intPtr(20),
			},
			wantChanged: true,
		},
		{
			name: "manual_shutoff_inferred",
			in: DecisionInput{
				Now:                 decideNow,
				Phase:               activePhase(20),
				AllowManualOverride: true,
				State: models.OverrideState{
					LastCommandedAt:    timePtr(decideNow.Add(-time.Hour)),
					LastCommandedLevel: intPtr(20),
				},
			},
			wantAction: NoOp(),
			wantState: models.OverrideState{
				ScheduleOverriddenAt: timePtr(decideNow),
				LastCommandedAt:      timePtr(decideNow.Add(-time.Hour)),
				LastCommandedLevel:   intPtr(20),
			},
			wantChanged: true,
		},
		{
			name: "override_forbidden_heater_off_recommands",
			in: DecisionInput{
				Now:   decideNow,
				Phase: activePhase(20),
				State: models.OverrideState{
					LastCommandedAt:    timePtr(decideNow.Add(-time.Hour)),
					LastCommandedLevel: intPtr(20),
				},
			},
			wantAction: SetLevel(20, phaseHoldSeconds),
			wantState: models.OverrideState{
				LastCommandedAt:    timePtr(decideNow),
				LastCommandedLevel: intPtr(20),
			},
			wantChanged: true,
		},
		{
			name: "first_activation",
			in: DecisionInput{
				Now:                 decideNow,
				Phase:               activePhase(35),
				AllowManualOverride: true,
			},
			wantAction: SetLevel(35, phaseHoldSeconds),
			wantState: models.OverrideState{
				LastCommandedAt:    timePtr(decideNow),
				LastCommandedLevel: intPtr(35),
			},
			wantChanged: true,
		},
		{
			name: "recent_manual_tweak_honored",
			in: DecisionInput{
				Now:                 decideNow,
				Phase:               activePhase(20),
				Status:              models.DeviceHeatingStatus{IsHeating: true, HeatingLevel: 45},
				AllowManualOverride: true,
				State: models.OverrideState{
					LastCommandedAt:       timePtr(decideNow.Add(-2 * time.Hour)),
					LastCommandedLevel:    intPtr(20),
					ManualLevelOverrideAt: timePtr(decideNow.Add(-89 * time.Minute)),
				},
			},
			wantAction: NoOp(),
			wantState: models.OverrideState{
				LastCommandedAt:       timePtr(decideNow.Add(-2 * time.Hour)),
				LastCommandedLevel:    intPtr(20),
				ManualLevelOverrideAt: timePtr(decideNow.Add(-89 * time.Minute)),
			},
		},
		{
			name: "expired_tweak_same_phase_still_honored",
			in: DecisionInput{
				Now:                 decideNow,
				Phase:               activePhase(20),
				Status:              models.DeviceHeatingStatus{IsHeating: true, HeatingLevel: 45},
				AllowManualOverride: true,
				State: models.OverrideState{
					LastCommandedAt:       timePtr(decideNow.Add(-4 * time.Hour)),
					LastCommandedLevel:    intPtr(20),
					ManualLevelOverrideAt: timePtr(decideNow.Add(-3 * time.Hour)),
				},
			},
			wantAction: NoOp(),
			wantState: models.OverrideState{
				LastCommandedAt:       timePtr(decideNow.Add(-4 * time.Hour)),
				LastCommandedLevel:    intPtr(20),
				ManualLevelOverrideAt: timePtr(decideNow.Add(-3 * time.Hour)),
			},
		},
		{
			name: "expired_tweak_new_phase_applies_level",
			in: DecisionInput{
				Now:                 decideNow,
				Phase:               activePhase(30),
				Status:              models.DeviceHeatingStatus{IsHeating: true, HeatingLevel: 45},
				AllowManualOverride: true,
				State: models.OverrideState{
					LastCommandedAt:       timePtr(decideNow.Add(-4 * time.Hour)),
					LastCommandedLevel:    intPtr(20),
					ManualLevelOverrideAt: timePtr(decideNow.Add(-91 * time.Minute)),
				},
			},
			wantAction: SetLevel(30, phaseHoldSeconds),
			wantState: models.OverrideState{
				LastCommandedAt:    timePtr(decideNow),
				LastCommandedLevel: intPtr(30),
			},
			wantChanged: true,
		},
		{
			name: "fresh_manual_tweak_inferred",
			in: DecisionInput{
				Now:                 decideNow,
				Phase:               activePhase(20),
				Status:              models.DeviceHeatingStatus{IsHeating: true, HeatingLevel: 60},
				AllowManualOverride: true,
				State: models.OverrideState{
					LastCommandedAt:    timePtr(decideNow.Add(-time.Hour)),
					LastCommandedLevel: intPtr(20),
				},
			},
			wantAction: NoOp(),
			wantState: models.OverrideState{
				LastCommandedAt:       timePtr(decideNow.Add(-time.Hour)),
				LastCommandedLevel:    intPtr(20),
				ManualLevelOverrideAt: timePtr(decideNow),
			},
			wantChanged: true,
		},
		{
			name: "plain_level_correction",
			in: DecisionInput{
				Now:                 decideNow,
				Phase:               activePhase(30),
				Status:              models.DeviceHeatingStatus{IsHeating: true, HeatingLevel: 20},
				AllowManualOverride: true,
				State: models.OverrideState{
					LastCommandedAt:    timePtr(decideNow.Add(-2 * time.Hour)),
					LastCommandedLevel: intPtr(20),
				},
			},
			wantAction: SetLevel(30, phaseHoldSeconds),
			wantState: models.OverrideState{
				LastCommandedAt:    timePtr(decideNow),
				LastCommandedLevel: intPtr(30),
			},
			wantChanged: true,
		},
		{
			name: "already_at_level_noop",
			in: DecisionInput{
				Now:                 decideNow,
				Phase:               activePhase(20),
				Status:              models.DeviceHeatingStatus{IsHeating: true, HeatingLevel: 20},
				AllowManualOverride: true,
				State: models.OverrideState{
					LastCommandedAt:    timePtr(decideNow.Add(-time.Hour)),
					LastCommandedLevel: intPtr(20),
				},
			},
			wantAction: NoOp(),
			wantState: models.OverrideState{
				LastCommandedAt:    timePtr(decideNow.Add(-time.Hour)),
				LastCommandedLevel: intPtr(20),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Decide(tc.in)
			assert.Equal(t, tc.wantAction, got.Action, "action")
			assert.True(t, got.State.Equal(tc.wantState), "state: got %+v want %+v", got.State, tc.wantState)
			assert.Equal(t, tc.wantChanged, got.StateChanged, "state changed")
		})
	}
}

// Running the same decision twice with no external change must settle on a
// NoOp without further bookkeeping writes.
func TestDecide_Idempotent(t *testing.T) {
	in := DecisionInput{
		Now:                 decideNow,
		Phase:               activePhase(20),
		Status:              models.DeviceHeatingStatus{IsHeating: true, HeatingLevel: 20},
		AllowManualOverride: true,
		State: models.OverrideState{
			LastCommandedAt:    timePtr(decideNow.Add(-time.Hour)),
			LastCommandedLevel: intPtr(20),
		},
	}

	first := Decide(in)
	require.Equal(t, NoOp(), first.Action)
	require.False(t, first.StateChanged)

	in.State = first.State
	in.Now = decideNow.Add(30 * time.Minute)
	second := Decide(in)
	require.Equal(t, NoOp(), second.Action)
	require.False(t, second.StateChanged)
}
