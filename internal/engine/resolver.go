package engine

import (
	"time"

	"heatkeeper/internal/models"
)

// offPhaseDebounce limits how long an off-phase keeps asserting itself.
// Past this window the resolver reports no phase in effect, so a heater the
// user switched on mid off-period is not fought every half hour.
const offPhaseDebounce = 30 * time.Minute

// ResolvedPhase is the phase currently in effect, if any.
type ResolvedPhase struct {
	Level     *int      // nil for an off-phase
	Active    bool
	StartedAt time.Time // zero when not active
}

// Resolve picks the phase in effect at now. Every phase contributes two
// candidate start instants, today's occurrence and yesterday's; among the
// candidates that have already begun, the latest one wins. Stored phase
// order never matters, which is what makes overnight schedules work.
func Resolve(now time.Time, phases []models.Phase) (ResolvedPhase, error) {
	var (
		bestStart time.Time
		bestLevel *int
		found     bool
	)
	for _, p := range phases {
		hour, minute, err := ParseTimeOfDay(p.Time)
		if err != nil {
			return ResolvedPhase{}, err
		}
		today := timeOfDayOn(now, hour, minute)
		for _, start := range [2]time.Time{today, today.Add(-24 * time.Hour)} {
			if start.After(now) {
				continue
			}
			if !found || start.After(bestStart) {
				bestStart = start
				bestLevel = p.Level
				found = true
			}
		}
	}
	if !found {
		return ResolvedPhase{}, nil
	}
	if bestLevel == nil && now.Sub(bestStart) >= offPhaseDebounce {
		// Off-phase already settled; stop reporting it.
		return ResolvedPhase{}, nil
	}
	return ResolvedPhase{Level: bestLevel, Active: true, StartedAt: bestStart}, nil
}
