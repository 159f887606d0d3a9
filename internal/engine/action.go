package engine

import "fmt"

// ActionKind discriminates the reconciliation outcome.
type ActionKind string

const (
	ActionSetLevel ActionKind = "SET_LEVEL"
	ActionTurnOff  ActionKind = "TURN_OFF"
	ActionNoOp     ActionKind = "NOOP"
)

// Action is the single device-affecting decision for one user and one run.
// Level and DurationSeconds are meaningful only for ActionSetLevel.
type Action struct {
	Kind            ActionKind `json:"kind"`
	Level           int        `json:"level,omitempty"`
	DurationSeconds int        `json:"duration_seconds,omitempty"`
}

func SetLevel(level, durationSeconds int) Action {
	return Action{Kind: ActionSetLevel, Level: level, DurationSeconds: durationSeconds}
}

func TurnOff() Action { return Action{Kind: ActionTurnOff} }

func NoOp() Action { return Action{Kind: ActionNoOp} }

func (a Action) String() string {
	if a.Kind == ActionSetLevel {
		return fmt.Sprintf("%s(level=%d, duration=%ds)", a.Kind, a.Level, a.DurationSeconds)
	}
	return string(a.Kind)
}
