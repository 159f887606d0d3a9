package models

import "time"

// RunEvent is a single per-user outcome row from a reconciliation run.
type RunEvent struct {
	EventID     string    `json:"event_id"`
	RunID       string    `json:"run_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	UserID      int       `json:"user_id"`
	Action      string    `json:"action"`  // SET_LEVEL | TURN_OFF | NOOP
	Outcome     string    `json:"outcome"` // OK | FAILED | SKIPPED
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
