package models

// Schedule is a named recurring daily plan. Phases are kept in stored order;
// time-of-day ordering is resolved at runtime, so overnight plans are fine.
type Schedule struct {
	ID                  int     `json:"id"`
	Name                string  `json:"name"`
	AllowManualOverride bool    `json:"allow_manual_override"`
	Phases              []Phase `json:"phases"`
}

// Phase starts at a local time-of-day and runs until a later phase begins.
// A nil Level means "heating off".
type Phase struct {
	Time  string `json:"time"` // HH:MM, local, recurring daily
	Level *int   `json:"level,omitempty"`
}
