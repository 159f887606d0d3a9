package models

import "time"

// TemperatureSettings is one user's heating profile as the reconciler sees it.
// The Override fields are meaningful only in schedule mode (PreheatOnly=false
// and ActiveScheduleID set) and are written back by the reconciler alone.
type TemperatureSettings struct {
	UserID       int    `json:"user_id"`
	DeviceID     string `json:"device_id"`
	DeviceUserID string `json:"device_user_id"`

	PreheatOnly  bool   `json:"preheat_only"`
	PreheatTime  string `json:"preheat_time"`  // HH:MM, local
	PreheatLevel int    `json:"preheat_level"` // [-10,10]; device expects x10

	Timezone         string `json:"timezone"` // IANA zone id
	ActiveScheduleID *int   `json:"active_schedule_id,omitempty"`

	Credentials DeviceCredentials `json:"-"` // never exposed
	Override    OverrideState     `json:"override"`
}

// OverrideState is the per-user override bookkeeping persisted between runs.
type OverrideState struct {
	ScheduleOverriddenAt  *time.Time `json:"schedule_overridden_at,omitempty"`
	LastCommandedAt       *time.Time `json:"last_commanded_at,omitempty"`
	LastCommandedLevel    *int       `json:"last_commanded_level,omitempty"`
	ManualLevelOverrideAt *time.Time `json:"manual_level_override_at,omitempty"`
}

// Equal compares field by field, treating nil and set pointers as distinct.
func (o OverrideState) Equal(other OverrideState) bool {
	return eqTimePtr(o.ScheduleOverriddenAt, other.ScheduleOverriddenAt) &&
		eqTimePtr(o.LastCommandedAt, other.LastCommandedAt) &&
		eqIntPtr(o.LastCommandedLevel, other.LastCommandedLevel) &&
		eqTimePtr(o.ManualLevelOverrideAt, other.ManualLevelOverrideAt)
}

// IsZero reports whether no override bookkeeping is recorded.
func (o OverrideState) IsZero() bool {
	return o.ScheduleOverriddenAt == nil &&
		o.LastCommandedAt == nil &&
		o.LastCommandedLevel == nil &&
		o.ManualLevelOverrideAt == nil
}

func eqTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func eqIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
