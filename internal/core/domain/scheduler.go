package domain

import "time"

// Scheduler defaults.
const (
	DefaultLeadTime           = 1 * time.Minute
	DefaultWakeInterval       = 30 * time.Second
	DefaultStopTimeout        = 10 * time.Second
	DefaultMaxConcurrentJoins = 2
)

// Trigger binds a meeting id to the instant its join attempt should begin.
// Triggers are never persisted; they are recomputed from the meeting.
type Trigger struct {
	// MeetingID identifies the meeting.
	MeetingID string

	// Title is carried for display.
	Title string

	// Platform is carried for display and metrics.
	Platform Platform

	// FireTime is StartTime minus the lead time.
	FireTime time.Time
}

// IsDue returns true if the trigger should fire at now.
func (t *Trigger) IsDue(now time.Time) bool {
	return !t.FireTime.After(now)
}

// SchedulerConfig holds scheduler configuration.
type SchedulerConfig struct {
	// LeadTime is how long before the start the join attempt begins.
	LeadTime time.Duration

	// WakeInterval is how often the loop checks for due triggers.
	WakeInterval time.Duration

	// StopTimeout bounds how long Stop waits for the loop to exit.
	StopTimeout time.Duration

	// MaxConcurrentJoins bounds simultaneous join attempts.
	MaxConcurrentJoins int
}

// DefaultSchedulerConfig returns sensible defaults for the scheduler.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		LeadTime:           DefaultLeadTime,
		WakeInterval:       DefaultWakeInterval,
		StopTimeout:        DefaultStopTimeout,
		MaxConcurrentJoins: DefaultMaxConcurrentJoins,
	}
}

// Normalised fills zero or negative fields with defaults.
func (c SchedulerConfig) Normalised() SchedulerConfig {
	d := DefaultSchedulerConfig()
	if c.LeadTime < 0 {
		c.LeadTime = d.LeadTime
	}
	if c.WakeInterval <= 0 {
		c.WakeInterval = d.WakeInterval
	}
	if c.StopTimeout <= 0 {
		c.StopTimeout = d.StopTimeout
	}
	if c.MaxConcurrentJoins <= 0 {
		c.MaxConcurrentJoins = d.MaxConcurrentJoins
	}
	return c
}
