package domain

import "time"

// Join defaults.
const (
	DefaultDisplayName = "Meeting Automator"
	DefaultStepTimeout = 20 * time.Second
)

// Settings holds all user-configurable application settings.
type Settings struct {
	Scheduler SchedulerSettings
	Join      JoinSettings
	Google    GoogleSettings
	Log       LogSettings
	Metrics   MetricsSettings
}

// SchedulerSettings configures trigger timing.
type SchedulerSettings struct {
	LeadTime           time.Duration
	WakeInterval       time.Duration
	MaxConcurrentJoins int
}

// JoinSettings configures platform handlers.
type JoinSettings struct {
	// ForceBrowser skips the native app even when it is installed.
	ForceBrowser bool

	// DisplayName is typed into name prompts on the meeting page.
	DisplayName string

	// StepTimeout bounds each wait for a remote surface element.
	StepTimeout time.Duration

	// Headless runs the controlled browser without a window.
	Headless bool

	// BrowserPath overrides the browser executable. Empty means auto-detect.
	BrowserPath string

	// MismatchPolicy resolves account mismatches.
	MismatchPolicy MismatchPolicy
}

// GoogleSettings holds the OAuth client used for Google Calendar import.
type GoogleSettings struct {
	ClientID     string
	ClientSecret string
}

// IsConfigured returns true if an OAuth client is set.
func (g GoogleSettings) IsConfigured() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// LogSettings configures logging output.
type LogSettings struct {
	Level  string
	Format string
	File   string
}

// MetricsSettings configures the Prometheus endpoint.
type MetricsSettings struct {
	// Addr is the listen address. Empty disables the endpoint.
	Addr string
}

// DefaultSettings returns sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Scheduler: SchedulerSettings{
			LeadTime:           DefaultLeadTime,
			WakeInterval:       DefaultWakeInterval,
			MaxConcurrentJoins: DefaultMaxConcurrentJoins,
		},
		Join: JoinSettings{
			DisplayName:    DefaultDisplayName,
			StepTimeout:    DefaultStepTimeout,
			MismatchPolicy: PolicyPrompt,
		},
		Log: LogSettings{
			Level:  "info",
			Format: "text",
		},
	}
}

// SchedulerConfig converts the settings into scheduler configuration.
func (s *Settings) SchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		LeadTime:           s.Scheduler.LeadTime,
		WakeInterval:       s.Scheduler.WakeInterval,
		StopTimeout:        DefaultStopTimeout,
		MaxConcurrentJoins: s.Scheduler.MaxConcurrentJoins,
	}.Normalised()
}
