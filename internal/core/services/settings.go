package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
	"github.com/custodia-labs/autojoin/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLeadTime           = "scheduler.lead_time_seconds"
	keyWakeInterval       = "scheduler.wake_interval_seconds"
	keyMaxConcurrent      = "scheduler.max_concurrent_joins"
	keyForceBrowser       = "join.force_browser"
	keyDisplayName        = "join.display_name"
	keyStepTimeout        = "join.step_timeout_seconds"
	keyHeadless           = "join.headless"
	keyBrowserPath        = "join.browser_path"
	keyMismatchPolicy     = "join.mismatch_policy"
	keyGoogleClientID     = "google.client_id"
	keyGoogleClientSecret = "google.client_secret"
	keyLogLevel           = "log.level"
	keyLogFormat          = "log.format"
	keyLogFile            = "log.file"
	keyMetricsAddr        = "metrics.addr"
)

// settingKind selects how a string value is parsed in Set.
type settingKind int

const (
	kindString settingKind = iota
	kindSeconds
	kindPositiveInt
	kindBool
	kindPolicy
	kindLogLevel
	kindLogFormat
)

// settingKeys lists every recognised key in display order.
var settingKeys = []struct {
	key  string
	kind settingKind
}{
	{keyLeadTime, kindSeconds},
	{keyWakeInterval, kindSeconds},
	{keyMaxConcurrent, kindPositiveInt},
	{keyForceBrowser, kindBool},
	{keyDisplayName, kindString},
	{keyStepTimeout, kindSeconds},
	{keyHeadless, kindBool},
	{keyBrowserPath, kindString},
	{keyMismatchPolicy, kindPolicy},
	{keyGoogleClientID, kindString},
	{keyGoogleClientSecret, kindString},
	{keyLogLevel, kindLogLevel},
	{keyLogFormat, kindLogFormat},
	{keyLogFile, kindString},
	{keyMetricsAddr, kindString},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Scheduler: domain.SchedulerSettings{
			LeadTime:           s.getSeconds(keyLeadTime, defaults.Scheduler.LeadTime),
			WakeInterval:       s.getSeconds(keyWakeInterval, defaults.Scheduler.WakeInterval),
			MaxConcurrentJoins: s.getInt(keyMaxConcurrent, defaults.Scheduler.MaxConcurrentJoins),
		},
		Join: domain.JoinSettings{
			ForceBrowser:   s.getBool(keyForceBrowser, defaults.Join.ForceBrowser),
			DisplayName:    s.getString(keyDisplayName, defaults.Join.DisplayName),
			StepTimeout:    s.getSeconds(keyStepTimeout, defaults.Join.StepTimeout),
			Headless:       s.getBool(keyHeadless, defaults.Join.Headless),
			BrowserPath:    s.configStore.GetString(keyBrowserPath),
			MismatchPolicy: s.getPolicy(defaults.Join.MismatchPolicy),
		},
		Google: domain.GoogleSettings{
			ClientID:     s.configStore.GetString(keyGoogleClientID),
			ClientSecret: s.configStore.GetString(keyGoogleClientSecret),
		},
		Log: domain.LogSettings{
			Level:  s.getString(keyLogLevel, defaults.Log.Level),
			Format: s.getString(keyLogFormat, defaults.Log.Format),
			File:   s.configStore.GetString(keyLogFile),
		},
		Metrics: domain.MetricsSettings{
			Addr: s.configStore.GetString(keyMetricsAddr),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if !settings.Join.MismatchPolicy.IsValid() {
		return fmt.Errorf("%w: mismatch policy %q", domain.ErrInvalidInput, settings.Join.MismatchPolicy)
	}

	values := map[string]any{
		keyLeadTime:           int(settings.Scheduler.LeadTime / time.Second),
		keyWakeInterval:       int(settings.Scheduler.WakeInterval / time.Second),
		keyMaxConcurrent:      settings.Scheduler.MaxConcurrentJoins,
		keyForceBrowser:       settings.Join.ForceBrowser,
		keyDisplayName:        settings.Join.DisplayName,
		keyStepTimeout:        int(settings.Join.StepTimeout / time.Second),
		keyHeadless:           settings.Join.Headless,
		keyBrowserPath:        settings.Join.BrowserPath,
		keyMismatchPolicy:     string(settings.Join.MismatchPolicy),
		keyGoogleClientID:     settings.Google.ClientID,
		keyGoogleClientSecret: settings.Google.ClientSecret,
		keyLogLevel:           settings.Log.Level,
		keyLogFormat:          settings.Log.Format,
		keyLogFile:            settings.Log.File,
		keyMetricsAddr:        settings.Metrics.Addr,
	}
	for _, k := range settingKeys {
		if err := s.configStore.Set(k.key, values[k.key]); err != nil {
			return fmt.Errorf("failed to save %s: %w", k.key, err)
		}
	}
	return nil
}

// Set parses value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	for _, k := range settingKeys {
		if k.key != key {
			continue
		}
		parsed, err := parseSetting(k.kind, strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
		return s.configStore.Set(key, parsed)
	}
	return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
}

// Keys lists the recognised dotted keys.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.key
	}
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func parseSetting(kind settingKind, value string) (any, error) {
	switch kind {
	case kindSeconds:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("want a whole number of seconds, got %q", value)
		}
		return n, nil
	case kindPositiveInt:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("want a positive number, got %q", value)
		}
		return n, nil
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("want true or false, got %q", value)
		}
		return b, nil
	case kindPolicy:
		if !domain.MismatchPolicy(value).IsValid() {
			return nil, fmt.Errorf("want prompt, switch, keep or abort, got %q", value)
		}
		return value, nil
	case kindLogLevel:
		switch value {
		case "debug", "info", "warn", "error":
			return value, nil
		}
		return nil, fmt.Errorf("want debug, info, warn or error, got %q", value)
	case kindLogFormat:
		if value != "text" && value != "json" {
			return nil, fmt.Errorf("want text or json, got %q", value)
		}
		return value, nil
	default:
		return value, nil
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getSeconds reads a seconds count. An explicit 0 is honoured.
func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return time.Duration(s.configStore.GetInt(key)) * time.Second
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getPolicy(defaultVal domain.MismatchPolicy) domain.MismatchPolicy {
	policy := domain.MismatchPolicy(s.configStore.GetString(keyMismatchPolicy))
	if !policy.IsValid() {
		return defaultVal
	}
	return policy
}
