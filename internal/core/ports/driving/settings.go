package driving

import "github.com/custodia-labs/autojoin/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, filling defaults for unset keys.
	Get() (*domain.Settings, error)

	// Save validates and persists settings.
	Save(settings *domain.Settings) error

	// Set updates one key, given in its dotted config form.
	Set(key, value string) error

	// Keys lists the recognised dotted keys.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
