package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/autojoin/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/autojoin/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Equal(t, domain.DefaultSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("scheduler.lead_time_seconds", 120)
	_ = store.Set("scheduler.max_concurrent_joins", 4)
	_ = store.Set("join.force_browser", true)
	_ = store.Set("join.display_name", "Robo")
	_ = store.Set("join.mismatch_policy", "switch")
	_ = store.Set("google.client_id", "client")
	_ = store.Set("metrics.addr", ":9090")
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, settings.Scheduler.LeadTime)
	assert.Equal(t, 4, settings.Scheduler.MaxConcurrentJoins)
	assert.True(t, settings.Join.ForceBrowser)
	assert.Equal(t, "Robo", settings.Join.DisplayName)
	assert.Equal(t, domain.PolicySwitch, settings.Join.MismatchPolicy)
	assert.Equal(t, "client", settings.Google.ClientID)
	assert.Equal(t, ":9090", settings.Metrics.Addr)
}

func TestSettingsService_Get_ExplicitZeroLeadTime(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("scheduler.lead_time_seconds", 0)
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Zero(t, settings.Scheduler.LeadTime)
}

func TestSettingsService_Get_InvalidPolicyFallsBack(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("join.mismatch_policy", "shrug")
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.PolicyPrompt, settings.Join.MismatchPolicy)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	want := domain.DefaultSettings()
	want.Scheduler.LeadTime = 3 * time.Minute
	want.Join.Headless = true
	want.Join.BrowserPath = "/usr/bin/chromium"
	want.Join.MismatchPolicy = domain.PolicyKeep
	want.Log.Format = "json"

	require.NoError(t, service.Save(&want))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestSettingsService_SaveRejectsInvalidPolicy(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())
	settings := domain.DefaultSettings()
	settings.Join.MismatchPolicy = "maybe"

	assert.ErrorIs(t, service.Save(&settings), domain.ErrInvalidInput)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{"seconds", "scheduler.lead_time_seconds", "90", false},
		{"negative seconds", "scheduler.lead_time_seconds", "-1", true},
		{"positive int", "scheduler.max_concurrent_joins", "3", false},
		{"zero joins", "scheduler.max_concurrent_joins", "0", true},
		{"bool", "join.headless", "true", false},
		{"bad bool", "join.headless", "sometimes", true},
		{"policy", "join.mismatch_policy", "abort", false},
		{"bad policy", "join.mismatch_policy", "ignore", true},
		{"log level", "log.level", "debug", false},
		{"bad log level", "log.level", "trace", true},
		{"log format", "log.format", "json", false},
		{"bad log format", "log.format", "xml", true},
		{"string", "join.display_name", "Bot", false},
		{"unknown key", "join.colour", "blue", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore())
			err := service.Set(tt.key, tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSettingsService_SetThenGet(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	require.NoError(t, service.Set("scheduler.wake_interval_seconds", " 5 "))
	require.NoError(t, service.Set("join.force_browser", "true"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, settings.Scheduler.WakeInterval)
	assert.True(t, settings.Join.ForceBrowser)
}

func TestSettingsService_Keys(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	keys := service.Keys()

	assert.Contains(t, keys, "scheduler.lead_time_seconds")
	assert.Contains(t, keys, "join.mismatch_policy")
	assert.Contains(t, keys, "metrics.addr")
	assert.Len(t, keys, len(settingKeys))
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	assert.Equal(t, domain.DefaultSettings(), service.GetDefaults())
}
