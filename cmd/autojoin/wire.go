package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/autojoin/internal/adapters/driven/apps"
	"github.com/custodia-labs/autojoin/internal/adapters/driven/browser"
	"github.com/custodia-labs/autojoin/internal/adapters/driven/config/file"
	"github.com/custodia-labs/autojoin/internal/adapters/driven/credentials/keyring"
	"github.com/custodia-labs/autojoin/internal/adapters/driven/metrics"
	"github.com/custodia-labs/autojoin/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/autojoin/internal/adapters/driving/cli"
	"github.com/custodia-labs/autojoin/internal/adapters/driving/tui"
	"github.com/custodia-labs/autojoin/internal/core/handlers"
	"github.com/custodia-labs/autojoin/internal/core/services"
	"github.com/custodia-labs/autojoin/internal/logger"
)

// bootstrap builds the services for one command invocation.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	dataDir := opts.DataDir
	if dataDir == "" {
		dir, err := file.DefaultDataDir()
		if err != nil {
			return nil, fmt.Errorf("resolve data directory: %w", err)
		}
		dataDir = dir
	}

	configStore, err := file.NewConfigStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsSvc := services.NewSettingsService(configStore)
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if _, err := logger.Init(logger.Config{
		Level:   settings.Log.Level,
		Format:  settings.Log.Format,
		File:    settings.Log.File,
		Verbose: opts.Verbose,
	}); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("open history: %w", err)
	}

	secrets := keyring.New()

	browserCfg := browser.ConfigForDataDir(dataDir)
	browserCfg.ExecPath = settings.Join.BrowserPath
	browserCfg.Headless = settings.Join.Headless

	browsers := browser.NewFactory(browserCfg)
	recorder := metrics.NewRecorder()
	joiner := services.NewJoiner(handlers.Deps{
		Controllers: browsers,
		Credentials: secrets,
		Decisions:   tui.NewDecider(settings.Join.MismatchPolicy),
		Probe:       apps.NewProbe(nil),
		Launcher:    apps.NewLauncher(),
		Options: handlers.Options{
			ForceBrowser: settings.Join.ForceBrowser,
			DisplayName:  settings.Join.DisplayName,
			StepTimeout:  settings.Join.StepTimeout,
		},
	}, store.HistoryStore(), recorder)
	scheduler := services.NewScheduler(settings.SchedulerConfig(), joiner, recorder)

	snapshot, err := file.NewSnapshotStore(dataDir)
	if err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, fmt.Errorf("open meetings: %w", err)
	}
	meetings := services.NewMeetingService(snapshot, scheduler)
	// An unreadable snapshot is logged by Load and leaves the registry empty.
	_, _ = meetings.Load(ctx)

	return &cli.Services{
		Meetings:     meetings,
		Scheduler:    scheduler,
		Joiner:       joiner,
		Credentials:  services.NewCredentialsService(secrets),
		Settings:     settingsSvc,
		Secrets:      secrets,
		SnapshotPath: snapshot.Path(),
		Metrics:      recorder,
		Close: func() error {
			return errors.Join(browsers.Close(), store.Close(), logger.Close())
		},
	}, nil
}
