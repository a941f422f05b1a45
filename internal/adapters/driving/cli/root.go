// Package cli is the autojoin command line, built on cobra.
//
// Commands reach the core through the driving ports held in Services.
// The services are built lazily by a Bootstrap function supplied by main,
// so global flags such as --data-dir are parsed before any store is opened.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
	"github.com/custodia-labs/autojoin/internal/core/ports/driving"
	"github.com/custodia-labs/autojoin/internal/logger"
)

// version is set at build time.
var version = "dev"

// MetricsServer exposes metrics while the scheduler runs.
type MetricsServer interface {
	Serve(ctx context.Context, addr string) error
}

// Services are the collaborators commands call.
type Services struct {
	Meetings    driving.MeetingService
	Scheduler   driving.Scheduler
	Joiner      driving.Joiner
	Credentials driving.CredentialsService
	Settings    driving.SettingsService

	// Secrets holds calendar OAuth tokens.
	Secrets driven.CredentialStore

	// SnapshotPath is the meeting snapshot the run command watches.
	SnapshotPath string

	// Metrics is optional.
	Metrics MetricsServer

	// Close releases whatever Bootstrap opened. Optional.
	Close func() error
}

// Options are the global flags handed to Bootstrap.
type Options struct {
	DataDir string
	Verbose bool
}

// Bootstrap builds the services once flags are parsed.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

// skipServices marks commands that run without services.
const skipServices = "skip-services"

var (
	flagVerbose bool
	flagDataDir string

	bootstrap Bootstrap
	services  *Services
)

var rootCmd = &cobra.Command{
	Use:   "autojoin",
	Short: "Join scheduled online meetings automatically",
	Long: `autojoin keeps a list of your Zoom, Google Meet and Teams meetings and
joins each one shortly before it starts, using the installed app when there
is one and a controlled browser otherwise.

Register meetings with "add" or "import", then keep "run" going in the
background.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "print detailed progress")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.autojoin)")
}

// SetBootstrap installs the function that builds services.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)
	if cmd.Annotations[skipServices] == "true" || services != nil {
		return nil
	}
	if bootstrap == nil {
		return errors.New("services not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := bootstrap(ctx, Options{DataDir: flagDataDir, Verbose: flagVerbose})
	if err != nil {
		return err
	}
	services = s
	return nil
}

func closeServices() {
	if services != nil && services.Close != nil {
		if err := services.Close(); err != nil {
			logger.Warn("closing services: %v", err)
		}
	}
	services = nil
}

func meetingService() (driving.MeetingService, error) {
	if services == nil || services.Meetings == nil {
		return nil, errors.New("meeting service not configured")
	}
	return services.Meetings, nil
}

func joinerService() (driving.Joiner, error) {
	if services == nil || services.Joiner == nil {
		return nil, errors.New("joiner not configured")
	}
	return services.Joiner, nil
}

func settingsService() (driving.SettingsService, error) {
	if services == nil || services.Settings == nil {
		return nil, errors.New("settings service not configured")
	}
	return services.Settings, nil
}

func credentialsService() (driving.CredentialsService, error) {
	if services == nil || services.Credentials == nil {
		return nil, errors.New("credentials service not configured")
	}
	return services.Credentials, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
