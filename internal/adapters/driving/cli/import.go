package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/autojoin/internal/adapters/driven/calendar/google"
	"github.com/custodia-labs/autojoin/internal/adapters/driven/calendar/ics"
	"github.com/custodia-labs/autojoin/internal/adapters/driving/oauth"
	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
)

// authTimeout bounds the wait for the user to finish the consent screen.
const authTimeout = 5 * time.Minute

var gcalFlags struct {
	calendar string
	days     int
	reauth   bool
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import meetings from a calendar",
	Long: `Imports calendar events that carry a Zoom, Google Meet or Teams link.
Events already imported are skipped, so importing again is safe.`,
}

var importICSCmd = &cobra.Command{
	Use:   "ics <file>...",
	Short: "Import meetings from iCalendar files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runImportICS,
}

var importGCalCmd = &cobra.Command{
	Use:   "gcal",
	Short: "Import upcoming meetings from Google Calendar",
	Long: `Imports upcoming events from Google Calendar with read-only access.

An OAuth client must be configured first:
  autojoin settings set google.client_id <id>
  autojoin settings set google.client_secret <secret>

The first import opens the browser to grant access. The token is kept in the
system keyring and refreshed as needed.`,
	Args: cobra.NoArgs,
	RunE: runImportGCal,
}

func init() {
	importGCalCmd.Flags().StringVar(&gcalFlags.calendar, "calendar", google.DefaultCalendarID, "calendar id")
	importGCalCmd.Flags().IntVar(&gcalFlags.days, "days", 7, "how many days ahead to import")
	importGCalCmd.Flags().BoolVar(&gcalFlags.reauth, "auth", false, "grant access again even if a token is stored")

	importCmd.AddCommand(importICSCmd, importGCalCmd)
	rootCmd.AddCommand(importCmd)
}

func runImportICS(cmd *cobra.Command, args []string) error {
	meetings, err := meetingService()
	if err != nil {
		return err
	}

	var errs []error
	for _, path := range args {
		if err := runImport(cmd, meetings.Import, ics.NewImporter(path)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func runImportGCal(cmd *cobra.Command, _ []string) error {
	meetings, err := meetingService()
	if err != nil {
		return err
	}
	settingsSvc, err := settingsService()
	if err != nil {
		return err
	}
	if services.Secrets == nil {
		return errors.New("credential store not configured")
	}

	settings, err := settingsSvc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.Google.IsConfigured() {
		return errors.New("google OAuth client not configured; set google.client_id and google.client_secret")
	}

	ctx := commandContext(cmd)
	cfg := google.OAuthConfig(settings.Google.ClientID, settings.Google.ClientSecret, "")
	tokens := google.NewTokenStore(services.Secrets)

	_, err = tokens.Load(cfg.ClientID)
	if gcalFlags.reauth || errors.Is(err, google.ErrNotAuthorised) {
		if err := authoriseCalendar(ctx, cmd, cfg, tokens); err != nil {
			return err
		}
	} else if err != nil {
		return fmt.Errorf("failed to read calendar token: %w", err)
	}

	importer := google.NewImporter(cfg, tokens, google.Config{
		CalendarID: gcalFlags.calendar,
		Window:     time.Duration(gcalFlags.days) * 24 * time.Hour,
	})
	return runImport(cmd, meetings.Import, importer)
}

func authoriseCalendar(ctx context.Context, cmd *cobra.Command, cfg *oauth2.Config, tokens *google.TokenStore) error {
	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	flow := &oauth.Flow{
		Notify: func(url string) {
			cmd.Println("Opening the browser to grant calendar access. If it does not open, visit:")
			cmd.Println("  " + url)
		},
	}
	tok, err := flow.Authorise(ctx, cfg)
	if err != nil {
		return fmt.Errorf("calendar authorisation failed: %w", err)
	}
	if err := tokens.Save(cfg.ClientID, tok); err != nil {
		return fmt.Errorf("failed to store calendar token: %w", err)
	}
	cmd.Println("Calendar access granted.")
	return nil
}

type importFunc func(ctx context.Context, importer driven.CalendarImporter) (domain.ImportReport, error)

func runImport(cmd *cobra.Command, importFn importFunc, importer driven.CalendarImporter) error {
	report, err := importFn(commandContext(cmd), importer)
	if err != nil {
		return fmt.Errorf("import from %s failed: %w", importer.Name(), err)
	}
	printImportReport(cmd, report)
	return nil
}

func printImportReport(cmd *cobra.Command, r domain.ImportReport) {
	cmd.Printf("%s: %d added, %d already registered, %d rejected\n",
		r.Source, len(r.Added), r.Duplicates, len(r.Rejected))
	for _, id := range r.Added {
		cmd.Printf("  + %s\n", id)
	}
	for _, rej := range r.Rejected {
		cmd.Printf("  ! %s: %s\n", rej.ID, termStyles.Warning.Render(rej.Error))
	}
}
