package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

var addFlags struct {
	id            string
	title         string
	platform      string
	start         string
	duration      time.Duration
	url           string
	meetingID     string
	password      string
	recurring     bool
	recurrence    string
	requiredEmail string
}

var listFlags struct {
	output   string
	upcoming bool
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a meeting",
	Long: `Registers a meeting to be joined automatically shortly before it starts.

The start time is RFC 3339 ("2025-03-02T10:00:00+01:00") or local time
("2025-03-02 10:00"). Zoom meetings may give --meeting-id instead of --url.

Examples:
  autojoin add --title "Standup" --platform meet \
      --start "2025-03-02 10:00" --duration 15m \
      --url https://meet.google.com/abc-defg-hij
  autojoin add --title "Review" --platform zoom --start "2025-03-02 15:00" \
      --meeting-id 123456789 --password s3cret --email me@work.example`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered meetings",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var removeCmd = &cobra.Command{
	Use:     "remove <meeting-id>...",
	Aliases: []string{"rm"},
	Short:   "Unregister meetings",
	Long: `Unregisters meetings and drops their pending join triggers.
A join attempt already under way is not interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

func init() {
	f := addCmd.Flags()
	f.StringVar(&addFlags.id, "id", "", "meeting id (default: generated)")
	f.StringVarP(&addFlags.title, "title", "t", "", "meeting title")
	f.StringVarP(&addFlags.platform, "platform", "p", "", "zoom, meet or teams")
	f.StringVarP(&addFlags.start, "start", "s", "", "start time")
	f.DurationVarP(&addFlags.duration, "duration", "d", time.Hour, "meeting length")
	f.StringVarP(&addFlags.url, "url", "u", "", "join link")
	f.StringVar(&addFlags.meetingID, "meeting-id", "", "platform meeting id (zoom)")
	f.StringVar(&addFlags.password, "password", "", "meeting passcode")
	f.BoolVar(&addFlags.recurring, "recurring", false, "the meeting repeats")
	f.StringVar(&addFlags.recurrence, "recurrence", "", "recurrence rule, informational")
	f.StringVar(&addFlags.requiredEmail, "email", "", "account that must be signed in to join")
	_ = addCmd.MarkFlagRequired("title")
	_ = addCmd.MarkFlagRequired("platform")
	_ = addCmd.MarkFlagRequired("start")

	listCmd.Flags().StringVarP(&listFlags.output, "output", "o", outputTable, "output format: table, json or yaml")
	listCmd.Flags().BoolVar(&listFlags.upcoming, "upcoming", false, "hide meetings that have ended")

	rootCmd.AddCommand(addCmd, listCmd, removeCmd)
}

func runAdd(cmd *cobra.Command, _ []string) error {
	meetings, err := meetingService()
	if err != nil {
		return err
	}

	platform, err := domain.ParsePlatform(addFlags.platform)
	if err != nil {
		return err
	}
	start, err := parseStart(addFlags.start)
	if err != nil {
		return err
	}

	m := domain.Meeting{
		ID:                addFlags.id,
		Title:             addFlags.title,
		Platform:          platform,
		StartTime:         start,
		Duration:          addFlags.duration,
		URL:               addFlags.url,
		MeetingID:         addFlags.meetingID,
		Password:          addFlags.password,
		Recurring:         addFlags.recurring || addFlags.recurrence != "",
		RecurrencePattern: addFlags.recurrence,
		RequiredEmail:     addFlags.requiredEmail,
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	added, err := meetings.Add(commandContext(cmd), m)
	if !added && err == nil {
		return fmt.Errorf("%w: meeting %s", domain.ErrAlreadyExists, m.ID)
	}
	if added {
		cmd.Printf("Added %s %q (%s) starting %s\n", m.ID, m.Title, platform.DisplayName(), formatLocal(m.StartTime))
	}
	if err != nil {
		return fmt.Errorf("failed to add meeting: %w", err)
	}
	return nil
}

// parseStart accepts RFC 3339 or a local "YYYY-MM-DD HH:MM[:SS]" time.
func parseStart(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 15:04:05", "2006-01-02T15:04", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: start time %q", domain.ErrInvalidInput, s)
}

func runList(cmd *cobra.Command, _ []string) error {
	if err := validateOutput(listFlags.output); err != nil {
		return err
	}
	meetings, err := meetingService()
	if err != nil {
		return err
	}

	now := time.Now()
	var list []domain.Meeting
	for _, m := range meetings.List(commandContext(cmd)) {
		if listFlags.upcoming && m.HasEnded(now) {
			continue
		}
		list = append(list, m)
	}

	if listFlags.output != outputTable {
		views := make([]meetingView, len(list))
		for i, m := range list {
			views[i] = toMeetingView(m)
		}
		return writeStructured(cmd, listFlags.output, views)
	}

	if len(list) == 0 {
		cmd.Println("No meetings registered.")
		return nil
	}
	rows := make([][]string, len(list))
	for i, m := range list {
		when := formatLocal(m.StartTime)
		if m.Recurring {
			when += " ↻"
		}
		rows[i] = []string{m.ID, truncate(m.Title, 32), m.Platform.DisplayName(), when, m.Duration.String(), m.RequiredEmail}
	}
	cmd.Println(renderTable([]string{"ID", "TITLE", "PLATFORM", "START", "LENGTH", "ACCOUNT"}, rows))
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	meetings, err := meetingService()
	if err != nil {
		return err
	}

	var errs []error
	for _, id := range args {
		removed, err := meetings.Remove(commandContext(cmd), id)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("remove %s: %w", id, err))
		case !removed:
			errs = append(errs, fmt.Errorf("%w: meeting %s", domain.ErrNotFound, id))
		default:
			cmd.Printf("Removed %s\n", id)
		}
	}
	return errors.Join(errs...)
}
