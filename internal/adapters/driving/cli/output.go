package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/autojoin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/autojoin/internal/core/domain"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

var termStyles = styles.DefaultStyles()

// meetingView is the serialised form of a meeting in list output.
type meetingView struct {
	ID            string `json:"id" yaml:"id"`
	Title         string `json:"title" yaml:"title"`
	Platform      string `json:"platform" yaml:"platform"`
	StartTime     string `json:"start_time" yaml:"start_time"`
	Duration      string `json:"duration" yaml:"duration"`
	URL           string `json:"url,omitempty" yaml:"url,omitempty"`
	MeetingID     string `json:"meeting_id,omitempty" yaml:"meeting_id,omitempty"`
	Recurring     bool   `json:"recurring,omitempty" yaml:"recurring,omitempty"`
	Recurrence    string `json:"recurrence,omitempty" yaml:"recurrence,omitempty"`
	RequiredEmail string `json:"required_email,omitempty" yaml:"required_email,omitempty"`
}

func toMeetingView(m domain.Meeting) meetingView {
	return meetingView{
		ID:            m.ID,
		Title:         m.Title,
		Platform:      m.Platform.String(),
		StartTime:     m.StartTime.Format(time.RFC3339),
		Duration:      m.Duration.String(),
		URL:           m.URL,
		MeetingID:     m.MeetingID,
		Recurring:     m.Recurring,
		Recurrence:    m.RecurrencePattern,
		RequiredEmail: m.RequiredEmail,
	}
}

// attemptView is the serialised form of a join attempt in history output.
type attemptView struct {
	MeetingID string `json:"meeting_id" yaml:"meeting_id"`
	Title     string `json:"title" yaml:"title"`
	Platform  string `json:"platform" yaml:"platform"`
	Path      string `json:"path" yaml:"path"`
	Account   string `json:"account,omitempty" yaml:"account,omitempty"`
	StartedAt string `json:"started_at" yaml:"started_at"`
	Duration  string `json:"duration" yaml:"duration"`
	Success   bool   `json:"success" yaml:"success"`
	Reason    string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

func toAttemptView(r domain.JoinResult) attemptView {
	return attemptView{
		MeetingID: r.MeetingID,
		Title:     r.Title,
		Platform:  r.Platform.String(),
		Path:      r.Path.String(),
		Account:   r.Account,
		StartedAt: r.StartedAt.Format(time.RFC3339),
		Duration:  r.Duration().Round(time.Millisecond).String(),
		Success:   r.Success,
		Reason:    string(r.Reason),
		Error:     r.Error,
	}
}

func validateOutput(format string) error {
	switch format {
	case outputTable, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("%w: output must be table, json or yaml", domain.ErrInvalidInput)
	}
}

// writeStructured prints v as JSON or YAML.
func writeStructured(cmd *cobra.Command, format string, v any) error {
	switch format {
	case outputJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		cmd.Println(string(data))
	case outputYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		cmd.Print(string(data))
	}
	return nil
}

// renderTable draws a bordered table with a styled header row.
func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(termStyles.Theme().Border)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return termStyles.Label.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...)
	return t.Render()
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}

func formatLocal(t time.Time) string {
	return t.Local().Format("Mon 02 Jan 15:04")
}
