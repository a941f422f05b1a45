package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in config.toml in the data directory.

Use "settings keys" to list the keys "settings set" accepts.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Changes one setting. Durations are given in seconds.

Examples:
  autojoin settings set scheduler.lead_time_seconds 120
  autojoin settings set join.mismatch_policy switch
  autojoin settings set join.force_browser true`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}
	s, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println(termStyles.Title.Render("Current Settings"))
	cmd.Println()

	cmd.Println("[Scheduler]")
	cmd.Printf("  Lead time: %s\n", s.Scheduler.LeadTime)
	cmd.Printf("  Wake interval: %s\n", s.Scheduler.WakeInterval)
	cmd.Printf("  Concurrent joins: %d\n", s.Scheduler.MaxConcurrentJoins)
	cmd.Println()

	cmd.Println("[Join]")
	cmd.Printf("  Force browser: %t\n", s.Join.ForceBrowser)
	cmd.Printf("  Display name: %s\n", s.Join.DisplayName)
	cmd.Printf("  Step timeout: %s\n", s.Join.StepTimeout)
	cmd.Printf("  Headless: %t\n", s.Join.Headless)
	cmd.Printf("  Browser: %s\n", orDefault(s.Join.BrowserPath, "(auto)"))
	cmd.Printf("  Account mismatch: %s\n", describePolicy(s.Join.MismatchPolicy))
	cmd.Println()

	cmd.Println("[Google Calendar]")
	cmd.Printf("  Client ID: %s\n", orDefault(s.Google.ClientID, "(not set)"))
	if s.Google.ClientSecret != "" {
		cmd.Printf("  Client secret: %s\n", maskSecret(s.Google.ClientSecret))
	} else {
		cmd.Println("  Client secret: (not set)")
	}
	cmd.Println()

	cmd.Println("[Logging]")
	cmd.Printf("  Level: %s\n", s.Log.Level)
	cmd.Printf("  Format: %s\n", s.Log.Format)
	cmd.Printf("  File: %s\n", orDefault(s.Log.File, "(none)"))
	cmd.Println()

	cmd.Println("[Metrics]")
	cmd.Printf("  Address: %s\n", orDefault(s.Metrics.Addr, "(disabled)"))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}
	if err := svc.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("%s updated.\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}
	for _, k := range svc.Keys() {
		cmd.Println(k)
	}
	return nil
}

func describePolicy(p domain.MismatchPolicy) string {
	switch p {
	case domain.PolicyPrompt:
		return "prompt (ask when a terminal is attached, otherwise abort)"
	case domain.PolicySwitch:
		return "switch (sign in with the required account)"
	case domain.PolicyKeep:
		return "keep (join with the signed-in account)"
	case domain.PolicyAbort:
		return "abort (do not join)"
	default:
		return string(p)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func maskSecret(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
