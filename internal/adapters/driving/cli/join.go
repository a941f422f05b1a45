package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

var joinFlags struct {
	noWait bool
}

var joinCmd = &cobra.Command{
	Use:   "join <meeting-id>",
	Short: "Join a registered meeting now",
	Long: `Runs one join attempt immediately, ignoring the schedule.

When the meeting is joined in the controlled browser, the command keeps the
browser open until Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runJoin,
}

func init() {
	joinCmd.Flags().BoolVar(&joinFlags.noWait, "no-wait", false, "exit as soon as the attempt ends")
	rootCmd.AddCommand(joinCmd)
}

func runJoin(cmd *cobra.Command, args []string) error {
	meetings, err := meetingService()
	if err != nil {
		return err
	}
	joiner, err := joinerService()
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	m, err := meetings.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to find meeting: %w", err)
	}

	cmd.Printf("Joining %q on %s...\n", m.Title, m.Platform.DisplayName())
	result := joiner.Join(ctx, m)
	if !result.Success {
		return fmt.Errorf("join failed (%s): %s", result.Reason, result.Error)
	}

	cmd.Printf("%s via %s", termStyles.Outcome(true, "Joined"), result.Path)
	if result.Account != "" {
		cmd.Printf(" as %s", result.Account)
	}
	cmd.Println()

	if result.Path == domain.JoinPathBrowser && !joinFlags.noWait {
		cmd.Println("Press Ctrl+C to leave.")
		waitForInterrupt(ctx)
	}
	return nil
}
