package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyFlags struct {
	limit  int
	output string
}

var historyCmd = &cobra.Command{
	Use:   "history [meeting-id]",
	Short: "Show recent join attempts",
	Long: `Lists recorded join attempts, newest first, with the reason each failed
attempt failed. Give a meeting id to see only that meeting.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "maximum number of attempts")
	historyCmd.Flags().StringVarP(&historyFlags.output, "output", "o", outputTable, "output format: table, json or yaml")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := validateOutput(historyFlags.output); err != nil {
		return err
	}
	joiner, err := joinerService()
	if err != nil {
		return err
	}

	meetingID := ""
	if len(args) == 1 {
		meetingID = args[0]
	}

	results, err := joiner.History(commandContext(cmd), meetingID, historyFlags.limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if historyFlags.output != outputTable {
		views := make([]attemptView, len(results))
		for i, r := range results {
			views[i] = toAttemptView(r)
		}
		return writeStructured(cmd, historyFlags.output, views)
	}

	if len(results) == 0 {
		cmd.Println("No join attempts recorded.")
		return nil
	}
	rows := make([][]string, len(results))
	for i, r := range results {
		outcome := termStyles.Outcome(true, "joined")
		if !r.Success {
			outcome = termStyles.Outcome(false, string(r.Reason))
		}
		rows[i] = []string{formatLocal(r.StartedAt), truncate(r.Title, 32), r.Platform.DisplayName(), r.Path.String(), outcome}
	}
	cmd.Println(renderTable([]string{"WHEN", "TITLE", "PLATFORM", "PATH", "RESULT"}, rows))
	return nil
}
