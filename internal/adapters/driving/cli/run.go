package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/autojoin/internal/adapters/driving/watcher"
)

// defaultShutdownGrace bounds the wait for in-flight join attempts on exit.
const defaultShutdownGrace = 3 * time.Minute

var runFlags struct {
	metricsAddr string
	noWatch     bool
	grace       time.Duration
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Join meetings as they come up",
	Long: `Runs the scheduler in the foreground and joins each registered meeting
shortly before it starts. Changes made by other autojoin commands while it
runs are picked up automatically.

Stop with Ctrl+C. Join attempts already under way are left to finish, for
at most --shutdown-grace; press Ctrl+C again to quit without waiting.`,
	Args: cobra.NoArgs,
	RunE: runScheduler,
}

func init() {
	runCmd.Flags().StringVar(&runFlags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (overrides metrics.addr)")
	runCmd.Flags().BoolVar(&runFlags.noWatch, "no-watch", false, "do not reload the meeting file when it changes")
	runCmd.Flags().DurationVar(&runFlags.grace, "shutdown-grace", defaultShutdownGrace, "how long to wait for join attempts in progress when stopping")
	rootCmd.AddCommand(runCmd)
}

func runScheduler(cmd *cobra.Command, _ []string) error {
	meetings, err := meetingService()
	if err != nil {
		return err
	}
	if services.Scheduler == nil {
		return errors.New("scheduler not configured")
	}
	scheduler := services.Scheduler

	metricsAddr := runFlags.metricsAddr
	if metricsAddr == "" {
		if settingsSvc, err := settingsService(); err == nil {
			if settings, err := settingsSvc.Get(); err == nil {
				metricsAddr = settings.Metrics.Addr
			}
		}
	}

	base := commandContext(cmd)
	sigCtx, stop := signal.NotifyContext(base, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		err := scheduler.Start(base)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		return scheduler.Stop()
	})
	if !runFlags.noWatch && services.SnapshotPath != "" {
		g.Go(func() error {
			return watcher.New(services.SnapshotPath, meetings).Run(gctx)
		})
	}
	if metricsAddr != "" && services.Metrics != nil {
		g.Go(func() error {
			return services.Metrics.Serve(gctx, metricsAddr)
		})
		cmd.Printf("Metrics on http://%s/metrics\n", metricsAddr)
	}

	printPending(cmd)
	cmd.Println("Waiting for meetings. Press Ctrl+C to stop.")

	runErr := g.Wait()
	stop()
	if err := waitForAttempts(cmd, base, scheduler.WaitIdle); err != nil {
		return errors.Join(runErr, err)
	}
	if runErr != nil {
		return fmt.Errorf("scheduler stopped: %w", runErr)
	}
	cmd.Println("Stopped.")
	return nil
}

// waitForAttempts lets in-flight join attempts finish. The wait ends after
// the grace period or on a second interrupt.
func waitForAttempts(cmd *cobra.Command, base context.Context, waitIdle func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(base), runFlags.grace)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Println("Waiting for join attempts in progress. Press Ctrl+C again to quit now.")
	if err := waitIdle(ctx); err != nil {
		return fmt.Errorf("join attempts still running at exit: %w", err)
	}
	return nil
}

func printPending(cmd *cobra.Command) {
	pending := services.Scheduler.Pending()
	if len(pending) == 0 {
		cmd.Println("No meetings scheduled.")
		return
	}
	rows := make([][]string, len(pending))
	for i, t := range pending {
		rows[i] = []string{formatLocal(t.FireTime), truncate(t.Title, 40), t.Platform.DisplayName()}
	}
	cmd.Println(renderTable([]string{"JOINS AT", "TITLE", "PLATFORM"}, rows))
}
