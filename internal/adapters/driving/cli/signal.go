package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// waitForInterrupt blocks until SIGINT, SIGTERM or ctx is done.
func waitForInterrupt(ctx context.Context) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
}
