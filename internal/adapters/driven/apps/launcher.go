package apps

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
)

// Ensure Launcher implements the interface.
var _ driven.AppLauncher = (*Launcher)(nil)

// Launcher spawns applications as detached child processes.
type Launcher struct {
	goos  string
	start func(cmd *exec.Cmd) error
}

// NewLauncher creates a launcher for the running OS.
func NewLauncher() *Launcher {
	return &Launcher{goos: runtime.GOOS, start: startDetached}
}

// Launch starts the app and returns once it has spawned. The app is not
// tied to ctx and keeps running after the attempt ends.
func (l *Launcher) Launch(ctx context.Context, path string, args []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cmd := l.command(path, args)
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("launch %s: %w", path, err)
	}
	return nil
}

// command builds the invocation. macOS bundles go through open(1).
func (l *Launcher) command(path string, args []string) *exec.Cmd {
	if l.goos == "darwin" && strings.HasSuffix(path, ".app") {
		openArgs := append([]string{"-a", path}, withArgs(args)...)
		return exec.Command("open", openArgs...)
	}
	return exec.Command(path, args...)
}

func withArgs(args []string) []string {
	if len(args) == 0 {
		return nil
	}
	return append([]string{"--args"}, args...)
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the child when it exits.
	go func() { _ = cmd.Wait() }()
	return nil
}
