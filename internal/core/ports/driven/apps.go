package driven

import (
	"context"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

// AppProbe detects installed native meeting applications.
type AppProbe interface {
	// IsInstalled reports whether the platform's native app is present.
	IsInstalled(platform domain.Platform) bool

	// AppPath returns the executable or bundle path, or "" if none.
	AppPath(platform domain.Platform) string
}

// AppLauncher spawns a native application.
type AppLauncher interface {
	// Launch starts the application and returns once the process has been
	// spawned. It does not wait for the process to exit.
	Launch(ctx context.Context, path string, args []string) error
}
