// Command autojoin joins scheduled Zoom, Google Meet and Teams meetings.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/autojoin/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
