// Command userform manages the user registry from the terminal and serves
// the HTTP form and JSON API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(newApp(os.Stdout, os.Stderr))
	root.Version = fmt.Sprintf("%s (commit: %s)", version, commit)
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
