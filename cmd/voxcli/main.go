// Package main provides the voxcli process entrypoint.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"voxcli/internal/cli"
)

// main wires process signal handling to the command dispatcher.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exitCode := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Stdin)
	os.Exit(exitCode)
}
