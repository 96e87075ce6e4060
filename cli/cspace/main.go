// Package main is the cspace command itself.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"go.viam.com/cspace/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := cli.Run(ctx, os.Args, os.Stdout, os.Stderr); err != nil {
		//nolint:errcheck
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		//nolint:gocritic
		os.Exit(1)
	}
}
