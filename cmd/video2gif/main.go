// Package main provides the video2gif command line interface.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/video2gif/internal/deps"
	apperrors "github.com/five82/video2gif/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			if apperrors.IsDependencyMissing(err) {
				fmt.Fprintln(os.Stderr, deps.InstallHint())
			}
		}
		os.Exit(1)
	}
}
