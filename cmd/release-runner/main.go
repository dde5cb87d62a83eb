// Package main is the entry point for the release-runner CLI.
package main

import (
	gocontext "context"
	"os"
	"syscall"

	"github.com/release-ci-toolkit/release-runner/pkg/context"
)

func main() {
	ctx, cancel := context.WithSignal(gocontext.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(exitCode(err))
	}
}
