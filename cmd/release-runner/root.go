// Package main provides the release-runner CLI application.
package main

import (
	"errors"

	runnererrors "github.com/release-ci-toolkit/release-runner/pkg/errors"
	"github.com/release-ci-toolkit/release-runner/pkg/runner"
	"github.com/release-ci-toolkit/release-runner/pkg/version"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "release-runner",
	Short: "Release publishing pipeline runner",
	Long: `Release publishing pipeline runner.

Triggered on a published release, the runner drives the per-platform
publish pipeline: isolated build environment, dependency install, test
suite, wheel and conda package builds, and uploads to the package index
and the package registry.`,
	Version:       version.FullString(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// rootFlags holds the persistent flags shared by all subcommands.
type rootFlags struct {
	config  string
	verbose bool
	logJSON bool
}

var rootOpts rootFlags

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootOpts.config, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&rootOpts.verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&rootOpts.logJSON, "log-json", false, "Output logs in JSON format")
}

// exitCode maps an error to the binary's exit code.
func exitCode(err error) int {
	if err == nil {
		return runner.ExitSuccess
	}
	if errors.Is(err, runner.ErrTimeout) {
		return runner.ExitTimeout
	}

	var runErr *runnererrors.RunnerError
	if errors.As(err, &runErr) {
		switch runErr.Type {
		case runnererrors.ErrConfig, runnererrors.ErrValidation:
			return runner.ExitConfigError
		case runnererrors.ErrEnv:
			return runner.ExitEnvError
		case runnererrors.ErrTest:
			return runner.ExitTestFailure
		case runnererrors.ErrBuild:
			return runner.ExitBuildError
		case runnererrors.ErrUpload, runnererrors.ErrAuth:
			return runner.ExitUploadError
		case runnererrors.ErrTimeout:
			return runner.ExitTimeout
		}
	}
	return runner.ExitConfigError
}
