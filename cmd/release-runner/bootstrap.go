// Package main provides the release-runner CLI application.
package main

import (
	"github.com/release-ci-toolkit/release-runner/pkg/bootstrap"
	"github.com/release-ci-toolkit/release-runner/pkg/config"
	"github.com/release-ci-toolkit/release-runner/pkg/observability"
	"github.com/release-ci-toolkit/release-runner/pkg/runner"
	"github.com/spf13/cobra"
)

// bootstrapCmd represents the bootstrap command
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Install the fallback dependency set",
	Long: `Install the fallback dependency set via the ecosystem installer.

This is a standalone operational helper for environments where the
manager has disabled the installer's package index: it installs the
configured packages (with their exact pins) directly. The publish
pipeline never runs it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg *config.Config
		var err error
		if rootOpts.config != "" {
			cfg, err = config.LoadWithOverrides(rootOpts.config)
		} else {
			cfg, err = config.LoadFromEnv()
		}
		if err != nil {
			return err
		}

		logLevel := cfg.Global.LogLevel
		if rootOpts.verbose {
			logLevel = "debug"
		}
		logger := observability.NewLogger(logLevel, rootOpts.logJSON)

		installer := bootstrap.NewInstaller(cfg.Bootstrap, runner.NewExecRunner(), logger)
		return installer.Install(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
}
