// Package main provides the release-runner CLI application.
package main

import (
	"fmt"
	"os"

	"github.com/release-ci-toolkit/release-runner/pkg/output"
	"github.com/release-ci-toolkit/release-runner/pkg/pipeline"
	"github.com/release-ci-toolkit/release-runner/pkg/release"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the release publishing pipeline",
	Long: `Run the release publishing pipeline for one platform or the
whole matrix.

Each platform runs independently: its own build environment, its own
artifacts, its own pass/fail status. A pre-release routes the package
upload to the dev label; a stable release publishes unlabeled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pub := pipeline.NewWithOptions(&pipeline.Options{
			ConfigPath: rootOpts.config,
			Verbose:    rootOpts.verbose,
			LogJSON:    rootOpts.logJSON,
		})

		ctx := cmd.Context()
		if err := pub.Bootstrap(ctx); err != nil {
			return err
		}
		defer func() { _ = pub.Shutdown(ctx) }()

		if runOpts.parallel {
			pub.Config().Global.Parallel = true
		}

		event := release.Event{
			Tag:        runOpts.tag,
			Prerelease: runOpts.prerelease,
		}

		platforms := release.AllPlatforms
		if runOpts.platform != "" {
			platform, err := release.ParsePlatform(runOpts.platform)
			if err != nil {
				return err
			}
			platforms = []release.Platform{platform}
		}

		if runOpts.dryRun {
			for _, platform := range platforms {
				plan, err := pub.DescribePlan(platform, event)
				if err != nil {
					return err
				}
				fmt.Printf("%s:\n", platform)
				for _, line := range plan {
					fmt.Printf("  %s\n", line)
				}
			}
			return nil
		}

		results, err := pub.PublishMatrix(ctx, platforms, event)
		reporter := output.NewReporter(os.Stdout)
		reporter.ReportAll(results)
		if rootOpts.verbose {
			reporter.ReportTotals(results, pub.Metrics())
		}

		if runOpts.summaryFile != "" {
			if werr := output.WriteSummary(runOpts.summaryFile, runOpts.summaryFormat, results); werr != nil && err == nil {
				err = werr
			}
		}
		return err
	},
}

// runFlags holds the flags for the run command
type runFlags struct {
	platform      string
	tag           string
	prerelease    bool
	dryRun        bool
	parallel      bool
	summaryFile   string
	summaryFormat string
}

var runOpts runFlags

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runOpts.platform, "platform", "p", "", "Platform to run (linux, windows); default is the full matrix")
	runCmd.Flags().StringVarP(&runOpts.tag, "tag", "t", "", "Release tag being published")
	runCmd.Flags().BoolVar(&runOpts.prerelease, "prerelease", false, "Mark the release as a pre-release (dev channel)")
	runCmd.Flags().BoolVar(&runOpts.dryRun, "dry-run", false, "Show the resolved step plan without executing it")
	runCmd.Flags().BoolVar(&runOpts.parallel, "parallel", false, "Run the platform matrix concurrently")
	runCmd.Flags().StringVar(&runOpts.summaryFile, "summary-file", "", "Write a job summary to this file (e.g. $GITHUB_STEP_SUMMARY)")
	runCmd.Flags().StringVar(&runOpts.summaryFormat, "summary-format", "markdown", "Job summary format (text, markdown)")
}
