// Package bootstrap installs the fallback dependency set.
//
// Some environment managers disable the ecosystem installer's package
// index, leaving a handful of dependencies uninstallable from the primary
// manifest. This installer puts them in place directly. It is a
// standalone operational helper: the release publisher never invokes it.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/release-ci-toolkit/release-runner/pkg/config"
	"github.com/release-ci-toolkit/release-runner/pkg/errors"
	"github.com/release-ci-toolkit/release-runner/pkg/observability"
	"github.com/release-ci-toolkit/release-runner/pkg/runner"
)

// Installer installs the configured fallback packages.
type Installer struct {
	cfg    config.BootstrapConfig
	cmd    runner.CommandRunner
	logger observability.Logger
}

// NewInstaller creates a new fallback installer.
func NewInstaller(cfg config.BootstrapConfig, cmd runner.CommandRunner, logger observability.Logger) *Installer {
	return &Installer{cfg: cfg, cmd: cmd, logger: logger}
}

// Install runs the installer over the configured package list. Pinned
// entries (name==version) install exactly that version.
func (i *Installer) Install(ctx context.Context) error {
	if len(i.cfg.Packages) == 0 {
		return errors.ConfigError("no fallback packages configured", nil)
	}
	if len(i.cfg.Installer) == 0 {
		return errors.ConfigError("no installer command configured", nil)
	}

	argv := append(append([]string{}, i.cfg.Installer...), i.cfg.Packages...)

	i.logger.Info("installing fallback packages",
		observability.Int("count", len(i.cfg.Packages)),
		observability.String("installer", argv[0]),
	)

	if _, err := i.cmd.Run(ctx, runner.Spec{Name: argv[0], Args: argv[1:]}); err != nil {
		return errors.EnvError(fmt.Sprintf("fallback install failed (%d packages)", len(i.cfg.Packages)), err)
	}
	return nil
}

// Packages returns the configured package list.
func (i *Installer) Packages() []string {
	return i.cfg.Packages
}
