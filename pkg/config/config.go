// Package config provides configuration management for release-runner.
//
// Configuration Loading Order (later overrides earlier):
// 1. Defaults (hardcoded)
// 2. Project Config: ./.release-runner.yaml (searched upward)
// 3. User Config: $HOME/.config/release-runner/config.yaml
// 4. Environment Variables: RELEASE_RUNNER_*
package config

import (
	"time"
)

// Config represents the complete pipeline configuration.
type Config struct {
	Version    string           `yaml:"version"`
	Project    ProjectConfig    `yaml:"project"`
	Commands   CommandsConfig   `yaml:"commands"`
	Output     OutputConfig     `yaml:"output"`
	Registries RegistriesConfig `yaml:"registries"`
	Env        BuildEnvConfig   `yaml:"env"`
	Bootstrap  BootstrapConfig  `yaml:"bootstrap"`
	Hooks      HooksConfig      `yaml:"hooks,omitempty"`
	Global     GlobalConfig     `yaml:"global"`
}

// ProjectConfig identifies the project being released.
type ProjectConfig struct {
	Name string `yaml:"name"`
	// ManifestPath is the dependency manifest consumed by the install
	// step. Its contents are opaque to the runner.
	ManifestPath string `yaml:"manifest_path"`
}

// CommandsConfig declares the external entry points the pipeline drives.
// Each entry is an argv list; the runner never shells out through a
// string, so no quoting rules apply.
type CommandsConfig struct {
	Install    []string `yaml:"install"`
	Test       []string `yaml:"test"`
	BuildWheel []string `yaml:"build_wheel"`
	BuildConda []string `yaml:"build_conda"`
}

// OutputConfig declares where build steps write artifacts.
type OutputConfig struct {
	// DistDir receives wheel artifacts (dist/*.whl).
	DistDir string `yaml:"dist_dir"`
	// BuildDir receives conda packages under a platform-named
	// subdirectory (build/linux-64, build/win-64).
	BuildDir string `yaml:"build_dir"`
}

// RegistriesConfig groups the two upload targets.
type RegistriesConfig struct {
	WheelIndex    WheelIndexConfig    `yaml:"wheel_index"`
	CondaRegistry CondaRegistryConfig `yaml:"conda_registry"`
}

// WheelIndexConfig configures the language-ecosystem package index.
// Credentials are referenced by environment variable name only; literal
// secrets in config files are rejected by validation.
type WheelIndexConfig struct {
	Tool          string `yaml:"tool"`
	RepositoryURL string `yaml:"repository_url,omitempty"`
	TokenEnv      string `yaml:"token_env"` // e.g. "PYPI_TOKEN"
}

// CondaRegistryConfig configures the conda-style package hosting service.
type CondaRegistryConfig struct {
	Tool        string `yaml:"tool"`
	UserEnv     string `yaml:"user_env"`     // e.g. "ANACONDA_LOGIN"
	PasswordEnv string `yaml:"password_env"` // e.g. "ANACONDA_PASSWORD"
}

// BuildEnvConfig configures the isolated build environment.
type BuildEnvConfig struct {
	// Manager is the environment manager binary (conda-compatible).
	Manager string `yaml:"manager"`
	// NamePrefix prefixes the per-run environment name.
	NamePrefix string `yaml:"name_prefix"`
	// PythonVersion pins the interpreter inside the environment.
	PythonVersion string `yaml:"python_version,omitempty"`
}

// BootstrapConfig configures the standalone fallback installer. It is a
// separately invoked operational helper and is never run by the publisher
// pipeline itself.
type BootstrapConfig struct {
	// Packages are installed via the ecosystem installer, bypassing the
	// primary manifest. Entries may carry exact version pins.
	Packages []string `yaml:"packages"`
	// Installer is the installer argv prefix (defaults to pip install).
	Installer []string `yaml:"installer,omitempty"`
}

// HooksConfig maps hook events to command hooks (argv lists).
type HooksConfig map[string][][]string

// GlobalConfig contains global runner settings.
type GlobalConfig struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
	LogJSON  bool   `yaml:"log_json"`
	// StepTimeout bounds a single pipeline step; zero means no limit
	// beyond the run context.
	StepTimeout time.Duration `yaml:"step_timeout"`
	// Parallel enables concurrent platform matrix execution.
	Parallel bool `yaml:"parallel"`
}
