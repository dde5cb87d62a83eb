// Package config handles configuration loading and validation
package config

import (
	"fmt"
	"regexp"
	"strings"
)

// envNamePattern matches a well-formed environment variable name. The
// credential fields name a variable, never a literal secret, and this is
// how we catch a pasted token early.
var envNamePattern = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)

// Validate validates the configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}

	if c.Version == "" {
		return fmt.Errorf("config version is required")
	}

	if err := c.Commands.Validate(); err != nil {
		return fmt.Errorf("commands: %w", err)
	}

	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	if err := c.Registries.Validate(); err != nil {
		return fmt.Errorf("registries: %w", err)
	}

	if err := c.Env.Validate(); err != nil {
		return fmt.Errorf("env: %w", err)
	}

	if err := c.Global.Validate(); err != nil {
		return fmt.Errorf("global: %w", err)
	}

	return nil
}

// Validate validates the command declarations.
func (c *CommandsConfig) Validate() error {
	for name, argv := range map[string][]string{
		"install":     c.Install,
		"test":        c.Test,
		"build_wheel": c.BuildWheel,
		"build_conda": c.BuildConda,
	} {
		if len(argv) == 0 {
			return fmt.Errorf("%s command is required", name)
		}
		if strings.TrimSpace(argv[0]) == "" {
			return fmt.Errorf("%s command has an empty binary name", name)
		}
	}
	return nil
}

// Validate validates the output directories.
func (c *OutputConfig) Validate() error {
	if c.DistDir == "" {
		return fmt.Errorf("dist_dir is required")
	}
	if c.BuildDir == "" {
		return fmt.Errorf("build_dir is required")
	}
	if c.DistDir == c.BuildDir {
		return fmt.Errorf("dist_dir and build_dir must differ")
	}
	return nil
}

// Validate validates the registry settings.
func (c *RegistriesConfig) Validate() error {
	if c.WheelIndex.Tool == "" {
		return fmt.Errorf("wheel_index.tool is required")
	}
	if err := validateEnvName("wheel_index.token_env", c.WheelIndex.TokenEnv); err != nil {
		return err
	}
	if c.CondaRegistry.Tool == "" {
		return fmt.Errorf("conda_registry.tool is required")
	}
	if err := validateEnvName("conda_registry.user_env", c.CondaRegistry.UserEnv); err != nil {
		return err
	}
	return validateEnvName("conda_registry.password_env", c.CondaRegistry.PasswordEnv)
}

// Validate validates the build environment settings.
func (c *BuildEnvConfig) Validate() error {
	if c.Manager == "" {
		return fmt.Errorf("manager is required")
	}
	if c.NamePrefix == "" {
		return fmt.Errorf("name_prefix is required")
	}
	return nil
}

// Validate validates the global settings.
func (c *GlobalConfig) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	if c.StepTimeout < 0 {
		return fmt.Errorf("step_timeout must not be negative")
	}
	return nil
}

func validateEnvName(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	if !envNamePattern.MatchString(value) {
		return fmt.Errorf("%s must name an environment variable, got %q", field, value)
	}
	return nil
}
