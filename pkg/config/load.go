// Package config handles configuration loading and validation
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/release-ci-toolkit/release-runner/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Default config file names to search for
var defaultConfigFiles = []string{
	".release-runner.yaml",
	".release-runner.yml",
	"release-runner.yaml",
	"release-runner.yml",
}

// Load loads configuration from a specific file path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to read config file: %s", path), err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to parse config file: %s", path), err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, errors.ConfigError("config validation failed", err)
	}

	return &cfg, nil
}

// LoadDefault searches for and loads configuration from default locations
// Search order:
// 1. Current directory
// 2. Parent directories (up to root)
// 3. User home directory (.config/release-runner/)
func LoadDefault() (*Config, error) {
	if cfg, err := findInParents("."); err == nil {
		return cfg, nil
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(homeDir, ".config", "release-runner", "config.yaml")
		if cfg, err := Load(userConfigPath); err == nil {
			return cfg, nil
		}
	}

	// No config found - return the default config
	cfg := defaultConfig()
	return cfg, nil
}

// LoadFromEnv loads config from environment variable path.
// RELEASE_RUNNER_CONFIG can override the config file path. A .env file in
// the working directory is loaded first so local runs can carry registry
// credentials without exporting them.
func LoadFromEnv() (*Config, error) {
	// Missing .env is the normal case in CI.
	_ = godotenv.Load()

	if path := os.Getenv("RELEASE_RUNNER_CONFIG"); path != "" {
		return Load(path)
	}
	return LoadDefault()
}

// findInParents searches for config file in current directory and parent directories
func findInParents(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		for _, filename := range defaultConfigFiles {
			configPath := filepath.Join(dir, filename)
			if _, err := os.Stat(configPath); err == nil {
				return Load(configPath)
			}
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			// Reached root
			break
		}
		dir = parentDir
	}

	return nil, errors.ConfigError("no config file found", nil)
}

// LoadWithOverrides loads config and applies environment variable overrides
func LoadWithOverrides(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if val := os.Getenv("RELEASE_RUNNER_LOG_LEVEL"); val != "" {
		cfg.Global.LogLevel = val
	}
	if val := os.Getenv("RELEASE_RUNNER_DIST_DIR"); val != "" {
		cfg.Output.DistDir = val
	}
	if val := os.Getenv("RELEASE_RUNNER_BUILD_DIR"); val != "" {
		cfg.Output.BuildDir = val
	}
	if val := os.Getenv("RELEASE_RUNNER_ENV_MANAGER"); val != "" {
		cfg.Env.Manager = val
	}

	return cfg, nil
}
