package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".release-runner.yaml")
	content := `version: "1.0"
project:
  name: imaging-toolkit
  manifest_path: environment.yml
commands:
  install: [pip, install, -r, requirements.txt]
  test: [pytest, -x, tests/]
  build_wheel: [python, setup.py, bdist_wheel]
  build_conda: [conda, build, .conda]
output:
  dist_dir: dist
  build_dir: build
registries:
  wheel_index:
    tool: twine
    repository_url: https://pypi.internal.example/simple
    token_env: PYPI_TOKEN
  conda_registry:
    tool: anaconda
    user_env: ANACONDA_LOGIN
    password_env: ANACONDA_PASSWORD
env:
  manager: conda
  name_prefix: release-build
  python_version: "3.8"
global:
  log_level: debug
  step_timeout: 15m
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Project.Name != "imaging-toolkit" {
		t.Errorf("project name = %q", cfg.Project.Name)
	}
	if len(cfg.Commands.Test) != 3 || cfg.Commands.Test[0] != "pytest" {
		t.Errorf("test command = %v", cfg.Commands.Test)
	}
	if cfg.Registries.WheelIndex.RepositoryURL != "https://pypi.internal.example/simple" {
		t.Errorf("repository_url = %q", cfg.Registries.WheelIndex.RepositoryURL)
	}
	if cfg.Env.PythonVersion != "3.8" {
		t.Errorf("python_version = %q", cfg.Env.PythonVersion)
	}
	if cfg.Global.StepTimeout != 15*time.Minute {
		t.Errorf("step_timeout = %v", cfg.Global.StepTimeout)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".release-runner.yaml")
	// Minimal config: everything else comes from defaults.
	content := `project:
  name: minimal
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Version != "1.0" {
		t.Errorf("default version = %q", cfg.Version)
	}
	if cfg.Registries.WheelIndex.Tool != "twine" {
		t.Errorf("default wheel tool = %q", cfg.Registries.WheelIndex.Tool)
	}
	if cfg.Registries.CondaRegistry.UserEnv != "ANACONDA_LOGIN" {
		t.Errorf("default user_env = %q", cfg.Registries.CondaRegistry.UserEnv)
	}
	if cfg.Env.NamePrefix != "release-build" {
		t.Errorf("default name_prefix = %q", cfg.Env.NamePrefix)
	}
	if cfg.Global.StepTimeout != 30*time.Minute {
		t.Errorf("default step_timeout = %v", cfg.Global.StepTimeout)
	}
	if len(cfg.Bootstrap.Packages) == 0 {
		t.Error("default bootstrap packages should not be empty")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("commands: [not, a, map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateRejectsLiteralSecret(t *testing.T) {
	cfg := defaultConfig()
	cfg.Registries.WheelIndex.TokenEnv = "pypi-AgEIcHlwaS5vcmc"

	if err := cfg.Validate(); err == nil {
		t.Error("a literal token in token_env must fail validation")
	}
}

func TestValidateEnvNames(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"plain name", "PYPI_TOKEN", false},
		{"underscore prefix", "_TOKEN", false},
		{"lowercase", "pypi_token", true},
		{"leading digit", "1TOKEN", true},
		{"empty", "", true},
		{"dashes", "PYPI-TOKEN", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEnvName("token_env", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateEnvName(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCommands(t *testing.T) {
	cfg := defaultConfig()
	cfg.Commands.Test = nil
	if err := cfg.Validate(); err == nil {
		t.Error("missing test command must fail validation")
	}

	cfg = defaultConfig()
	cfg.Commands.Install = []string{"  "}
	if err := cfg.Validate(); err == nil {
		t.Error("blank install binary must fail validation")
	}
}

func TestValidateOutputDirs(t *testing.T) {
	cfg := defaultConfig()
	cfg.Output.DistDir = "out"
	cfg.Output.BuildDir = "out"
	if err := cfg.Validate(); err == nil {
		t.Error("identical dist_dir and build_dir must fail validation")
	}
}

func TestValidateLogLevel(t *testing.T) {
	cfg := defaultConfig()
	cfg.Global.LogLevel = "trace"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown log level must fail validation")
	}
}

func TestLoadWithOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".release-runner.yaml")
	if err := os.WriteFile(path, []byte("project:\n  name: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("RELEASE_RUNNER_LOG_LEVEL", "warn")
	t.Setenv("RELEASE_RUNNER_DIST_DIR", "/tmp/dist-override")
	t.Setenv("RELEASE_RUNNER_ENV_MANAGER", "mamba")

	cfg, err := LoadWithOverrides(path)
	if err != nil {
		t.Fatalf("LoadWithOverrides() failed: %v", err)
	}
	if cfg.Global.LogLevel != "warn" {
		t.Errorf("log level override = %q", cfg.Global.LogLevel)
	}
	if cfg.Output.DistDir != "/tmp/dist-override" {
		t.Errorf("dist_dir override = %q", cfg.Output.DistDir)
	}
	if cfg.Env.Manager != "mamba" {
		t.Errorf("manager override = %q", cfg.Env.Manager)
	}
}

func TestFindInParents(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(root, ".release-runner.yaml")
	if err := os.WriteFile(path, []byte("project:\n  name: parent-find\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := findInParents(nested)
	if err != nil {
		t.Fatalf("findInParents() failed: %v", err)
	}
	if cfg.Project.Name != "parent-find" {
		t.Errorf("project name = %q", cfg.Project.Name)
	}
}
