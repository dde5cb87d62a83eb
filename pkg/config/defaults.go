package config

import "time"

// defaultConfig returns the default configuration. The command defaults
// match the conventional scientific-Python release toolchain; projects
// override them per repository.
func defaultConfig() *Config {
	cfg := &Config{
		Version: "1.0",
		Project: ProjectConfig{
			ManifestPath: "environment.yml",
		},
		Commands: CommandsConfig{
			Install:    []string{"pip", "install", "-r", "requirements.txt"},
			Test:       []string{"pytest", "tests/"},
			BuildWheel: []string{"python", "setup.py", "bdist_wheel"},
			BuildConda: []string{"conda", "build", ".conda"},
		},
		Output: OutputConfig{
			DistDir:  "dist",
			BuildDir: "build",
		},
		Registries: RegistriesConfig{
			WheelIndex: WheelIndexConfig{
				Tool:     "twine",
				TokenEnv: "PYPI_TOKEN",
			},
			CondaRegistry: CondaRegistryConfig{
				Tool:        "anaconda",
				UserEnv:     "ANACONDA_LOGIN",
				PasswordEnv: "ANACONDA_PASSWORD",
			},
		},
		Env: BuildEnvConfig{
			Manager:    "conda",
			NamePrefix: "release-build",
		},
		Bootstrap: BootstrapConfig{
			Installer: []string{"pip", "install"},
			// Packages the environment manager cannot deliver when the
			// ecosystem installer's index is disabled. Two entries carry
			// exact pins; the rest float.
			Packages: []string{
				"pyside2==5.14.1",
				"cattrs==1.0.0rc0",
				"imgaug",
				"opencv-python-headless",
			},
		},
		Global: GlobalConfig{
			LogLevel:    "info",
			StepTimeout: 30 * time.Minute,
		},
	}
	return cfg
}

// applyDefaults sets default values for optional fields
func applyDefaults(cfg *Config) {
	def := defaultConfig()

	if cfg.Version == "" {
		cfg.Version = def.Version
	}
	if cfg.Project.ManifestPath == "" {
		cfg.Project.ManifestPath = def.Project.ManifestPath
	}

	if len(cfg.Commands.Install) == 0 {
		cfg.Commands.Install = def.Commands.Install
	}
	if len(cfg.Commands.Test) == 0 {
		cfg.Commands.Test = def.Commands.Test
	}
	if len(cfg.Commands.BuildWheel) == 0 {
		cfg.Commands.BuildWheel = def.Commands.BuildWheel
	}
	if len(cfg.Commands.BuildConda) == 0 {
		cfg.Commands.BuildConda = def.Commands.BuildConda
	}

	if cfg.Output.DistDir == "" {
		cfg.Output.DistDir = def.Output.DistDir
	}
	if cfg.Output.BuildDir == "" {
		cfg.Output.BuildDir = def.Output.BuildDir
	}

	if cfg.Registries.WheelIndex.Tool == "" {
		cfg.Registries.WheelIndex.Tool = def.Registries.WheelIndex.Tool
	}
	if cfg.Registries.WheelIndex.TokenEnv == "" {
		cfg.Registries.WheelIndex.TokenEnv = def.Registries.WheelIndex.TokenEnv
	}
	if cfg.Registries.CondaRegistry.Tool == "" {
		cfg.Registries.CondaRegistry.Tool = def.Registries.CondaRegistry.Tool
	}
	if cfg.Registries.CondaRegistry.UserEnv == "" {
		cfg.Registries.CondaRegistry.UserEnv = def.Registries.CondaRegistry.UserEnv
	}
	if cfg.Registries.CondaRegistry.PasswordEnv == "" {
		cfg.Registries.CondaRegistry.PasswordEnv = def.Registries.CondaRegistry.PasswordEnv
	}

	if cfg.Env.Manager == "" {
		cfg.Env.Manager = def.Env.Manager
	}
	if cfg.Env.NamePrefix == "" {
		cfg.Env.NamePrefix = def.Env.NamePrefix
	}

	if len(cfg.Bootstrap.Installer) == 0 {
		cfg.Bootstrap.Installer = def.Bootstrap.Installer
	}
	if len(cfg.Bootstrap.Packages) == 0 {
		cfg.Bootstrap.Packages = def.Bootstrap.Packages
	}

	if cfg.Global.LogLevel == "" {
		cfg.Global.LogLevel = def.Global.LogLevel
	}
	if cfg.Global.StepTimeout == 0 {
		cfg.Global.StepTimeout = def.Global.StepTimeout
	}
}
