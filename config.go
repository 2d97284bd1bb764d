package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "runway.yml"

// config describes the project being launched. Values come from runway.yml
// and are overridden by flags (see applyOptions).
type config struct {
	Mode    string        `yaml:"mode"`
	Release releaseConfig `yaml:"release"`
	App     appConfig     `yaml:"app"`
}

type releaseConfig struct {
	// Repo is the GitHub repository holding the tool releases, "owner/name".
	Repo string `yaml:"repo"`
	// Platform is the substring a usable asset download URL must contain.
	Platform string `yaml:"platform"`
	// Tool is the executable name inside the release archive.
	Tool string `yaml:"tool"`
	// BinDir is the directory the extracted executable is installed into.
	BinDir string `yaml:"bin_dir"`
}

type appConfig struct {
	Requirements string `yaml:"requirements"`
	Entry        string `yaml:"entry"`
	WSGI         string `yaml:"wsgi"`
	Workers      int    `yaml:"workers"`
}

func defaultConfig() config {
	return config{
		Mode: modeProd,
		Release: releaseConfig{
			Repo:     "jgm/pandoc",
			Platform: "linux-amd64",
			Tool:     "pandoc",
			BinDir:   "bin",
		},
		App: appConfig{
			Requirements: "requirements.txt",
			Entry:        "app.py",
			WSGI:         "app:app",
			Workers:      4,
		},
	}
}

// loadConfig reads the yaml config at path on top of the built-in defaults.
// A missing file at the default path is not an error; a missing file at an
// explicitly requested path is.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return config{}, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return config{}, fmt.Errorf("failed to parse config %q: %w", path, err)
	}

	return cfg, validateConfig(cfg, path)
}

func validateConfig(cfg config, path string) error {
	if _, err := normalizeMode(cfg.Mode); err != nil {
		return fmt.Errorf("config %q: %w", path, err)
	}
	if cfg.Release.Repo == "" {
		return fmt.Errorf("config %q: release.repo must not be empty", path)
	}
	if cfg.Release.Tool == "" {
		return fmt.Errorf("config %q: release.tool must not be empty", path)
	}
	if cfg.App.Workers < 1 {
		return fmt.Errorf("config %q: app.workers must be at least 1, got %d", path, cfg.App.Workers)
	}
	return nil
}

// applyOptions folds parsed flags into the config. Flags win over both the
// config file and the DEBUG environment default.
func applyOptions(cfg config, opts options) config {
	if opts.mode != "" {
		cfg.Mode = opts.mode
	}
	if opts.repo != "" {
		cfg.Release.Repo = opts.repo
	}
	if opts.platform != "" {
		cfg.Release.Platform = opts.platform
	}
	if opts.binDir != "" {
		cfg.Release.BinDir = opts.binDir
	}
	if opts.workers > 0 {
		cfg.App.Workers = opts.workers
	}
	return cfg
}
