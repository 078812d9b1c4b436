package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix is the prefix for all environment variables.
	EnvPrefix = "ISSUEGATE_"
	// ProjectConfigFile is the project-level config file name.
	ProjectConfigFile = ".issuegate.yaml"
	// GlobalConfigDir is the global config directory name.
	GlobalConfigDir = ".issuegate"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Loader loads configuration from files and environment.
type Loader struct {
	projectRoot string
	path        string
	skipGlobal  bool
}

// NewLoader creates a new config loader.
func NewLoader() *Loader {
	return &Loader{}
}

// WithProjectRoot sets the directory searched for the project file.
func (l *Loader) WithProjectRoot(root string) *Loader {
	l.projectRoot = root
	return l
}

// WithPath uses an explicit config file instead of the project file.
// Unlike the project file it must exist.
func (l *Loader) WithPath(path string) *Loader {
	l.path = path
	return l
}

// SkipGlobal skips loading global config.
func (l *Loader) SkipGlobal() *Loader {
	l.skipGlobal = true
	return l
}

// Load loads configuration with full precedence order:
// 1. Defaults
// 2. Global config ($HOME/.issuegate/config.yaml)
// 3. Project config (./.issuegate.yaml) or the explicit path
// 4. Environment variables (ISSUEGATE_*)
//
// Missing optional files are skipped; malformed files are errors.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if !l.skipGlobal {
		if home, err := os.UserHomeDir(); err == nil {
			if err := decodeFile(filepath.Join(home, GlobalConfigDir, GlobalConfigFile), cfg, true); err != nil {
				return nil, err
			}
		}
	}

	if l.path != "" {
		if err := decodeFile(l.path, cfg, false); err != nil {
			return nil, err
		}
	} else {
		root := l.projectRoot
		if root == "" {
			root = "."
		}
		if err := decodeFile(filepath.Join(root, ProjectConfigFile), cfg, true); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeFile decodes a YAML layer onto cfg. Keys absent from the file
// keep their current values.
func decodeFile(path string, cfg *Config, optional bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &ConfigError{Path: path, Err: err}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvPrefix + "DB"); v != "" {
		cfg.DB = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvPrefix + "ROOT_URL"); v != "" {
		cfg.Server.RootURL = v
	}
	if v := os.Getenv(EnvPrefix + "ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvPrefix + "IGNORE_FAILED_BUILDS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &ConfigError{Field: "ignore_failed_builds", Err: err}
		}
		cfg.IgnoreFailedBuilds = b
	}
	return nil
}
