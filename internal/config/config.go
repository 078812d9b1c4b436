// Package config loads the layered issuegate configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/dshills/issuegate/internal/gate"
	"github.com/dshills/issuegate/internal/label"
)

// Config is the complete issuegate configuration.
type Config struct {
	DB                 string                `yaml:"db"`
	SummaryID          string                `yaml:"summary_id"`
	SummaryName        string                `yaml:"summary_name"`
	SourceCodeEncoding string                `yaml:"source_code_encoding"`
	IgnoreFailedBuilds bool                  `yaml:"ignore_failed_builds"`
	Redact             bool                  `yaml:"redact"`
	Reports            []string              `yaml:"reports"`
	QualityGate        gate.Gate             `yaml:"quality_gate"`
	Labels             map[string]label.Tool `yaml:"labels"`
	Server             ServerConfig          `yaml:"server"`
	LogLevel           string                `yaml:"log_level"`
}

// ServerConfig configures the read-only HTTP surface and the links
// embedded in rendered summaries.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	RootURL   string `yaml:"root_url"`
	ImageRoot string `yaml:"image_root"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DB:          "issuegate.db",
		SummaryID:   "analysis",
		SummaryName: "Static Analysis",
		Reports:     []string{"**/*-report.json", "**/*-report.yaml"},
		Server: ServerConfig{
			Addr:      "127.0.0.1:8080",
			ImageRoot: "/static/images",
		},
		LogLevel: "info",
	}
}

// ConfigError reports a configuration problem in a file or field.
type ConfigError struct {
	Path  string
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	switch {
	case e.Path != "":
		return fmt.Sprintf("config %s: %v", e.Path, e.Err)
	case e.Field != "":
		return fmt.Sprintf("config field %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Validate checks thresholds, the source-code encoding and the log level.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error
	for _, e := range c.QualityGate.Thresholds.Validate() {
		errs = append(errs, &ConfigError{Field: "quality_gate.thresholds", Err: e})
	}
	if c.SourceCodeEncoding != "" {
		if _, err := htmlindex.Get(c.SourceCodeEncoding); err != nil {
			errs = append(errs, &ConfigError{
				Field: "source_code_encoding",
				Err:   fmt.Errorf("unknown charset %q", c.SourceCodeEncoding),
			})
		}
	}
	if _, ok := logLevels[strings.ToLower(c.LogLevel)]; !ok {
		errs = append(errs, &ConfigError{Field: "log_level", Err: fmt.Errorf("must be debug, info, warn or error, got %q", c.LogLevel)})
	}
	if c.SummaryID == "" {
		errs = append(errs, &ConfigError{Field: "summary_id", Err: errors.New("required")})
	}
	return errors.Join(errs...)
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	if l, ok := logLevels[strings.ToLower(c.LogLevel)]; ok {
		return l
	}
	return slog.LevelInfo
}

// EncodingName returns the canonical name of the configured source-code
// encoding, or "" when none is set or it is unknown.
func (c *Config) EncodingName() string {
	if c.SourceCodeEncoding == "" {
		return ""
	}
	enc, err := htmlindex.Get(c.SourceCodeEncoding)
	if err != nil {
		return ""
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return ""
	}
	return name
}

// LabelRegistry returns the built-in tool labels with the configured
// overrides applied.
func (c *Config) LabelRegistry() (*label.Registry, error) {
	reg, err := label.LoadBuiltin()
	if err != nil {
		return nil, err
	}
	if len(c.Labels) == 0 {
		return reg, nil
	}
	return reg.With(c.Labels), nil
}

// Links returns the link builder for rendered summaries.
func (c *Config) Links() label.StaticLinks {
	return label.StaticLinks{RootURL: c.Server.RootURL, ImageRoot: c.Server.ImageRoot}
}
