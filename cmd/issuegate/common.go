package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/issuegate/internal/config"
	"github.com/dshills/issuegate/internal/gate"
	"github.com/dshills/issuegate/internal/pipeline"
	"github.com/dshills/issuegate/internal/registry"
	"github.com/dshills/issuegate/internal/render"
)

// Exit codes.
const (
	exitGate    = 2
	exitInput   = 3
	exitStorage = 4
)

type globalFlags struct {
	configPath string
	db         string
	verbose    bool
}

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// loadConfig loads and validates the layered configuration.
func loadConfig(gf *globalFlags) (*config.Config, error) {
	l := config.NewLoader()
	if gf.configPath != "" {
		l = l.WithPath(gf.configPath)
	}
	cfg, err := l.Load()
	if err != nil {
		return nil, exitError(exitInput, "failed to load config: %v", err)
	}
	if gf.db != "" {
		cfg.DB = gf.db
	}
	if err := cfg.Validate(); err != nil {
		return nil, exitError(exitInput, "invalid config: %v", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config, verbose bool) *slog.Logger {
	level := cfg.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func openStore(cfg *config.Config) (*registry.SQLite, error) {
	store, err := registry.OpenSQLite(cfg.DB)
	if err != nil {
		return nil, exitError(exitStorage, "failed to open build registry %s: %v", cfg.DB, err)
	}
	return store, nil
}

func newEvaluator(cfg *config.Config, reg registry.Registry, logger *slog.Logger) *pipeline.Evaluator {
	return &pipeline.Evaluator{
		Registry:    reg,
		Gate:        cfg.QualityGate,
		SummaryID:   cfg.SummaryID,
		SummaryName: cfg.SummaryName,
		Logger:      logger,
	}
}

// renderDeps wires labels and links from config. A terminal renderer is
// attached only when text goes straight to stdout, never to an --out file.
func renderDeps(cfg *config.Config, format string, out io.Writer, outPath string) (render.Deps, error) {
	labels, err := cfg.LabelRegistry()
	if err != nil {
		return render.Deps{}, err
	}
	d := render.Deps{Labels: labels, Links: cfg.Links()}
	if f, ok := out.(*os.File); ok && outPath == "" && (format == "text" || format == "txt") {
		d.Terminal = lipgloss.NewRenderer(f)
	}
	return d, nil
}

// writeOutput writes to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path, output string) error {
	if path == "" {
		_, err := io.WriteString(stdout, output)
		return err
	}
	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// verdictMeetsThreshold reports whether verdict is at least as bad as
// failOn. An inactive gate never meets a threshold.
func verdictMeetsThreshold(verdict gate.Verdict, failOn string) bool {
	if verdict == gate.VerdictInactive {
		return false
	}
	threshold, ok := gate.ParseVerdict(strings.ToLower(failOn))
	if !ok {
		threshold = gate.VerdictFailed
	}
	return verdict.Level() >= threshold.Level()
}

func checkFailOn(failOn string) error {
	if failOn == "" {
		return nil
	}
	switch strings.ToLower(failOn) {
	case "unstable", "failed":
		return nil
	}
	return exitError(exitInput, "invalid --fail-on %q (want unstable or failed)", failOn)
}
