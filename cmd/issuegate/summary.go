package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/issuegate/internal/analysis"
	"github.com/dshills/issuegate/internal/registry"
	"github.com/dshills/issuegate/internal/render"
)

type summaryFlags struct {
	job    string
	build  int
	format string
	out    string
	failOn string
}

func newSummaryCmd(gf *globalFlags) *cobra.Command {
	f := &summaryFlags{}

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Render the summary of a recorded build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), gf, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.job, "job", "", "Job name (required)")
	flags.IntVar(&f.build, "build", 0, "Build number (required)")
	flags.StringVar(&f.format, "format", "text", "Output format: html, text, md or json")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.StringVar(&f.failOn, "fail-on", "", "Exit non-zero if the gate verdict meets this level: unstable or failed")
	_ = cmd.MarkFlagRequired("job")
	_ = cmd.MarkFlagRequired("build")

	return cmd
}

func runSummary(ctx context.Context, stdout, stderr io.Writer, gf *globalFlags, f *summaryFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if f.job == "" || f.build < 1 {
		return exitError(exitInput, "--job and a positive --build are required")
	}
	if err := checkFailOn(f.failOn); err != nil {
		return err
	}
	cfg, err := loadConfig(gf)
	if err != nil {
		return err
	}
	logger := newLogger(stderr, cfg, gf.verbose)

	deps, err := renderDeps(cfg, f.format, stdout, f.out)
	if err != nil {
		return err
	}
	r, err := render.ForFormat(f.format, deps)
	if err != nil {
		return exitError(exitInput, "%v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	id := analysis.BuildID{Job: f.job, Number: f.build}
	sum, err := newEvaluator(cfg, store, logger).Evaluate(ctx, id)
	if errors.Is(err, registry.ErrNotFound) {
		return exitError(exitInput, "no analysis recorded for %s", id)
	}
	if err != nil {
		return exitError(exitStorage, "failed to evaluate %s: %v", id, err)
	}

	output, err := r.Render(sum)
	if err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	if err := writeOutput(stdout, f.out, output); err != nil {
		return err
	}

	if f.failOn != "" && verdictMeetsThreshold(sum.QualityGate.Verdict, f.failOn) {
		return exitError(exitGate, "quality gate %s meets fail threshold %s", sum.QualityGate.Verdict, f.failOn)
	}
	return nil
}
