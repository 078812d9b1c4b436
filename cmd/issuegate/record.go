package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dshills/issuegate/internal/analysis"
	"github.com/dshills/issuegate/internal/ingest"
	"github.com/dshills/issuegate/internal/pipeline"
	"github.com/dshills/issuegate/internal/render"
	"github.com/dshills/issuegate/internal/schema"
)

type recordFlags struct {
	job       string
	build     int
	reference int
	root      string
	patterns  []string
	format    string
	out       string
	failOn    string
	redact    bool
}

func newRecordCmd(gf *globalFlags) *cobra.Command {
	f := &recordFlags{}

	cmd := &cobra.Command{
		Use:   "record [report-file...]",
		Short: "Record the analysis reports of a build and print its summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), gf, f, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.job, "job", "", "Job name (required)")
	flags.IntVar(&f.build, "build", 0, "Build number (required)")
	flags.IntVar(&f.reference, "reference", 0, "Reference build number (default: latest earlier build)")
	flags.StringVar(&f.root, "root", ".", "Directory report patterns are relative to")
	flags.StringSliceVar(&f.patterns, "reports", nil, "Report glob patterns (default: config reports)")
	flags.StringVar(&f.format, "format", "text", "Output format: html, text, md or json")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.StringVar(&f.failOn, "fail-on", "", "Exit non-zero if the gate verdict meets this level: unstable or failed")
	flags.BoolVar(&f.redact, "redact", false, "Redact secrets in issue messages")
	_ = cmd.MarkFlagRequired("job")
	_ = cmd.MarkFlagRequired("build")

	return cmd
}

func runRecord(ctx context.Context, stdout, stderr io.Writer, gf *globalFlags, f *recordFlags, files []string) error {
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

	// 1. Discover reports
	paths := append([]string(nil), files...)
	if len(files) == 0 || len(f.patterns) > 0 {
		patterns := f.patterns
		if len(patterns) == 0 {
			patterns = cfg.Reports
		}
		matched, err := ingest.Glob(f.root, patterns)
		if err != nil {
			return exitError(exitInput, "failed to expand report patterns: %v", err)
		}
		paths = append(paths, matched...)
	}
	logger.Debug("reports discovered", "count", len(paths))

	// 2. Load and validate
	docs, err := loadReports(paths, stderr, logger)
	if err != nil {
		return err
	}

	// 3. Merge
	set, toolErrs := ingest.Merge(docs, ingest.MergeOptions{Redact: f.redact || cfg.Redact})
	logger.Debug("reports merged", "issues", set.Size(), "errors", len(toolErrs))

	// 4. Evaluate and persist
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	in := pipeline.RecordInput{
		Build:              analysis.BuildID{Job: f.job, Number: f.build},
		Issues:             set,
		Errors:             toolErrs,
		IgnoreFailedBuilds: cfg.IgnoreFailedBuilds,
	}
	if f.reference > 0 {
		in.Reference = &analysis.BuildID{Job: f.job, Number: f.reference}
	}
	sum, err := newEvaluator(cfg, store, logger).Record(ctx, store, in)
	if errors.Is(err, pipeline.ErrInvalidReference) {
		return exitError(exitInput, "invalid --reference: %v", err)
	}
	if err != nil {
		return exitError(exitStorage, "failed to record build: %v", err)
	}

	// 5. Output
	output, err := r.Render(sum)
	if err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	if err := writeOutput(stdout, f.out, output); err != nil {
		return err
	}

	// 6. Exit code based on --fail-on
	if f.failOn != "" && verdictMeetsThreshold(sum.QualityGate.Verdict, f.failOn) {
		return exitError(exitGate, "quality gate %s meets fail threshold %s", sum.QualityGate.Verdict, f.failOn)
	}
	return nil
}

func loadReports(paths []string, stderr io.Writer, logger *slog.Logger) ([]*ingest.Document, error) {
	docs := make([]*ingest.Document, 0, len(paths))
	for _, p := range paths {
		doc, err := ingest.Load(p)
		if err != nil {
			return nil, exitError(exitInput, "failed to load report: %v", err)
		}
		if errs := schema.Validate(doc); len(errs) > 0 {
			fmt.Fprintf(stderr, "Schema validation errors in %s:\n", p)
			for _, e := range errs {
				fmt.Fprintf(stderr, "  %s\n", e)
			}
			return nil, exitError(exitInput, "report %s failed schema validation", filepath.Base(p))
		}
		logger.Debug("report loaded", "path", p, "tool", doc.Tool, "issues", len(doc.Issues), "hash", doc.Hash)
		docs = append(docs, doc)
	}
	return docs, nil
}
