// Package pipeline orchestrates one build evaluation: registry lookup,
// delta, quality gate and summary.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/issuegate/internal/analysis"
	"github.com/dshills/issuegate/internal/delta"
	"github.com/dshills/issuegate/internal/gate"
	"github.com/dshills/issuegate/internal/issues"
	"github.com/dshills/issuegate/internal/registry"
	"github.com/dshills/issuegate/internal/summary"
)

// ErrInvalidReference is returned when a forced reference is not an
// earlier build of the same job.
var ErrInvalidReference = errors.New("pipeline: reference must be an earlier build of the same job")

// Evaluator builds summaries for recorded builds.
type Evaluator struct {
	Registry    registry.Registry
	Gate        gate.Gate
	SummaryID   string
	SummaryName string
	Logger      *slog.Logger
}

func (e *Evaluator) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Evaluate loads the run of id and summarises it against its reference.
// A build without reference is valid: every issue counts as new.
func (e *Evaluator) Evaluate(ctx context.Context, id analysis.BuildID) (*summary.Summary, error) {
	run, err := e.Registry.Run(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("pipeline.Evaluate: %w", err)
	}
	return e.evaluateRun(ctx, run)
}

func (e *Evaluator) evaluateRun(ctx context.Context, run *analysis.Run) (*summary.Summary, error) {
	if err := run.Issues.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: run %s: %w", run.Build, err)
	}
	log := e.logger().With("build", run.Build.String())

	ref, err := e.Registry.ReferenceRun(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("pipeline: reference of %s: %w", run.Build, err)
	}

	var (
		refIssues *issues.Set
		refBuild  *analysis.BuildID
		earlier   []delta.BuildSize
	)
	if ref != nil {
		refIssues = &ref.Issues
		b := ref.Build
		refBuild = &b
		if run.Issues.IsEmpty() {
			earlier, err = e.cleanStreak(ctx, run.Build)
			if err != nil {
				return nil, err
			}
		}
		log.Debug("reference resolved", "reference", ref.Build.String())
	} else {
		log.Debug("no reference build")
	}

	d := delta.ComputeFor(run.Build.Number, run.Issues, refIssues, earlier)
	result := gate.Evaluate(gate.CountsFrom(run.Issues, d.New, d.FixedSize()), e.Gate)

	s := summary.Build(summary.Input{
		ID:        e.SummaryID,
		Name:      e.SummaryName,
		Run:       run,
		Reference: refBuild,
		Delta:     d,
		Gate:      result,
	})
	log.Info("build evaluated",
		"total", s.TotalSize,
		"new", s.NewSize,
		"fixed", s.FixedSize,
		"verdict", string(result.Verdict),
	)
	return s, nil
}

// cleanStreak walks back from build over consecutive recorded builds and
// returns them newest first, stopping after the first one with issues.
func (e *Evaluator) cleanStreak(ctx context.Context, build analysis.BuildID) ([]delta.BuildSize, error) {
	var out []delta.BuildSize
	for n := build.Number - 1; n >= 1; n-- {
		r, err := e.Registry.Run(ctx, analysis.BuildID{Job: build.Job, Number: n})
		if errors.Is(err, registry.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("pipeline: walk builds of %s: %w", build.Job, err)
		}
		out = append(out, delta.BuildSize{Number: n, Size: r.Size()})
		if r.Size() > 0 {
			break
		}
	}
	return out, nil
}

// RecordInput is a freshly analysed build.
type RecordInput struct {
	Build     analysis.BuildID
	Timestamp time.Time
	Issues    issues.Set
	Errors    []string
	// Reference forces a reference build. It must be an earlier build of
	// the same job. When nil the latest earlier run of the job is used.
	Reference *analysis.BuildID
	// IgnoreFailedBuilds skips earlier runs whose gate failed when
	// selecting the reference.
	IgnoreFailedBuilds bool
}

// Record evaluates a new build against store, saves it with its verdict and
// returns the summary.
func (e *Evaluator) Record(ctx context.Context, store registry.Store, in RecordInput) (*summary.Summary, error) {
	if in.Build.Job == "" || in.Build.Number < 1 {
		return nil, fmt.Errorf("pipeline.Record: invalid build %s", in.Build)
	}
	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	run := &analysis.Run{
		ID:        uuid.NewString(),
		Build:     in.Build,
		Timestamp: ts,
		Issues:    in.Issues,
		Errors:    append([]string(nil), in.Errors...),
	}
	if in.Reference != nil {
		if in.Reference.Job != in.Build.Job || in.Reference.Number < 1 || in.Reference.Number >= in.Build.Number {
			return nil, fmt.Errorf("pipeline.Record: %w: %s for %s", ErrInvalidReference, in.Reference, in.Build)
		}
		ref := *in.Reference
		run.Reference = &ref
	} else {
		ref, err := SelectReference(ctx, store, in.Build, in.IgnoreFailedBuilds)
		if err != nil {
			return nil, fmt.Errorf("pipeline.Record: %w", err)
		}
		run.Reference = ref
	}

	ev := *e
	ev.Registry = store
	s, err := ev.evaluateRun(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("pipeline.Record: %w", err)
	}
	run.Result = s.QualityGate.Verdict
	if err := store.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("pipeline.Record: %w", err)
	}
	e.logger().Info("run recorded", "build", run.Build.String(), "run_id", run.ID)
	return s, nil
}

// SelectReference returns the latest run of the job before build, skipping
// failed runs when ignoreFailed is set. It returns nil when none qualifies.
func SelectReference(ctx context.Context, store registry.Store, build analysis.BuildID, ignoreFailed bool) (*analysis.BuildID, error) {
	cursor := build
	for {
		prev, err := store.Previous(ctx, cursor)
		if errors.Is(err, registry.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("select reference for %s: %w", build, err)
		}
		if ignoreFailed && prev.Result == gate.VerdictFailed {
			cursor = prev.Build
			continue
		}
		b := prev.Build
		return &b, nil
	}
}
