// Package registry stores analysis runs and resolves reference builds.
package registry

import (
	"context"
	"errors"

	"github.com/dshills/issuegate/internal/analysis"
)

// ErrNotFound is returned when a build has no recorded run.
var ErrNotFound = errors.New("registry: run not found")

// Registry is the read side the evaluation needs from the host.
type Registry interface {
	// Run returns the run of a build, or ErrNotFound.
	Run(ctx context.Context, id analysis.BuildID) (*analysis.Run, error)
	// ReferenceRun returns the run linked as reference of run. It returns
	// nil, nil when run has no reference or the reference is gone.
	ReferenceRun(ctx context.Context, run *analysis.Run) (*analysis.Run, error)
}

// Store is a Registry that also records runs.
type Store interface {
	Registry
	Save(ctx context.Context, run *analysis.Run) error
	// Previous returns the latest run of the same job numbered below id,
	// or ErrNotFound.
	Previous(ctx context.Context, id analysis.BuildID) (*analysis.Run, error)
	// List returns the runs of a job, newest first.
	List(ctx context.Context, job string) ([]*analysis.Run, error)
	Close() error
}

func referenceOf(ctx context.Context, r Registry, run *analysis.Run) (*analysis.Run, error) {
	if run == nil || run.Reference == nil {
		return nil, nil
	}
	ref, err := r.Run(ctx, *run.Reference)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return ref, err
}
