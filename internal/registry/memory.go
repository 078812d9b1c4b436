package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/issuegate/internal/analysis"
)

// Memory is an in-memory Store.
type Memory struct {
	mu   sync.RWMutex
	runs map[string]map[int]analysis.Run
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{runs: make(map[string]map[int]analysis.Run)}
}

func (m *Memory) Save(_ context.Context, run *analysis.Run) error {
	if run == nil || run.Build.Job == "" || run.Build.Number < 1 {
		return fmt.Errorf("registry.Memory.Save: invalid build %v", run)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	byNumber, ok := m.runs[run.Build.Job]
	if !ok {
		byNumber = make(map[int]analysis.Run)
		m.runs[run.Build.Job] = byNumber
	}
	byNumber[run.Build.Number] = copyRun(run)
	return nil
}

func (m *Memory) Run(_ context.Context, id analysis.BuildID) (*analysis.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runs[id.Job][id.Number]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	out := copyRun(&r)
	return &out, nil
}

func (m *Memory) ReferenceRun(ctx context.Context, run *analysis.Run) (*analysis.Run, error) {
	return referenceOf(ctx, m, run)
}

func (m *Memory) Previous(_ context.Context, id analysis.BuildID) (*analysis.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	best := 0
	for n := range m.runs[id.Job] {
		if n < id.Number && n > best {
			best = n
		}
	}
	if best == 0 {
		return nil, fmt.Errorf("%w: before %s", ErrNotFound, id)
	}
	r := m.runs[id.Job][best]
	out := copyRun(&r)
	return &out, nil
}

func (m *Memory) List(_ context.Context, job string) ([]*analysis.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*analysis.Run, 0, len(m.runs[job]))
	for _, r := range m.runs[job] {
		c := copyRun(&r)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Build.Number > out[j].Build.Number })
	return out, nil
}

func (m *Memory) Close() error { return nil }

// copyRun detaches the mutable parts of a run. The issue set is immutable
// and can be shared.
func copyRun(r *analysis.Run) analysis.Run {
	c := *r
	c.Errors = append([]string(nil), r.Errors...)
	if r.Reference != nil {
		ref := *r.Reference
		c.Reference = &ref
	}
	return c
}
