// Package memory provides an in-memory renewal.RunStore (for testing/dev).
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/lease-engine/generic"
	"github.com/warp/lease-engine/renewal"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu   sync.RWMutex
	runs map[string]renewal.Run
}

var _ renewal.RunStore = (*Memory)(nil)

func New() *Memory {
	return &Memory{runs: make(map[string]renewal.Run)}
}

// SaveRun stores a deep copy so later mutation by the caller is not visible.
func (m *Memory) SaveRun(_ context.Context, run renewal.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.runs[run.ID]; exists {
		return fmt.Errorf("run %s already exists", run.ID)
	}
	m.runs[run.ID] = copyRun(run)
	return nil
}

func (m *Memory) GetRun(_ context.Context, id string) (*renewal.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.runs[id]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", id, generic.ErrRunNotFound)
	}
	out := copyRun(run)
	return &out, nil
}

func (m *Memory) ListRuns(_ context.Context) ([]renewal.RunInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]renewal.RunInfo, 0, len(m.runs))
	for _, r := range m.runs {
		infos = append(infos, renewal.RunInfo{
			ID:         r.ID,
			MaxPerDay:  r.MaxPerDay,
			CreatedAt:  r.CreatedAt,
			Source:     r.Source,
			LeaseCount: len(r.Result.Assignments),
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].CreatedAt.After(infos[j].CreatedAt)
		}
		return infos[i].ID < infos[j].ID
	})
	return infos, nil
}

func (m *Memory) DeleteRun(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.runs[id]; !ok {
		return fmt.Errorf("run %s: %w", id, generic.ErrRunNotFound)
	}
	delete(m.runs, id)
	return nil
}

func copyRun(r renewal.Run) renewal.Run {
	out := r
	out.Result.Assignments = append([]renewal.OptimizedLease(nil), r.Result.Assignments...)
	if r.Result.Distribution != nil {
		out.Result.Distribution = r.Result.Distribution.Clone()
	}
	return out
}
