package storage

import (
	"context"
	"sort"
	"sync"

	"moea/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	runs        map[string]model.RunRecord
	fronts      map[string][]model.FrontMember
	diagnostics map[string][]model.GenerationDiagnostics
	history     map[string][][]float64
	problems    map[string]model.ProblemSummary
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = make(map[string]model.RunRecord)
	s.fronts = make(map[string][]model.FrontMember)
	s.diagnostics = make(map[string][]model.GenerationDiagnostics)
	s.history = make(map[string][][]float64)
	s.problems = make(map[string]model.ProblemSummary)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]model.RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].StartedAt.Before(runs[j].StartedAt)
	})
	return runs, nil
}

func (s *MemoryStore) SaveFront(_ context.Context, runID string, front []model.FrontMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]model.FrontMember, len(front))
	copy(copied, front)
	s.fronts[runID] = copied
	return nil
}

func (s *MemoryStore) GetFront(_ context.Context, runID string) ([]model.FrontMember, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	front, ok := s.fronts[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.FrontMember, len(front))
	copy(copied, front)
	return copied, true, nil
}

func (s *MemoryStore) SaveDiagnostics(_ context.Context, runID string, diagnostics []model.GenerationDiagnostics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]model.GenerationDiagnostics, len(diagnostics))
	copy(copied, diagnostics)
	s.diagnostics[runID] = copied
	return nil
}

func (s *MemoryStore) GetDiagnostics(_ context.Context, runID string) ([]model.GenerationDiagnostics, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	diagnostics, ok := s.diagnostics[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.GenerationDiagnostics, len(diagnostics))
	copy(copied, diagnostics)
	return copied, true, nil
}

func (s *MemoryStore) SaveHistory(_ context.Context, runID string, ideal [][]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([][]float64, len(ideal))
	for i, row := range ideal {
		copied[i] = append([]float64(nil), row...)
	}
	s.history[runID] = copied
	return nil
}

func (s *MemoryStore) GetHistory(_ context.Context, runID string) ([][]float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ideal, ok := s.history[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([][]float64, len(ideal))
	for i, row := range ideal {
		copied[i] = append([]float64(nil), row...)
	}
	return copied, true, nil
}

func (s *MemoryStore) SaveProblemSummary(_ context.Context, summary model.ProblemSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.problems[summary.Name] = summary
	return nil
}

func (s *MemoryStore) GetProblemSummary(_ context.Context, name string) (model.ProblemSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, ok := s.problems[name]
	return summary, ok, nil
}
