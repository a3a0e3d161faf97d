// Package storage persists optimization runs and their outcomes behind a
// backend-neutral Store interface, with an in-memory default and an
// optional sqlite backend.
package storage

import (
	"context"

	"moea/internal/model"
)

// Store defines the persistence operations of the optimization platform.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]model.RunRecord, error)
	SaveFront(ctx context.Context, runID string, front []model.FrontMember) error
	GetFront(ctx context.Context, runID string) ([]model.FrontMember, bool, error)
	SaveDiagnostics(ctx context.Context, runID string, diagnostics []model.GenerationDiagnostics) error
	GetDiagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error)
	SaveHistory(ctx context.Context, runID string, ideal [][]float64) error
	GetHistory(ctx context.Context, runID string) ([][]float64, bool, error)
	SaveProblemSummary(ctx context.Context, summary model.ProblemSummary) error
	GetProblemSummary(ctx context.Context, name string) (model.ProblemSummary, bool, error)
}
