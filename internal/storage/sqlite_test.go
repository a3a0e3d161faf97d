//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"moea/internal/model"
)

func TestSQLiteStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "moea.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	run := model.RunRecord{
		VersionedRecord: versioned(),
		ID:              "run-1",
		Problem:         "mahbub2016",
		Algorithm:       "nsga2",
		PopulationSize:  20,
		Generations:     30,
		Status:          model.RunStatusCompleted,
		StartedAt:       time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
	}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}

	loaded, ok, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted run")
	}
	if loaded.Problem != "mahbub2016" || loaded.Generations != 30 {
		t.Fatalf("unexpected run: %+v", loaded)
	}

	later := run
	later.ID = "run-2"
	later.StartedAt = run.StartedAt.Add(time.Hour)
	if err := store.SaveRun(ctx, later); err != nil {
		t.Fatalf("save run: %v", err)
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-1" || runs[1].ID != "run-2" {
		t.Fatalf("unexpected listing: %+v", runs)
	}
}

func TestSQLiteStoreFrontAndDiagnosticsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "moea.db"))
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	front := []model.FrontMember{{
		VersionedRecord: versioned(),
		Variables:       []float64{500, 0.4},
		Objectives:      []float64{1.9, 4400},
		Feasible:        true,
	}}
	if err := store.SaveFront(ctx, "run-1", front); err != nil {
		t.Fatalf("save front: %v", err)
	}
	loadedFront, ok, err := store.GetFront(ctx, "run-1")
	if err != nil {
		t.Fatalf("get front: %v", err)
	}
	if !ok || len(loadedFront) != 1 || loadedFront[0].Objectives[0] != 1.9 {
		t.Fatalf("unexpected front: %+v", loadedFront)
	}

	diagnostics := []model.GenerationDiagnostics{
		{Generation: 0, Evaluations: 20, FrontSize: 4, Ideal: []float64{2.2, 4800}},
	}
	if err := store.SaveDiagnostics(ctx, "run-1", diagnostics); err != nil {
		t.Fatalf("save diagnostics: %v", err)
	}
	loadedDiag, ok, err := store.GetDiagnostics(ctx, "run-1")
	if err != nil {
		t.Fatalf("get diagnostics: %v", err)
	}
	if !ok || len(loadedDiag) != 1 || loadedDiag[0].FrontSize != 4 {
		t.Fatalf("unexpected diagnostics: %+v", loadedDiag)
	}

	if _, ok, _ := store.GetFront(ctx, "missing"); ok {
		t.Fatal("unexpected hit for missing front")
	}
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "moea.db"))
	if err := store.SaveRun(context.Background(), model.RunRecord{ID: "x"}); err == nil {
		t.Fatal("expected error before Init")
	}
}
