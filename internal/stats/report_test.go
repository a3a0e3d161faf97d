package stats

import (
	"strings"
	"testing"
	"time"

	"moea/internal/model"
)

func TestRunReport(t *testing.T) {
	run := model.RunRecord{
		ID:             "run-1",
		Problem:        "aalborg",
		Algorithm:      "dknsga2",
		DataFile:       "aalborg2050.txt",
		PopulationSize: 24,
		Generations:    50,
		Seed:           11,
		Evaluations:    1224,
		Status:         model.RunStatusCompleted,
		StartedAt:      time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
		FinishedAt:     time.Date(2024, 6, 1, 8, 12, 30, 0, time.UTC),
	}
	front := []model.FrontMember{
		{Objectives: []float64{1.9, 4400}, Variables: []float64{500}, Feasible: true},
		{Objectives: []float64{1.2, 5100}, Variables: []float64{800}, Feasible: false},
	}
	diagnostics := []model.GenerationDiagnostics{
		{Generation: 49, Hypervolume: 12.5},
	}

	report := RunReport(run, front, diagnostics)
	for _, want := range []string{
		"Run run-1",
		"problem:      aalborg",
		"evaluations:  1,224",
		"wall time:    12m30s",
		"front:        2 members, 1 feasible",
		"ideal point:  [1.2, 4400]",
		"nadir point:  [1.9, 5100]",
		"hypervolume:  12.5",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}

func TestRunReportFailedRun(t *testing.T) {
	run := model.RunRecord{
		ID:        "run-2",
		Problem:   "vdn",
		Algorithm: "nsga2",
		Status:    model.RunStatusFailed,
		Error:     "spool batch: missing result input3.txt",
	}
	report := RunReport(run, nil, nil)
	if !strings.Contains(report, "status:       failed") {
		t.Fatalf("report missing failure status:\n%s", report)
	}
	if !strings.Contains(report, "missing result input3.txt") {
		t.Fatalf("report missing error detail:\n%s", report)
	}
	if strings.Contains(report, "ideal point") {
		t.Fatalf("report should omit indicators without a front:\n%s", report)
	}
}

func TestFrontTable(t *testing.T) {
	front := []model.FrontMember{
		{Objectives: []float64{1.9, 4400}, Variables: []float64{500, 0.4}, Constraints: []float64{-2}, Feasible: true},
		{Objectives: []float64{1.2, 5100}, Variables: []float64{800, 0.6}, Feasible: false},
	}
	table := FrontTable(front)
	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d table lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "f=[1.9, 4400]") || !strings.Contains(lines[0], "g=[-2]") {
		t.Fatalf("unexpected first row %q", lines[0])
	}
	if !strings.Contains(lines[1], "!") {
		t.Fatalf("infeasible member not marked in %q", lines[1])
	}
}
