package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"moea/internal/model"
)

// RunReport renders a plain-text summary of a completed run for terminal
// output.
func RunReport(run model.RunRecord, front []model.FrontMember, diagnostics []model.GenerationDiagnostics) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run %s\n", run.ID)
	fmt.Fprintf(&b, "  problem:      %s\n", run.Problem)
	fmt.Fprintf(&b, "  algorithm:    %s\n", run.Algorithm)
	if run.DataFile != "" {
		fmt.Fprintf(&b, "  data file:    %s\n", run.DataFile)
	}
	fmt.Fprintf(&b, "  population:   %s\n", humanize.Comma(int64(run.PopulationSize)))
	fmt.Fprintf(&b, "  generations:  %s\n", humanize.Comma(int64(run.Generations)))
	fmt.Fprintf(&b, "  evaluations:  %s\n", humanize.Comma(int64(run.Evaluations)))
	fmt.Fprintf(&b, "  seed:         %d\n", run.Seed)
	fmt.Fprintf(&b, "  status:       %s\n", run.Status)
	if run.Error != "" {
		fmt.Fprintf(&b, "  error:        %s\n", run.Error)
	}
	if !run.StartedAt.IsZero() && !run.FinishedAt.IsZero() {
		fmt.Fprintf(&b, "  wall time:    %s\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	}

	objectives := frontObjectives(front)
	feasible := 0
	for _, member := range front {
		if member.Feasible {
			feasible++
		}
	}
	fmt.Fprintf(&b, "  front:        %d members, %d feasible\n", len(front), feasible)
	if ideal := IdealPoint(objectives); ideal != nil {
		fmt.Fprintf(&b, "  ideal point:  %s\n", formatVector(ideal))
	}
	if nadir := NadirPoint(objectives); nadir != nil {
		fmt.Fprintf(&b, "  nadir point:  %s\n", formatVector(nadir))
	}
	if len(objectives) >= 3 {
		fmt.Fprintf(&b, "  spacing:      %.6g\n", Spacing(objectives))
	}
	if n := len(diagnostics); n > 0 {
		last := diagnostics[n-1]
		if last.Hypervolume > 0 {
			fmt.Fprintf(&b, "  hypervolume:  %.6g\n", last.Hypervolume)
		}
	}
	return b.String()
}

// FrontTable renders the front as aligned rows, one candidate per line.
func FrontTable(front []model.FrontMember) string {
	var b strings.Builder
	for i, member := range front {
		marker := " "
		if !member.Feasible {
			marker = "!"
		}
		fmt.Fprintf(&b, "%3d %s f=%s", i, marker, formatVector(member.Objectives))
		if len(member.Constraints) > 0 {
			fmt.Fprintf(&b, " g=%s", formatVector(member.Constraints))
		}
		fmt.Fprintf(&b, " x=%s\n", formatVector(member.Variables))
	}
	return b.String()
}

func frontObjectives(front []model.FrontMember) [][]float64 {
	objectives := make([][]float64, 0, len(front))
	for _, member := range front {
		objectives = append(objectives, member.Objectives)
	}
	return objectives
}

func formatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, value := range v {
		parts[i] = fmt.Sprintf("%.6g", value)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
