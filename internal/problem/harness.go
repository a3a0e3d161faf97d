package problem

import (
	"context"
	"errors"
	"fmt"

	"moea/internal/energyplan"
)

// Harness couples a parsed scenario template with the spool adapter. All
// EnergyPLAN-backed problems evaluate through a Harness; tests substitute the
// spooler's Runner to avoid the real executable.
type Harness struct {
	Template *energyplan.Template
	Spooler  *energyplan.Spooler
}

func NewHarness(tpl *energyplan.Template, spooler *energyplan.Spooler) (*Harness, error) {
	if tpl == nil {
		return nil, errors.New("template is required")
	}
	if spooler == nil {
		return nil, errors.New("spooler is required")
	}
	return &Harness{Template: tpl, Spooler: spooler}, nil
}

// CheckVariables verifies every variable key exists in the template, so a
// problem definition cannot silently bind to nothing.
func (h *Harness) CheckVariables(vars []Variable) error {
	for _, v := range vars {
		if !h.Template.Has(v.Key) {
			return fmt.Errorf("variable key not in scenario template: %s", v.Key)
		}
		if v.Upper < v.Lower {
			return fmt.Errorf("variable %s has inverted bounds [%v, %v]", v.Key, v.Lower, v.Upper)
		}
	}
	return nil
}

// RunBatch materializes one input file per assignment, invokes the external
// process once, and returns the parsed result documents in candidate order.
func (h *Harness) RunBatch(ctx context.Context, batch []energyplan.Assignment) ([]*energyplan.Document, error) {
	return h.Spooler.EvaluateBatch(ctx, h.Template, batch)
}

// ScalarObjectives runs the batch and resolves the named scalar objectives
// from each result document.
func (h *Harness) ScalarObjectives(ctx context.Context, batch []energyplan.Assignment, keys ...string) ([][]float64, []*energyplan.Document, error) {
	docs, err := h.RunBatch(ctx, batch)
	if err != nil {
		return nil, nil, err
	}
	values := make([][]float64, len(docs))
	for i, doc := range docs {
		row, err := doc.Objectives(keys...)
		if err != nil {
			return nil, nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		values[i] = row
	}
	return values, docs, nil
}
