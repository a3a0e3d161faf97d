package problem

import (
	"context"

	"moea/internal/energyplan"
)

// Mahbub2016 replicates the Aalborg 2050 capacity-expansion study of
// Mahbub, Cozzini, Østergaard and Alberti (2016): six plant-capacity
// decision variables, minimizing total CO2 emissions and total annual costs,
// unconstrained.
type Mahbub2016 struct {
	harness    *Harness
	vars       []Variable
	objectives []string
}

func NewMahbub2016(h *Harness) (*Mahbub2016, error) {
	p := &Mahbub2016{
		harness: h,
		vars: []Variable{
			{Key: "input_cap_chp3_el", Lower: 0, Upper: 1000},
			{Key: "input_cap_hp3_el", Lower: 0, Upper: 1000},
			{Key: "input_cap_pp_el", Lower: 0, Upper: 1000},
			{Key: "input_RES1_capacity", Lower: 0, Upper: 1500},
			{Key: "input_RES2_capacity", Lower: 0, Upper: 1500},
			{Key: "input_RES3_capacity", Lower: 0, Upper: 1500},
		},
		objectives: []string{
			"CO2-emission (total)",
			"TOTAL ANNUAL COSTS",
		},
	}
	if err := h.CheckVariables(p.vars); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Mahbub2016) Name() string             { return "mahbub2016" }
func (p *Mahbub2016) Variables() []Variable    { return p.vars }
func (p *Mahbub2016) ObjectiveNames() []string { return p.objectives }
func (p *Mahbub2016) ConstraintCount() int     { return 0 }

func (p *Mahbub2016) Evaluate(ctx context.Context, x [][]float64) (Evaluation, error) {
	if err := checkBatch(p, x); err != nil {
		return Evaluation{}, err
	}

	batch := make([]energyplan.Assignment, len(x))
	for i, row := range x {
		assign := make(energyplan.Assignment, len(p.vars))
		for j, v := range p.vars {
			assign[v.Key] = energyplan.Number(row[j])
		}
		batch[i] = assign
	}

	values, _, err := p.harness.ScalarObjectives(ctx, batch, p.objectives...)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{Objectives: values}, nil
}
