package problem

import (
	"context"
	"math"
	"sort"

	"moea/internal/energyplan"
)

// Giudicarie Esteriori valley model (Mahbub, Viesi, Crema 2016): PV capacity
// plus a sorted-percentage split of the household heat demand across oil,
// LPG and biomass boilers, biomass micro-CHP and heat pumps. Objectives are
// corrected CO2 emissions and the actual annual cost: variable plus fixed
// operation plus annualized investment for capacity added beyond today's
// stock plus the grid cost of locally balanced electricity.
type Giudicarie struct {
	harness *Harness
	vars    []Variable
}

// Giudicarie valley economics and current installations.
const (
	giudicariePVCostKEuroPerKW    = 2.6
	giudicarieInterest            = 0.04
	giudicariePVLifetimeYears     = 30
	giudicarieCurrentPVCapacityKW = 7514
	giudicarieTotalHeatDemandGWh  = 55.82
	giudicarieOilBoilerEfficiency = 0.80
	giudicarieLPGBoilerEfficiency = 0.90
	giudicarieBioBoilerEfficiency = 0.75
	giudicarieGridCostKEuroPerGWh = 106.27
)

func NewGiudicarie(h *Harness) (*Giudicarie, error) {
	p := &Giudicarie{
		harness: h,
		vars: []Variable{
			{Key: "input_RES1_capacity", Lower: 5000, Upper: 42000, Knowledge: []Bias{BiasIncrease, BiasDecrease}},
			{Key: "input_fuel_Households[2]", Lower: 0, Upper: 1, Knowledge: []Bias{BiasDecrease, BiasNone}},
			{Key: "input_fuel_Households[3]", Lower: 0, Upper: 1, Knowledge: []Bias{BiasNone, BiasNone}},
			{Key: "input_fuel_Households[4]", Lower: 0, Upper: 1, Knowledge: []Bias{BiasIncrease, BiasIncrease}},
			{Key: "input_HH_BioCHP_heat", Lower: 0, Upper: 1, Knowledge: []Bias{BiasIncrease, BiasDecrease}},
			{Key: "input_HH_HP_heat", Lower: 0, Upper: 1, Knowledge: []Bias{BiasIncrease, BiasDecrease}},
		},
	}
	if err := h.CheckVariables(p.vars); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Giudicarie) Name() string          { return "giudicarie" }
func (p *Giudicarie) Variables() []Variable { return p.vars }
func (p *Giudicarie) ConstraintCount() int  { return 0 }

func (p *Giudicarie) ObjectiveNames() []string {
	return []string{"CO2-emission (corrected)", "Actual annual costs"}
}

// heatSplit turns the four free percentage variables into an exhaustive
// split of the heat demand: sorting makes the cut points order-free, and the
// heat pump share takes the remainder so the split always sums to one.
func heatSplit(cuts []float64) (oil, lpg, biomass, chp, hp float64) {
	s := append([]float64(nil), cuts...)
	sort.Float64s(s)
	oil = s[0]
	lpg = s[1] - s[0]
	biomass = s[2] - s[1]
	chp = s[3] - s[2]
	hp = 1 - s[3]
	return
}

// annuity converts an overnight investment into an equivalent annual cost.
func annuity(investment, interest float64, lifetimeYears int) float64 {
	if investment <= 0 {
		return 0
	}
	return investment * interest / (1 - math.Pow(1+interest, -float64(lifetimeYears)))
}

func (p *Giudicarie) Evaluate(ctx context.Context, x [][]float64) (Evaluation, error) {
	if err := checkBatch(p, x); err != nil {
		return Evaluation{}, err
	}

	batch := make([]energyplan.Assignment, len(x))
	for i, row := range x {
		oil, lpg, biomass, chp, hp := heatSplit(row[1:5])
		batch[i] = energyplan.Assignment{
			"input_RES1_capacity":      energyplan.Integer(row[0]),
			"input_fuel_Households[2]": energyplan.Number(oil * giudicarieTotalHeatDemandGWh / giudicarieOilBoilerEfficiency),
			"input_fuel_Households[3]": energyplan.Number(lpg * giudicarieTotalHeatDemandGWh / giudicarieLPGBoilerEfficiency),
			"input_fuel_Households[4]": energyplan.Number(biomass * giudicarieTotalHeatDemandGWh / giudicarieBioBoilerEfficiency),
			"input_HH_BioCHP_heat":     energyplan.Number(chp * giudicarieTotalHeatDemandGWh),
			"input_HH_HP_heat":         energyplan.Number(hp * giudicarieTotalHeatDemandGWh),
		}
	}

	raw, docs, err := p.harness.ScalarObjectives(ctx, batch,
		"CO2-emission (corrected)",
		"Variable costs",
		"Fixed operation costs",
		"Annual Investment costs",
	)
	if err != nil {
		return Evaluation{}, err
	}

	objectives := make([][]float64, len(docs))
	for i, doc := range docs {
		hydro, err := doc.Annual("Hydro Electr.")
		if err != nil {
			return Evaluation{}, err
		}
		pv, err := doc.Annual("PV Electr.")
		if err != nil {
			return Evaluation{}, err
		}
		imported, err := doc.Annual("Import Electr.")
		if err != nil {
			return Evaluation{}, err
		}
		exported, err := doc.Annual("Export Electr.")
		if err != nil {
			return Evaluation{}, err
		}
		hhCHP, err := doc.Annual("HH-CHP Electr.")
		if err != nil {
			return Evaluation{}, err
		}

		addedPVKW := x[i][0] - giudicarieCurrentPVCapacityKW
		pvInvestment := annuity(addedPVKW*giudicariePVCostKEuroPerKW, giudicarieInterest, giudicariePVLifetimeYears)
		gridCost := (hydro + pv + imported - exported + hhCHP) * giudicarieGridCostKEuroPerGWh

		co2 := raw[i][0]
		actualCost := raw[i][1] + raw[i][2] + raw[i][3] + pvInvestment + gridCost
		objectives[i] = []float64{co2, actualCost}
	}

	return Evaluation{Objectives: objectives}, nil
}
