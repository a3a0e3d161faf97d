package problem

import (
	"context"
	"sort"

	"moea/internal/energyplan"
)

// Biomass availability ceiling of the valley, GWh/year.
const vdnBiomassLimitGWh = 98.84

// VdN is the Val di Non model: PV capacity, a sorted-percentage split of the
// heat demand across oil, natural-gas and biomass boilers, biomass micro-CHP
// and heat pumps, the electric-car share of the vehicle fleet, and solar
// thermal fractions per heating technology. Objectives are local CO2
// emissions (including the footprint of imported electricity) and the actual
// annual cost; the single constraint caps biomass consumption at the
// valley's availability.
type VdN struct {
	harness  *Harness
	scenario Scenario
	vars     []Variable
}

func NewVdN(h *Harness, scenario Scenario) (*VdN, error) {
	p := &VdN{
		harness:  h,
		scenario: scenario,
		vars: []Variable{
			{Key: "input_RES1_capacity", Lower: 936, Upper: 40000, Knowledge: []Bias{BiasIncrease, BiasDecrease}},
			{Key: "input_fuel_Households[2]", Lower: 0, Upper: 1, Knowledge: []Bias{BiasDecrease, BiasNone}},
			{Key: "input_fuel_Households[3]", Lower: 0, Upper: 1, Knowledge: []Bias{BiasNone, BiasNone}},
			{Key: "input_fuel_Households[4]", Lower: 0, Upper: 1, Knowledge: []Bias{BiasIncrease, BiasIncrease}},
			{Key: "input_HH_BioCHP_heat", Lower: 0, Upper: 1, Knowledge: []Bias{BiasIncrease, BiasDecrease}},
			{Key: "input_transport_TWh", Lower: 0, Upper: 1, Knowledge: []Bias{BiasIncrease, BiasDecrease}},
			{Key: "input_HH_oilboiler_Solar", Lower: 0, Upper: 1, Knowledge: []Bias{BiasDecrease, BiasDecrease}},
			{Key: "input_HH_ngasboiler_Solar", Lower: 0, Upper: 1, Knowledge: []Bias{BiasDecrease, BiasDecrease}},
			{Key: "input_HH_bioboiler_Solar", Lower: 0, Upper: 1, Knowledge: []Bias{BiasIncrease, BiasIncrease}},
			{Key: "input_HH_bioCHP_solar", Lower: 0, Upper: 1, Knowledge: []Bias{BiasIncrease, BiasDecrease}},
			{Key: "input_HH_HP_solar", Lower: 0, Upper: 1, Knowledge: []Bias{BiasIncrease, BiasNone}},
		},
	}
	if err := h.CheckVariables(p.vars); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *VdN) Name() string          { return "vdn" }
func (p *VdN) Variables() []Variable { return p.vars }
func (p *VdN) ConstraintCount() int  { return 1 }

func (p *VdN) ObjectiveNames() []string {
	return []string{"Local CO2 emissions", "Actual annual costs"}
}

// Scenario exposes the assumption table the problem was built with.
func (p *VdN) Scenario() Scenario { return p.scenario }

// vdnDerived holds the per-candidate quantities derived from the decision
// vector before the EnergyPLAN call.
type vdnDerived struct {
	oilFuel, ngasFuel, bioFuel float64
	chpHeat, hpHeat            float64
	dieselGWh, evGWh           float64
	conCars, evCars            float64
}

func (p *VdN) derive(row []float64) vdnDerived {
	s := p.scenario

	cuts := append([]float64(nil), row[1:5]...)
	sort.Float64s(cuts)
	oilShare := cuts[0]
	ngasShare := cuts[1] - cuts[0]
	bioShare := cuts[2] - cuts[1]
	chpShare := cuts[3] - cuts[2]
	hpShare := 1 - cuts[3]

	evShare := row[5]
	conKM := s.TotalKMRunByCars * (1 - evShare)
	evKM := s.TotalKMRunByCars * evShare

	var d vdnDerived
	d.oilFuel = oilShare * s.TotalHeatDemandGWh / s.OilBoilerEfficiency
	d.ngasFuel = ngasShare * s.TotalHeatDemandGWh / s.NGasBoilerEfficiency
	d.bioFuel = bioShare * s.TotalHeatDemandGWh / s.BiomassBoilerEfficiency
	d.chpHeat = chpShare * s.TotalHeatDemandGWh
	d.hpHeat = hpShare * s.TotalHeatDemandGWh

	d.dieselGWh = conKM * s.ConCarEfficiencyKWhKM / 1e6
	d.evGWh = evKM * s.EVCarEfficiencyKWhKM / 1e6
	d.conCars = d.dieselGWh * 1e6 / (s.ConCarEfficiencyKWhKM * s.AverageKMPerYearPerCar * 1e3)
	d.evCars = d.evGWh * 1e6 / (s.EVCarEfficiencyKWhKM * s.AverageKMPerYearPerCar * 1e3)
	return d
}

func (p *VdN) Evaluate(ctx context.Context, x [][]float64) (Evaluation, error) {
	if err := checkBatch(p, x); err != nil {
		return Evaluation{}, err
	}

	batch := make([]energyplan.Assignment, len(x))
	for i, row := range x {
		d := p.derive(row)
		batch[i] = energyplan.Assignment{
			"input_RES1_capacity":       energyplan.Integer(row[0]),
			"input_fuel_Households[2]":  energyplan.Number(d.oilFuel),
			"input_HH_oilboiler_Solar":  energyplan.Number(d.oilFuel * row[6]),
			"input_fuel_Households[3]":  energyplan.Number(d.ngasFuel),
			"input_HH_ngasboiler_Solar": energyplan.Number(d.ngasFuel * row[7]),
			"input_fuel_Households[4]":  energyplan.Number(d.bioFuel),
			"input_HH_bioboiler_Solar":  energyplan.Number(d.bioFuel * row[8]),
			"input_HH_BioCHP_heat":      energyplan.Number(d.chpHeat),
			"input_HH_bioCHP_solar":     energyplan.Number(d.chpHeat * row[9] * p.scenario.BiomassCHPEfficiency),
			"input_HH_HP_heat":          energyplan.Number(d.hpHeat),
			"input_HH_HP_solar":         energyplan.Number(d.hpHeat * row[10]),
			"input_fuel_Transport[5]":   energyplan.Number(d.dieselGWh),
			"input_transport_TWh":       energyplan.Number(d.evGWh),

			"Input_Size_transport_conventional_cars": energyplan.Integer(d.conCars),
			"Input_Size_transport_electric_cars":     energyplan.Integer(d.evCars),
		}
	}

	raw, docs, err := p.harness.ScalarObjectives(ctx, batch,
		"CO2-emission (total)",
		"Variable costs",
		"Fixed operation costs",
		"Annual Investment costs",
	)
	if err != nil {
		return Evaluation{}, err
	}

	s := p.scenario
	objectives := make([][]float64, len(docs))
	constraints := make([][]float64, len(docs))
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
		biomass, err := doc.FuelTotal("Biomass Consumption")
		if err != nil {
			return Evaluation{}, err
		}

		// Footprint of imported electricity: GWh * share * kg/GJ * 3600 GJ/GWh,
		// converted to kt.
		importCO2 := imported * (s.CoalShare*s.CO2Coal + s.OilShare*s.CO2Oil + s.NGasShare*s.CO2NGas) / 100 * 3600 / 1e6
		localCO2 := raw[i][0] + importCO2

		gridCost := (hydro + pv + imported - exported + hhCHP) * s.AdditionalCostKEuroPerGWh
		actualCost := raw[i][1] + raw[i][2] + raw[i][3] + gridCost

		objectives[i] = []float64{localCO2, actualCost}
		constraints[i] = []float64{biomass - vdnBiomassLimitGWh}
	}

	return Evaluation{Objectives: objectives, Constraints: constraints}, nil
}
