package problem

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario holds the exogenous assumptions of a Val di Non target year.
// Tables are authored as YAML files; DefaultVdNScenario covers the 2020
// reference year.
type Scenario struct {
	Year int `yaml:"year"`

	// Heat sector.
	TotalHeatDemandGWh       float64 `yaml:"total_heat_demand_gwh"`
	OilBoilerEfficiency      float64 `yaml:"oil_boiler_efficiency"`
	NGasBoilerEfficiency     float64 `yaml:"ngas_boiler_efficiency"`
	BiomassBoilerEfficiency  float64 `yaml:"biomass_boiler_efficiency"`
	BiomassCHPEfficiency     float64 `yaml:"biomass_chp_efficiency"`
	HeatPumpCOP              float64 `yaml:"heat_pump_cop"`

	// Transport sector.
	TotalKMRunByCars       float64 `yaml:"total_km_run_by_cars"`
	AverageKMPerYearPerCar float64 `yaml:"average_thousand_km_per_year_per_car"`
	ConCarEfficiencyKWhKM  float64 `yaml:"conventional_car_efficiency_kwh_per_km"`
	EVCarEfficiencyKWhKM   float64 `yaml:"electric_car_efficiency_kwh_per_km"`

	// Imported electricity mix and emission factors (kg CO2 per GJ).
	CoalShare float64 `yaml:"coal_share"`
	OilShare  float64 `yaml:"oil_share"`
	NGasShare float64 `yaml:"ngas_share"`
	CO2Coal   float64 `yaml:"co2_coal"`
	CO2Oil    float64 `yaml:"co2_oil"`
	CO2NGas   float64 `yaml:"co2_ngas"`

	// Grid cost of locally balanced electricity, kEUR per GWh.
	AdditionalCostKEuroPerGWh float64 `yaml:"additional_cost_keuro_per_gwh"`
}

// DefaultVdNScenario is the 2020 reference-year assumption set used when no
// scenario file is supplied.
func DefaultVdNScenario() Scenario {
	return Scenario{
		Year:                      2020,
		TotalHeatDemandGWh:        152.0,
		OilBoilerEfficiency:       0.80,
		NGasBoilerEfficiency:      0.90,
		BiomassBoilerEfficiency:   0.75,
		BiomassCHPEfficiency:      0.25,
		HeatPumpCOP:               3.2,
		TotalKMRunByCars:          230e6,
		AverageKMPerYearPerCar:    11.8,
		ConCarEfficiencyKWhKM:     0.65,
		EVCarEfficiencyKWhKM:      0.235,
		CoalShare:                 30.0,
		OilShare:                  5.0,
		NGasShare:                 45.0,
		CO2Coal:                   94.6,
		CO2Oil:                    74.0,
		CO2NGas:                   56.1,
		AdditionalCostKEuroPerGWh: 106.27,
	}
}

// LoadScenario reads a YAML scenario table.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, err
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

func (s Scenario) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"total_heat_demand_gwh", s.TotalHeatDemandGWh},
		{"oil_boiler_efficiency", s.OilBoilerEfficiency},
		{"ngas_boiler_efficiency", s.NGasBoilerEfficiency},
		{"biomass_boiler_efficiency", s.BiomassBoilerEfficiency},
		{"total_km_run_by_cars", s.TotalKMRunByCars},
		{"average_thousand_km_per_year_per_car", s.AverageKMPerYearPerCar},
		{"conventional_car_efficiency_kwh_per_km", s.ConCarEfficiencyKWhKM},
		{"electric_car_efficiency_kwh_per_km", s.EVCarEfficiencyKWhKM},
	}
	for _, field := range positive {
		if field.value <= 0 {
			return fmt.Errorf("%s must be > 0", field.name)
		}
	}
	if share := s.CoalShare + s.OilShare + s.NGasShare; share > 100 {
		return fmt.Errorf("import fuel shares exceed 100%%: %v", share)
	}
	return nil
}
