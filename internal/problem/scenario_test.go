package problem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const scenarioYAML = `
year: 2030
total_heat_demand_gwh: 140
oil_boiler_efficiency: 0.82
ngas_boiler_efficiency: 0.91
biomass_boiler_efficiency: 0.77
biomass_chp_efficiency: 0.3
heat_pump_cop: 3.5
total_km_run_by_cars: 250e6
average_thousand_km_per_year_per_car: 12.1
conventional_car_efficiency_kwh_per_km: 0.6
electric_car_efficiency_kwh_per_km: 0.2
coal_share: 25
oil_share: 5
ngas_share: 40
co2_coal: 94.6
co2_oil: 74.0
co2_ngas: 56.1
additional_cost_keuro_per_gwh: 110
`

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vdn2030.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if s.Year != 2030 {
		t.Fatalf("year = %d, want 2030", s.Year)
	}
	if s.TotalHeatDemandGWh != 140 {
		t.Fatalf("heat demand = %v, want 140", s.TotalHeatDemandGWh)
	}
	if s.AdditionalCostKEuroPerGWh != 110 {
		t.Fatalf("additional cost = %v, want 110", s.AdditionalCostKEuroPerGWh)
	}
}

func TestLoadScenarioRejectsNonPositiveFields(t *testing.T) {
	bad := strings.Replace(scenarioYAML, "total_heat_demand_gwh: 140", "total_heat_demand_gwh: 0", 1)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadScenario(path); err == nil {
		t.Fatal("expected validation error for zero heat demand")
	}
}

func TestScenarioValidateRejectsImpossibleImportMix(t *testing.T) {
	s := DefaultVdNScenario()
	s.CoalShare = 60
	s.NGasShare = 60
	if err := s.Validate(); err == nil {
		t.Fatal("expected error for fuel shares above 100%")
	}
}

func TestDefaultVdNScenarioIsValid(t *testing.T) {
	if err := DefaultVdNScenario().Validate(); err != nil {
		t.Fatalf("default scenario invalid: %v", err)
	}
}
