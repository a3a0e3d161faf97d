package problem

import "sync"

var registerOnce sync.Once

// RegisterDefaults installs the built-in problems. Safe to call more than
// once.
func RegisterDefaults() {
	registerOnce.Do(func() {
		Register(Spec{
			Name:            "mahbub2016",
			Aliases:         []string{"mahbub", "aalborg2050"},
			DefaultDataFile: "Aalborg2050_vision.txt",
			Description:     "Aalborg 2050 capacity expansion, 6 variables, 2 objectives, unconstrained",
			Build: func(h *Harness, opts Options) (Problem, error) {
				return NewMahbub2016(h)
			},
		})
		Register(Spec{
			Name:            "aalborg",
			Aliases:         []string{"aalborg2050c", "mahbub2017"},
			DefaultDataFile: "Aalborg_2050_Plan_A_44ForOptimization_2objectives.txt",
			Description:     "Constrained Aalborg 2050 model, 7 variables, 2 objectives, 3 constraints",
			Build: func(h *Harness, opts Options) (Problem, error) {
				return NewAalborg(h)
			},
		})
		Register(Spec{
			Name:            "giudicarie",
			Aliases:         []string{"ceis"},
			DefaultDataFile: "CEISCompleteCurrent.txt",
			Description:     "Giudicarie Esteriori heat and PV planning, 6 variables, 2 objectives",
			Build: func(h *Harness, opts Options) (Problem, error) {
				return NewGiudicarie(h)
			},
		})
		Register(Spec{
			Name:            "vdn",
			Aliases:         []string{"valdinon"},
			DefaultDataFile: "VdN_SH_2008.txt",
			Description:     "Val di Non heat, PV and transport planning, 11 variables, 2 objectives, 1 constraint",
			Build: func(h *Harness, opts Options) (Problem, error) {
				scenario := DefaultVdNScenario()
				if opts.ScenarioFile != "" {
					loaded, err := LoadScenario(opts.ScenarioFile)
					if err != nil {
						return nil, err
					}
					scenario = loaded
				}
				return NewVdN(h, scenario)
			},
		})
	})
}
