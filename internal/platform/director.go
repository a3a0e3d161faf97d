// Package platform wires the optimization layers together: it resolves a
// registered problem and algorithm, binds the problem to an EnergyPLAN
// installation through the spool adapter, runs the search and persists the
// outcome.
package platform

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moea/internal/energyplan"
	"moea/internal/evo"
	"moea/internal/model"
	"moea/internal/problem"
	"moea/internal/stats"
	"moea/internal/storage"
)

// Config assembles a Director. Store and Layout are required; Runner defaults
// to executing the real binary.
type Config struct {
	Store   storage.Store
	Layout  energyplan.Layout
	Runner  energyplan.Runner
	Timeout time.Duration

	// Progress, when set, receives (done, total) as result files appear
	// during an external batch.
	Progress func(done, total int)
	// OnGeneration, when set, receives each generation's diagnostics as the
	// run advances.
	OnGeneration func(model.GenerationDiagnostics)
}

// RunConfig is one optimization request.
type RunConfig struct {
	RunID          string
	Algorithm      string
	Problem        string
	DataFile       string
	ScenarioFile   string
	PopulationSize int
	Generations    int
	Seed           int64
}

// RunOutcome is everything one finished run produced. ObjectiveNames and
// VariableKeys label the front's columns for reports and exports.
type RunOutcome struct {
	Run            model.RunRecord
	Front          []model.FrontMember
	Diagnostics    []model.GenerationDiagnostics
	IdealHistory   [][]float64
	ObjectiveNames []string
	VariableKeys   []string
}

type Director struct {
	store  storage.Store
	config Config
}

func NewDirector(cfg Config) (*Director, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	problem.RegisterDefaults()
	evo.RegisterDefaults()
	return &Director{store: cfg.Store, config: cfg}, nil
}

// Init prepares the backing store.
func (d *Director) Init(ctx context.Context) error {
	return d.store.Init(ctx)
}

// VerifyLayout reports whether the configured EnergyPLAN installation is
// usable, without running anything.
func (d *Director) VerifyLayout() error {
	return d.config.Layout.Validate()
}

// Run executes one optimization end to end. The run record is persisted as
// running before the search starts and finalized as completed or failed, so
// an interrupted run still leaves a trace.
func (d *Director) Run(ctx context.Context, cfg RunConfig) (RunOutcome, error) {
	if cfg.Problem == "" {
		return RunOutcome{}, errors.New("problem name is required")
	}
	if cfg.Algorithm == "" {
		return RunOutcome{}, errors.New("algorithm name is required")
	}

	pSpec, err := problem.Lookup(cfg.Problem)
	if err != nil {
		return RunOutcome{}, err
	}
	aSpec, err := evo.Lookup(cfg.Algorithm)
	if err != nil {
		return RunOutcome{}, err
	}

	dataFile := cfg.DataFile
	if dataFile == "" {
		dataFile = pSpec.DefaultDataFile
	}
	prob, err := d.buildProblem(pSpec, dataFile, cfg.ScenarioFile)
	if err != nil {
		return RunOutcome{}, err
	}

	evoCfg := evo.Config{
		PopulationSize: cfg.PopulationSize,
		Generations:    cfg.Generations,
		Seed:           cfg.Seed,
	}
	if err := aSpec.Configure(prob, &evoCfg); err != nil {
		return RunOutcome{}, fmt.Errorf("configure %s for %s: %w", aSpec.Name, pSpec.Name, err)
	}

	runID := cfg.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	run := model.RunRecord{
		VersionedRecord: versioned(),
		ID:              runID,
		Problem:         pSpec.Name,
		Algorithm:       aSpec.Name,
		DataFile:        dataFile,
		PopulationSize:  cfg.PopulationSize,
		Generations:     cfg.Generations,
		Seed:            cfg.Seed,
		Status:          model.RunStatusRunning,
		StartedAt:       time.Now().UTC(),
	}
	if err := d.store.SaveRun(ctx, run); err != nil {
		return RunOutcome{}, err
	}

	collector := newDiagnosticsCollector(prob, d.config.OnGeneration)
	evoCfg.OnGeneration = collector.observe

	result, runErr := evo.Run(ctx, prob, evoCfg)
	run.FinishedAt = time.Now().UTC()

	if runErr != nil {
		run.Status = model.RunStatusFailed
		run.Error = runErr.Error()
		if err := d.store.SaveRun(ctx, run); err != nil {
			return RunOutcome{}, errors.Join(runErr, err)
		}
		d.persistProgress(ctx, runID, collector)
		return RunOutcome{Run: run}, runErr
	}

	run.Status = model.RunStatusCompleted
	run.Evaluations = result.Evaluations
	front := toFrontMembers(result.Front)

	if err := d.store.SaveRun(ctx, run); err != nil {
		return RunOutcome{}, err
	}
	if err := d.store.SaveFront(ctx, runID, front); err != nil {
		return RunOutcome{}, err
	}
	if err := d.store.SaveDiagnostics(ctx, runID, collector.diagnostics); err != nil {
		return RunOutcome{}, err
	}
	if err := d.store.SaveHistory(ctx, runID, collector.idealHistory); err != nil {
		return RunOutcome{}, err
	}
	if err := d.updateProblemSummary(ctx, pSpec, collector.lastIdeal()); err != nil {
		return RunOutcome{}, err
	}

	return RunOutcome{
		Run:            run,
		Front:          front,
		Diagnostics:    collector.diagnostics,
		IdealHistory:   collector.idealHistory,
		ObjectiveNames: prob.ObjectiveNames(),
		VariableKeys:   variableKeys(prob),
	}, nil
}

func variableKeys(p problem.Problem) []string {
	vars := p.Variables()
	keys := make([]string, len(vars))
	for i, v := range vars {
		keys[i] = v.Key
	}
	return keys
}

func (d *Director) buildProblem(pSpec problem.Spec, dataFile, scenarioFile string) (problem.Problem, error) {
	path, err := d.config.Layout.DataFile(dataFile)
	if err != nil {
		return nil, err
	}
	tpl, err := energyplan.ParseTemplate(path)
	if err != nil {
		return nil, err
	}
	spooler, err := energyplan.NewSpooler(energyplan.SpoolerConfig{
		Layout:   d.config.Layout,
		Runner:   d.config.Runner,
		Timeout:  d.config.Timeout,
		Progress: d.config.Progress,
	})
	if err != nil {
		return nil, err
	}
	harness, err := problem.NewHarness(tpl, spooler)
	if err != nil {
		return nil, err
	}
	prob, err := pSpec.Build(harness, problem.Options{
		DataFile:     dataFile,
		ScenarioFile: scenarioFile,
	})
	if err != nil {
		return nil, fmt.Errorf("build problem %s: %w", pSpec.Name, err)
	}
	return prob, nil
}

// persistProgress saves whatever diagnostics a failed run accumulated.
// Failures here are secondary to the run error itself.
func (d *Director) persistProgress(ctx context.Context, runID string, collector *diagnosticsCollector) {
	if len(collector.diagnostics) > 0 {
		_ = d.store.SaveDiagnostics(ctx, runID, collector.diagnostics)
	}
	if len(collector.idealHistory) > 0 {
		_ = d.store.SaveHistory(ctx, runID, collector.idealHistory)
	}
}

func (d *Director) updateProblemSummary(ctx context.Context, pSpec problem.Spec, ideal []float64) error {
	summary, ok, err := d.store.GetProblemSummary(ctx, pSpec.Name)
	if err != nil {
		return err
	}
	if !ok {
		summary = model.ProblemSummary{
			VersionedRecord: versioned(),
			Name:            pSpec.Name,
			Description:     pSpec.Description,
		}
	}
	summary.RunCount++
	if len(summary.BestIdeal) != len(ideal) {
		summary.BestIdeal = append([]float64(nil), ideal...)
	} else {
		for k, v := range ideal {
			if v < summary.BestIdeal[k] {
				summary.BestIdeal[k] = v
			}
		}
	}
	return d.store.SaveProblemSummary(ctx, summary)
}

// diagnosticsCollector turns evo progress into persisted diagnostics. The
// hypervolume reference point is fixed from the first generation's worst
// front values, padded by ten percent, so the series is comparable across
// generations of one run.
type diagnosticsCollector struct {
	twoObjectives bool
	reference     []float64
	diagnostics   []model.GenerationDiagnostics
	idealHistory  [][]float64
	onGeneration  func(model.GenerationDiagnostics)
}

func newDiagnosticsCollector(p problem.Problem, onGeneration func(model.GenerationDiagnostics)) *diagnosticsCollector {
	return &diagnosticsCollector{
		twoObjectives: len(p.ObjectiveNames()) == 2,
		onGeneration:  onGeneration,
	}
}

func (c *diagnosticsCollector) observe(progress evo.Progress) {
	diag := model.GenerationDiagnostics{
		Generation:    progress.Generation,
		Evaluations:   progress.Evaluations,
		FrontSize:     progress.FrontSize,
		FeasibleCount: progress.FeasibleCount,
		Ideal:         append([]float64(nil), progress.Ideal...),
	}
	if c.twoObjectives && len(progress.FrontObjectives) > 0 {
		if c.reference == nil {
			c.reference = referencePoint(progress.FrontObjectives)
		}
		diag.Hypervolume = stats.Hypervolume2D(progress.FrontObjectives, c.reference)
	}
	c.diagnostics = append(c.diagnostics, diag)
	c.idealHistory = append(c.idealHistory, diag.Ideal)
	if c.onGeneration != nil {
		c.onGeneration(diag)
	}
}

func (c *diagnosticsCollector) lastIdeal() []float64 {
	if len(c.idealHistory) == 0 {
		return nil
	}
	return c.idealHistory[len(c.idealHistory)-1]
}

func referencePoint(front [][]float64) []float64 {
	ideal := stats.IdealPoint(front)
	nadir := stats.NadirPoint(front)
	ref := make([]float64, len(nadir))
	for k := range nadir {
		span := nadir[k] - ideal[k]
		if span <= 0 {
			span = 1
		}
		ref[k] = nadir[k] + 0.1*span
	}
	return ref
}

func toFrontMembers(front []evo.Individual) []model.FrontMember {
	members := make([]model.FrontMember, 0, len(front))
	for _, ind := range front {
		members = append(members, model.FrontMember{
			VersionedRecord: versioned(),
			Rank:            ind.Rank,
			Variables:       append([]float64(nil), ind.X...),
			Objectives:      append([]float64(nil), ind.F...),
			Constraints:     append([]float64(nil), ind.G...),
			Feasible:        ind.Feasible(),
		})
	}
	return members
}

func versioned() model.VersionedRecord {
	return model.VersionedRecord{
		SchemaVersion: storage.CurrentSchemaVersion,
		CodecVersion:  storage.CurrentCodecVersion,
	}
}
