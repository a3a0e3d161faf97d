// Package moea is the embeddable API of the optimization platform: a Client
// owns the store and the EnergyPLAN layout, runs optimizations and reads
// back persisted results.
package moea

import (
	"context"
	"time"

	"moea/internal/energyplan"
	"moea/internal/evo"
	"moea/internal/model"
	"moea/internal/platform"
	"moea/internal/problem"
	"moea/internal/stats"
	"moea/internal/storage"
)

const defaultDBPath = "moea.db"

type Options struct {
	StoreKind string
	DBPath    string
	// Root locates the EnergyPLAN installation; Layout overrides it in full
	// when set.
	Root    string
	Layout  *energyplan.Layout
	Wrapper []string
	Timeout time.Duration
	// ArtifactsDir enables on-disk run artifacts when non-empty.
	ArtifactsDir string
}

type Client struct {
	store        storage.Store
	director     *platform.Director
	artifactsDir string
}

type RunRequest struct {
	RunID        string
	Algorithm    string
	Problem      string
	DataFile     string
	ScenarioFile string
	Population   int
	Generations  int
	Seed         int64
}

type RunSummary struct {
	RunID        string
	ArtifactsDir string
	Outcome      platform.RunOutcome
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	layout := energyplan.DefaultLayout(opts.Root)
	if opts.Layout != nil {
		layout = opts.Layout.Normalize()
	}

	director, err := platform.NewDirector(platform.Config{
		Store:   store,
		Layout:  layout,
		Runner:  energyplan.ExecRunner{Wrapper: opts.Wrapper},
		Timeout: opts.Timeout,
	})
	if err != nil {
		_ = storage.CloseIfSupported(store)
		return nil, err
	}

	return &Client{
		store:        store,
		director:     director,
		artifactsDir: opts.ArtifactsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.director.Init(ctx)
}

// Run executes one optimization and, when an artifacts directory is
// configured, exports the outcome.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.Population <= 0 {
		req.Population = 40
	}
	if req.Generations <= 0 {
		req.Generations = 50
	}

	outcome, err := c.director.Run(ctx, platform.RunConfig{
		RunID:          req.RunID,
		Algorithm:      req.Algorithm,
		Problem:        req.Problem,
		DataFile:       req.DataFile,
		ScenarioFile:   req.ScenarioFile,
		PopulationSize: req.Population,
		Generations:    req.Generations,
		Seed:           req.Seed,
	})
	if err != nil {
		return RunSummary{}, err
	}

	summary := RunSummary{RunID: outcome.Run.ID, Outcome: outcome}
	if c.artifactsDir != "" {
		runDir, err := stats.WriteRunArtifacts(c.artifactsDir, stats.RunArtifacts{
			Run:          outcome.Run,
			Front:        outcome.Front,
			Diagnostics:  outcome.Diagnostics,
			IdealHistory: outcome.IdealHistory,
			Objectives:   outcome.ObjectiveNames,
			VariableKeys: outcome.VariableKeys,
		})
		if err != nil {
			return RunSummary{}, err
		}
		summary.ArtifactsDir = runDir
	}
	return summary, nil
}

func (c *Client) Runs(ctx context.Context) ([]model.RunRecord, error) {
	return c.store.ListRuns(ctx)
}

func (c *Client) Front(ctx context.Context, runID string) ([]model.FrontMember, bool, error) {
	return c.store.GetFront(ctx, runID)
}

func (c *Client) Diagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error) {
	return c.store.GetDiagnostics(ctx, runID)
}

func (c *Client) IdealHistory(ctx context.Context, runID string) ([][]float64, bool, error) {
	return c.store.GetHistory(ctx, runID)
}

// Problems lists the registered problem names.
func (c *Client) Problems() []string {
	problem.RegisterDefaults()
	return problem.Names()
}

// Algorithms lists the registered algorithm names.
func (c *Client) Algorithms() []string {
	evo.RegisterDefaults()
	return evo.Names()
}
