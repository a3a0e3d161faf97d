// moeactl drives EnergyPLAN-backed multi-objective optimization runs: it
// resolves a registered problem and algorithm, spools candidate scenarios
// through the external executable and reports the resulting front.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"moea/internal/energyplan"
	"moea/internal/evo"
	"moea/internal/model"
	"moea/internal/platform"
	"moea/internal/problem"
	"moea/internal/stats"
	"moea/internal/storage"
)

const version = "0.1.0"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "run":
		return runRun(ctx, args[1:], out)
	case "problems":
		return runProblems(args[1:], out)
	case "algorithms":
		return runAlgorithms(args[1:], out)
	case "runs":
		return runRuns(ctx, args[1:], out)
	case "report":
		return runReport(ctx, args[1:], out)
	case "front":
		return runFront(ctx, args[1:], out)
	case "history":
		return runHistory(ctx, args[1:], out)
	case "doctor":
		return runDoctor(args[1:], out)
	case "version":
		fmt.Fprintf(out, "moeactl %s\n", version)
		return nil
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf(`%s

usage: moeactl COMMAND [flags] [args]

commands:
  run [flags] ALGORITHM PROBLEM [DATA_FILE]   execute one optimization run
  problems                                    list registered problems
  algorithms                                  list registered algorithms
  runs [flags]                                list persisted runs
  report [flags] RUN_ID                       print a run summary
  front [flags] RUN_ID                        print a run's front
  history [flags] RUN_ID                      print a run's ideal-point history
  doctor [flags]                              check the EnergyPLAN installation
  version                                     print the version`, msg)
}

func runRun(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config path (default moeactl.yaml when present)")
	root := fs.String("root", "", "EnergyPLAN installation root (overrides config)")
	runID := fs.String("run-id", "", "explicit run id (optional)")
	popSize := fs.Int("pop-size", 40, "population size")
	nGen := fs.Int("n-gen", 50, "generation count")
	seed := fs.Int64("seed", 1, "rng seed")
	scenarioFile := fs.String("scenario", "", "YAML scenario assumptions path (vdn)")
	storeKind := fs.String("store", "", "store backend: memory|sqlite (overrides config)")
	dbPath := fs.String("db-path", "", "sqlite database path (overrides config)")
	outDir := fs.String("out", "", "artifacts directory (overrides config; empty disables)")
	wine := fs.Bool("wine", false, "invoke the executable through wine")
	quiet := fs.Bool("quiet", false, "suppress per-generation progress")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 || fs.NArg() > 3 {
		return usageError("run needs ALGORITHM PROBLEM [DATA_FILE]")
	}
	algorithm, problemName := fs.Arg(0), fs.Arg(1)
	dataFile := ""
	if fs.NArg() == 3 {
		dataFile = fs.Arg(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *root != "" {
		cfg.Layout.Root = *root
	}
	if *storeKind != "" {
		cfg.Store = *storeKind
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *outDir != "" {
		cfg.OutDir = *outDir
	}
	wrapper := cfg.Wrapper
	if *wine && len(wrapper) == 0 {
		wrapper = []string{"wine"}
	}

	store, err := storage.NewStore(cfg.Store, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	directorCfg := platform.Config{
		Store:   store,
		Layout:  cfg.Layout.Normalize(),
		Runner:  energyplan.ExecRunner{Wrapper: wrapper},
		Timeout: cfg.timeout(),
	}
	if !*quiet {
		directorCfg.Progress = func(done, total int) {
			fmt.Fprintf(out, "  evaluated %d/%d\n", done, total)
		}
		directorCfg.OnGeneration = func(diag model.GenerationDiagnostics) {
			fmt.Fprintf(out, "gen %3d front=%d feasible=%d ideal=%v\n",
				diag.Generation, diag.FrontSize, diag.FeasibleCount, diag.Ideal)
		}
	}

	director, err := platform.NewDirector(directorCfg)
	if err != nil {
		return err
	}
	if err := director.Init(ctx); err != nil {
		return err
	}

	outcome, err := director.Run(ctx, platform.RunConfig{
		RunID:          *runID,
		Algorithm:      algorithm,
		Problem:        problemName,
		DataFile:       dataFile,
		ScenarioFile:   *scenarioFile,
		PopulationSize: *popSize,
		Generations:    *nGen,
		Seed:           *seed,
	})
	if err != nil {
		return err
	}

	fmt.Fprint(out, stats.RunReport(outcome.Run, outcome.Front, outcome.Diagnostics))
	fmt.Fprint(out, stats.FrontTable(outcome.Front))

	if cfg.OutDir != "" {
		runDir, err := stats.WriteRunArtifacts(cfg.OutDir, stats.RunArtifacts{
			Run:          outcome.Run,
			Front:        outcome.Front,
			Diagnostics:  outcome.Diagnostics,
			IdealHistory: outcome.IdealHistory,
			Objectives:   outcome.ObjectiveNames,
			VariableKeys: outcome.VariableKeys,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "artifacts written to %s\n", runDir)
	}
	return nil
}

func runProblems(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("problems", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	problem.RegisterDefaults()
	for _, name := range problem.Names() {
		spec, err := problem.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-12s %s (data file: %s)\n", spec.Name, spec.Description, spec.DefaultDataFile)
	}
	return nil
}

func runAlgorithms(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("algorithms", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	evo.RegisterDefaults()
	for _, name := range evo.Names() {
		spec, err := evo.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-12s %s\n", spec.Name, spec.Description)
	}
	return nil
}

func runRuns(ctx context.Context, args []string, out io.Writer) error {
	store, _, err := storeFlags("runs", args)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	runs, err := store.ListRuns(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(out, "%s  %-12s %-8s pop=%d gens=%d evals=%d %s\n",
			run.ID, run.Problem, run.Algorithm, run.PopulationSize, run.Generations,
			run.Evaluations, run.Status)
	}
	return nil
}

func runReport(ctx context.Context, args []string, out io.Writer) error {
	store, fs, err := storeFlags("report", args)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()
	if fs.NArg() != 1 {
		return usageError("report needs RUN_ID")
	}
	runID := fs.Arg(0)

	run, ok, err := store.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("run not found: %s", runID)
	}
	front, _, err := store.GetFront(ctx, runID)
	if err != nil {
		return err
	}
	diagnostics, _, err := store.GetDiagnostics(ctx, runID)
	if err != nil {
		return err
	}
	fmt.Fprint(out, stats.RunReport(run, front, diagnostics))
	return nil
}

func runFront(ctx context.Context, args []string, out io.Writer) error {
	store, fs, err := storeFlags("front", args)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()
	if fs.NArg() != 1 {
		return usageError("front needs RUN_ID")
	}

	front, ok, err := store.GetFront(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("front not found: %s", fs.Arg(0))
	}
	fmt.Fprint(out, stats.FrontTable(front))
	return nil
}

func runHistory(ctx context.Context, args []string, out io.Writer) error {
	store, fs, err := storeFlags("history", args)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()
	if fs.NArg() != 1 {
		return usageError("history needs RUN_ID")
	}

	history, ok, err := store.GetHistory(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("history not found: %s", fs.Arg(0))
	}
	for gen, ideal := range history {
		fmt.Fprintf(out, "gen %3d ideal=%v\n", gen, ideal)
	}
	return nil
}

func runDoctor(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config path")
	root := fs.String("root", "", "EnergyPLAN installation root (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *root != "" {
		cfg.Layout.Root = *root
	}
	layout := cfg.Layout.Normalize()

	if err := layout.Validate(); err != nil {
		return fmt.Errorf("layout check failed: %w", err)
	}
	fmt.Fprintf(out, "layout ok: %s\n", layout.Root)

	problem.RegisterDefaults()
	broken := 0
	for _, name := range problem.Names() {
		spec, err := problem.Lookup(name)
		if err != nil {
			return err
		}
		if _, err := layout.DataFile(spec.DefaultDataFile); err != nil {
			fmt.Fprintf(out, "%-12s missing data file %s\n", spec.Name, spec.DefaultDataFile)
			broken++
			continue
		}
		fmt.Fprintf(out, "%-12s ok\n", spec.Name)
	}
	if broken > 0 {
		return fmt.Errorf("%d problem(s) missing their data file", broken)
	}
	return nil
}

// storeFlags parses the shared store flags plus positionals for read-only
// commands.
func storeFlags(name string, args []string) (storage.Store, *flag.FlagSet, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "moea.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Init(context.Background()); err != nil {
		_ = storage.CloseIfSupported(store)
		return nil, nil, err
	}
	return store, fs, nil
}

