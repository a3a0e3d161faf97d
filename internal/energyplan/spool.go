package energyplan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

var (
	ErrMissingResult = errors.New("result file missing")
	ErrProcessFailed = errors.New("energyplan process failed")
)

// Runner executes the external program. It exists so tests and remote setups
// can substitute the real binary.
type Runner interface {
	Run(ctx context.Context, dir, exe string, args []string) error
}

// ExecRunner invokes the executable through os/exec, optionally via a wrapper
// command (e.g. wine on non-Windows hosts).
type ExecRunner struct {
	Wrapper []string
}

func (r ExecRunner) Run(ctx context.Context, dir, exe string, args []string) error {
	name := exe
	argv := args
	if len(r.Wrapper) > 0 {
		name = r.Wrapper[0]
		argv = append(append(append([]string(nil), r.Wrapper[1:]...), exe), args...)
	}
	cmd := exec.CommandContext(ctx, name, argv...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %v (output: %s)", ErrProcessFailed, err, truncateOutput(out))
	}
	return nil
}

func truncateOutput(out []byte) string {
	const limit = 512
	if len(out) > limit {
		out = out[:limit]
	}
	return string(out)
}

// SpoolerConfig configures a Spooler. Layout is required; the rest defaults.
type SpoolerConfig struct {
	Layout  Layout
	Runner  Runner
	Timeout time.Duration
	// Progress, when set, is called with (completed, total) as result files
	// appear while the external process runs.
	Progress func(done, total int)
}

// Spooler drives one external invocation per batch: materialize N input
// files, invoke once with all N names, block until exit, read back exactly N
// result files by convention name.
type Spooler struct {
	cfg SpoolerConfig
}

func NewSpooler(cfg SpoolerConfig) (*Spooler, error) {
	if err := cfg.Layout.Validate(); err != nil {
		return nil, err
	}
	if cfg.Runner == nil {
		cfg.Runner = ExecRunner{}
	}
	return &Spooler{cfg: cfg}, nil
}

// Prepare provisions and empties the spool and results directories.
func (s *Spooler) Prepare() error {
	if err := s.cfg.Layout.EnsureSpool(); err != nil {
		return err
	}
	if err := removeSpoolFiles(s.cfg.Layout.SpoolDir); err != nil {
		return fmt.Errorf("clean spool directory: %w", err)
	}
	if err := removeSpoolFiles(s.cfg.Layout.ResultsDir); err != nil {
		return fmt.Errorf("clean results directory: %w", err)
	}
	return nil
}

// WriteBatch materializes one input file per assignment and returns the
// spool file names in candidate order.
func (s *Spooler) WriteBatch(tpl *Template, batch []Assignment) ([]string, error) {
	if tpl == nil {
		return nil, errors.New("template is required")
	}
	if len(batch) == 0 {
		return nil, errors.New("batch is empty")
	}

	names := make([]string, len(batch))
	for i, assign := range batch {
		name := InputFileName(i)
		path := filepath.Join(s.cfg.Layout.SpoolDir, name)
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create input file %s: %w", path, err)
		}
		if err := tpl.Render(f, assign); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("render input file %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("close input file %s: %w", path, err)
		}
		names[i] = name
	}
	return names, nil
}

// Execute invokes the executable exactly once for the whole batch:
//
//	EnergyPLAN.exe -spool N <file1> .. <fileN> -ascii run
//
// blocking until the process exits or the context (plus the configured
// timeout) is done.
func (s *Spooler) Execute(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return errors.New("no input files to spool")
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	var stopWatch func()
	if s.cfg.Progress != nil {
		stopWatch = watchResults(ctx, s.cfg.Layout.ResultsDir, len(names), s.cfg.Progress)
	}

	args := make([]string, 0, len(names)+4)
	args = append(args, "-spool", strconv.Itoa(len(names)))
	args = append(args, names...)
	args = append(args, "-ascii", "run")

	err := s.cfg.Runner.Run(ctx, s.cfg.Layout.Root, s.cfg.Layout.Executable, args)
	if stopWatch != nil {
		stopWatch()
	}
	if err != nil {
		return fmt.Errorf("spool batch of %d: %w", len(names), err)
	}
	return nil
}

// Collect reads exactly n result files by convention name, in candidate
// order. A missing or malformed file is an evaluation failure, never a
// silent default.
func (s *Spooler) Collect(n int) ([]*Document, error) {
	docs := make([]*Document, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(s.cfg.Layout.ResultsDir, InputFileName(i))
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingResult, path)
		}
		doc, err := ParseResult(path)
		if err != nil {
			return nil, err
		}
		docs[i] = doc
	}
	return docs, nil
}

// EvaluateBatch runs the full exchange for one batch.
func (s *Spooler) EvaluateBatch(ctx context.Context, tpl *Template, batch []Assignment) ([]*Document, error) {
	if err := s.Prepare(); err != nil {
		return nil, err
	}
	names, err := s.WriteBatch(tpl, batch)
	if err != nil {
		return nil, err
	}
	if err := s.Execute(ctx, names); err != nil {
		return nil, err
	}
	return s.Collect(len(batch))
}
