// Package energyplan adapts the EnergyPLAN executable's undocumented
// spool mode as a batch objective evaluator: input files are materialized
// from a scenario template into a fixed spool directory, the executable is
// invoked once per batch, and flat-text result files are read back from
// spool/results by convention name.
package energyplan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrLayoutMissing = errors.New("energyplan layout missing")

// Layout describes the on-disk EnergyPLAN installation the adapter drives.
// The spool directories are provisioned by the adapter; everything else must
// already exist.
type Layout struct {
	Root             string `yaml:"root"`
	Executable       string `yaml:"executable"`
	DataDir          string `yaml:"data_dir"`
	CostsDir         string `yaml:"costs_dir"`
	DistributionsDir string `yaml:"distributions_dir"`
	SpoolDir         string `yaml:"spool_dir"`
	ResultsDir       string `yaml:"results_dir"`
}

// DefaultLayout returns the layout EnergyPLAN ships with, rooted at root.
func DefaultLayout(root string) Layout {
	data := filepath.Join(root, "energyPLAN Data")
	spool := filepath.Join(root, "spool")
	return Layout{
		Root:             root,
		Executable:       filepath.Join(root, "EnergyPLAN.exe"),
		DataDir:          filepath.Join(data, "Data"),
		CostsDir:         filepath.Join(data, "Costs"),
		DistributionsDir: filepath.Join(data, "Distributions"),
		SpoolDir:         spool,
		ResultsDir:       filepath.Join(spool, "results"),
	}
}

// Normalize fills unset fields from the defaults derived from Root.
func (l Layout) Normalize() Layout {
	def := DefaultLayout(l.Root)
	if l.Executable == "" {
		l.Executable = def.Executable
	}
	if l.DataDir == "" {
		l.DataDir = def.DataDir
	}
	if l.CostsDir == "" {
		l.CostsDir = def.CostsDir
	}
	if l.DistributionsDir == "" {
		l.DistributionsDir = def.DistributionsDir
	}
	if l.SpoolDir == "" {
		l.SpoolDir = def.SpoolDir
	}
	if l.ResultsDir == "" {
		l.ResultsDir = filepath.Join(l.SpoolDir, "results")
	}
	return l
}

// Validate reports the fatal pre-conditions: the executable and the scenario
// data directory must exist before any evaluation is attempted.
func (l Layout) Validate() error {
	if l.Root == "" {
		return fmt.Errorf("%w: root directory is required", ErrLayoutMissing)
	}
	if _, err := os.Stat(l.Root); err != nil {
		return fmt.Errorf("%w: root %s: %v", ErrLayoutMissing, l.Root, err)
	}
	if _, err := os.Stat(l.Executable); err != nil {
		return fmt.Errorf("%w: executable %s: %v", ErrLayoutMissing, l.Executable, err)
	}
	if _, err := os.Stat(l.DataDir); err != nil {
		return fmt.Errorf("%w: data directory %s: %v", ErrLayoutMissing, l.DataDir, err)
	}
	return nil
}

// EnsureSpool creates the spool and results directories if absent.
func (l Layout) EnsureSpool() error {
	if err := os.MkdirAll(l.SpoolDir, 0o755); err != nil {
		return fmt.Errorf("create spool directory: %w", err)
	}
	if err := os.MkdirAll(l.ResultsDir, 0o755); err != nil {
		return fmt.Errorf("create results directory: %w", err)
	}
	return nil
}

// DataFile resolves a scenario file name inside the data directory, adding
// the .txt suffix when missing.
func (l Layout) DataFile(name string) (string, error) {
	if name == "" {
		return "", errors.New("data file name is required")
	}
	if !strings.Contains(filepath.Base(name), ".") {
		name += ".txt"
	}
	if filepath.Ext(name) != ".txt" {
		return "", fmt.Errorf("data file must be a .txt file: %s", name)
	}
	path := filepath.Join(l.DataDir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("data file %s: %w", path, err)
	}
	return path, nil
}

func removeSpoolFiles(dir string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return err
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil {
			return fmt.Errorf("remove %s: %w", match, err)
		}
	}
	return nil
}
