package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"moea/internal/energyplan"
	"moea/internal/problem"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out strings.Builder
	err := run(context.Background(), args, &out)
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "moeactl "+version) {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestProblemsCommand(t *testing.T) {
	out, err := runCLI(t, "problems")
	if err != nil {
		t.Fatalf("problems: %v", err)
	}
	for _, name := range []string{"mahbub2016", "aalborg", "giudicarie", "vdn"} {
		if !strings.Contains(out, name) {
			t.Fatalf("problems output missing %s:\n%s", name, out)
		}
	}
}

func TestAlgorithmsCommand(t *testing.T) {
	out, err := runCLI(t, "algorithms")
	if err != nil {
		t.Fatalf("algorithms: %v", err)
	}
	if !strings.Contains(out, "nsga2") || !strings.Contains(out, "dknsga2") {
		t.Fatalf("algorithms output incomplete:\n%s", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, err := runCLI(t, "nope"); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("err = %v, want unknown command", err)
	}
}

func TestMissingCommand(t *testing.T) {
	if _, err := runCLI(t); err == nil || !strings.Contains(err.Error(), "usage:") {
		t.Fatalf("err = %v, want usage", err)
	}
}

func TestRunCommandNeedsPositionals(t *testing.T) {
	if _, err := runCLI(t, "run", "nsga2"); err == nil || !strings.Contains(err.Error(), "ALGORITHM PROBLEM") {
		t.Fatalf("err = %v, want positional usage", err)
	}
}

func TestRunCommandUnknownProblem(t *testing.T) {
	_, err := runCLI(t, "run", "--store", "memory", "--root", doctorRoot(t), "nsga2", "nosuchproblem")
	if err == nil || !strings.Contains(err.Error(), "problem not found") {
		t.Fatalf("err = %v, want problem not found", err)
	}
}

func TestDoctorMissingInstallation(t *testing.T) {
	_, err := runCLI(t, "doctor", "--root", filepath.Join(t.TempDir(), "absent"))
	if err == nil || !strings.Contains(err.Error(), "layout check failed") {
		t.Fatalf("err = %v, want layout failure", err)
	}
}

func TestDoctorHealthyInstallation(t *testing.T) {
	out, err := runCLI(t, "doctor", "--root", doctorRoot(t))
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	if !strings.Contains(out, "layout ok") {
		t.Fatalf("doctor output missing layout check:\n%s", out)
	}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n")[1:] {
		if !strings.HasSuffix(strings.TrimSpace(line), "ok") {
			t.Fatalf("unhealthy doctor line %q", line)
		}
	}
}

func TestDoctorReportsMissingDataFile(t *testing.T) {
	root := doctorRoot(t)
	layout := energyplan.DefaultLayout(root)
	spec, err := problem.Lookup("vdn")
	if err != nil {
		t.Fatalf("lookup vdn: %v", err)
	}
	if err := os.Remove(filepath.Join(layout.DataDir, spec.DefaultDataFile)); err != nil {
		t.Fatalf("remove data file: %v", err)
	}

	out, err := runCLI(t, "doctor", "--root", root)
	if err == nil || !strings.Contains(err.Error(), "missing their data file") {
		t.Fatalf("err = %v, want missing data file", err)
	}
	if !strings.Contains(out, "missing data file "+spec.DefaultDataFile) {
		t.Fatalf("doctor output missing detail:\n%s", out)
	}
}

// doctorRoot provisions a fake installation carrying every registered
// problem's default scenario file.
func doctorRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	layout := energyplan.DefaultLayout(root)
	if err := os.MkdirAll(layout.DataDir, 0o755); err != nil {
		t.Fatalf("create data dir: %v", err)
	}
	if err := os.WriteFile(layout.Executable, []byte("stub"), 0o755); err != nil {
		t.Fatalf("create executable: %v", err)
	}

	problem.RegisterDefaults()
	for _, name := range problem.Names() {
		spec, err := problem.Lookup(name)
		if err != nil {
			t.Fatalf("lookup %s: %v", name, err)
		}
		path := filepath.Join(layout.DataDir, spec.DefaultDataFile)
		if err := os.WriteFile(path, []byte("stub"), 0o644); err != nil {
			t.Fatalf("write data file: %v", err)
		}
	}
	return root
}
