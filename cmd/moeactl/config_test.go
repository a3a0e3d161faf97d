package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moeactl.yaml")
	content := `
layout:
  root: /opt/energyplan
  executable: /opt/energyplan/EnergyPLAN.exe
store: sqlite
db_path: moea.db
timeout_min: 30
wrapper: [wine]
out_dir: runs
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Layout.Root != "/opt/energyplan" {
		t.Fatalf("root = %q", cfg.Layout.Root)
	}
	if cfg.Store != "sqlite" || cfg.DBPath != "moea.db" || cfg.OutDir != "runs" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.Wrapper) != 1 || cfg.Wrapper[0] != "wine" {
		t.Fatalf("wrapper = %v", cfg.Wrapper)
	}
	if cfg.timeout() != 30*time.Minute {
		t.Fatalf("timeout = %v", cfg.timeout())
	}
}

func TestLoadConfigNormalizesLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moeactl.yaml")
	if err := os.WriteFile(path, []byte("layout:\n  root: /opt/ep\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	layout := cfg.Layout.Normalize()
	if layout.Executable != filepath.Join("/opt/ep", "EnergyPLAN.exe") {
		t.Fatalf("executable = %q", layout.Executable)
	}
	if layout.SpoolDir != filepath.Join("/opt/ep", "spool") {
		t.Fatalf("spool dir = %q", layout.SpoolDir)
	}
}

func TestLoadConfigMissingDefaultIsEmpty(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(cwd)
	})

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Layout.Root != "" || cfg.Store != "" || cfg.Wrapper != nil {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func TestLoadConfigMissingExplicitPathFails(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for explicit missing path")
	}
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moeactl.yaml")
	if err := os.WriteFile(path, []byte("layout: [not a map"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestTimeoutDisabledByDefault(t *testing.T) {
	if (fileConfig{}).timeout() != 0 {
		t.Fatal("zero config must disable the timeout")
	}
}
