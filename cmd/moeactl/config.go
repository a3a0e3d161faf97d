package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"moea/internal/energyplan"
)

const defaultConfigFile = "moeactl.yaml"

// fileConfig is the optional on-disk configuration. Everything in it can
// also be set through flags; flags win.
type fileConfig struct {
	Layout     energyplan.Layout `yaml:"layout"`
	Store      string            `yaml:"store"`
	DBPath     string            `yaml:"db_path"`
	TimeoutMin int               `yaml:"timeout_min"`
	Wrapper    []string          `yaml:"wrapper"`
	OutDir     string            `yaml:"out_dir"`
}

// loadConfig reads the YAML config at path. An empty path falls back to
// moeactl.yaml in the working directory, absent meaning defaults.
func loadConfig(path string) (fileConfig, error) {
	explicit := path != ""
	if path == "" {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return fileConfig{}, nil
		}
		return fileConfig{}, err
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c fileConfig) timeout() time.Duration {
	if c.TimeoutMin <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutMin) * time.Minute
}
