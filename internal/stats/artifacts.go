package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"moea/internal/model"
)

const runIndexFile = "run_index.json"

// RunArtifacts is everything one run leaves on disk for later analysis.
type RunArtifacts struct {
	Run          model.RunRecord               `json:"run"`
	Front        []model.FrontMember           `json:"front"`
	Diagnostics  []model.GenerationDiagnostics `json:"diagnostics,omitempty"`
	IdealHistory [][]float64                   `json:"ideal_history,omitempty"`
	Objectives   []string                      `json:"objectives,omitempty"`
	VariableKeys []string                      `json:"variable_keys,omitempty"`
}

// RunIndexEntry is one line of the artifacts directory index.
type RunIndexEntry struct {
	RunID          string `json:"run_id"`
	Problem        string `json:"problem"`
	Algorithm      string `json:"algorithm"`
	PopulationSize int    `json:"population_size"`
	Generations    int    `json:"generations"`
	Seed           int64  `json:"seed"`
	Status         string `json:"status"`
	StartedAtUTC   string `json:"started_at_utc"`
}

// WriteRunArtifacts persists the run under baseDir/<run id> and updates the
// index. It returns the run directory.
func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Run.ID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Run.ID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "run.json"), artifacts.Run); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "front.json"), artifacts.Front); err != nil {
		return "", err
	}
	if err := writeFrontCSV(filepath.Join(runDir, "front.csv"), artifacts); err != nil {
		return "", err
	}
	if len(artifacts.Diagnostics) > 0 {
		if err := writeJSON(filepath.Join(runDir, "diagnostics.json"), artifacts.Diagnostics); err != nil {
			return "", err
		}
	}
	if len(artifacts.IdealHistory) > 0 {
		if err := writeJSON(filepath.Join(runDir, "ideal_history.json"), artifacts.IdealHistory); err != nil {
			return "", err
		}
	}

	if err := appendRunIndex(baseDir, RunIndexEntry{
		RunID:          artifacts.Run.ID,
		Problem:        artifacts.Run.Problem,
		Algorithm:      artifacts.Run.Algorithm,
		PopulationSize: artifacts.Run.PopulationSize,
		Generations:    artifacts.Run.Generations,
		Seed:           artifacts.Run.Seed,
		Status:         artifacts.Run.Status,
		StartedAtUTC:   artifacts.Run.StartedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}); err != nil {
		return "", err
	}
	return runDir, nil
}

// ReadRunIndex loads the artifacts directory index; an absent index is an
// empty one.
func ReadRunIndex(baseDir string) ([]RunIndexEntry, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, runIndexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", runIndexFile, err)
	}
	return entries, nil
}

func appendRunIndex(baseDir string, entry RunIndexEntry) error {
	entries, err := ReadRunIndex(baseDir)
	if err != nil {
		return err
	}
	replaced := false
	for i := range entries {
		if entries[i].RunID == entry.RunID {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}
	return writeJSON(filepath.Join(baseDir, runIndexFile), entries)
}

// writeFrontCSV emits one row per front member: variables first, then
// objectives, then constraint values.
func writeFrontCSV(path string, artifacts RunArtifacts) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"rank", "feasible"}
	header = append(header, artifacts.VariableKeys...)
	if len(artifacts.VariableKeys) == 0 && len(artifacts.Front) > 0 {
		for i := range artifacts.Front[0].Variables {
			header = append(header, "x"+strconv.Itoa(i))
		}
	}
	if len(artifacts.Objectives) > 0 {
		header = append(header, artifacts.Objectives...)
	} else if len(artifacts.Front) > 0 {
		for i := range artifacts.Front[0].Objectives {
			header = append(header, "f"+strconv.Itoa(i))
		}
	}
	if len(artifacts.Front) > 0 {
		for i := range artifacts.Front[0].Constraints {
			header = append(header, "g"+strconv.Itoa(i))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, member := range artifacts.Front {
		row := []string{strconv.Itoa(member.Rank), strconv.FormatBool(member.Feasible)}
		for _, v := range member.Variables {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		for _, v := range member.Objectives {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		for _, v := range member.Constraints {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
