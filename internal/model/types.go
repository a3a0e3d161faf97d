package model

import "time"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunRecord is the persisted configuration and outcome of one optimization run.
type RunRecord struct {
	VersionedRecord
	ID             string    `json:"id"`
	Problem        string    `json:"problem"`
	Algorithm      string    `json:"algorithm"`
	DataFile       string    `json:"data_file"`
	PopulationSize int       `json:"population_size"`
	Generations    int       `json:"generations"`
	Seed           int64     `json:"seed"`
	Evaluations    int       `json:"evaluations"`
	Status         string    `json:"status"`
	Error          string    `json:"error,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}

const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// FrontMember is one non-dominated candidate of a run's final population.
type FrontMember struct {
	VersionedRecord
	Rank        int       `json:"rank"`
	Variables   []float64 `json:"variables"`
	Objectives  []float64 `json:"objectives"`
	Constraints []float64 `json:"constraints,omitempty"`
	Feasible    bool      `json:"feasible"`
}

// GenerationDiagnostics summarizes one generation of a run.
type GenerationDiagnostics struct {
	Generation    int       `json:"generation"`
	Evaluations   int       `json:"evaluations"`
	FrontSize     int       `json:"front_size"`
	FeasibleCount int       `json:"feasible_count"`
	Ideal         []float64 `json:"ideal"`
	Hypervolume   float64   `json:"hypervolume,omitempty"`
}

// ProblemSummary tracks the best observed objective vector per problem.
type ProblemSummary struct {
	VersionedRecord
	Name        string    `json:"name"`
	Description string    `json:"description"`
	BestIdeal   []float64 `json:"best_ideal,omitempty"`
	RunCount    int       `json:"run_count"`
}
