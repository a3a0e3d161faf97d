package storage

import (
	"encoding/json"
	"errors"

	"moea/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRun(r model.RunRecord) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRun(data []byte) (model.RunRecord, error) {
	var run model.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return run, nil
}

func EncodeFront(front []model.FrontMember) ([]byte, error) {
	return json.Marshal(front)
}

func DecodeFront(data []byte) ([]model.FrontMember, error) {
	var front []model.FrontMember
	if err := json.Unmarshal(data, &front); err != nil {
		return nil, err
	}
	for _, member := range front {
		if err := checkVersion(member.VersionedRecord); err != nil {
			return nil, err
		}
	}
	return front, nil
}

func EncodeDiagnostics(diagnostics []model.GenerationDiagnostics) ([]byte, error) {
	return json.Marshal(diagnostics)
}

func DecodeDiagnostics(data []byte) ([]model.GenerationDiagnostics, error) {
	var diagnostics []model.GenerationDiagnostics
	if err := json.Unmarshal(data, &diagnostics); err != nil {
		return nil, err
	}
	return diagnostics, nil
}

func EncodeHistory(ideal [][]float64) ([]byte, error) {
	return json.Marshal(ideal)
}

func DecodeHistory(data []byte) ([][]float64, error) {
	var ideal [][]float64
	if err := json.Unmarshal(data, &ideal); err != nil {
		return nil, err
	}
	return ideal, nil
}

func EncodeProblemSummary(s model.ProblemSummary) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeProblemSummary(data []byte) (model.ProblemSummary, error) {
	var summary model.ProblemSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return model.ProblemSummary{}, err
	}
	if err := checkVersion(summary.VersionedRecord); err != nil {
		return model.ProblemSummary{}, err
	}
	return summary, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
