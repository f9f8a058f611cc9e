package solver

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lox/dcfr-holdem/internal/fileutil"
)

const blueprintFileVersion = 2

// ActionProb is one entry of a blueprint row.
type ActionProb struct {
	Action      string  `json:"action"`
	Probability float64 `json:"p"`
}

// Blueprint captures the normalised average strategies produced by a solver
// run so runtime bots can sample actions without rerunning DCFR.
type Blueprint struct {
	Version     int                     `json:"version"`
	RunID       string                  `json:"run_id"`
	GeneratedAt time.Time               `json:"generated_at"`
	Iterations  int                     `json:"iterations"`
	Training    TrainingConfig          `json:"training"`
	Abstraction AbstractionConfig       `json:"abstraction"`
	Strategies  map[string][]ActionProb `json:"strategies"`
}

// Save writes the blueprint to disk as indented JSON, replacing any existing
// file atomically.
func (b *Blueprint) Save(path string) error {
	if b == nil {
		return errors.New("nil blueprint")
	}
	if path == "" {
		return errors.New("destination path is required")
	}

	return fileutil.WriteJSONAtomic(path, b, true)
}

// LoadBlueprint reads a blueprint from disk and ensures the abstraction metadata
// is present for runtime compatibility checks.
func LoadBlueprint(path string) (*Blueprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var bp Blueprint
	if err := json.NewDecoder(f).Decode(&bp); err != nil {
		return nil, err
	}
	if bp.Version != blueprintFileVersion {
		return nil, fmt.Errorf("unsupported blueprint version %d", bp.Version)
	}
	if err := bp.Abstraction.Validate(); err != nil {
		return nil, err
	}
	return &bp, nil
}

// Strategy returns the stored row for an information-set key.
func (b *Blueprint) Strategy(key string) ([]ActionProb, bool) {
	if b == nil {
		return nil, false
	}
	row, ok := b.Strategies[key]
	return row, ok
}

func strategyRow(actions []string, probs []float64) []ActionProb {
	row := make([]ActionProb, len(actions))
	for i, a := range actions {
		row[i] = ActionProb{Action: a, Probability: probs[i]}
	}
	return row
}
