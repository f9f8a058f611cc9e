package solver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lox/dcfr-holdem/internal/fileutil"
)

const checkpointFileVersion = 2

type checkpointSnapshot struct {
	Version     int                      `json:"version"`
	RunID       string                   `json:"run_id"`
	Iteration   int                      `json:"iteration"`
	Training    TrainingConfig           `json:"training"`
	Abstraction AbstractionConfig        `json:"abstraction"`
	Entries     map[string]entrySnapshot `json:"entries"`
	Stats       TraversalStats           `json:"stats"`
}

type entrySnapshot struct {
	Actions     []string  `json:"actions"`
	Regret      []float64 `json:"regret"`
	Strategy    []float64 `json:"strategy"`
	StrategySum []float64 `json:"strategy_sum"`
}

// SaveCheckpoint writes a snapshot of the solver state to the provided path.
// The file is replaced atomically. Per-iteration seeds derive from the
// training seed, so no RNG position needs to be stored.
func (s *Solver) SaveCheckpoint(path string) error {
	if err := fileutil.WriteJSONAtomic(path, s.buildCheckpoint(), false); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

// Resume restores a solver from a checkpoint. Options are applied as for New;
// a solver trained on a custom game needs WithGame again.
func Resume(path string, opts ...Option) (*Solver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	snap, err := decodeCheckpoint(f)
	if err != nil {
		return nil, err
	}

	s, err := New(snap.Abstraction, snap.Training, opts...)
	if err != nil {
		return nil, err
	}
	s.runID = snap.RunID
	s.iteration = snap.Iteration
	s.stats = snap.Stats
	for key, e := range snap.Entries {
		s.table.put(key, &Entry{
			Actions:     e.Actions,
			Regret:      e.Regret,
			Strategy:    e.Strategy,
			StrategySum: e.StrategySum,
		})
	}
	s.logger.Info("resumed", "path", path, "iteration", s.iteration, "infosets", s.table.Size())
	return s, nil
}

func (s *Solver) buildCheckpoint() *checkpointSnapshot {
	snap := &checkpointSnapshot{
		Version:     checkpointFileVersion,
		RunID:       s.runID,
		Iteration:   s.iteration,
		Training:    s.trainCfg,
		Abstraction: s.absCfg,
		Entries:     make(map[string]entrySnapshot),
		Stats:       s.Stats(),
	}
	for key, e := range s.table.Snapshot() {
		snap.Entries[key] = entrySnapshot{
			Actions:     e.Actions,
			Regret:      e.Regret,
			Strategy:    e.Strategy,
			StrategySum: e.StrategySum,
		}
	}
	return snap
}

func decodeCheckpoint(r io.Reader) (*checkpointSnapshot, error) {
	var snap checkpointSnapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, err
	}
	if snap.Version != checkpointFileVersion {
		return nil, errors.New("unsupported checkpoint version")
	}
	if err := snap.Abstraction.Validate(); err != nil {
		return nil, fmt.Errorf("checkpoint abstraction invalid: %w", err)
	}
	if err := snap.Training.Validate(); err != nil {
		return nil, fmt.Errorf("checkpoint training invalid: %w", err)
	}
	for key, e := range snap.Entries {
		n := len(e.Actions)
		if len(e.Regret) != n || len(e.Strategy) != n || len(e.StrategySum) != n {
			return nil, fmt.Errorf("checkpoint entry %q has misaligned rows", key)
		}
	}
	return &snap, nil
}
