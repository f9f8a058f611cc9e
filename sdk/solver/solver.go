package solver

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lox/dcfr-holdem/internal/randutil"
)

// Progress contains metadata emitted during long-running solver operations.
type Progress struct {
	Iteration       int
	Total           int
	RegretTableSize int
	Stats           TraversalStats
}

// Solver runs DCFR over a game. All tables belong to the Solver value, so
// independent solvers never share state.
type Solver struct {
	absCfg   AbstractionConfig
	trainCfg TrainingConfig
	abs      Abstraction
	factory  GameFactory
	table    *Table
	clock    quartz.Clock
	logger   *log.Logger
	runID    string

	iteration int

	statsMu sync.Mutex
	stats   TraversalStats

	checkpointPath string
	lastCheckpoint time.Time
}

// Option configures a Solver.
type Option func(*Solver)

// WithAbstraction replaces the default bucket abstraction used by the hold'em game.
func WithAbstraction(a Abstraction) Option {
	return func(s *Solver) { s.abs = a }
}

// WithGame trains on a different game than hold'em.
func WithGame(f GameFactory) Option {
	return func(s *Solver) { s.factory = f }
}

// WithLogger sets the logger; the default discards.
func WithLogger(l *log.Logger) Option {
	return func(s *Solver) { s.logger = l }
}

// WithClock sets the clock used for timing and checkpoint intervals.
func WithClock(c quartz.Clock) Option {
	return func(s *Solver) { s.clock = c }
}

// WithCheckpoints writes a checkpoint to path whenever CheckpointEvery has
// elapsed at an iteration boundary, and once more when a run finishes.
func WithCheckpoints(path string) Option {
	return func(s *Solver) { s.checkpointPath = path }
}

// New constructs a solver given abstraction and training configs.
func New(absCfg AbstractionConfig, trainCfg TrainingConfig, opts ...Option) (*Solver, error) {
	if err := absCfg.Validate(); err != nil {
		return nil, err
	}
	if err := trainCfg.Validate(); err != nil {
		return nil, err
	}
	if trainCfg.Seed == 0 {
		trainCfg.Seed = time.Now().UnixNano()
	}

	s := &Solver{
		absCfg:   absCfg,
		trainCfg: trainCfg,
		table:    NewTable(),
		runID:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.logger = s.logger.WithPrefix("solver")
	if s.clock == nil {
		s.clock = quartz.NewReal()
	}
	if s.abs == nil {
		abs, err := NewBucketAbstraction(absCfg)
		if err != nil {
			return nil, err
		}
		s.abs = abs
	}
	if s.factory == nil {
		s.factory = NewHoldemFactory(s.abs, trainCfg, s.logger)
	}
	s.lastCheckpoint = s.clock.Now()
	return s, nil
}

// ComputeBlueprintStrategy trains until iteration T and returns the
// normalised average strategy. Cancellation is honoured between iterations.
func (s *Solver) ComputeBlueprintStrategy(ctx context.Context, T int, progress func(Progress)) (*Blueprint, error) {
	if err := s.SetTotalIterations(T); err != nil {
		return nil, err
	}
	if err := s.Run(ctx, progress); err != nil {
		return nil, err
	}
	return s.Blueprint(), nil
}

// Run executes iterations until the configured total is reached.
func (s *Solver) Run(ctx context.Context, progress func(Progress)) error {
	total := s.trainCfg.Iterations
	batch := max(total/100, 1)
	if cfg := s.trainCfg.ProgressEvery; cfg > 0 {
		batch = cfg
	}

	s.logger.Info("training", "run", s.runID, "from", s.iteration, "to", total,
		"players", s.trainCfg.Players, "sampling", s.trainCfg.Sampling, "parallel", s.trainCfg.ParallelTables)

	for s.iteration < total {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := s.clock.Now()
		t := s.iteration + 1
		stats, err := s.iterate(t)
		if err != nil {
			return err
		}
		stats.IterationTime = s.clock.Since(start)
		s.setStats(stats)
		s.iteration = t

		if s.checkpointDue() {
			if err := s.checkpoint(); err != nil {
				return err
			}
		}
		if t%batch == 0 {
			s.logger.Debug("iteration", "t", t,
				"infosets", humanize.Comma(int64(s.table.Size())),
				"nodes", humanize.Comma(stats.NodesVisited),
				"took", stats.IterationTime)
			if progress != nil {
				progress(Progress{Iteration: t, Total: total, RegretTableSize: s.table.Size(), Stats: stats})
			}
		}
	}

	if progress != nil && s.iteration%batch != 0 {
		progress(Progress{Iteration: s.iteration, Total: total, RegretTableSize: s.table.Size(), Stats: s.Stats()})
	}
	if s.checkpointPath != "" {
		if err := s.checkpoint(); err != nil {
			return err
		}
	}
	s.logger.Info("training finished", "iterations", s.iteration, "infosets", humanize.Comma(int64(s.table.Size())))
	return nil
}

// iterate runs one traversal per player for iteration t and, only if all of
// them succeed, merges their updates and discounts the tables.
func (s *Solver) iterate(t int) (TraversalStats, error) {
	n := s.trainCfg.Players
	workers := make([]*traverser, n)

	var g errgroup.Group
	g.SetLimit(s.trainCfg.ParallelTables)
	for p := range n {
		g.Go(func() error {
			rng := randutil.New(randutil.Child(s.trainCfg.Seed, uint64((t-1)*n+p)))
			root, err := s.factory(rng)
			if err != nil {
				return fmt.Errorf("iteration %d player %d: new game: %w", t, p, err)
			}
			w := &traverser{
				table:  s.table,
				delta:  newDelta(),
				player: p,
				mode:   s.trainCfg.Sampling,
				rng:    rng,
			}
			if _, err := w.traverse(root, 0, 1, 1); err != nil {
				return fmt.Errorf("iteration %d player %d: %w", t, p, err)
			}
			workers[p] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return TraversalStats{}, err
	}

	deltas := make([]*delta, n)
	var stats TraversalStats
	for p, w := range workers {
		deltas[p] = w.delta
		stats.add(w.stats)
	}
	if err := s.table.merge(deltas); err != nil {
		return TraversalStats{}, fmt.Errorf("iteration %d: %w", t, err)
	}
	s.table.Discount(t, s.trainCfg.Alpha, s.trainCfg.Beta, s.trainCfg.Gamma)
	return stats, nil
}

// Blueprint materialises the normalised average strategy produced so far.
func (s *Solver) Blueprint() *Blueprint {
	entries := s.table.Snapshot()
	strategies := make(map[string][]ActionProb, len(entries))
	for key, e := range entries {
		strategies[key] = strategyRow(e.Actions, e.AverageStrategy())
	}
	return &Blueprint{
		Version:     blueprintFileVersion,
		RunID:       s.runID,
		GeneratedAt: s.clock.Now().UTC(),
		Iterations:  s.iteration,
		Training:    s.trainCfg,
		Abstraction: s.absCfg,
		Strategies:  strategies,
	}
}

func (s *Solver) checkpointDue() bool {
	if s.checkpointPath == "" || s.trainCfg.CheckpointEvery <= 0 {
		return false
	}
	return s.clock.Since(s.lastCheckpoint) >= s.trainCfg.CheckpointEvery
}

func (s *Solver) checkpoint() error {
	if err := s.SaveCheckpoint(s.checkpointPath); err != nil {
		return err
	}
	s.lastCheckpoint = s.clock.Now()
	s.logger.Debug("checkpoint written", "path", s.checkpointPath, "iteration", s.iteration)
	return nil
}

func (s *Solver) setStats(stats TraversalStats) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	s.stats = stats
}

// Stats returns the most recent traversal statistics.
func (s *Solver) Stats() TraversalStats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.stats
}

// Table exposes the solver's regret and strategy table.
func (s *Solver) Table() *Table { return s.table }

// TrainingConfig returns the effective training configuration.
func (s *Solver) TrainingConfig() TrainingConfig { return s.trainCfg }

// Iteration is the number of completed iterations.
func (s *Solver) Iteration() int { return s.iteration }

// RunID identifies the run across checkpoints and blueprints.
func (s *Solver) RunID() string { return s.runID }

// SetTotalIterations extends or shortens the run; it cannot go below the
// iterations already completed.
func (s *Solver) SetTotalIterations(n int) error {
	if n < s.iteration {
		return fmt.Errorf("total iterations %d less than completed %d", n, s.iteration)
	}
	if n <= 0 {
		return fmt.Errorf("total iterations must be > 0, got %d", n)
	}
	s.trainCfg.Iterations = n
	return nil
}

// SetProgressEvery changes how often progress is reported.
func (s *Solver) SetProgressEvery(n int) {
	s.trainCfg.ProgressEvery = max(n, 0)
}
