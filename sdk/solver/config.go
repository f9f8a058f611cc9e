package solver

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lox/dcfr-holdem/internal/game"
)

// SamplingMode controls how opponent decisions are handled during traversal.
type SamplingMode uint8

const (
	// SamplingModeExternal samples one opponent action per decision and scales
	// the opponent reach by its probability.
	SamplingModeExternal SamplingMode = iota
	// SamplingModeFullTraversal walks every opponent action weighted by its
	// probability. Only the deal is sampled.
	SamplingModeFullTraversal
)

func (m SamplingMode) String() string {
	switch m {
	case SamplingModeExternal:
		return "external"
	case SamplingModeFullTraversal:
		return "full"
	default:
		return "unknown"
	}
}

// ParseSamplingMode accepts "external" or "full".
func ParseSamplingMode(s string) (SamplingMode, error) {
	switch strings.ToLower(s) {
	case "", "external":
		return SamplingModeExternal, nil
	case "full":
		return SamplingModeFullTraversal, nil
	}
	return 0, fmt.Errorf("unknown sampling mode %q", s)
}

// AbstractionConfig captures the coarse representation used when bucketing
// hands and actions. Blueprints record it so runtime lookups use the same one.
type AbstractionConfig struct {
	// PreflopBucketCount controls how many hole-card classes exist before the flop.
	PreflopBucketCount int `json:"preflop_buckets"`

	// PostflopBucketCount controls how many made-hand strength classes exist after the flop.
	PostflopBucketCount int `json:"postflop_buckets"`

	// BetSizing lists raise sizes as fractions of the pot. Strictly increasing.
	BetSizing []float64 `json:"bet_sizing"`

	// MaxRaisesPerRound caps raises in one betting round. Zero means unlimited.
	MaxRaisesPerRound int `json:"max_raises_per_round"`

	// AllowAllIn exposes a shove at every decision where one is possible.
	AllowAllIn bool `json:"allow_all_in"`
}

// Validate ensures the abstraction is well-formed before training begins.
func (c AbstractionConfig) Validate() error {
	if c.PreflopBucketCount <= 0 {
		return errors.New("preflop bucket count must be > 0")
	}
	if c.PostflopBucketCount <= 0 {
		return errors.New("postflop bucket count must be > 0")
	}
	last := 0.0
	for i, v := range c.BetSizing {
		if v <= 0 {
			return fmt.Errorf("bet sizing[%d] must be > 0", i)
		}
		if v <= last {
			return fmt.Errorf("bet sizing[%d] must be strictly increasing", i)
		}
		last = v
	}
	if c.MaxRaisesPerRound < 0 {
		return errors.New("max raises per round cannot be negative")
	}
	return nil
}

// Sizing converts the abstraction into the game's bet sizing rules.
func (c AbstractionConfig) Sizing() game.BetSizing {
	return game.BetSizing{
		PotFractions: append([]float64(nil), c.BetSizing...),
		MaxRaises:    c.MaxRaisesPerRound,
		AllIn:        c.AllowAllIn,
	}
}

// TrainingConfig aggregates the parameters of one DCFR run.
type TrainingConfig struct {
	Iterations      int           `json:"iterations"`
	Players         int           `json:"players"`
	Seed            int64         `json:"seed"`
	ParallelTables  int           `json:"parallel_tables"`
	CheckpointEvery time.Duration `json:"checkpoint_every"`
	ProgressEvery   int           `json:"progress_every"`
	SmallBlind      int           `json:"small_blind"`
	BigBlind        int           `json:"big_blind"`
	StartingStack   int           `json:"starting_stack"`
	Sampling        SamplingMode  `json:"sampling"`

	// Discount exponents: positive regrets are scaled by t^α/(t^α+1),
	// non-positive regrets by t^β/(t^β+1) and strategy mass by (t/(t+1))^γ.
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// Validate ensures the training parameters are safe to use.
func (c TrainingConfig) Validate() error {
	if c.Iterations <= 0 {
		return errors.New("iterations must be > 0")
	}
	if c.Players < 2 {
		return errors.New("players must be >= 2")
	}
	if c.ParallelTables <= 0 {
		return errors.New("parallel tables must be > 0")
	}
	if c.CheckpointEvery < 0 {
		return errors.New("checkpoint interval cannot be negative")
	}
	if c.ProgressEvery < 0 {
		return errors.New("progress interval cannot be negative")
	}
	if c.SmallBlind <= 0 {
		return errors.New("small blind must be > 0")
	}
	if c.BigBlind <= c.SmallBlind {
		return errors.New("big blind must be greater than small blind")
	}
	if c.StartingStack <= 0 {
		return errors.New("starting stack must be > 0")
	}
	if c.Sampling > SamplingModeFullTraversal {
		return errors.New("invalid sampling mode")
	}
	for name, v := range map[string]float64{"alpha": c.Alpha, "beta": c.Beta, "gamma": c.Gamma} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be finite", name)
		}
	}
	return nil
}

// DefaultAbstraction returns a small abstraction suitable for smoke tests.
func DefaultAbstraction() AbstractionConfig {
	return AbstractionConfig{
		PreflopBucketCount:  10,
		PostflopBucketCount: 10,
		BetSizing:           []float64{0.5, 1.0},
		MaxRaisesPerRound:   2,
		AllowAllIn:          true,
	}
}

// DefaultTrainingConfig returns the standard DCFR parameters (α=1.5, β=0, γ=2)
// on a heads-up table.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Iterations:      1000,
		Players:         2,
		Seed:            1,
		ParallelTables:  1,
		CheckpointEvery: 5 * time.Minute,
		ProgressEvery:   0,
		SmallBlind:      5,
		BigBlind:        10,
		StartingStack:   1000,
		Sampling:        SamplingModeExternal,
		Alpha:           1.5,
		Beta:            0,
		Gamma:           2,
	}
}
