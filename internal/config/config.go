// Package config loads solver run configuration from HCL files.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/dcfr-holdem/sdk/solver"
)

// Config is the complete run configuration. Every block is optional; Load
// fills missing blocks and zero values from DefaultConfig.
type Config struct {
	Training    *Training    `hcl:"training,block"`
	Table       *Table       `hcl:"table,block"`
	Discount    *Discount    `hcl:"discount,block"`
	Abstraction *Abstraction `hcl:"abstraction,block"`
	Output      *Output      `hcl:"output,block"`
	Log         *Logging     `hcl:"log,block"`
}

// Training controls the iteration loop.
type Training struct {
	Iterations      int    `hcl:"iterations,optional"`
	Players         int    `hcl:"players,optional"`
	Seed            int64  `hcl:"seed,optional"`
	ParallelTables  int    `hcl:"parallel_tables,optional"`
	CheckpointEvery string `hcl:"checkpoint_every,optional"`
	ProgressEvery   int    `hcl:"progress_every,optional"`
	Sampling        string `hcl:"sampling,optional"`
}

// Table describes the game every traversal is played on.
type Table struct {
	SmallBlind    int `hcl:"small_blind,optional"`
	BigBlind      int `hcl:"big_blind,optional"`
	StartingStack int `hcl:"starting_stack,optional"`
}

// Discount holds the DCFR exponents. Unset values keep the defaults, so an
// explicit zero is honoured.
type Discount struct {
	Alpha *float64 `hcl:"alpha,optional"`
	Beta  *float64 `hcl:"beta,optional"`
	Gamma *float64 `hcl:"gamma,optional"`
}

// Abstraction mirrors solver.AbstractionConfig.
type Abstraction struct {
	PreflopBuckets    int       `hcl:"preflop_buckets,optional"`
	PostflopBuckets   int       `hcl:"postflop_buckets,optional"`
	BetSizing         []float64 `hcl:"bet_sizing,optional"`
	MaxRaisesPerRound int       `hcl:"max_raises_per_round,optional"`
	AllowAllIn        *bool     `hcl:"allow_all_in,optional"`
}

// Output names the files a run writes.
type Output struct {
	Blueprint  string `hcl:"blueprint,optional"`
	Checkpoint string `hcl:"checkpoint,optional"`
}

// Logging configures the CLI logger.
type Logging struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	abs := solver.DefaultAbstraction()
	train := solver.DefaultTrainingConfig()
	allIn := abs.AllowAllIn
	alpha, beta, gamma := train.Alpha, train.Beta, train.Gamma

	return &Config{
		Training: &Training{
			Iterations:      train.Iterations,
			Players:         train.Players,
			Seed:            train.Seed,
			ParallelTables:  train.ParallelTables,
			CheckpointEvery: train.CheckpointEvery.String(),
			ProgressEvery:   train.ProgressEvery,
			Sampling:        train.Sampling.String(),
		},
		Table: &Table{
			SmallBlind:    train.SmallBlind,
			BigBlind:      train.BigBlind,
			StartingStack: train.StartingStack,
		},
		Discount: &Discount{Alpha: &alpha, Beta: &beta, Gamma: &gamma},
		Abstraction: &Abstraction{
			PreflopBuckets:    abs.PreflopBucketCount,
			PostflopBuckets:   abs.PostflopBucketCount,
			BetSizing:         abs.BetSizing,
			MaxRaisesPerRound: abs.MaxRaisesPerRound,
			AllowAllIn:        &allIn,
		},
		Output: &Output{Blueprint: "blueprint.json"},
		Log:    &Logging{Level: "info"},
	}
}

// Load reads an HCL configuration file. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and applies defaults. filename is used in
// diagnostics only.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	cfg.applyDefaults(DefaultConfig())
	return &cfg, nil
}

func (c *Config) applyDefaults(d *Config) {
	if c.Training == nil {
		c.Training = d.Training
	}
	if c.Table == nil {
		c.Table = d.Table
	}
	if c.Discount == nil {
		c.Discount = d.Discount
	}
	if c.Abstraction == nil {
		c.Abstraction = d.Abstraction
	}
	if c.Output == nil {
		c.Output = d.Output
	}
	if c.Log == nil {
		c.Log = d.Log
	}

	t, dt := c.Training, d.Training
	if t.Iterations == 0 {
		t.Iterations = dt.Iterations
	}
	if t.Players == 0 {
		t.Players = dt.Players
	}
	if t.ParallelTables == 0 {
		t.ParallelTables = dt.ParallelTables
	}
	if t.CheckpointEvery == "" {
		t.CheckpointEvery = dt.CheckpointEvery
	}
	if t.Sampling == "" {
		t.Sampling = dt.Sampling
	}

	tb, dtb := c.Table, d.Table
	if tb.SmallBlind == 0 {
		tb.SmallBlind = dtb.SmallBlind
	}
	if tb.BigBlind == 0 {
		tb.BigBlind = tb.SmallBlind * 2
	}
	if tb.StartingStack == 0 {
		tb.StartingStack = tb.BigBlind * 100
	}

	if c.Discount.Alpha == nil {
		c.Discount.Alpha = d.Discount.Alpha
	}
	if c.Discount.Beta == nil {
		c.Discount.Beta = d.Discount.Beta
	}
	if c.Discount.Gamma == nil {
		c.Discount.Gamma = d.Discount.Gamma
	}

	a, da := c.Abstraction, d.Abstraction
	if a.PreflopBuckets == 0 {
		a.PreflopBuckets = da.PreflopBuckets
	}
	if a.PostflopBuckets == 0 {
		a.PostflopBuckets = da.PostflopBuckets
	}
	if a.BetSizing == nil {
		a.BetSizing = da.BetSizing
	}
	if a.AllowAllIn == nil {
		a.AllowAllIn = da.AllowAllIn
	}

	if c.Output.Blueprint == "" {
		c.Output.Blueprint = d.Output.Blueprint
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// Validate checks the configuration, including everything the solver checks.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.Output.Blueprint == "" {
		return errors.New("output blueprint path is required")
	}
	abs, train, err := c.Solver()
	if err != nil {
		return err
	}
	if err := abs.Validate(); err != nil {
		return fmt.Errorf("abstraction: %w", err)
	}
	if err := train.Validate(); err != nil {
		return fmt.Errorf("training: %w", err)
	}
	return nil
}

// Solver converts the configuration into solver settings.
func (c *Config) Solver() (solver.AbstractionConfig, solver.TrainingConfig, error) {
	every, err := time.ParseDuration(c.Training.CheckpointEvery)
	if err != nil {
		return solver.AbstractionConfig{}, solver.TrainingConfig{}, fmt.Errorf("checkpoint_every: %w", err)
	}
	mode, err := solver.ParseSamplingMode(c.Training.Sampling)
	if err != nil {
		return solver.AbstractionConfig{}, solver.TrainingConfig{}, err
	}

	abs := solver.AbstractionConfig{
		PreflopBucketCount:  c.Abstraction.PreflopBuckets,
		PostflopBucketCount: c.Abstraction.PostflopBuckets,
		BetSizing:           append([]float64(nil), c.Abstraction.BetSizing...),
		MaxRaisesPerRound:   c.Abstraction.MaxRaisesPerRound,
		AllowAllIn:          *c.Abstraction.AllowAllIn,
	}
	train := solver.TrainingConfig{
		Iterations:      c.Training.Iterations,
		Players:         c.Training.Players,
		Seed:            c.Training.Seed,
		ParallelTables:  c.Training.ParallelTables,
		CheckpointEvery: every,
		ProgressEvery:   c.Training.ProgressEvery,
		SmallBlind:      c.Table.SmallBlind,
		BigBlind:        c.Table.BigBlind,
		StartingStack:   c.Table.StartingStack,
		Sampling:        mode,
		Alpha:           *c.Discount.Alpha,
		Beta:            *c.Discount.Beta,
		Gamma:           *c.Discount.Gamma,
	}
	return abs, train, nil
}

// LogLevel returns the parsed log level, defaulting to info.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

