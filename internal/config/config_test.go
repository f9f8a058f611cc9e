package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/dcfr-holdem/sdk/solver"
)

func TestDefaultConfigMatchesSolverDefaults(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	abs, train, err := cfg.Solver()
	require.NoError(t, err)
	assert.Equal(t, solver.DefaultAbstraction(), abs)
	assert.Equal(t, solver.DefaultTrainingConfig(), train)
	assert.Equal(t, log.InfoLevel, cfg.LogLevel())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParseFullConfig(t *testing.T) {
	t.Parallel()

	src := `
training {
  iterations       = 20000
  players          = 3
  seed             = 42
  parallel_tables  = 4
  checkpoint_every = "90s"
  progress_every   = 250
  sampling         = "full"
}

table {
  small_blind    = 1
  big_blind      = 2
  starting_stack = 200
}

discount {
  alpha = 1
  beta  = 0.5
  gamma = 0
}

abstraction {
  preflop_buckets      = 20
  postflop_buckets     = 30
  bet_sizing           = [0.33, 0.75, 1.5]
  max_raises_per_round = 3
  allow_all_in         = false
}

output {
  blueprint  = "out/bp.json"
  checkpoint = "out/ckpt.json"
}

log {
  level = "debug"
  file  = "solver.log"
}
`
	cfg, err := Parse([]byte(src), "full.hcl")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	abs, train, err := cfg.Solver()
	require.NoError(t, err)

	assert.Equal(t, solver.AbstractionConfig{
		PreflopBucketCount:  20,
		PostflopBucketCount: 30,
		BetSizing:           []float64{0.33, 0.75, 1.5},
		MaxRaisesPerRound:   3,
		AllowAllIn:          false,
	}, abs)

	assert.Equal(t, 20000, train.Iterations)
	assert.Equal(t, 3, train.Players)
	assert.Equal(t, int64(42), train.Seed)
	assert.Equal(t, 4, train.ParallelTables)
	assert.Equal(t, 90*time.Second, train.CheckpointEvery)
	assert.Equal(t, 250, train.ProgressEvery)
	assert.Equal(t, solver.SamplingModeFullTraversal, train.Sampling)
	assert.Equal(t, 1, train.SmallBlind)
	assert.Equal(t, 2, train.BigBlind)
	assert.Equal(t, 200, train.StartingStack)
	assert.Equal(t, 1.0, train.Alpha)
	assert.Equal(t, 0.5, train.Beta)
	assert.Equal(t, 0.0, train.Gamma, "explicit zero must not be replaced by the default")

	assert.Equal(t, "out/bp.json", cfg.Output.Blueprint)
	assert.Equal(t, "out/ckpt.json", cfg.Output.Checkpoint)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel())
	assert.Equal(t, "solver.log", cfg.Log.File)
}

func TestParsePartialConfigAppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(`
table {
  small_blind = 25
}
discount {
  alpha = 2
}
`), "partial.hcl")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	abs, train, err := cfg.Solver()
	require.NoError(t, err)

	def := solver.DefaultTrainingConfig()
	assert.Equal(t, solver.DefaultAbstraction(), abs)
	assert.Equal(t, def.Iterations, train.Iterations)
	assert.Equal(t, def.Sampling, train.Sampling)
	assert.Equal(t, 25, train.SmallBlind)
	assert.Equal(t, 50, train.BigBlind, "big blind defaults to two small blinds")
	assert.Equal(t, 5000, train.StartingStack, "stack defaults to 100 big blinds")
	assert.Equal(t, 2.0, train.Alpha)
	assert.Equal(t, def.Beta, train.Beta)
	assert.Equal(t, def.Gamma, train.Gamma)
	assert.Equal(t, "blueprint.json", cfg.Output.Blueprint)
}

func TestLoadFromDisk(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "solver.hcl")
	require.NoError(t, os.WriteFile(path, []byte("training {\n  players = 6\n}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Training.Players)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"syntax", "training {"},
		{"unknown block", "server {}"},
		{"unknown attribute", "training {\n  rounds = 3\n}"},
		{"wrong type", "training {\n  iterations = \"many\"\n}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), tt.name+".hcl")
			assert.Error(t, err)
		})
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"blueprint path", func(c *Config) { c.Output.Blueprint = "" }},
		{"duration", func(c *Config) { c.Training.CheckpointEvery = "soon" }},
		{"sampling", func(c *Config) { c.Training.Sampling = "outcome" }},
		{"players", func(c *Config) { c.Training.Players = 1 }},
		{"blinds", func(c *Config) { c.Table.BigBlind = c.Table.SmallBlind }},
		{"buckets", func(c *Config) { c.Abstraction.PreflopBuckets = -1 }},
		{"sizing order", func(c *Config) { c.Abstraction.BetSizing = []float64{1, 0.5} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
