package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"github.com/lox/dcfr-holdem/internal/config"
	"github.com/lox/dcfr-holdem/sdk/solver"
)

type TrainCmd struct {
	Config     string `short:"c" help:"path to HCL run configuration" default:"solver.hcl" env:"DCFR_CONFIG"`
	Out        string `short:"o" help:"path to write the blueprint (overrides config)" env:"DCFR_BLUEPRINT"`
	Checkpoint string `help:"path to write periodic checkpoints (overrides config)" env:"DCFR_CHECKPOINT"`
	ResumeFrom string `help:"resume training from a checkpoint file"`

	Iterations int    `short:"n" help:"number of DCFR iterations (overrides config)"`
	Players    int    `help:"number of seats in self-play (overrides config)"`
	Parallel   int    `help:"number of concurrent traversals (overrides config)"`
	Seed       int64  `help:"random seed; 0 keeps the configured seed"`
	Sampling   string `help:"sampling mode, external or full (overrides config)"`
	NoProgress bool   `help:"disable the progress bar"`
}

func (cmd *TrainCmd) Run(ctx context.Context) error {
	cfg, err := config.Load(cmd.Config)
	if err != nil {
		return err
	}
	cmd.applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closer, err := newLogger(cfg.LogLevel(), cfg.Log.File)
	if err != nil {
		return err
	}
	defer closer.Close()

	opts := []solver.Option{solver.WithLogger(logger)}
	if cfg.Output.Checkpoint != "" {
		opts = append(opts, solver.WithCheckpoints(cfg.Output.Checkpoint))
	}

	var s *solver.Solver
	if cmd.ResumeFrom != "" {
		s, err = cmd.resume(cfg, logger, opts)
	} else {
		s, err = cmd.start(cfg, logger, opts)
	}
	if err != nil {
		return err
	}

	train := s.TrainingConfig()
	bar := cmd.progressBar(train.Iterations, s.Iteration())
	progress := func(p solver.Progress) {
		if bar != nil {
			_ = bar.Set(p.Iteration)
			bar.Describe(fmt.Sprintf("%s infosets", humanize.Comma(int64(p.RegretTableSize))))
			return
		}
		logger.Info("progress",
			"iteration", p.Iteration,
			"total", p.Total,
			"infosets", humanize.Comma(int64(p.RegretTableSize)),
			"nodes", humanize.Comma(p.Stats.NodesVisited),
			"max_depth", p.Stats.MaxDepth,
			"iter_time", p.Stats.IterationTime,
		)
	}

	start := time.Now()
	runErr := s.Run(ctx, progress)
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if runErr != nil {
		if ctx.Err() != nil && cfg.Output.Checkpoint != "" {
			// Cancellation lands between iterations, so the tables are consistent.
			if err := s.SaveCheckpoint(cfg.Output.Checkpoint); err != nil {
				logger.Error("failed to write checkpoint", "error", err)
			} else {
				logger.Warn("training interrupted; resume with --resume-from", "checkpoint", cfg.Output.Checkpoint, "iteration", s.Iteration())
			}
		}
		return runErr
	}

	bp := s.Blueprint()
	logger.Info("training completed",
		"duration", time.Since(start).Round(time.Millisecond),
		"iterations", humanize.Comma(int64(bp.Iterations)),
		"infosets", humanize.Comma(int64(len(bp.Strategies))),
	)
	if err := bp.Save(cfg.Output.Blueprint); err != nil {
		return fmt.Errorf("save blueprint: %w", err)
	}
	logger.Info("blueprint saved", "path", cfg.Output.Blueprint, "run_id", bp.RunID)
	return nil
}

func (cmd *TrainCmd) applyOverrides(cfg *config.Config) {
	if cmd.Out != "" {
		cfg.Output.Blueprint = cmd.Out
	}
	if cmd.Checkpoint != "" {
		cfg.Output.Checkpoint = cmd.Checkpoint
	}
	if cmd.Iterations > 0 {
		cfg.Training.Iterations = cmd.Iterations
	}
	if cmd.Players > 0 {
		cfg.Training.Players = cmd.Players
	}
	if cmd.Parallel > 0 {
		cfg.Training.ParallelTables = cmd.Parallel
	}
	if cmd.Seed != 0 {
		cfg.Training.Seed = cmd.Seed
	}
	if cmd.Sampling != "" {
		cfg.Training.Sampling = cmd.Sampling
	}
}

func (cmd *TrainCmd) start(cfg *config.Config, logger *log.Logger, opts []solver.Option) (*solver.Solver, error) {
	abs, train, err := cfg.Solver()
	if err != nil {
		return nil, err
	}
	s, err := solver.New(abs, train, opts...)
	if err != nil {
		return nil, err
	}
	logger.Info("starting training run",
		"run_id", s.RunID(),
		"iterations", humanize.Comma(int64(train.Iterations)),
		"players", train.Players,
		"parallel", train.ParallelTables,
		"sampling", train.Sampling,
		"alpha", train.Alpha, "beta", train.Beta, "gamma", train.Gamma,
	)
	return s, nil
}

func (cmd *TrainCmd) resume(cfg *config.Config, logger *log.Logger, opts []solver.Option) (*solver.Solver, error) {
	s, err := solver.Resume(cmd.ResumeFrom, opts...)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	if cmd.Iterations > 0 {
		if err := s.SetTotalIterations(cfg.Training.Iterations); err != nil {
			return nil, err
		}
	}
	if cfg.Training.ProgressEvery > 0 {
		s.SetProgressEvery(cfg.Training.ProgressEvery)
	}
	train := s.TrainingConfig()
	if cmd.Sampling != "" && cmd.Sampling != train.Sampling.String() {
		logger.Warn("cannot change sampling mode when resuming; keeping checkpoint value", "requested", cmd.Sampling, "checkpoint", train.Sampling)
	}
	logger.Info("resuming training run",
		"run_id", s.RunID(),
		"iteration", s.Iteration(),
		"iterations", humanize.Comma(int64(train.Iterations)),
		"players", train.Players,
		"checkpoint", cmd.ResumeFrom,
	)
	return s, nil
}

func (cmd *TrainCmd) progressBar(total, done int) *progressbar.ProgressBar {
	if cmd.NoProgress {
		return nil
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("training"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("it"),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
	_ = bar.Set(done)
	return bar
}
