package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

var cli struct {
	Debug    bool   `help:"enable debug logging" env:"DCFR_DEBUG"`
	LogLevel string `help:"log level (overrides config)" env:"DCFR_LOG_LEVEL"`

	Train   TrainCmd   `cmd:"" help:"run DCFR self-play and write a blueprint"`
	Play    PlayCmd    `cmd:"" help:"play hands with a blueprint bot against simple opponents"`
	Inspect InspectCmd `cmd:"" help:"print strategy rows stored in a blueprint"`
}

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	kctx := kong.Parse(&cli,
		kong.Name("solver"),
		kong.Description("Multi-player no-limit hold'em DCFR solver"),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx.BindTo(ctx, (*context.Context)(nil))
	if err := kctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		kctx.Exit(1)
	}
}

// newLogger builds the CLI logger. level is the configured level; --debug and
// --log-level take precedence. When file is set, logs go there instead of
// stderr and the returned closer must be called.
func newLogger(level log.Level, file string) (*log.Logger, io.Closer, error) {
	var (
		out    io.Writer = os.Stderr
		closer io.Closer = io.NopCloser(nil)
	)
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	}

	if cli.LogLevel != "" {
		lvl, err := log.ParseLevel(cli.LogLevel)
		if err != nil {
			closer.Close()
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		level = lvl
	}
	if cli.Debug {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	return logger, closer, nil
}
