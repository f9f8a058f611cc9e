package main

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/lox/dcfr-holdem/internal/fileutil"
	"github.com/lox/dcfr-holdem/internal/phh"
	"github.com/lox/dcfr-holdem/poker"
	"github.com/lox/dcfr-holdem/sdk/solver/runtime"
)

type PlayCmd struct {
	Blueprint string `short:"b" help:"path to blueprint file" required:"" env:"DCFR_BLUEPRINT"`
	Hands     int    `short:"n" help:"number of deals to play" default:"1000"`
	Opponent  string `help:"opponent strategy" enum:"call,random" default:"call"`
	Mirror    bool   `help:"replay every deal with the blueprint in each seat"`
	Seed      int64  `help:"random seed; 0 uses time seed" default:"0"`
	History   string `help:"write every hand to this PHH collection file"`
}

func (cmd *PlayCmd) Run(ctx context.Context) error {
	if cmd.Hands <= 0 {
		return fmt.Errorf("hands must be positive (got %d)", cmd.Hands)
	}
	logger, closer, err := newLogger(log.InfoLevel, "")
	if err != nil {
		return err
	}
	defer closer.Close()

	policy, err := runtime.Load(cmd.Blueprint)
	if err != nil {
		return fmt.Errorf("load blueprint: %w", err)
	}
	bp := policy.Blueprint()
	logger.Info("blueprint loaded",
		"run_id", bp.RunID,
		"generated", bp.GeneratedAt.Format(time.RFC3339),
		"iterations", humanize.Comma(int64(bp.Iterations)),
		"infosets", humanize.Comma(int64(len(bp.Strategies))),
	)

	res, err := runEvaluation(ctx, logger, policy, evaluationOptions{
		Players:    bp.Training.Players,
		Hands:      cmd.Hands,
		Seed:       cmd.Seed,
		SmallBlind: bp.Training.SmallBlind,
		BigBlind:   bp.Training.BigBlind,
		StartChips: bp.Training.StartingStack,
		Opponent:   cmd.Opponent,
		Mirror:     cmd.Mirror,
		History:    cmd.History != "",
	})
	if err != nil {
		return fmt.Errorf("run evaluation: %w", err)
	}

	decisions := res.BlueprintHits + res.BlueprintMiss
	coverage := 0.0
	if decisions > 0 {
		coverage = float64(res.BlueprintHits) / float64(decisions) * 100
	}
	logger.Info("evaluation complete",
		"hands", humanize.Comma(int64(res.HandsCompleted)),
		"duration", res.Duration.Round(time.Millisecond),
		"decisions", humanize.Comma(int64(decisions)),
		"coverage", fmt.Sprintf("%.1f%%", coverage),
	)
	for _, p := range res.Players {
		logger.Info("player summary",
			"player", p.Name,
			"bb_per_100", fmt.Sprintf("%.2f", p.BBPer100),
			"bb_per_hand", fmt.Sprintf("%.4f", p.BBPerHand),
			"net_chips", humanize.Comma(int64(p.NetChips)),
			"hands", p.Hands,
		)
	}

	st := &res.Blueprint
	lo, hi := st.ConfidenceInterval95()
	logger.Info("blueprint results",
		"bb_per_100", fmt.Sprintf("%.2f", st.BBPer100()),
		"ci95", fmt.Sprintf("[%.2f, %.2f]", lo*100, hi*100),
		"stddev_bb", fmt.Sprintf("%.2f", st.StdDev()),
		"showdown_bb", fmt.Sprintf("%.1f", st.ShowdownBB),
		"non_showdown_bb", fmt.Sprintf("%.1f", st.NonShowdownBB),
		"max_pot", humanize.Comma(int64(st.MaxPot)),
	)
	for seat := range bp.Training.Players {
		if _, ok := st.Seats[seat]; ok {
			logger.Info("seat summary", "seat", seat, "bb_per_100", fmt.Sprintf("%.2f", st.SeatMean(seat)*100))
		}
	}

	for c := poker.HolePremium; ; c-- {
		if hs, ok := st.Holes[c.String()]; ok {
			logger.Info("hole class summary", "class", c, "hands", hs.Hands, "bb_per_100", fmt.Sprintf("%.2f", st.HoleMean(c.String())*100))
		}
		if c == poker.HoleTrash {
			break
		}
	}

	if cmd.History != "" {
		var buf bytes.Buffer
		if err := phh.EncodeAll(&buf, res.Histories); err != nil {
			return fmt.Errorf("encode hand histories: %w", err)
		}
		if err := fileutil.WriteFileAtomic(cmd.History, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write hand histories: %w", err)
		}
		logger.Info("hand histories written", "path", cmd.History, "hands", len(res.Histories))
	}
	return nil
}
