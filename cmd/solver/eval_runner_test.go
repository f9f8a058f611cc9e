package main

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lox/dcfr-holdem/sdk/solver"
	"github.com/lox/dcfr-holdem/sdk/solver/runtime"
)

func TestEvalAggregateComputesRates(t *testing.T) {
	agg := newEvalAggregate()
	agg.add("blueprint", 30)
	agg.add("blueprint", -10)
	agg.add("call-1", -30)
	agg.add("call-1", 10)
	agg.hands = 2

	res := agg.result(10)
	if res.HandsCompleted != 2 {
		t.Fatalf("expected 2 hands, got %d", res.HandsCompleted)
	}
	if len(res.Players) != 2 || res.Players[0].Name != "blueprint" {
		t.Fatalf("expected players sorted by name, got %+v", res.Players)
	}
	bp := res.Players[0]
	if bp.NetChips != 20 || bp.Hands != 2 {
		t.Fatalf("unexpected blueprint totals %+v", bp)
	}
	if bp.BBPerHand != 1 || bp.BBPer100 != 100 {
		t.Fatalf("expected 1 bb/hand and 100 bb/100, got %v and %v", bp.BBPerHand, bp.BBPer100)
	}
}

func TestRunEvaluationConservesChips(t *testing.T) {
	train := solver.DefaultTrainingConfig()
	train.Seed = 3
	train.SmallBlind = 1
	train.BigBlind = 2
	train.StartingStack = 40
	train.CheckpointEvery = 0
	s, err := solver.New(solver.DefaultAbstraction(), train)
	if err != nil {
		t.Fatalf("new solver: %v", err)
	}
	bp, err := s.ComputeBlueprintStrategy(context.Background(), 4, nil)
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	for _, mirror := range []bool{false, true} {
		for _, opp := range []string{"call", "random"} {
			res, err := runEvaluation(context.Background(), log.New(io.Discard), runtime.NewPolicy(bp), evaluationOptions{
				Players:    2,
				Hands:      20,
				Seed:       9,
				SmallBlind: 1,
				BigBlind:   2,
				StartChips: 40,
				Opponent:   opp,
				Mirror:     mirror,
				History:    mirror,
			})
			if err != nil {
				t.Fatalf("mirror=%v opp=%s: %v", mirror, opp, err)
			}
			wantHands := uint64(20)
			if mirror {
				wantHands = 40
			}
			if res.HandsCompleted != wantHands {
				t.Fatalf("mirror=%v: expected %d hands, got %d", mirror, wantHands, res.HandsCompleted)
			}
			total := 0
			for _, p := range res.Players {
				total += p.NetChips
			}
			if total != 0 {
				t.Fatalf("mirror=%v opp=%s: chips not conserved, net %d", mirror, opp, total)
			}
			if res.BlueprintHits+res.BlueprintMiss == 0 {
				t.Fatalf("blueprint bot never decided")
			}
			if uint64(res.Blueprint.Hands) != wantHands {
				t.Fatalf("statistics saw %d hands, want %d", res.Blueprint.Hands, wantHands)
			}
			if err := res.Blueprint.Validate(); err != nil {
				t.Fatalf("statistics: %v", err)
			}
			classified := 0
			for _, hs := range res.Blueprint.Holes {
				classified += hs.Hands
			}
			if classified != res.Blueprint.Hands {
				t.Fatalf("classified %d of %d hands by hole class", classified, res.Blueprint.Hands)
			}
			for _, p := range res.Players {
				if p.Name == blueprintName && p.NetChips != int(res.Blueprint.SumBB*2) {
					t.Fatalf("statistics total %.1f bb disagrees with %d chips", res.Blueprint.SumBB, p.NetChips)
				}
			}
			if mirror && len(res.Histories) != int(wantHands) {
				t.Fatalf("expected %d hand histories, got %d", wantHands, len(res.Histories))
			}
			if !mirror && res.Histories != nil {
				t.Fatalf("histories recorded without being requested")
			}
		}
	}
}

func TestRunEvaluationRejectsSingleSeat(t *testing.T) {
	_, err := runEvaluation(context.Background(), log.New(io.Discard), runtime.NewPolicy(&solver.Blueprint{}), evaluationOptions{Players: 1, Hands: 1})
	if err == nil {
		t.Fatalf("expected error for a single seat")
	}
}
