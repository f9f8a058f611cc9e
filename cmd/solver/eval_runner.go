package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/dcfr-holdem/internal/game"
	"github.com/lox/dcfr-holdem/internal/phh"
	"github.com/lox/dcfr-holdem/internal/randutil"
	"github.com/lox/dcfr-holdem/internal/statistics"
	"github.com/lox/dcfr-holdem/poker"
	"github.com/lox/dcfr-holdem/sdk/solver/runtime"
)

const blueprintName = "blueprint"

type evaluationOptions struct {
	Players    int
	Hands      int
	Seed       int64
	SmallBlind int
	BigBlind   int
	StartChips int
	Opponent   string
	Mirror     bool
	History    bool
}

type evalResult struct {
	HandsCompleted uint64
	Duration       time.Duration
	Players        []evalPlayer
	BlueprintHits  int
	BlueprintMiss  int
	Blueprint      statistics.Statistics
	Histories      []*phh.HandHistory
}

type evalPlayer struct {
	Name      string
	NetChips  int
	BBPerHand float64
	BBPer100  float64
	Hands     int
}

// runEvaluation plays opts.Hands deals with the blueprint in one seat and
// opponents in the rest. In mirror mode every deal is replayed with the
// blueprint in each seat, which cancels most of the card luck.
func runEvaluation(ctx context.Context, logger *log.Logger, policy *runtime.Policy, opts evaluationOptions) (*evalResult, error) {
	if opts.Players < 2 {
		return nil, fmt.Errorf("need at least 2 players (got %d)", opts.Players)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	bot, err := runtime.NewBlueprintBot(policy, randutil.New(randutil.Child(seed, 0)), logger)
	if err != nil {
		return nil, err
	}
	oppRNG := randutil.New(randutil.Child(seed, 1))

	heroSeats := []int{0}
	if opts.Mirror {
		heroSeats = make([]int, opts.Players)
		for i := range heroSeats {
			heroSeats[i] = i
		}
	}

	agg := newEvalAggregate()
	var (
		stats     statistics.Statistics
		histories []*phh.HandHistory
	)
	start := time.Now()
	for h := range opts.Hands {
		for _, hero := range heroSeats {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			tree, net, err := playHand(ctx, bot, opponent(opts.Opponent, oppRNG), hero, randutil.Child(seed, uint64(h)+2), opts)
			if err != nil {
				return nil, fmt.Errorf("hand %d: %w", h+1, err)
			}
			names := make([]string, len(net))
			for seat, chips := range net {
				names[seat] = fmt.Sprintf("%s-%d", opts.Opponent, seat)
				if seat == hero {
					names[seat] = blueprintName
				}
				agg.add(names[seat], chips)
			}
			agg.hands++

			final := tree.Node()
			hole := tree.Hole(hero)
			stats.Add(statistics.HandResult{
				NetBB:          float64(net[hero]) / float64(opts.BigBlind),
				Seat:           hero,
				WentToShowdown: len(final.OnBoard()) > 1,
				FinalPot:       final.Pot(),
				HoleClass:      poker.CategorizeHole(hole[0], hole[1]).String(),
			})
			if opts.History {
				hand, err := phh.FromTree(tree, phh.Meta{
					HandID:         fmt.Sprintf("%d-%d", h+1, hero),
					Table:          "eval",
					Players:        names,
					StartingStacks: startingStacks(opts),
					Time:           time.Now(),
				})
				if err != nil {
					return nil, err
				}
				histories = append(histories, hand)
			}
		}
		if (h+1)%max(opts.Hands/10, 1) == 0 {
			logger.Debug("evaluation progress", "hands", h+1, "of", opts.Hands)
		}
	}

	res := agg.result(opts.BigBlind)
	res.Duration = time.Since(start)
	res.BlueprintHits, res.BlueprintMiss = bot.Stats()
	res.Blueprint = stats
	res.Histories = histories
	return res, nil
}

func startingStacks(opts evaluationOptions) []int {
	stacks := make([]int, opts.Players)
	for i := range stacks {
		stacks[i] = opts.StartChips
	}
	return stacks
}

// playHand runs one deal and returns the finished tree and each seat's chip
// delta.
func playHand(ctx context.Context, hero, villain game.ActionProvider, heroSeat int, dealSeed int64, opts evaluationOptions) (*game.GameTree, []int, error) {
	players := make([]*game.Player, opts.Players)
	providers := make([]game.ActionProvider, opts.Players)
	for i := range players {
		players[i] = game.NewPlayer(i, opts.StartChips)
		providers[i] = villain
	}
	providers[heroSeat] = hero

	tree := game.NewGameTree(players, providers,
		game.WithBlinds(opts.SmallBlind, opts.BigBlind),
		game.WithRNG(randutil.New(dealSeed)),
	)
	if _, err := tree.Run(ctx); err != nil {
		return nil, nil, err
	}

	net := make([]int, len(players))
	for i, p := range players {
		net[i] = p.Stack - opts.StartChips
	}
	return tree, net, nil
}

func opponent(kind string, rng *rand.Rand) game.ActionProvider {
	if kind == "random" {
		return game.NewRandom(rng)
	}
	return game.CallingStation{}
}

type evalAggregate struct {
	hands   uint64
	players map[string]*evalPlayer
}

func newEvalAggregate() *evalAggregate {
	return &evalAggregate{players: make(map[string]*evalPlayer)}
}

func (a *evalAggregate) add(name string, chips int) {
	p, ok := a.players[name]
	if !ok {
		p = &evalPlayer{Name: name}
		a.players[name] = p
	}
	p.NetChips += chips
	p.Hands++
}

func (a *evalAggregate) result(bigBlind int) *evalResult {
	players := make([]evalPlayer, 0, len(a.players))
	for _, p := range a.players {
		player := *p
		if player.Hands > 0 && bigBlind > 0 {
			totalBB := float64(player.NetChips) / float64(bigBlind)
			player.BBPerHand = totalBB / float64(player.Hands)
			player.BBPer100 = player.BBPerHand * 100
		}
		players = append(players, player)
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].Name < players[j].Name
	})
	return &evalResult{HandsCompleted: a.hands, Players: players}
}
