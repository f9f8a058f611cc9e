package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/dcfr-holdem/internal/game"
	"github.com/lox/dcfr-holdem/sdk/solver"
)

// ErrNoActions is returned when the abstraction offers nothing to play.
var ErrNoActions = errors.New("no actions available")

// Bot plays a blueprint: it resolves the acting seat's information set with
// the training abstraction and samples from the stored row.
type Bot struct {
	policy *Policy
	abs    solver.Abstraction
	logger *log.Logger

	mu     sync.Mutex
	rng    *rand.Rand
	hits   int
	misses int
}

// NewBot returns a bot for policy using abs to build keys and actions.
func NewBot(policy *Policy, abs solver.Abstraction, rng *rand.Rand, logger *log.Logger) *Bot {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Bot{policy: policy, abs: abs, rng: rng, logger: logger.WithPrefix("bot")}
}

// NewBlueprintBot builds the bucket abstraction recorded in the policy's
// blueprint and returns a bot over it.
func NewBlueprintBot(policy *Policy, rng *rand.Rand, logger *log.Logger) (*Bot, error) {
	bp := policy.Blueprint()
	if bp == nil {
		return nil, errors.New("policy has no blueprint")
	}
	abs, err := solver.NewBucketAbstraction(bp.Abstraction)
	if err != nil {
		return nil, fmt.Errorf("blueprint abstraction: %w", err)
	}
	return NewBot(policy, abs, rng, logger), nil
}

// Decide implements game.ActionProvider.
func (b *Bot) Decide(ctx context.Context, v game.View) (game.Action, error) {
	if err := ctx.Err(); err != nil {
		return game.Action{}, err
	}
	actions := b.abs.Actions(v)
	if len(actions) == 0 {
		return game.Action{}, fmt.Errorf("seat %d: %w", v.Seat, ErrNoActions)
	}
	labels := make([]string, len(actions))
	for i, a := range actions {
		labels[i] = solver.ActionLabel(a)
	}

	key := b.abs.InfoSet(v)
	weights, found, err := b.policy.ActionWeights(key, labels)
	if err != nil {
		return game.Action{}, err
	}

	b.mu.Lock()
	idx := sample(weights, b.rng)
	if found {
		b.hits++
	} else {
		b.misses++
	}
	b.mu.Unlock()

	if !found {
		b.logger.Debug("information set not in blueprint", "seat", v.Seat, "key", key)
	}
	return actions[idx], nil
}

// Stats reports how many decisions used a blueprint row and how many fell
// back to uniform play.
func (b *Bot) Stats() (hits, misses int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits, b.misses
}

func sample(weights []float64, rng *rand.Rand) int {
	r := rng.Float64()
	acc := 0.0
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		last = i
		if r < acc {
			return i
		}
	}
	return last
}
