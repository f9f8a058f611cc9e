package solver

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/dcfr-holdem/internal/game"
)

// holdemState adapts a game.GameTree to State. Every transition works on a
// clone so earlier states stay valid for sibling branches.
type holdemState struct {
	tree    *game.GameTree
	abs     Abstraction
	actions []game.Action
}

// NewHoldemFactory returns a factory that seats cfg.Players equal stacks,
// shuffles with the traversal's rng and posts the blinds.
func NewHoldemFactory(abs Abstraction, cfg TrainingConfig, logger *log.Logger) GameFactory {
	return func(rng *rand.Rand) (State, error) {
		players := make([]*game.Player, cfg.Players)
		for i := range players {
			players[i] = game.NewPlayer(i, cfg.StartingStack)
		}
		tree := game.NewGameTree(players, nil,
			game.WithBlinds(cfg.SmallBlind, cfg.BigBlind),
			game.WithRNG(rng),
			game.WithLogger(logger),
		)
		if err := tree.StartGame(); err != nil {
			return nil, err
		}
		return newHoldemState(tree, abs), nil
	}
}

func newHoldemState(tree *game.GameTree, abs Abstraction) *holdemState {
	s := &holdemState{tree: tree, abs: abs}
	if seat := tree.Actor(); seat >= 0 {
		s.actions = abs.Actions(tree.View(seat))
	}
	return s
}

func (s *holdemState) Players() int   { return s.tree.NumSeats() }
func (s *holdemState) Terminal() bool { return s.tree.Terminal() }
func (s *holdemState) Chance() bool   { return s.tree.NeedsDeal() }
func (s *holdemState) Actor() int     { return s.tree.Actor() }

func (s *holdemState) Advance() (State, error) {
	next := s.tree.Clone()
	if err := next.Deal(); err != nil {
		return nil, err
	}
	return newHoldemState(next, s.abs), nil
}

func (s *holdemState) InfoSet(seat int) (string, error) {
	return s.abs.InfoSet(s.tree.View(seat)), nil
}

func (s *holdemState) Actions() ([]string, error) {
	labels := make([]string, len(s.actions))
	for i, a := range s.actions {
		labels[i] = ActionLabel(a)
	}
	return labels, nil
}

func (s *holdemState) Apply(i int) (State, error) {
	if i < 0 || i >= len(s.actions) {
		return nil, fmt.Errorf("action %d of %d: %w", i, len(s.actions), game.ErrInvalidAction)
	}
	next := s.tree.Clone()
	if err := next.Apply(s.actions[i]); err != nil {
		return nil, err
	}
	return newHoldemState(next, s.abs), nil
}

func (s *holdemState) Payoff(seat int) (float64, error) {
	v, err := s.tree.Payoff(seat)
	if err != nil {
		return 0, err
	}
	return float64(v), nil
}
