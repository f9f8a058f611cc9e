package solver

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"slices"
	"time"
)

// State is one position of an extensive-form game as seen by the solver.
// Implementations are persistent: Apply and Advance return new states and
// leave the receiver untouched.
type State interface {
	// Players is the number of seats.
	Players() int
	// Terminal reports whether the game is over and payoffs are defined.
	Terminal() bool
	// Chance reports whether the next step is a deal rather than a decision.
	Chance() bool
	// Advance performs the pending deal.
	Advance() (State, error)
	// Actor is the seat to act at a decision state.
	Actor() int
	// InfoSet is the information-set key of seat at this state.
	InfoSet(seat int) (string, error)
	// Actions labels the actions open to the actor, in a stable order.
	Actions() ([]string, error)
	// Apply takes the i-th action.
	Apply(i int) (State, error)
	// Payoff is seat's net result at a terminal state.
	Payoff(seat int) (float64, error)
}

// GameFactory builds the root of a fresh game. The rng is owned by the
// caller's traversal and may be used to shuffle.
type GameFactory func(rng *rand.Rand) (State, error)

// ErrNoActions reports a decision state that offers no actions.
var ErrNoActions = errors.New("decision state has no actions")

// TraversalStats captures instrumentation metrics for a single DCFR iteration.
type TraversalStats struct {
	NodesVisited  int64         `json:"nodes_visited"`
	TerminalNodes int64         `json:"terminal_nodes"`
	MaxDepth      int           `json:"max_depth"`
	IterationTime time.Duration `json:"iteration_time"`
}

func (s *TraversalStats) add(o TraversalStats) {
	s.NodesVisited += o.NodesVisited
	s.TerminalNodes += o.TerminalNodes
	s.MaxDepth = max(s.MaxDepth, o.MaxDepth)
}

// traverser runs one (iteration, player) traversal. It reads the shared
// table and writes only to its own delta.
type traverser struct {
	table  *Table
	delta  *delta
	player int
	mode   SamplingMode
	rng    *rand.Rand
	stats  TraversalStats
}

func (w *traverser) traverse(s State, depth int, reachP, reachOpp float64) (float64, error) {
	w.stats.NodesVisited++
	w.stats.MaxDepth = max(w.stats.MaxDepth, depth)

	if s.Terminal() {
		w.stats.TerminalNodes++
		return s.Payoff(w.player)
	}
	if s.Chance() {
		next, err := s.Advance()
		if err != nil {
			return 0, err
		}
		return w.traverse(next, depth+1, reachP, reachOpp)
	}

	actor := s.Actor()
	key, err := s.InfoSet(actor)
	if err != nil {
		return 0, err
	}
	actions, err := s.Actions()
	if err != nil {
		return 0, err
	}
	if len(actions) == 0 {
		return 0, fmt.Errorf("%q: %w", key, ErrNoActions)
	}

	strategy := uniform(len(actions))
	if e, ok := w.table.Lookup(key); ok {
		if !slices.Equal(e.Actions, actions) {
			return 0, fmt.Errorf("%q has %v, traversal saw %v: %w", key, e.Actions, actions, ErrActionMismatch)
		}
		strategy = e.CurrentStrategy()
	}

	switch {
	case actor == w.player:
		row, err := w.delta.row(key, actions)
		if err != nil {
			return 0, err
		}
		values := make([]float64, len(actions))
		ev := 0.0
		for i := range actions {
			child, err := s.Apply(i)
			if err != nil {
				return 0, err
			}
			v, err := w.traverse(child, depth+1, reachP*strategy[i], reachOpp)
			if err != nil {
				return 0, err
			}
			values[i] = v
			ev += strategy[i] * v
		}
		for i := range actions {
			row.regret[i] += reachOpp * (values[i] - ev)
			row.strategySum[i] += reachP * strategy[i]
		}
		copy(row.strategy, strategy)
		return ev, nil

	case w.mode == SamplingModeFullTraversal:
		ev := 0.0
		for i, prob := range strategy {
			if prob <= 0 {
				continue
			}
			child, err := s.Apply(i)
			if err != nil {
				return 0, err
			}
			v, err := w.traverse(child, depth+1, reachP, reachOpp*prob)
			if err != nil {
				return 0, err
			}
			ev += prob * v
		}
		return ev, nil

	default:
		idx, prob := sampleStrategyIndex(strategy, w.rng)
		child, err := s.Apply(idx)
		if err != nil {
			return 0, err
		}
		return w.traverse(child, depth+1, reachP, reachOpp*prob)
	}
}

// sampleStrategyIndex draws an index from strategy and returns it with its
// probability. Non-positive mass everywhere falls back to uniform.
func sampleStrategyIndex(strategy []float64, rng *rand.Rand) (int, float64) {
	if len(strategy) == 0 {
		return 0, 0
	}
	total := 0.0
	for _, v := range strategy {
		if v > 0 {
			total += v
		}
	}
	if total <= 0 {
		idx := rng.IntN(len(strategy))
		return idx, 1.0 / float64(len(strategy))
	}
	r := rng.Float64() * total
	acc := 0.0
	last := 0
	for i, v := range strategy {
		if v <= 0 {
			continue
		}
		acc += v
		last = i
		if r < acc {
			return i, v / total
		}
	}
	return last, strategy[last] / total
}
