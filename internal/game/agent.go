package game

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/lox/dcfr-holdem/poker"
)

// View is the read-only state handed to an ActionProvider: the acting seat's
// private information, the full public history and the legal actions.
type View struct {
	Seat       int
	Hole       []poker.Card
	Stack      int
	LastAction int
	TotalBet   int
	Node       *GameNode
	History    History
	Legal      []Action
}

// ActionProvider chooses an action for a seat. Implementations must return one
// of the actions a View would accept; the tree rejects anything else.
type ActionProvider interface {
	Decide(ctx context.Context, v View) (Action, error)
}

// ProviderFunc adapts a function to ActionProvider.
type ProviderFunc func(ctx context.Context, v View) (Action, error)

// Decide calls f.
func (f ProviderFunc) Decide(ctx context.Context, v View) (Action, error) {
	return f(ctx, v)
}

// CallingStation checks when it can and calls otherwise.
type CallingStation struct{}

// Decide implements ActionProvider.
func (CallingStation) Decide(_ context.Context, v View) (Action, error) {
	for _, a := range v.Legal {
		if a.Kind == Check || a.Kind == Call {
			return a, nil
		}
	}
	return FoldAction(), nil
}

// ErrScriptExhausted is returned when a Scripted provider runs out of actions.
var ErrScriptExhausted = errors.New("scripted provider has no actions left")

// Scripted replays a fixed sequence of actions. It is safe to share between
// seats; each call consumes the next action.
type Scripted struct {
	mu      sync.Mutex
	actions []Action
}

// NewScripted returns a provider that replays actions in order.
func NewScripted(actions ...Action) *Scripted {
	return &Scripted{actions: actions}
}

// Decide implements ActionProvider.
func (s *Scripted) Decide(context.Context, View) (Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.actions) == 0 {
		return Action{}, ErrScriptExhausted
	}
	a := s.actions[0]
	s.actions = s.actions[1:]
	return a, nil
}

// Random picks uniformly among the legal actions.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a Random provider using rng.
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

// Decide implements ActionProvider.
func (r *Random) Decide(_ context.Context, v View) (Action, error) {
	if len(v.Legal) == 0 {
		return Action{}, ErrInvalidAction
	}
	return v.Legal[r.rng.IntN(len(v.Legal))], nil
}
