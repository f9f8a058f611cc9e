package game

import (
	"fmt"

	"github.com/lox/dcfr-holdem/poker"
)

// Player is one seat at the table. It is mutated by the GameTree as the hand
// progresses; GameNode snapshots never reference it.
type Player struct {
	Seat       int
	Stack      int
	Hole       []poker.Card
	OnBoard    bool // still contesting the pot
	HasActed   bool // acted since the last round reset
	LastAction int  // total contributed this betting round
	TotalBet   int  // total contributed this hand
	AllIn      bool
}

// NewPlayer seats a player with the given stack.
func NewPlayer(seat, stack int) *Player {
	return &Player{Seat: seat, Stack: stack, OnBoard: true}
}

// CanAct reports whether the player may still be asked for a decision.
func (p *Player) CanAct() bool {
	return p.OnBoard && !p.AllIn && p.Stack > 0
}

// ResetForHand clears all per-hand state. Stack is kept.
func (p *Player) ResetForHand() {
	p.Hole = nil
	p.OnBoard = true
	p.HasActed = false
	p.LastAction = 0
	p.TotalBet = 0
	p.AllIn = false
}

// ResetForRound clears the per-round betting state.
func (p *Player) ResetForRound() {
	p.HasActed = false
	p.LastAction = 0
}

// MakeAction applies a to the player and returns the chips actually paid.
// Call and Raise amounts are round totals; the paid delta is capped at the
// remaining stack, and a capped payment must carry the all-in flag.
func (p *Player) MakeAction(a Action) (int, error) {
	if !p.OnBoard {
		return 0, fmt.Errorf("seat %d %s: %w", p.Seat, a, ErrNotOnBoard)
	}

	switch a.Kind {
	case Fold:
		p.OnBoard = false
		p.HasActed = true
		return 0, nil
	case Check:
		p.HasActed = true
		return 0, nil
	case Call, Raise:
	default:
		return 0, fmt.Errorf("seat %d %s: %w", p.Seat, a, ErrInvalidAction)
	}

	if a.Amount < p.LastAction {
		return 0, fmt.Errorf("seat %d %s below round contribution %d: %w", p.Seat, a, p.LastAction, ErrInvalidBetAmount)
	}
	paid := a.Amount - p.LastAction
	if paid > p.Stack {
		if !a.AllIn {
			return 0, fmt.Errorf("seat %d %s with stack %d: %w", p.Seat, a, p.Stack, ErrAllInMismatch)
		}
		paid = p.Stack
	}

	p.Stack -= paid
	p.TotalBet += paid
	p.LastAction += paid
	p.HasActed = true
	if p.Stack == 0 {
		p.AllIn = true
	}
	return paid, nil
}

// Clone returns a deep copy.
func (p *Player) Clone() *Player {
	c := *p
	c.Hole = append([]poker.Card(nil), p.Hole...)
	return &c
}
