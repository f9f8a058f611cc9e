package game

import (
	"slices"

	"github.com/lox/dcfr-holdem/poker"
)

// Stage is the betting street of a node.
type Stage uint8

const (
	PreFlop Stage = iota
	Flop
	Turn
	River
	Showdown
)

func (s Stage) String() string {
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[s]
}

// GameNode is an immutable snapshot of the public state after a transition.
// Every transition builds a new node; slices handed out are copies.
type GameNode struct {
	actor      int
	pot        int
	callAmount int
	minRaise   int
	raises     int
	stage      Stage
	community  []poker.Card
	onBoard    []int
	sidePots   []SidePot
}

// Actor is the seat whose action produced this node, or -1 for deal,
// round-start and showdown nodes. Rotation resumes at the next seat.
func (n *GameNode) Actor() int { return n.actor }

// Pot is the total chips committed so far.
func (n *GameNode) Pot() int { return n.pot }

// CallAmount is the round total a seat must reach to stay in.
func (n *GameNode) CallAmount() int { return n.callAmount }

// MinRaise is the smallest legal raise increment over CallAmount.
func (n *GameNode) MinRaise() int { return n.minRaise }

// Raises counts raises made in the current round.
func (n *GameNode) Raises() int { return n.raises }

// Stage is the betting street.
func (n *GameNode) Stage() Stage { return n.stage }

// Terminal reports whether the hand has reached showdown.
func (n *GameNode) Terminal() bool { return n.stage == Showdown }

// Community returns a copy of the board.
func (n *GameNode) Community() []poker.Card { return slices.Clone(n.community) }

// OnBoard returns a copy of the seats still contesting the pot, ascending.
func (n *GameNode) OnBoard() []int { return slices.Clone(n.onBoard) }

// IsOnBoard reports whether seat is still contesting the pot.
func (n *GameNode) IsOnBoard(seat int) bool { return slices.Contains(n.onBoard, seat) }

// SidePots returns a copy of the pot layers derived at this node.
func (n *GameNode) SidePots() []SidePot { return clonePots(n.sidePots) }

// Step is one history entry: the node reached and the action that produced it.
type Step struct {
	Node   *GameNode
	Action Action
	// Seat is the acting seat, or -1 for a deal.
	Seat int
}

// History is the append-only path of a hand. Nodes are immutable so steps
// can be shared between copies; the backing slice never is.
type History struct {
	steps []Step
}

// Len is the number of recorded steps.
func (h *History) Len() int { return len(h.steps) }

// At returns the i-th step.
func (h *History) At(i int) Step { return h.steps[i] }

// Steps returns a copy of all steps.
func (h *History) Steps() []Step { return slices.Clone(h.steps) }

// Last returns the most recent step.
func (h *History) Last() (Step, bool) {
	if len(h.steps) == 0 {
		return Step{}, false
	}
	return h.steps[len(h.steps)-1], true
}

func (h *History) append(n *GameNode, a Action, seat int) {
	h.steps = append(h.steps, Step{Node: n, Action: a, Seat: seat})
}

// Clone returns a history that can be appended to independently.
func (h *History) Clone() History {
	return History{steps: slices.Clone(h.steps)}
}
