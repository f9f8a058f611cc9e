package game

import "fmt"

// ActionKind tags an Action.
type ActionKind uint8

const (
	Fold ActionKind = iota
	Check
	Call
	Raise
	Deal
)

func (k ActionKind) String() string {
	return [...]string{"fold", "check", "call", "raise", "deal"}[k]
}

// Action is a betting decision. Amount is the target total contribution for
// the current betting round, not the delta; it is unused for Fold, Check and Deal.
type Action struct {
	Kind   ActionKind `json:"kind"`
	Amount int        `json:"amount,omitempty"`
	AllIn  bool       `json:"all_in,omitempty"`
}

// FoldAction returns a fold.
func FoldAction() Action { return Action{Kind: Fold} }

// CheckAction returns a check.
func CheckAction() Action { return Action{Kind: Check} }

// CallTo calls up to the given round total.
func CallTo(amount int, allIn bool) Action {
	return Action{Kind: Call, Amount: amount, AllIn: allIn}
}

// RaiseTo raises the round total to amount.
func RaiseTo(amount int, allIn bool) Action {
	return Action{Kind: Raise, Amount: amount, AllIn: allIn}
}

func (a Action) String() string {
	switch a.Kind {
	case Call, Raise:
		if a.AllIn {
			return fmt.Sprintf("%s %d all-in", a.Kind, a.Amount)
		}
		return fmt.Sprintf("%s %d", a.Kind, a.Amount)
	default:
		return a.Kind.String()
	}
}
