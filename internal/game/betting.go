package game

import "math"

// BetSizing describes which raise targets are offered at a decision.
type BetSizing struct {
	// PotFractions are ascending raise sizes as fractions of the pot after calling.
	PotFractions []float64 `json:"pot_fractions"`
	// MaxRaises caps raises per betting round; zero means unlimited.
	MaxRaises int `json:"max_raises"`
	// AllIn offers a shove whenever the stack covers more than a call.
	AllIn bool `json:"all_in"`
}

// DefaultBetSizing offers half-pot, pot and all-in with three raises per round.
func DefaultBetSizing() BetSizing {
	return BetSizing{PotFractions: []float64{0.5, 1}, MaxRaises: 3, AllIn: true}
}

// legalActions lists the actions available to p at node n, in a stable order:
// fold (only when facing a bet), check or call, raises ascending, all-in.
func legalActions(n *GameNode, p *Player, s BetSizing) []Action {
	toCall := n.callAmount - p.LastAction
	maxTotal := p.LastAction + p.Stack

	out := make([]Action, 0, 3+len(s.PotFractions))
	if toCall > 0 {
		out = append(out, FoldAction())
		if maxTotal <= n.callAmount {
			out = append(out, CallTo(maxTotal, true))
		} else {
			out = append(out, CallTo(n.callAmount, false))
		}
	} else {
		out = append(out, CheckAction())
	}

	if maxTotal <= n.callAmount || (s.MaxRaises > 0 && n.raises >= s.MaxRaises) {
		return out
	}

	minTotal := n.callAmount + n.minRaise
	potAfterCall := n.pot + max(toCall, 0)
	last := n.callAmount
	for _, f := range s.PotFractions {
		target := n.callAmount + int(math.Round(f*float64(potAfterCall)))
		target = max(target, minTotal)
		if target >= maxTotal || target <= last {
			continue
		}
		out = append(out, RaiseTo(target, false))
		last = target
	}
	if s.AllIn || last == n.callAmount {
		out = append(out, RaiseTo(maxTotal, true))
	}
	return out
}

// LegalActionsFor lists the actions open to the seat behind v under sizing,
// which may differ from the sizing the tree offers its providers.
func LegalActionsFor(v View, s BetSizing) []Action {
	if v.Node == nil {
		return nil
	}
	return legalActions(v.Node, &Player{Stack: v.Stack, LastAction: v.LastAction}, s)
}
