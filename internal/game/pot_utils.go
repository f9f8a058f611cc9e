package game

import (
	"slices"
	"sort"
)

// SidePot is one layer of the pot and the seats that can win it.
type SidePot struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"`
}

// CalculateSidePots splits the pot into layers keyed by the distinct total
// contributions of on-board players. Each layer holds (threshold - previous)
// from every on-board player at or above the threshold; eligible seats are
// listed in ascending seat order.
//
// Folded players cannot win but their chips stay in the pot: each layer also
// collects the part of every folded contribution that falls inside it, and
// anything above the top threshold joins the last layer. The pots therefore
// always sum to the total contributed by all players.
func CalculateSidePots(players []*Player) []SidePot {
	var live, folded []*Player
	for _, p := range players {
		if p.OnBoard {
			live = append(live, p)
		} else if p.TotalBet > 0 {
			folded = append(folded, p)
		}
	}
	if len(live) == 0 {
		return nil
	}

	sort.SliceStable(live, func(i, j int) bool {
		return live[i].TotalBet < live[j].TotalBet
	})

	var pots []SidePot
	prev := 0
	for i, p := range live {
		threshold := p.TotalBet
		if threshold <= prev {
			continue
		}

		amount := (threshold - prev) * (len(live) - i)
		for _, f := range folded {
			amount += min(max(f.TotalBet, prev), threshold) - prev
		}

		eligible := make([]int, 0, len(live)-i)
		for _, q := range live[i:] {
			eligible = append(eligible, q.Seat)
		}
		slices.Sort(eligible)

		pots = append(pots, SidePot{Amount: amount, Eligible: eligible})
		prev = threshold
	}

	dead := 0
	for _, f := range folded {
		dead += max(f.TotalBet-prev, 0)
	}

	if len(pots) == 0 {
		total := dead
		eligible := make([]int, 0, len(live))
		for _, p := range live {
			total += p.TotalBet
			eligible = append(eligible, p.Seat)
		}
		slices.Sort(eligible)
		return []SidePot{{Amount: total, Eligible: eligible}}
	}

	pots[len(pots)-1].Amount += dead
	return pots
}

// TotalPot sums the pot amounts.
func TotalPot(pots []SidePot) int {
	total := 0
	for _, p := range pots {
		total += p.Amount
	}
	return total
}

func clonePots(pots []SidePot) []SidePot {
	if pots == nil {
		return nil
	}
	out := make([]SidePot, len(pots))
	for i, p := range pots {
		out[i] = SidePot{Amount: p.Amount, Eligible: slices.Clone(p.Eligible)}
	}
	return out
}
