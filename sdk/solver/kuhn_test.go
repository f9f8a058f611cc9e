package solver

import (
	"fmt"
	rand "math/rand/v2"
	"strings"
)

// kuhnState is three-card Kuhn poker: each player antes 1, player 0 acts
// first, actions are pass (p) and bet (b) of 1.
type kuhnState struct {
	cards   [2]int
	history string
}

var kuhnActions = []string{"p", "b"}

func kuhnFactory(rng *rand.Rand) (State, error) {
	perm := rng.Perm(3)
	return &kuhnState{cards: [2]int{perm[0], perm[1]}}, nil
}

func (s *kuhnState) Players() int { return 2 }

func (s *kuhnState) Terminal() bool {
	switch s.history {
	case "pp", "bp", "bb", "pbp", "pbb":
		return true
	}
	return false
}

func (s *kuhnState) Chance() bool            { return false }
func (s *kuhnState) Advance() (State, error) { return s, nil }
func (s *kuhnState) Actor() int              { return len(s.history) % 2 }

func (s *kuhnState) InfoSet(seat int) (string, error) {
	return kuhnKey(s.cards[seat], s.history), nil
}

func (s *kuhnState) Actions() ([]string, error) { return kuhnActions, nil }

func (s *kuhnState) Apply(i int) (State, error) {
	if i < 0 || i > 1 {
		return nil, fmt.Errorf("bad kuhn action %d", i)
	}
	return &kuhnState{cards: s.cards, history: s.history + kuhnActions[i]}, nil
}

func (s *kuhnState) Payoff(seat int) (float64, error) {
	if !s.Terminal() {
		return 0, fmt.Errorf("kuhn history %q is not terminal", s.history)
	}
	v := kuhnValue(s.cards, s.history)
	if seat == 1 {
		v = -v
	}
	return v, nil
}

func kuhnKey(card int, history string) string {
	return string("JQK"[card]) + history
}

// kuhnValue is player 0's payoff at a terminal history.
func kuhnValue(cards [2]int, history string) float64 {
	win := 1.0
	if cards[1] > cards[0] {
		win = -1
	}
	switch history {
	case "bp":
		return 1
	case "pbp":
		return -1
	case "pp":
		return win
	default:
		return 2 * win
	}
}

// profile maps an information-set key to its [pass, bet] probabilities.
// Missing keys play uniformly.
type profile map[string][]float64

func (p profile) prob(key string) []float64 {
	if row, ok := p[key]; ok {
		return row
	}
	return []float64{0.5, 0.5}
}

func profileFromBlueprint(bp *Blueprint) profile {
	out := make(profile, len(bp.Strategies))
	for key, row := range bp.Strategies {
		probs := make([]float64, len(row))
		for i, ap := range row {
			probs[i] = ap.Probability
		}
		out[key] = probs
	}
	return out
}

// kuhnEV is player 0's expected value when both seats follow their profiles.
func kuhnEV(p0, p1 profile, cards [2]int, history string) float64 {
	s := &kuhnState{cards: cards, history: history}
	if s.Terminal() {
		return kuhnValue(cards, history)
	}
	actor := s.Actor()
	prof := p0
	if actor == 1 {
		prof = p1
	}
	probs := prof.prob(kuhnKey(cards[actor], history))
	ev := 0.0
	for i, a := range kuhnActions {
		if probs[i] == 0 {
			continue
		}
		ev += probs[i] * kuhnEV(p0, p1, cards, history+a)
	}
	return ev
}

var kuhnDeals = [][2]int{{0, 1}, {0, 2}, {1, 0}, {1, 2}, {2, 0}, {2, 1}}

func kuhnInfoSets(seat int) []string {
	histories := []string{"", "pb"}
	if seat == 1 {
		histories = []string{"p", "b"}
	}
	var keys []string
	for _, h := range histories {
		for c := range 3 {
			keys = append(keys, kuhnKey(c, h))
		}
	}
	return keys
}

// bestResponse enumerates every pure strategy of seat against the other
// seat's profile and returns seat's best expected value.
func bestResponse(seat int, opponent profile) float64 {
	keys := kuhnInfoSets(seat)
	best := -1e9
	for mask := range 1 << len(keys) {
		pure := make(profile, len(keys))
		for i, k := range keys {
			if mask&(1<<i) != 0 {
				pure[k] = []float64{0, 1}
			} else {
				pure[k] = []float64{1, 0}
			}
		}
		ev := 0.0
		for _, cards := range kuhnDeals {
			if seat == 0 {
				ev += kuhnEV(pure, opponent, cards, "")
			} else {
				ev -= kuhnEV(opponent, pure, cards, "")
			}
		}
		best = max(best, ev/float64(len(kuhnDeals)))
	}
	return best
}

// exploitability is the mean gain of the two best responses; zero at an
// equilibrium.
func exploitability(p profile) float64 {
	return (bestResponse(0, p) + bestResponse(1, p)) / 2
}

func kuhnProfileString(p profile) string {
	var b strings.Builder
	for _, seat := range []int{0, 1} {
		for _, k := range kuhnInfoSets(seat) {
			fmt.Fprintf(&b, "%s=%.3f ", k, p.prob(k)[1])
		}
	}
	return b.String()
}
