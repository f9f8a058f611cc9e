package poker

import (
	"testing"

	ph "github.com/paulhankin/poker"

	"github.com/lox/dcfr-holdem/internal/randutil"
)

func ranksOf(cards []Card) []Rank {
	out := make([]Rank, len(cards))
	for i, c := range cards {
		out[i] = c.Rank
	}
	return out
}

func equalRanks(a, b []Rank) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEvaluateCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		hole     string
		board    string
		category Category
		cards    []Rank
		kickers  []Rank
	}{
		{
			name: "high card", hole: "Ts Kh", board: "2c 4d 6h 8s Ac",
			category: HighCard, cards: []Rank{Ace}, kickers: []Rank{King, Ten, Eight, Six},
		},
		{
			name: "pair", hole: "As Tc", board: "2c 4d 6h 8s Ah",
			category: Pair, cards: []Rank{Ace, Ace}, kickers: []Rank{Ten, Eight, Six},
		},
		{
			name: "two pair", hole: "As Ah", board: "2c 2d 6h 8s Tc",
			category: TwoPair, cards: []Rank{Ace, Ace, Two, Two}, kickers: []Rank{Ten},
		},
		{
			name: "three of a kind", hole: "As Ah", board: "Ac 4d 6h 8s Tc",
			category: ThreeOfAKind, cards: []Rank{Ace, Ace, Ace}, kickers: []Rank{Ten, Eight},
		},
		{
			name: "straight", hole: "5s 6h", board: "7c 8d 9h Ts Jc",
			category: Straight, cards: []Rank{Jack, Ten, Nine, Eight, Seven}, kickers: []Rank{},
		},
		{
			name: "wheel", hole: "As 2h", board: "3c 4d 5h Ks Qc",
			category: Straight, cards: []Rank{Five, Four, Three, Two, Ace}, kickers: []Rank{},
		},
		{
			name: "flush", hole: "As Ks", board: "2s 4s 6s 8h Tc",
			category: Flush, cards: []Rank{Ace, King, Six, Four, Two}, kickers: []Rank{},
		},
		{
			name: "full house", hole: "As Ah", board: "Ac 4d 4h 8s Tc",
			category: FullHouse, cards: []Rank{Ace, Ace, Ace, Four, Four}, kickers: []Rank{},
		},
		{
			name: "full house from two trips", hole: "9s 9h", board: "9c 4d 4h 4s Tc",
			category: FullHouse, cards: []Rank{Nine, Nine, Nine, Four, Four}, kickers: []Rank{},
		},
		{
			name: "four of a kind", hole: "As Ah", board: "Ac Ad 6h 8s Tc",
			category: FourOfAKind, cards: []Rank{Ace, Ace, Ace, Ace}, kickers: []Rank{Ten},
		},
		{
			name: "straight flush", hole: "5s 6s", board: "7s 8s 9s Th Jc",
			category: StraightFlush, cards: []Rank{Nine, Eight, Seven, Six, Five}, kickers: []Rank{},
		},
		{
			name: "steel wheel", hole: "Ad 2d", board: "3d 4d 5d Kd Qc",
			category: StraightFlush, cards: []Rank{Five, Four, Three, Two, Ace}, kickers: []Rank{},
		},
		{
			name: "royal flush", hole: "As Ks", board: "Qs Js Ts 2h 3c",
			category: RoyalFlush, cards: []Rank{Ace, King, Queen, Jack, Ten}, kickers: []Rank{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, err := Evaluate(MustParseCards(tt.hole), MustParseCards(tt.board))
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if h.Category != tt.category {
				t.Fatalf("expected %s, got %s", tt.category, h.Category)
			}
			if got := ranksOf(h.Cards); !equalRanks(got, tt.cards) {
				t.Fatalf("made hand: expected %v, got %v", tt.cards, got)
			}
			if got := ranksOf(h.Kickers); !equalRanks(got, tt.kickers) {
				t.Fatalf("kickers: expected %v, got %v", tt.kickers, got)
			}
		})
	}
}

func TestEvaluateRejectsBadInput(t *testing.T) {
	t.Parallel()

	if _, err := Evaluate(MustParseCards("As"), MustParseCards("2c 3d 4h")); err == nil {
		t.Fatalf("expected error for one hole card")
	}
	if _, err := Evaluate(MustParseCards("As Ks"), MustParseCards("2c 3d")); err == nil {
		t.Fatalf("expected error for two community cards")
	}
	if _, err := Evaluate(MustParseCards("As Ks"), MustParseCards("As 3d 4h")); err == nil {
		t.Fatalf("expected error for duplicate card")
	}
}

func TestCompareHandsOrdering(t *testing.T) {
	t.Parallel()

	eval := func(hole, board string) Hand {
		h, err := Evaluate(MustParseCards(hole), MustParseCards(board))
		if err != nil {
			t.Fatalf("evaluate %s %s: %v", hole, board, err)
		}
		return h
	}

	board := "2c 7d 9h Js 3c"
	pairAces := eval("As Ad", board)
	pairKings := eval("Ks Kd", board)
	if CompareHands(pairAces, pairKings) != 1 || CompareHands(pairKings, pairAces) != -1 {
		t.Fatalf("aces should beat kings")
	}

	aceKing := eval("As Kh", board)
	aceQueen := eval("Ad Qh", board)
	if CompareHands(aceKing, aceQueen) != 1 {
		t.Fatalf("king kicker should beat queen kicker")
	}

	split := eval("Ah Kc", board)
	if CompareHands(aceKing, split) != 0 {
		t.Fatalf("same ranks in different suits should tie")
	}

	wheel := eval("As 2h", "3c 4d 5h Ks Qc")
	sixHigh := eval("6s 2h", "3c 4d 5h Ks Qc")
	if CompareHands(sixHigh, wheel) != 1 {
		t.Fatalf("six-high straight should beat the wheel")
	}
}

func TestCompareHandsAntisymmetricOnRandomHands(t *testing.T) {
	t.Parallel()

	rng := randutil.New(7)
	hands := make([]Hand, 0, 200)
	for range 200 {
		d := NewDeck()
		d.Shuffle(rng)
		cards, err := d.DrawN(7)
		if err != nil {
			t.Fatalf("draw: %v", err)
		}
		h, err := EvaluateCards(cards)
		if err != nil {
			t.Fatalf("evaluate: %v", err)
		}
		if h.Category > RoyalFlush {
			t.Fatalf("unknown category %d", h.Category)
		}
		hands = append(hands, h)
	}

	for i := range hands {
		if CompareHands(hands[i], hands[i]) != 0 {
			t.Fatalf("hand %d does not tie with itself", i)
		}
		for j := range hands {
			if CompareHands(hands[i], hands[j]) != -CompareHands(hands[j], hands[i]) {
				t.Fatalf("compare not antisymmetric for %d,%d", i, j)
			}
		}
	}
}

func toOracle(t *testing.T, c Card) ph.Card {
	t.Helper()
	suits := [...]ph.Suit{ph.Club, ph.Diamond, ph.Heart, ph.Spade}
	r := ph.Rank(int(c.Rank) + 2)
	if c.Rank == Ace {
		r = ph.Rank(1)
	}
	out, err := ph.MakeCard(suits[c.Suit], r)
	if err != nil {
		t.Fatalf("oracle card %s: %v", c, err)
	}
	return out
}

// TestCompareHandsAgreesWithOracle checks relative ordering against an
// independent 7-card evaluator on random deals.
func TestCompareHandsAgreesWithOracle(t *testing.T) {
	t.Parallel()

	rng := randutil.New(2024)
	for i := range 3000 {
		d := NewDeck()
		d.Shuffle(rng)
		cards, err := d.DrawN(9)
		if err != nil {
			t.Fatalf("draw: %v", err)
		}
		board := cards[4:]
		a, err := Evaluate(cards[0:2], board)
		if err != nil {
			t.Fatalf("evaluate: %v", err)
		}
		b, err := Evaluate(cards[2:4], board)
		if err != nil {
			t.Fatalf("evaluate: %v", err)
		}

		var sa, sb [7]ph.Card
		for k, c := range append(append([]Card(nil), cards[0:2]...), board...) {
			sa[k] = toOracle(t, c)
		}
		for k, c := range append(append([]Card(nil), cards[2:4]...), board...) {
			sb[k] = toOracle(t, c)
		}
		want := sign(int(ph.Eval7(&sa)) - int(ph.Eval7(&sb)))

		if got := CompareHands(a, b); got != want {
			t.Fatalf("deal %d: %s vs %s on %s: got %d, oracle %d",
				i, FormatCards(cards[0:2]), FormatCards(cards[2:4]), FormatCards(board), got, want)
		}
	}
}
