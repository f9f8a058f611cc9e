package poker

import (
	"fmt"
	"slices"
)

// Category is a poker hand class ordered from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

func (c Category) String() string {
	if int(c) >= len(categoryNames) {
		return "Unknown"
	}
	return categoryNames[c]
}

var categoryNames = [...]string{
	"High Card",
	"Pair",
	"Two Pair",
	"Three of a Kind",
	"Straight",
	"Flush",
	"Full House",
	"Four of a Kind",
	"Straight Flush",
	"Royal Flush",
}

// Hand is an evaluated best hand. Cards holds the made hand strongest-first;
// Kickers pads the comparison to five cards.
type Hand struct {
	Category Category
	Cards    []Card
	Kickers  []Card
}

// Describe renders the hand for transcripts, e.g. "Full House (Kh Kd Ks 7c 7d)".
func (h Hand) Describe() string {
	all := append(append([]Card(nil), h.Cards...), h.Kickers...)
	return fmt.Sprintf("%s (%s)", h.Category, FormatCards(all))
}

// Evaluate returns the best hand formed by two hole cards and 3-5 community cards.
func Evaluate(hole, community []Card) (Hand, error) {
	if len(hole) != 2 {
		return Hand{}, fmt.Errorf("evaluate: want 2 hole cards, got %d", len(hole))
	}
	if len(community) < 3 || len(community) > 5 {
		return Hand{}, fmt.Errorf("evaluate: want 3-5 community cards, got %d", len(community))
	}
	cards := make([]Card, 0, 7)
	cards = append(cards, hole...)
	cards = append(cards, community...)
	return EvaluateCards(cards)
}

// EvaluateCards ranks a set of 5-7 distinct cards.
func EvaluateCards(cards []Card) (Hand, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return Hand{}, fmt.Errorf("evaluate: want 5-7 cards, got %d", len(cards))
	}
	seen := make(map[Card]bool, len(cards))
	for _, c := range cards {
		if seen[c] {
			return Hand{}, fmt.Errorf("evaluate: duplicate card %s", c)
		}
		seen[c] = true
	}

	sorted := append([]Card(nil), cards...)
	slices.SortFunc(sorted, byStrength)

	var byRank [NumRanks][]Card
	var bySuit [NumSuits][]Card
	for _, c := range sorted {
		byRank[c.Rank] = append(byRank[c.Rank], c)
		bySuit[c.Suit] = append(bySuit[c.Suit], c)
	}

	flushSuit := -1
	for s := range bySuit {
		if len(bySuit[s]) >= 5 {
			flushSuit = s
		}
	}

	if flushSuit >= 0 {
		if run := straightRun(bySuit[flushSuit]); run != nil {
			if run[0].Rank == Ace {
				return Hand{Category: RoyalFlush, Cards: run}, nil
			}
			return Hand{Category: StraightFlush, Cards: run}, nil
		}
	}

	quads, trips, pairs := groups(byRank)

	if len(quads) > 0 {
		made := byRank[quads[0]]
		return Hand{Category: FourOfAKind, Cards: made, Kickers: kickers(sorted, made, 1)}, nil
	}

	if len(trips) > 0 {
		// Second trips can supply the pair of a full house.
		var pairRank Rank
		found := false
		if len(trips) > 1 {
			pairRank, found = trips[1], true
		}
		if len(pairs) > 0 && (!found || pairs[0] > pairRank) {
			pairRank, found = pairs[0], true
		}
		if found {
			made := append(append([]Card(nil), byRank[trips[0]]...), byRank[pairRank][:2]...)
			return Hand{Category: FullHouse, Cards: made}, nil
		}
	}

	if flushSuit >= 0 {
		return Hand{Category: Flush, Cards: append([]Card(nil), bySuit[flushSuit][:5]...)}, nil
	}

	if run := straightRun(sorted); run != nil {
		return Hand{Category: Straight, Cards: run}, nil
	}

	if len(trips) > 0 {
		made := byRank[trips[0]]
		return Hand{Category: ThreeOfAKind, Cards: made, Kickers: kickers(sorted, made, 2)}, nil
	}

	if len(pairs) >= 2 {
		made := append(append([]Card(nil), byRank[pairs[0]]...), byRank[pairs[1]]...)
		return Hand{Category: TwoPair, Cards: made, Kickers: kickers(sorted, made, 1)}, nil
	}

	if len(pairs) == 1 {
		made := byRank[pairs[0]]
		return Hand{Category: Pair, Cards: made, Kickers: kickers(sorted, made, 3)}, nil
	}

	made := sorted[:1]
	return Hand{Category: HighCard, Cards: append([]Card(nil), made...), Kickers: kickers(sorted, made, 4)}, nil
}

// CompareHands returns 1 when a beats b, -1 when b beats a and 0 on a tie.
func CompareHands(a, b Hand) int {
	if a.Category != b.Category {
		return sign(int(a.Category) - int(b.Category))
	}
	if c := compareRanks(a.Cards, b.Cards); c != 0 {
		return c
	}
	return compareRanks(a.Kickers, b.Kickers)
}

func compareRanks(a, b []Card) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i].Rank != b[i].Rank {
			return sign(int(a[i].Rank) - int(b[i].Rank))
		}
	}
	return sign(len(a) - len(b))
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// byStrength orders cards by rank descending, then suit descending.
func byStrength(a, b Card) int {
	if a.Rank != b.Rank {
		return int(b.Rank) - int(a.Rank)
	}
	return int(b.Suit) - int(a.Suit)
}

// groups returns ranks holding four, three and two cards, each highest first.
func groups(byRank [NumRanks][]Card) (quads, trips, pairs []Rank) {
	for r := Ace; ; r-- {
		switch len(byRank[r]) {
		case 4:
			quads = append(quads, r)
		case 3:
			trips = append(trips, r)
		case 2:
			pairs = append(pairs, r)
		}
		if r == Two {
			break
		}
	}
	return quads, trips, pairs
}

// straightRun finds the highest five-rank run in cards (sorted strongest first)
// and returns one card per rank, top rank first. The wheel is returned as 5-4-3-2-A.
func straightRun(cards []Card) []Card {
	var top [NumRanks]*Card
	for i := range cards {
		if top[cards[i].Rank] == nil {
			top[cards[i].Rank] = &cards[i]
		}
	}
	for high := int(Ace); high >= int(Five); high-- {
		run := make([]Card, 0, 5)
		for r := high; r > high-5; r-- {
			idx := r
			if r < 0 {
				idx = int(Ace)
			}
			if top[idx] == nil {
				break
			}
			run = append(run, *top[idx])
		}
		if len(run) == 5 {
			return run
		}
	}
	return nil
}

// kickers returns up to n strongest cards of sorted that are not in made.
func kickers(sorted, made []Card, n int) []Card {
	out := make([]Card, 0, n)
	for _, c := range sorted {
		if len(out) == n {
			break
		}
		if !slices.Contains(made, c) {
			out = append(out, c)
		}
	}
	return out
}
