package poker

import (
	"errors"
	"math/rand/v2"
)

// ErrEmptyDeck is returned when more cards are requested than remain.
var ErrEmptyDeck = errors.New("deck is empty")

// Deck is an ordered stack of distinct cards. Draws remove from the end.
type Deck struct {
	cards []Card
}

// NewDeck returns all 52 cards in suit-major order.
func NewDeck() *Deck {
	d := &Deck{cards: make([]Card, 0, NumRanks*NumSuits)}
	for s := range Suit(NumSuits) {
		for r := range Rank(NumRanks) {
			d.cards = append(d.cards, NewCard(r, s))
		}
	}
	return d
}

// Shuffle randomizes the deck with Fisher-Yates using the supplied RNG.
func (d *Deck) Shuffle(rng *rand.Rand) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the last card of the deck.
func (d *Deck) Draw() (Card, error) {
	n := len(d.cards)
	if n == 0 {
		return Card{}, ErrEmptyDeck
	}
	c := d.cards[n-1]
	d.cards = d.cards[:n-1]
	return c, nil
}

// DrawN draws n cards. Nothing is consumed when fewer than n remain.
func (d *Deck) DrawN(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, ErrEmptyDeck
	}
	out := make([]Card, 0, n)
	for range n {
		c, _ := d.Draw()
		out = append(out, c)
	}
	return out, nil
}

// Remaining returns the number of cards left.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards from bottom to top.
func (d *Deck) Cards() []Card {
	return append([]Card(nil), d.cards...)
}

// Clone returns an independent copy of the deck.
func (d *Deck) Clone() *Deck {
	return &Deck{cards: d.Cards()}
}

// StackedDeck builds a deck whose next draws return the given cards in order.
// Remaining cards follow in suit-major order. It is used to script hands.
func StackedDeck(top []Card) *Deck {
	used := make(map[Card]bool, len(top))
	for _, c := range top {
		used[c] = true
	}
	rest := make([]Card, 0, NumRanks*NumSuits)
	for _, c := range NewDeck().cards {
		if !used[c] {
			rest = append(rest, c)
		}
	}
	cards := make([]Card, 0, len(rest)+len(top))
	cards = append(cards, rest...)
	for i := len(top) - 1; i >= 0; i-- {
		cards = append(cards, top[i])
	}
	return &Deck{cards: cards}
}
