package poker

import (
	"errors"
	"testing"

	"github.com/lox/dcfr-holdem/internal/randutil"
)

func TestParseCard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Card
		wantErr bool
	}{
		{input: "As", want: NewCard(Ace, Spades)},
		{input: "2h", want: NewCard(Two, Hearts)},
		{input: "Td", want: NewCard(Ten, Diamonds)},
		{input: "kc", want: NewCard(King, Clubs)},
		{input: "Xs", wantErr: true},
		{input: "Az", wantErr: true},
		{input: "A", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseCard(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseCard(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseCard(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestCardString(t *testing.T) {
	t.Parallel()

	if s := NewCard(Ace, Spades).String(); s != "As" {
		t.Errorf("expected As, got %s", s)
	}
	if s := NewCard(Two, Clubs).String(); s != "2c" {
		t.Errorf("expected 2c, got %s", s)
	}
	if s := FormatCards(MustParseCards("Kh Qd")); s != "Kh Qd" {
		t.Errorf("expected 'Kh Qd', got %q", s)
	}
}

func TestNewDeckHas52DistinctCards(t *testing.T) {
	t.Parallel()

	d := NewDeck()
	if d.Remaining() != 52 {
		t.Fatalf("expected 52 cards, got %d", d.Remaining())
	}
	seen := make(map[Card]bool)
	for _, c := range d.Cards() {
		if seen[c] {
			t.Fatalf("duplicate card %s", c)
		}
		seen[c] = true
	}
}

func TestShuffleIsDeterministicPerSeed(t *testing.T) {
	t.Parallel()

	a := NewDeck()
	a.Shuffle(randutil.New(42))
	b := NewDeck()
	b.Shuffle(randutil.New(42))
	c := NewDeck()
	c.Shuffle(randutil.New(43))

	ca, cb, cc := a.Cards(), b.Cards(), c.Cards()
	same := true
	for i := range ca {
		if ca[i] != cb[i] {
			t.Fatalf("same seed produced different order at %d", i)
		}
		if ca[i] != cc[i] {
			same = false
		}
	}
	if same {
		t.Fatalf("different seeds produced identical order")
	}
}

func TestDrawPopsFromEnd(t *testing.T) {
	t.Parallel()

	d := NewDeck()
	cards := d.Cards()
	got, err := d.Draw()
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if got != cards[len(cards)-1] {
		t.Fatalf("expected last card %s, got %s", cards[len(cards)-1], got)
	}
	if d.Remaining() != 51 {
		t.Fatalf("expected 51 remaining, got %d", d.Remaining())
	}
}

func TestDrawEmptyDeck(t *testing.T) {
	t.Parallel()

	d := NewDeck()
	if _, err := d.DrawN(52); err != nil {
		t.Fatalf("draw all: %v", err)
	}
	if _, err := d.Draw(); !errors.Is(err, ErrEmptyDeck) {
		t.Fatalf("expected ErrEmptyDeck, got %v", err)
	}

	d = NewDeck()
	if _, err := d.DrawN(53); !errors.Is(err, ErrEmptyDeck) {
		t.Fatalf("expected ErrEmptyDeck, got %v", err)
	}
	if d.Remaining() != 52 {
		t.Fatalf("failed DrawN must not consume cards, %d remaining", d.Remaining())
	}
}

func TestStackedDeckDrawOrder(t *testing.T) {
	t.Parallel()

	top := MustParseCards("As Kd 7h")
	d := StackedDeck(top)
	if d.Remaining() != 52 {
		t.Fatalf("expected 52 cards, got %d", d.Remaining())
	}
	got, err := d.DrawN(3)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	for i := range top {
		if got[i] != top[i] {
			t.Fatalf("draw %d: expected %s, got %s", i, top[i], got[i])
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	d := NewDeck()
	clone := d.Clone()
	if _, err := clone.DrawN(5); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if d.Remaining() != 52 || clone.Remaining() != 47 {
		t.Fatalf("clone shares state: %d / %d", d.Remaining(), clone.Remaining())
	}
}

func TestCategorizeHole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cards string
		want  HoleCategory
	}{
		{"As Ah", HolePremium},
		{"Ks Ad", HolePremium},
		{"Th Tc", HoleStrong},
		{"Qs Ac", HoleStrong},
		{"8d 8c", HoleMedium},
		{"Ks Qs", HoleMedium},
		{"3d 3c", HoleWeak},
		{"7h 6h", HoleWeak},
		{"7h 2c", HoleTrash},
	}
	for _, tt := range tests {
		c := MustParseCards(tt.cards)
		if got := CategorizeHole(c[0], c[1]); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.cards, tt.want, got)
		}
	}
}
