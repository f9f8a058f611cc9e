package solver

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lox/dcfr-holdem/internal/game"
	"github.com/lox/dcfr-holdem/poker"
)

// Street enumerates the betting round within a Texas Hold'em hand.
type Street uint8

const (
	StreetPreflop Street = iota
	StreetFlop
	StreetTurn
	StreetRiver
)

func (s Street) String() string {
	switch s {
	case StreetPreflop:
		return "preflop"
	case StreetFlop:
		return "flop"
	case StreetTurn:
		return "turn"
	case StreetRiver:
		return "river"
	default:
		return "unknown"
	}
}

// InfoSetKey identifies the situation a player experiences under the bucket
// abstraction. History is the public action sequence, see EncodeHistory.
type InfoSetKey struct {
	Street      Street
	Player      int
	HoleBucket  int
	BoardBucket int
	History     string
}

func (k InfoSetKey) String() string {
	return fmt.Sprintf("%d:%d:%d:%d:%s", k.Street, k.Player, k.HoleBucket, k.BoardBucket, k.History)
}

// ParseInfoSetKey is the inverse of InfoSetKey.String.
func ParseInfoSetKey(s string) (InfoSetKey, error) {
	parts := strings.SplitN(s, ":", 5)
	if len(parts) != 5 {
		return InfoSetKey{}, fmt.Errorf("malformed information set key %q", s)
	}
	var nums [4]int
	for i := range nums {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return InfoSetKey{}, fmt.Errorf("malformed information set key %q", s)
		}
		nums[i] = n
	}
	if nums[0] > int(StreetRiver) {
		return InfoSetKey{}, fmt.Errorf("information set key %q: unknown street %d", s, nums[0])
	}
	return InfoSetKey{
		Street:      Street(nums[0]),
		Player:      nums[1],
		HoleBucket:  nums[2],
		BoardBucket: nums[3],
		History:     parts[4],
	}, nil
}

// Abstraction maps the view of the seat to act onto an information set and
// the action row trained for it. The solver treats keys as opaque.
type Abstraction interface {
	InfoSet(v game.View) string
	Actions(v game.View) []game.Action
}

// BucketAbstraction buckets private cards by a rank score before the flop and
// by made-hand strength after it, and keeps the exact public history.
type BucketAbstraction struct {
	config AbstractionConfig
	sizing game.BetSizing
}

// NewBucketAbstraction returns an abstraction backed by cfg.
func NewBucketAbstraction(cfg AbstractionConfig) (*BucketAbstraction, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &BucketAbstraction{config: cfg, sizing: cfg.Sizing()}, nil
}

// Config returns the abstraction's configuration.
func (m *BucketAbstraction) Config() AbstractionConfig { return m.config }

// InfoSet builds the key for the seat behind v.
func (m *BucketAbstraction) InfoSet(v game.View) string {
	return m.Key(v).String()
}

// Key builds the structured key for the seat behind v.
func (m *BucketAbstraction) Key(v game.View) InfoSetKey {
	board := v.Node.Community()
	key := InfoSetKey{
		Street:  streetOf(v.Node.Stage()),
		Player:  v.Seat,
		History: EncodeHistory(v.History),
	}
	if len(board) < 3 {
		key.HoleBucket = m.HoleBucket(v.Hole)
		return key
	}
	key.HoleBucket = m.StrengthBucket(v.Hole, board)
	key.BoardBucket = m.BoardBucket(board)
	return key
}

// Actions returns the legal actions under the configured bet sizing.
func (m *BucketAbstraction) Actions(v game.View) []game.Action {
	return game.LegalActionsFor(v, m.sizing)
}

// HoleBucket deterministically maps a two-card hand into a preflop bucket.
func (m *BucketAbstraction) HoleBucket(hole []poker.Card) int {
	if len(hole) != 2 {
		return 0
	}
	r0, r1 := int(hole[0].Rank), int(hole[1].Rank)
	if r0 < r1 {
		r0, r1 = r1, r0
	}

	// Rank strength, pair bonus and suitedness keep the 169 classes ordered
	// within [0, 312).
	score := float64(r0*13 + r1)
	if r0 == r1 {
		score += 200
	}
	if hole[0].Suit == hole[1].Suit {
		score += 13
	}
	return clampBucket(int(score/(312.0/float64(m.config.PreflopBucketCount))), m.config.PreflopBucketCount)
}

// StrengthBucket maps the made hand of hole plus board into a postflop bucket.
func (m *BucketAbstraction) StrengthBucket(hole, board []poker.Card) int {
	h, err := poker.Evaluate(hole, board)
	if err != nil {
		return 0
	}
	top := 0.0
	if len(h.Cards) > 0 {
		top = float64(h.Cards[0].Rank) / float64(poker.NumRanks)
	}
	score := float64(h.Category) + top
	return clampBucket(int(score*float64(m.config.PostflopBucketCount)/10.0), m.config.PostflopBucketCount)
}

// BoardBucket maps a board texture (3-5 cards) into a coarse bucket.
func (m *BucketAbstraction) BoardBucket(board []poker.Card) int {
	if len(board) == 0 {
		return 0
	}
	var ranks [poker.NumRanks]int
	var suits [poker.NumSuits]int
	high := 0
	for _, c := range board {
		ranks[c.Rank]++
		suits[c.Suit]++
		if c.Rank >= poker.Ten {
			high++
		}
	}
	paired := 0
	for _, n := range ranks {
		if n >= 2 {
			paired++
		}
	}
	flush := 0
	for _, n := range suits {
		flush = max(flush, n)
	}

	score := float64(paired)*2 + float64(flush-1) + float64(high)*0.5
	return clampBucket(int(math.Round(score/(8.0/float64(m.config.PostflopBucketCount)))), m.config.PostflopBucketCount)
}

// EncodeHistory renders the public actions after the initial deal: "/" for
// each street dealt, then f, k, c or r<total> per decision.
func EncodeHistory(h game.History) string {
	var b strings.Builder
	for i := 1; i < h.Len(); i++ {
		b.WriteString(ActionLabel(h.At(i).Action))
	}
	return b.String()
}

// ActionLabel is the compact label of a under which blueprints store it.
func ActionLabel(a game.Action) string {
	switch a.Kind {
	case game.Fold:
		return "f"
	case game.Check:
		return "k"
	case game.Call:
		return "c"
	case game.Raise:
		return "r" + strconv.Itoa(a.Amount)
	default:
		return "/"
	}
}

func streetOf(s game.Stage) Street {
	switch s {
	case game.PreFlop:
		return StreetPreflop
	case game.Flop:
		return StreetFlop
	case game.Turn:
		return StreetTurn
	default:
		return StreetRiver
	}
}

func clampBucket(b, n int) int {
	if b >= n {
		return n - 1
	}
	if b < 0 {
		return 0
	}
	return b
}
