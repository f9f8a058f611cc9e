package game

import (
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/dcfr-holdem/internal/randutil"
	"github.com/lox/dcfr-holdem/poker"
)

// Option configures a GameTree during creation.
type Option func(*treeConfig)

type treeConfig struct {
	smallBlind int
	bigBlind   int
	rng        *rand.Rand
	deck       *poker.Deck
	sizing     BetSizing
	logger     *log.Logger
}

func defaultTreeConfig() treeConfig {
	return treeConfig{
		smallBlind: 50,
		bigBlind:   100,
		sizing:     DefaultBetSizing(),
	}
}

// WithBlinds sets the forced small and big blind amounts.
func WithBlinds(small, big int) Option {
	return func(c *treeConfig) {
		c.smallBlind = small
		c.bigBlind = big
	}
}

// WithRNG sets the source used to shuffle the deck.
func WithRNG(rng *rand.Rand) Option {
	return func(c *treeConfig) {
		c.rng = rng
	}
}

// WithDeck uses a prepared deck as-is. It is not shuffled, which lets tests
// script the deal with poker.StackedDeck.
func WithDeck(d *poker.Deck) Option {
	return func(c *treeConfig) {
		c.deck = d
	}
}

// WithBetSizing sets the raise sizes offered to action providers.
func WithBetSizing(s BetSizing) Option {
	return func(c *treeConfig) {
		c.sizing = s
	}
}

// WithLogger attaches a logger; hands log at debug level.
func WithLogger(l *log.Logger) Option {
	return func(c *treeConfig) {
		c.logger = l
	}
}

func (c *treeConfig) finish() {
	if c.rng == nil {
		c.rng = randutil.New(time.Now().UnixNano())
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
}
