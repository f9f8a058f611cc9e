package game

import (
	"errors"

	"github.com/lox/dcfr-holdem/poker"
)

// Hand-level failures. None are recoverable mid-hand; callers abort the hand
// (or the solver iteration) and surface the wrapped diagnostic.
var (
	ErrInsufficientStack = errors.New("insufficient stack")
	ErrAlreadyStarted    = errors.New("game already started")
	ErrNotStarted        = errors.New("game not started")
	ErrNotOnBoard        = errors.New("player is not on board")
	ErrInvalidBetAmount  = errors.New("invalid bet amount")
	ErrInvalidAction     = errors.New("invalid action")
	ErrAllInMismatch     = errors.New("capped bet without all-in flag")
	ErrNotTerminal       = errors.New("hand is not at showdown")
	ErrAlreadySettled    = errors.New("hand already settled")
	ErrBettingOpen       = errors.New("betting round still open")
	ErrEmptyDeck         = poker.ErrEmptyDeck
)
