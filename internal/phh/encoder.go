package phh

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/lox/dcfr-holdem/internal/game"
)

// Encode writes the hand history to the provided writer in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeAll writes hands as a PHHS collection, one table per hand keyed by
// its 1-based position.
func EncodeAll(w io.Writer, hands []*HandHistory) error {
	for i, hand := range hands {
		if hand == nil {
			return fmt.Errorf("phh: hand history %d is nil", i+1)
		}
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "[%d]\n", i+1); err != nil {
			return err
		}
		if err := Encode(w, hand); err != nil {
			return fmt.Errorf("phh: hand %d: %w", i+1, err)
		}
	}
	return nil
}

// EncodeToBytes encodes and returns the result as bytes.
func EncodeToBytes(hand *HandHistory) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, hand); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatAction converts a betting action to its PHH action string. Deals are
// not player actions and report false.
func FormatAction(seat int, a game.Action) (string, bool) {
	player := "p" + strconv.Itoa(seat+1)
	switch a.Kind {
	case game.Fold:
		return player + " f", true
	case game.Check, game.Call:
		return player + " cc", true
	case game.Raise:
		if a.Amount <= 0 {
			return "", false
		}
		return fmt.Sprintf("%s cbr %d", player, a.Amount), true
	default:
		return "", false
	}
}
