package phh

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lox/dcfr-holdem/internal/game"
	"github.com/lox/dcfr-holdem/poker"
)

// Meta carries what a hand history needs beyond the tree itself.
type Meta struct {
	HandID         string
	Table          string
	Players        []string
	StartingStacks []int
	Time           time.Time
}

// FromTree builds the PHH record of a hand played on tree. Finishing stacks
// are read from the seats, so call it after the hand has been checked out.
func FromTree(tree *game.GameTree, meta Meta) (*HandHistory, error) {
	n := tree.NumSeats()
	if len(meta.StartingStacks) != n {
		return nil, fmt.Errorf("phh: have %d starting stacks for %d seats", len(meta.StartingStacks), n)
	}
	if meta.Players != nil && len(meta.Players) != n {
		return nil, fmt.Errorf("phh: have %d player names for %d seats", len(meta.Players), n)
	}
	if tree.HistoryLen() == 0 {
		return nil, errors.New("phh: hand has not started")
	}

	hand := &HandHistory{
		Variant:           "NT",
		Table:             meta.Table,
		SeatCount:         n,
		Seats:             make([]int, n),
		Antes:             make([]int, n),
		BlindsOrStraddles: make([]int, n),
		MinBet:            tree.BigBlind(),
		StartingStacks:    append([]int(nil), meta.StartingStacks...),
		Players:           meta.Players,
		HandID:            meta.HandID,
	}
	for i := range n {
		hand.Seats[i] = i + 1
	}
	hand.BlindsOrStraddles[n-2] = tree.SmallBlind()
	hand.BlindsOrStraddles[n-1] = tree.BigBlind()

	for seat := range n {
		hand.Actions = append(hand.Actions, fmt.Sprintf("d dh p%d %s", seat+1, joinCards(tree.Hole(seat))))
	}

	var board []poker.Card
	for i := 1; i < tree.HistoryLen(); i++ {
		step := tree.HistoryAt(i)
		if step.Seat >= 0 {
			if s, ok := FormatAction(step.Seat, step.Action); ok {
				hand.Actions = append(hand.Actions, s)
			}
			continue
		}
		community := step.Node.Community()
		if len(community) > len(board) {
			hand.Actions = append(hand.Actions, "d db "+joinCards(community[len(board):]))
			board = community
		}
	}

	if tree.Terminal() {
		last := tree.HistoryAt(tree.HistoryLen() - 1).Node
		if onBoard := last.OnBoard(); len(onBoard) > 1 {
			for _, seat := range onBoard {
				hand.Actions = append(hand.Actions, fmt.Sprintf("p%d sm %s", seat+1, joinCards(tree.Hole(seat))))
			}
		}
		hand.FinishingStacks = make([]int, n)
		for seat := range n {
			hand.FinishingStacks[seat] = tree.Player(seat).Stack
		}
	}

	if !meta.Time.IsZero() {
		ts := meta.Time.UTC()
		hand.Time = ts.Format(time.TimeOnly)
		hand.TimeZone = "UTC"
		hand.Day, hand.Month, hand.Year = ts.Day(), int(ts.Month()), ts.Year()
	}
	return hand, nil
}

func joinCards(cards []poker.Card) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(c.String())
	}
	return b.String()
}
