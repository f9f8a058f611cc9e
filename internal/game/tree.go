package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/lox/dcfr-holdem/poker"
)

// GameTree drives a single hand from the deal to showdown. Seats post the
// blinds from the end of the table (players[n-2] small, players[n-1] big) and
// seat 0 opens every betting round.
type GameTree struct {
	players   []*Player
	providers []ActionProvider

	smallBlind int
	bigBlind   int
	sizing     BetSizing
	rng        *rand.Rand
	deck       *poker.Deck
	logger     *log.Logger

	node    *GameNode
	history History
	started bool
	settled bool
}

// NewGameTree seats players with their action providers. providers may be nil
// when the caller drives the hand through Apply and Deal directly.
func NewGameTree(players []*Player, providers []ActionProvider, opts ...Option) *GameTree {
	cfg := defaultTreeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.finish()

	return &GameTree{
		players:    players,
		providers:  providers,
		smallBlind: cfg.smallBlind,
		bigBlind:   cfg.bigBlind,
		sizing:     cfg.sizing,
		rng:        cfg.rng,
		deck:       cfg.deck,
		logger:     cfg.logger.WithPrefix("hand"),
	}
}

// StartGame validates stacks, shuffles, deals two cards per seat and posts
// the blinds. A blind larger than the poster's stack becomes an all-in call.
func (t *GameTree) StartGame() error {
	if t.started {
		return ErrAlreadyStarted
	}
	if len(t.players) < 2 {
		return fmt.Errorf("need at least 2 seats, have %d: %w", len(t.players), ErrInsufficientStack)
	}
	for i, p := range t.players {
		if p.Seat != i {
			return fmt.Errorf("player at index %d has seat %d: %w", i, p.Seat, ErrInvalidAction)
		}
		if p.Stack <= 0 {
			return fmt.Errorf("seat %d has stack %d: %w", p.Seat, p.Stack, ErrInsufficientStack)
		}
	}
	if t.providers != nil && len(t.providers) != len(t.players) {
		return fmt.Errorf("have %d providers for %d seats: %w", len(t.providers), len(t.players), ErrInvalidAction)
	}
	t.started = true

	if t.deck == nil {
		t.deck = poker.NewDeck()
		t.deck.Shuffle(t.rng)
	}

	for _, p := range t.players {
		p.ResetForHand()
		hole, err := t.deck.DrawN(2)
		if err != nil {
			return fmt.Errorf("deal seat %d: %w", p.Seat, err)
		}
		p.Hole = hole
	}

	n := len(t.players)
	pot := 0
	for _, blind := range []struct {
		p      *Player
		amount int
	}{
		{t.players[n-2], t.smallBlind},
		{t.players[n-1], t.bigBlind},
	} {
		a := RaiseTo(blind.amount, false)
		if blind.amount >= blind.p.Stack {
			a = CallTo(blind.p.Stack, true)
		}
		paid, err := blind.p.MakeAction(a)
		if err != nil {
			return fmt.Errorf("post blind: %w", err)
		}
		// Posting a blind is not a voluntary action; the poster still gets to act.
		blind.p.HasActed = false
		pot += paid
	}

	node := &GameNode{
		actor:      -1,
		pot:        pot,
		callAmount: t.bigBlind,
		minRaise:   t.bigBlind,
		stage:      PreFlop,
		onBoard:    t.onBoardSeats(),
	}
	if t.anyAllIn() {
		node.sidePots = CalculateSidePots(t.players)
	}
	t.node = node
	t.history.append(node, Action{Kind: Deal}, -1)

	t.logger.Debug("hand started", "seats", n, "sb", t.smallBlind, "bb", t.bigBlind, "pot", pot)
	return nil
}

// Node returns the current node.
func (t *GameTree) Node() *GameNode { return t.node }

// History returns a copy of the hand's history.
func (t *GameTree) History() History { return t.history.Clone() }

// HistoryLen is the number of recorded steps.
func (t *GameTree) HistoryLen() int { return t.history.Len() }

// HistoryAt returns the i-th step without copying the history.
func (t *GameTree) HistoryAt(i int) Step { return t.history.At(i) }

// NumSeats is the number of seated players.
func (t *GameTree) NumSeats() int { return len(t.players) }

// BigBlind is the big blind amount.
func (t *GameTree) BigBlind() int { return t.bigBlind }

// SmallBlind is the small blind amount.
func (t *GameTree) SmallBlind() int { return t.smallBlind }

// Hole returns a copy of a seat's hole cards.
func (t *GameTree) Hole(seat int) []poker.Card {
	return slices.Clone(t.players[seat].Hole)
}

// Player returns a copy of a seat's state.
func (t *GameTree) Player(seat int) Player {
	return *t.players[seat].Clone()
}

// Terminal reports whether the hand is at showdown.
func (t *GameTree) Terminal() bool {
	return t.node != nil && t.node.Terminal()
}

// NeedsDeal reports whether the betting round is closed and the next step
// is a deal (or the transition to showdown).
func (t *GameTree) NeedsDeal() bool {
	return t.node != nil && !t.node.Terminal() && t.bettingComplete()
}

// Actor returns the seat that must act next, or -1 when no decision is pending.
func (t *GameTree) Actor() int {
	if t.node == nil || t.node.Terminal() || t.bettingComplete() {
		return -1
	}
	return t.nextActor()
}

// LegalActions lists the actions open to the next actor under sizing.
func (t *GameTree) LegalActions(sizing BetSizing) []Action {
	seat := t.Actor()
	if seat < 0 {
		return nil
	}
	return legalActions(t.node, t.players[seat], sizing)
}

// View builds the provider view for seat.
func (t *GameTree) View(seat int) View {
	p := t.players[seat]
	return View{
		Seat:       seat,
		Hole:       slices.Clone(p.Hole),
		Stack:      p.Stack,
		LastAction: p.LastAction,
		TotalBet:   p.TotalBet,
		Node:       t.node,
		History:    t.history.Clone(),
		Legal:      legalActions(t.node, p, t.sizing),
	}
}

// NextNode takes one step: ask the next actor for a decision, or deal when
// the round is closed. It returns false only when the hand is already over.
func (t *GameTree) NextNode(ctx context.Context) (bool, error) {
	if !t.started {
		return false, ErrNotStarted
	}
	if t.node.Terminal() {
		return false, nil
	}
	if t.bettingComplete() {
		return true, t.Deal()
	}

	seat := t.nextActor()
	if seat < 0 {
		return false, fmt.Errorf("no seat can act at %s: %w", t.node.stage, ErrBettingOpen)
	}
	if t.providers == nil || t.providers[seat] == nil {
		return false, fmt.Errorf("seat %d has no action provider: %w", seat, ErrInvalidAction)
	}
	a, err := t.providers[seat].Decide(ctx, t.View(seat))
	if err != nil {
		return false, fmt.Errorf("seat %d decide: %w", seat, err)
	}
	return true, t.Apply(a)
}

// Apply validates a for the next actor and applies it. A fold that leaves a
// single seat on board ends the hand.
func (t *GameTree) Apply(a Action) error {
	if !t.started {
		return ErrNotStarted
	}
	seat := t.Actor()
	if seat < 0 {
		return fmt.Errorf("apply %s: no seat to act: %w", a, ErrInvalidAction)
	}
	p := t.players[seat]
	cur := t.node

	if err := t.validate(cur, p, a); err != nil {
		return fmt.Errorf("seat %d %s at %s: %w", seat, a, cur.stage, err)
	}
	paid, err := p.MakeAction(a)
	if err != nil {
		return err
	}

	next := &GameNode{
		actor:      seat,
		pot:        cur.pot + paid,
		callAmount: cur.callAmount,
		minRaise:   cur.minRaise,
		raises:     cur.raises,
		stage:      cur.stage,
		community:  cur.community,
		onBoard:    t.onBoardSeats(),
		sidePots:   cur.sidePots,
	}
	if a.Kind == Raise && p.LastAction > cur.callAmount {
		next.minRaise = max(cur.minRaise, p.LastAction-cur.callAmount)
		next.callAmount = p.LastAction
		next.raises++
	}
	if p.AllIn {
		next.sidePots = CalculateSidePots(t.players)
	}

	if len(next.onBoard) == 1 {
		next.actor = -1
		next.stage = Showdown
		next.sidePots = CalculateSidePots(t.players)
		t.logger.Debug("hand won uncontested", "seat", next.onBoard[0], "pot", next.pot)
	}

	t.node = next
	t.history.append(next, a, seat)
	return nil
}

func (t *GameTree) validate(n *GameNode, p *Player, a Action) error {
	maxTotal := p.LastAction + p.Stack
	switch a.Kind {
	case Fold:
		return nil
	case Check:
		if p.LastAction < n.callAmount {
			return ErrInvalidBetAmount
		}
	case Call:
		short := a.AllIn && a.Amount == maxTotal && a.Amount < n.callAmount
		if a.Amount != n.callAmount && !short {
			return ErrInvalidBetAmount
		}
	case Raise:
		if a.Amount <= n.callAmount {
			return ErrInvalidBetAmount
		}
		if a.Amount-n.callAmount < n.minRaise && !(a.AllIn && a.Amount >= maxTotal) {
			return ErrInvalidBetAmount
		}
	default:
		return ErrInvalidAction
	}
	return nil
}

// Deal closes the current betting round: round state is reset and the next
// street is dealt (three cards for the flop, one for turn and river). After
// the river the hand moves to showdown.
func (t *GameTree) Deal() error {
	if !t.started {
		return ErrNotStarted
	}
	cur := t.node
	if cur.Terminal() {
		return fmt.Errorf("deal: %w", ErrInvalidAction)
	}
	if !t.bettingComplete() {
		return fmt.Errorf("deal at %s: %w", cur.stage, ErrBettingOpen)
	}

	for _, p := range t.players {
		if p.OnBoard {
			p.ResetForRound()
		}
	}

	next := &GameNode{
		actor:     -1,
		pot:       cur.pot,
		minRaise:  t.bigBlind,
		stage:     cur.stage + 1,
		community: cur.community,
		onBoard:   slices.Clone(cur.onBoard),
		sidePots:  cur.sidePots,
	}

	draw := 0
	switch cur.stage {
	case PreFlop:
		draw = 3
	case Flop, Turn:
		draw = 1
	}
	if draw > 0 {
		cards, err := t.deck.DrawN(draw)
		if err != nil {
			return fmt.Errorf("deal %s: %w", next.stage, err)
		}
		next.community = append(slices.Clone(cur.community), cards...)
	}
	if next.stage == Showdown {
		next.sidePots = CalculateSidePots(t.players)
	}

	t.node = next
	t.history.append(next, Action{Kind: Deal}, -1)
	t.logger.Debug("dealt", "stage", next.stage, "board", poker.FormatCards(next.community), "pot", next.pot)
	return nil
}

// Settle computes what each seat wins from the pots without moving chips.
// Every pot goes to the best hand(s) among its eligible on-board seats; split
// pots divide evenly with the odd chips to the lowest winning seat.
func (t *GameTree) Settle() (map[int]int, error) {
	if !t.Terminal() {
		return nil, ErrNotTerminal
	}
	n := t.node
	winnings := make(map[int]int, len(n.onBoard))
	hands := make(map[int]poker.Hand, len(n.onBoard))

	for _, pot := range n.sidePots {
		eligible := make([]int, 0, len(pot.Eligible))
		for _, seat := range pot.Eligible {
			if n.IsOnBoard(seat) {
				eligible = append(eligible, seat)
			}
		}
		switch len(eligible) {
		case 0:
			continue
		case 1:
			winnings[eligible[0]] += pot.Amount
			continue
		}

		var winners []int
		var best poker.Hand
		for _, seat := range eligible {
			h, ok := hands[seat]
			if !ok {
				var err error
				h, err = poker.Evaluate(t.players[seat].Hole, n.community)
				if err != nil {
					return nil, fmt.Errorf("evaluate seat %d: %w", seat, err)
				}
				hands[seat] = h
			}
			switch {
			case winners == nil:
				winners, best = []int{seat}, h
			default:
				switch poker.CompareHands(h, best) {
				case 1:
					winners, best = []int{seat}, h
				case 0:
					winners = append(winners, seat)
				}
			}
		}

		share := pot.Amount / len(winners)
		for _, seat := range winners {
			winnings[seat] += share
		}
		winnings[slices.Min(winners)] += pot.Amount % len(winners)
	}
	return winnings, nil
}

// Payoff is a seat's net chip change for the hand once it has reached showdown.
func (t *GameTree) Payoff(seat int) (int, error) {
	w, err := t.Settle()
	if err != nil {
		return 0, err
	}
	return w[seat] - t.players[seat].TotalBet, nil
}

// Checkout settles the hand and credits the winnings to stacks. It can only
// run once per hand.
func (t *GameTree) Checkout() (map[int]int, error) {
	if t.settled {
		return nil, ErrAlreadySettled
	}
	w, err := t.Settle()
	if err != nil {
		return nil, err
	}
	for seat, amount := range w {
		t.players[seat].Stack += amount
	}
	t.settled = true
	if onBoard := t.node.onBoard; len(onBoard) > 1 && t.logger.GetLevel() <= log.DebugLevel {
		for _, seat := range onBoard {
			if h, err := poker.Evaluate(t.players[seat].Hole, t.node.community); err == nil {
				t.logger.Debug("showdown", "seat", seat, "hand", h.Describe())
			}
		}
	}
	t.logger.Debug("hand settled", "winnings", w)
	return w, nil
}

// Run plays the hand to completion with the seat providers and settles it.
func (t *GameTree) Run(ctx context.Context) (map[int]int, error) {
	if !t.started {
		if err := t.StartGame(); err != nil {
			return nil, err
		}
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		more, err := t.NextNode(ctx)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	return t.Checkout()
}

// Clone returns an independent copy of the hand in progress. Nodes are shared
// since they are immutable; players, deck and history are copied.
func (t *GameTree) Clone() *GameTree {
	c := *t
	c.players = make([]*Player, len(t.players))
	for i, p := range t.players {
		c.players[i] = p.Clone()
	}
	if t.deck != nil {
		c.deck = t.deck.Clone()
	}
	c.history = t.history.Clone()
	return &c
}

// bettingComplete reports whether no on-board seat still owes a decision.
// All-in seats never act. A lone seat that can still act is done once it
// has matched the call target, since nobody is left to bet against.
func (t *GameTree) bettingComplete() bool {
	active, pending := 0, 0
	var lone *Player
	for _, p := range t.players {
		if !p.CanAct() {
			continue
		}
		active++
		lone = p
		if !p.HasActed || p.LastAction < t.node.callAmount {
			pending++
		}
	}
	if pending == 0 {
		return true
	}
	return active == 1 && lone.LastAction >= t.node.callAmount
}

// nextActor finds the first seat after the node's actor, in rotation, that
// still owes a decision.
func (t *GameTree) nextActor() int {
	n := len(t.players)
	start := t.node.actor + 1
	for i := range n {
		p := t.players[(start+i)%n]
		if p.CanAct() && (!p.HasActed || p.LastAction < t.node.callAmount) {
			return p.Seat
		}
	}
	return -1
}

func (t *GameTree) onBoardSeats() []int {
	seats := make([]int, 0, len(t.players))
	for _, p := range t.players {
		if p.OnBoard {
			seats = append(seats, p.Seat)
		}
	}
	slices.Sort(seats)
	return seats
}

func (t *GameTree) anyAllIn() bool {
	for _, p := range t.players {
		if p.AllIn {
			return true
		}
	}
	return false
}
