// Package game implements the no-limit hold'em game tree the solver walks.
//
// The main type is GameTree, which owns the seats, the deck and the
// history of a single deal. Each betting decision produces a new GameNode;
// chance events (hole cards, flop, turn, river) are applied with Deal.
//
// # Basic Usage
//
// Run a deal to completion with one ActionProvider per seat:
//
//	players := []*game.Player{game.NewPlayer(0, 1000), game.NewPlayer(1, 1000)}
//	providers := []game.ActionProvider{game.CallingStation{}, game.NewRandom(rng)}
//	tree := game.NewGameTree(players, providers, game.WithBlinds(5, 10))
//	payouts, err := tree.Run(ctx)
//
// # Deterministic Testing
//
// WithRNG seeds the shuffle and WithDeck supplies a pre-ordered deck, so a
// test can script both the cards and the actions:
//
//	tree := game.NewGameTree(players, []game.ActionProvider{
//	    game.NewScripted(game.CallTo(10, false)), game.NewScripted(game.CheckAction()),
//	}, game.WithDeck(deck))
//
// # Traversal
//
// Solvers drive the tree by hand instead of calling Run: Clone the tree at
// a decision, Apply one of LegalActions, Deal when NeedsDeal reports true,
// and read Payoff once Terminal. Clones share nothing mutable.
package game
