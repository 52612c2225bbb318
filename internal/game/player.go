package game

import "github.com/lox/blackjackforbots/internal/deck"

// Strategy answers the three binary questions the round engine asks at each
// choice point. Implementations must be pure functions of their inputs plus
// any internal table state and randomness.
type Strategy interface {
	Splits(hand *PlayerHand, upcard deck.Card) bool
	Doubles(hand *PlayerHand, upcard deck.Card) bool
	Hits(hand *PlayerHand, upcard deck.Card) bool
}

// Player owns a bankroll and a strategy. Players carry no other state across
// rounds beyond the standing inclination to take insurance.
type Player struct {
	Name           string
	Bankroll       float64
	Strategy       Strategy
	TakesInsurance bool
}

// NewPlayer creates a player with the given stake and strategy.
func NewPlayer(name string, stake float64, strategy Strategy, takesInsurance bool) *Player {
	return &Player{
		Name:           name,
		Bankroll:       stake,
		Strategy:       strategy,
		TakesInsurance: takesInsurance,
	}
}

// Win credits the player's bankroll.
func (p *Player) Win(amount float64) {
	p.Bankroll += amount
}

// Lose debits the player's bankroll.
func (p *Player) Lose(amount float64) {
	p.Bankroll -= amount
}

// Spot is a table position bound to exactly one player. Its hands slice is
// non-empty only between deal and settlement; more than one hand appears
// only after a split. Insurance is adjudicated per spot, not per hand.
type Spot struct {
	Position int
	Player   *Player
	Hands    []*PlayerHand
}

// Seating binds a player to a number of spots at the table.
type Seating struct {
	Player *Player
	Spots  int
}
