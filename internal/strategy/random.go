// Package strategy provides the decision policies a player can be
// constructed with: fixed-table basic strategy, uniform-random play, and the
// epsilon-greedy learned policy backed by the qlearn tables.
package strategy

import (
	"math/rand"

	"github.com/lox/blackjackforbots/internal/deck"
	"github.com/lox/blackjackforbots/internal/game"
)

// Random answers every question with an independent fair coin flip. Useful
// as a baseline and for driving exploration-heavy simulations.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a Random strategy drawing from rng.
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) Splits(hand *game.PlayerHand, upcard deck.Card) bool {
	return r.rng.Intn(2) == 0
}

func (r *Random) Doubles(hand *game.PlayerHand, upcard deck.Card) bool {
	return r.rng.Intn(2) == 0
}

func (r *Random) Hits(hand *game.PlayerHand, upcard deck.Card) bool {
	return r.rng.Intn(2) == 0
}
