package strategy

import (
	"math/rand"

	"github.com/lox/blackjackforbots/internal/deck"
	"github.com/lox/blackjackforbots/internal/game"
	"github.com/lox/blackjackforbots/internal/qlearn"
)

// DefaultEpsilon is the default exploration rate for learned play.
const DefaultEpsilon = 0.2

// Learned plays epsilon-greedy against the learner's decision tables: with
// probability epsilon it explores with a fair coin flip, otherwise it
// exploits the current best action for the situation. Unseen situations get
// a pseudo-random initial best action that stays cached.
type Learned struct {
	learner *qlearn.Learner
	rng     *rand.Rand
	epsilon float64
}

// NewLearned creates a learned strategy reading from (and seeding defaults
// into) the given learner's tables.
func NewLearned(learner *qlearn.Learner, rng *rand.Rand, epsilon float64) *Learned {
	return &Learned{learner: learner, rng: rng, epsilon: epsilon}
}

func (l *Learned) Splits(hand *game.PlayerHand, upcard deck.Card) bool {
	return l.decide(qlearn.Split, hand, upcard)
}

func (l *Learned) Doubles(hand *game.PlayerHand, upcard deck.Card) bool {
	return l.decide(qlearn.Double, hand, upcard)
}

func (l *Learned) Hits(hand *game.PlayerHand, upcard deck.Card) bool {
	return l.decide(qlearn.HitStand, hand, upcard)
}

func (l *Learned) decide(cat qlearn.Category, hand *game.PlayerHand, upcard deck.Card) bool {
	if l.rng.Float64() < l.epsilon {
		return l.rng.Intn(2) == 0
	}
	return l.learner.Best(cat, qlearn.Key(hand.Cards, upcard))
}
