package qlearn

import (
	"strings"

	"github.com/lox/blackjackforbots/internal/deck"
)

// Category identifies which decision table an observation belongs to.
type Category int

const (
	Insurance Category = iota
	Split
	Double
	HitStand

	numCategories
)

// String returns the string representation of a category
func (c Category) String() string {
	switch c {
	case Insurance:
		return "insurance"
	case Split:
		return "split"
	case Double:
		return "double"
	case HitStand:
		return "hit_stand"
	default:
		return "unknown"
	}
}

// Key returns the canonical situation key for a player hand against a dealer
// upcard, e.g. "A_T_6" for A-T against a six. Suits are irrelevant to every
// blackjack decision, so only rank characters participate.
func Key(cards []deck.Card, upcard deck.Card) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(c.Rank.String())
		b.WriteByte('_')
	}
	b.WriteString(upcard.Rank.String())
	return b.String()
}

// Decision records a single binary choice at the moment it was made. HandSize
// is the number of cards held at decision time; the gap to the hand's final
// size is the discount horizon.
type Decision struct {
	Key      string
	Choice   bool
	HandSize int
}

// Outcome is a decision annotated with its realized, round-end reward.
type Outcome struct {
	Decision
	Reward        float64
	DiscountSteps int
}
