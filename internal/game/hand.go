package game

import (
	"strings"

	"github.com/lox/blackjackforbots/internal/deck"
	"github.com/lox/blackjackforbots/internal/qlearn"
)

// Hand is an ordered sequence of cards with blackjack valuation.
type Hand struct {
	Cards []deck.Card
}

// String returns the hand's cards concatenated, e.g. "A♠T♦".
func (h *Hand) String() string {
	var b strings.Builder
	for _, c := range h.Cards {
		b.WriteString(c.String())
	}
	return b.String()
}

// lowSum is the hand total with every Ace counted as 1.
func (h *Hand) lowSum() int {
	sum := 0
	for _, c := range h.Cards {
		sum += c.Value()
	}
	return sum
}

// hasAce reports whether the hand contains at least one Ace.
func (h *Hand) hasAce() bool {
	for _, c := range h.Cards {
		if c.IsAce() {
			return true
		}
	}
	return false
}

// Total returns the hand's best total: the all-Aces-low sum, with exactly one
// Ace promoted to 11 when that keeps the total at 21 or under. A second
// promotion can never help (two Aces at 11 is already 22), so at most one Ace
// is ever counted high.
func (h *Hand) Total() int {
	sum := h.lowSum()
	if sum <= 11 && h.hasAce() {
		return sum + 10
	}
	return sum
}

// IsSoft reports whether an Ace is currently playable as 11.
func (h *Hand) IsSoft() bool {
	return h.hasAce() && h.lowSum() <= 11
}

// IsBust reports whether the hand exceeds 21 even with every Ace counted low.
func (h *Hand) IsBust() bool {
	return h.lowSum() > 21
}

// IsBlackjack reports whether the hand is a natural: exactly two cards, an
// Ace and a ten-value card in either order. Only meaningful for the original
// two-card hand; the engine never re-checks it after a hit or split.
func (h *Hand) IsBlackjack() bool {
	if len(h.Cards) != 2 {
		return false
	}
	return (h.Cards[0].IsAce() && h.Cards[1].IsPaint()) ||
		(h.Cards[0].IsPaint() && h.Cards[1].IsAce())
}

// HoldsRank reports whether any card in the hand has the given rank.
func (h *Hand) HoldsRank(r deck.Rank) bool {
	for _, c := range h.Cards {
		if c.Rank == r {
			return true
		}
	}
	return false
}

// IsPair reports whether the hand is two cards of equal rank.
func (h *Hand) IsPair() bool {
	return len(h.Cards) == 2 && h.Cards[0].Rank == h.Cards[1].Rank
}

// DealerHand is the house hand. The first card dealt is the hole card, the
// second is the upcard.
type DealerHand struct {
	Hand
}

// NewDealerHand creates a dealer hand from the initial two-card deal.
func NewDealerHand(cards []deck.Card) *DealerHand {
	return &DealerHand{Hand{Cards: cards}}
}

// Hole returns the dealer's face-down card.
func (d *DealerHand) Hole() deck.Card {
	return d.Cards[0]
}

// Upcard returns the dealer's visible card.
func (d *DealerHand) Upcard() deck.Card {
	return d.Cards[1]
}

// Hits applies the house drawing rule: hard totals below 17 always hit, and
// a soft 17 hits only when the table's soft-17 rule says so.
func (d *DealerHand) Hits(rules Rules) bool {
	if d.IsSoft() && rules.DealerHitsSoft17 {
		return d.Total() <= 17
	}
	return d.Total() < 17
}

// PlayerHand is a bet-carrying hand that accumulates the decisions made
// against it so the learner can be paid once the round resolves.
type PlayerHand struct {
	Hand
	Bet     int
	Doubled bool

	splitDecisions    []qlearn.Decision
	doubleDecisions   []qlearn.Decision
	hitStandDecisions []qlearn.Decision
}

// NewPlayerHand creates a player hand from a two-card deal and a bet.
func NewPlayerHand(cards []deck.Card, bet int) *PlayerHand {
	return &PlayerHand{Hand: Hand{Cards: cards}, Bet: bet}
}

// Hit appends a dealt card.
func (h *PlayerHand) Hit(c deck.Card) {
	h.Cards = append(h.Cards, c)
}

// Split divides a pair into two new hands, each seeded with one original
// card and one fresh card, both carrying the original bet.
func (h *PlayerHand) Split(c1, c2 deck.Card) (*PlayerHand, *PlayerHand) {
	left := NewPlayerHand([]deck.Card{h.Cards[0], c1}, h.Bet)
	right := NewPlayerHand([]deck.Card{h.Cards[1], c2}, h.Bet)
	return left, right
}

// record stores a decision against the hand for later settlement.
func (h *PlayerHand) record(cat qlearn.Category, d qlearn.Decision) {
	switch cat {
	case qlearn.Split:
		h.splitDecisions = append(h.splitDecisions, d)
	case qlearn.Double:
		h.doubleDecisions = append(h.doubleDecisions, d)
	case qlearn.HitStand:
		h.hitStandDecisions = append(h.hitStandDecisions, d)
	}
}

// settle forwards every decision recorded against the hand to the learner
// with the realized reward. Pushes never reach here: with a ±bet reward model
// a push carries no signal.
func (h *PlayerHand) settle(l *qlearn.Learner, won bool) {
	if l == nil {
		return
	}
	reward := float64(h.Bet)
	if !won {
		reward = -reward
	}
	final := len(h.Cards)
	for _, d := range h.splitDecisions {
		l.Record(qlearn.Split, d, reward, final)
	}
	for _, d := range h.doubleDecisions {
		l.Record(qlearn.Double, d, reward, final)
	}
	for _, d := range h.hitStandDecisions {
		l.Record(qlearn.HitStand, d, reward, final)
	}
}
