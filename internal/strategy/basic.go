package strategy

import (
	"github.com/lox/blackjackforbots/internal/deck"
	"github.com/lox/blackjackforbots/internal/game"
)

// Basic reproduces conventional basic strategy from fixed decision tables:
// a pair-splitting table, soft/hard doubling tables, and a hard-total
// hit/stand table keyed on explicit dealer-rank ranges.
type Basic struct{}

// NewBasic creates the fixed-table strategy.
func NewBasic() *Basic {
	return &Basic{}
}

// dealerInRange reports whether the dealer upcard rank lies in [lo, hi].
func dealerInRange(upcard deck.Card, lo, hi deck.Rank) bool {
	return upcard.Rank >= lo && upcard.Rank <= hi
}

func (b *Basic) Splits(hand *game.PlayerHand, upcard deck.Card) bool {
	switch hand.Cards[0].Rank {
	case deck.Ace, deck.Eight:
		// Always split aces and eights.
		return true
	case deck.Two, deck.Three, deck.Seven:
		return dealerInRange(upcard, deck.Two, deck.Seven)
	case deck.Four:
		return dealerInRange(upcard, deck.Five, deck.Six)
	case deck.Six:
		return dealerInRange(upcard, deck.Two, deck.Six)
	case deck.Nine:
		return dealerInRange(upcard, deck.Two, deck.Six) ||
			dealerInRange(upcard, deck.Eight, deck.Nine)
	default:
		return false
	}
}

func (b *Basic) Doubles(hand *game.PlayerHand, upcard deck.Card) bool {
	if !hand.IsSoft() {
		switch hand.Total() {
		case 9:
			return dealerInRange(upcard, deck.Three, deck.Six)
		case 10:
			return dealerInRange(upcard, deck.Two, deck.Nine)
		case 11:
			return dealerInRange(upcard, deck.Two, deck.Ten)
		}
		return false
	}

	// Soft doubles key on the non-Ace kicker.
	if hand.HoldsRank(deck.Two) || hand.HoldsRank(deck.Three) {
		return dealerInRange(upcard, deck.Five, deck.Six)
	}
	if hand.HoldsRank(deck.Four) || hand.HoldsRank(deck.Five) {
		return dealerInRange(upcard, deck.Four, deck.Six)
	}
	if hand.HoldsRank(deck.Six) || hand.HoldsRank(deck.Seven) {
		return dealerInRange(upcard, deck.Three, deck.Six)
	}
	return false
}

func (b *Basic) Hits(hand *game.PlayerHand, upcard deck.Card) bool {
	total := hand.Total()
	if total < 12 {
		return true
	}
	if total == 12 {
		// Stand only against the dealer's weakest cards.
		return !dealerInRange(upcard, deck.Four, deck.Six)
	}
	if total >= 13 && total <= 16 {
		// Stiff totals stand against a dealer bust card.
		return !dealerInRange(upcard, deck.Two, deck.Six)
	}
	return false
}
