package deck

import (
	"fmt"
	"math/rand"
)

// CardsPerDeck is the size of a standard deck.
const CardsPerDeck = 52

// Shoe represents a multi-deck dealing shoe. Cards are shuffled once at
// construction and only ever consumed from the front. A cut card sits
// cutCardDepth cards from the bottom; the deal that would cross it marks the
// shoe depleted, but still completes.
type Shoe struct {
	cards        []Card
	cutCardDepth int
	depleted     bool
}

// NewShoe builds a shoe from the given number of standard decks, shuffles it
// with the provided rng and burns one card.
func NewShoe(rng *rand.Rand, decks, cutCardDepth int) *Shoe {
	s := &Shoe{
		cards:        make([]Card, 0, decks*CardsPerDeck),
		cutCardDepth: cutCardDepth,
	}

	for d := 0; d < decks; d++ {
		for suit := Clubs; suit <= Spades; suit++ {
			for rank := Ace; rank <= King; rank++ {
				s.cards = append(s.cards, NewCard(rank, suit))
			}
		}
	}

	s.shuffle(rng)
	s.Deal(1) // burn
	return s
}

// NewStackedShoe builds a shoe that deals the given cards in order, with no
// shuffle and no burn. Used to replay known sequences.
func NewStackedShoe(cards []Card, cutCardDepth int) *Shoe {
	s := &Shoe{
		cards:        make([]Card, len(cards)),
		cutCardDepth: cutCardDepth,
	}
	copy(s.cards, cards)
	return s
}

// shuffle performs a Fisher-Yates shuffle over the whole shoe.
func (s *Shoe) shuffle(rng *rand.Rand) {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Deal removes and returns n cards from the front of the shoe. The depletion
// check uses the pre-removal count so the triggering deal still returns its
// cards. Requesting more cards than remain is a programming defect and
// panics; a realistically sized shoe always covers a full round.
func (s *Shoe) Deal(n int) []Card {
	if n > len(s.cards) {
		panic(fmt.Sprintf("deck: dealt %d cards with %d remaining", n, len(s.cards)))
	}
	if len(s.cards)-n <= s.cutCardDepth {
		s.depleted = true
	}
	cards := make([]Card, n)
	copy(cards, s.cards[:n])
	s.cards = s.cards[n:]
	return cards
}

// Remaining returns the number of undealt cards.
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Depleted reports whether the cut card has been reached. The current round
// still finishes; no new round should start from a depleted shoe.
func (s *Shoe) Depleted() bool {
	return s.depleted
}
