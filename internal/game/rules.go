package game

// Rules holds the fixed house rules for a table.
type Rules struct {
	// Decks is the number of 52-card decks per shoe.
	Decks int
	// CutCardDepth is the remaining-card count at which a shoe is exhausted.
	CutCardDepth int
	// MaxSpots is the table's fixed capacity.
	MaxSpots int
	// MaxResplit caps how many hands a single spot may hold after splitting.
	MaxResplit int
	// BlackjackPayout multiplies the bet on a natural (3:2 by convention).
	BlackjackPayout float64
	// DealerHitsSoft17 selects the house soft-17 rule. When false the dealer
	// stands on every 17; when true a soft 17 is hit.
	DealerHitsSoft17 bool
	// DefaultBet is the flat per-hand wager.
	DefaultBet int
	// DefaultStake is each player's starting bankroll.
	DefaultStake int
}

// DefaultRules returns conventional six-deck rules: cut card two decks from
// the bottom, seven spots, resplit to four hands, 3:2 naturals, dealer
// stands on soft 17.
func DefaultRules() Rules {
	return Rules{
		Decks:            6,
		CutCardDepth:     104,
		MaxSpots:         7,
		MaxResplit:       4,
		BlackjackPayout:  1.5,
		DealerHitsSoft17: false,
		DefaultBet:       100,
		DefaultStake:     100000,
	}
}
