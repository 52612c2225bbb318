// Package display renders learned decision tables as terminal charts.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blackjackforbots/internal/deck"
	"github.com/lox/blackjackforbots/internal/qlearn"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	yesStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	noStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF6B6B"))

	unknownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// dealerRanks is the column order for every chart.
var dealerRanks = []deck.Rank{
	deck.Two, deck.Three, deck.Four, deck.Five, deck.Six,
	deck.Seven, deck.Eight, deck.Nine, deck.Ten, deck.Ace,
}

// chartAction maps a learned boolean to its display letter per category.
func chartAction(cat qlearn.Category, choice bool) string {
	var letter string
	switch cat {
	case qlearn.Split:
		if choice {
			letter = "Y"
		} else {
			letter = "N"
		}
	case qlearn.Double:
		if choice {
			letter = "D"
		} else {
			letter = "-"
		}
	case qlearn.HitStand:
		if choice {
			letter = "H"
		} else {
			letter = "S"
		}
	default:
		letter = "?"
	}
	if choice {
		return yesStyle.Render(letter)
	}
	return noStyle.Render(letter)
}

// RenderPairChart renders the learned split decision for every two-card pair
// against every dealer upcard. Situations without observations on both
// branches render as a dot.
func RenderPairChart(l *qlearn.Learner) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Learned pair splits (pair vs dealer upcard)"))
	b.WriteByte('\n')
	writeDealerHeader(&b)

	for r := deck.Ace; r <= deck.King; r++ {
		fmt.Fprintf(&b, "%2s,%-2s ", r, r)
		for _, d := range dealerRanks {
			pair := []deck.Card{deck.NewCard(r, deck.Clubs), deck.NewCard(r, deck.Diamonds)}
			key := qlearn.Key(pair, deck.NewCard(d, deck.Spades))
			if best, ok := l.Lookup(qlearn.Split, key); ok {
				b.WriteString(" " + chartAction(qlearn.Split, best))
			} else {
				b.WriteString(" " + unknownStyle.Render("·"))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderHardChart renders the learned hit/stand decision for two-card hard
// totals 5..20 against every dealer upcard. Each total is probed through all
// of its two-card compositions; the first observed key wins.
func RenderHardChart(l *qlearn.Learner) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Learned hit/stand (hard total vs dealer upcard)"))
	b.WriteByte('\n')
	writeDealerHeader(&b)

	for total := 5; total <= 20; total++ {
		fmt.Fprintf(&b, "%5d ", total)
		for _, d := range dealerRanks {
			upcard := deck.NewCard(d, deck.Spades)
			if best, ok := lookupHardTotal(l, total, upcard); ok {
				b.WriteString(" " + chartAction(qlearn.HitStand, best))
			} else {
				b.WriteString(" " + unknownStyle.Render("·"))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// lookupHardTotal probes every hard two-card composition of total until one
// has an observed decision.
func lookupHardTotal(l *qlearn.Learner, total int, upcard deck.Card) (bool, bool) {
	for first := deck.Two; first <= deck.King; first++ {
		c1 := deck.NewCard(first, deck.Clubs)
		for second := deck.Two; second <= deck.King; second++ {
			c2 := deck.NewCard(second, deck.Diamonds)
			if c1.Value()+c2.Value() != total {
				continue
			}
			key := qlearn.Key([]deck.Card{c1, c2}, upcard)
			if best, ok := l.Lookup(qlearn.HitStand, key); ok {
				return best, true
			}
		}
	}
	return false, false
}

func writeDealerHeader(b *strings.Builder) {
	b.WriteString("      ")
	for _, d := range dealerRanks {
		fmt.Fprintf(b, " %s", headerStyle.Render(d.String()))
	}
	b.WriteByte('\n')
}
