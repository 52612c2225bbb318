package game

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjackforbots/internal/qlearn"
)

// ErrTooManySpots is returned when the requested seating exceeds the table's
// fixed capacity. This is a configuration error and is raised before any
// cards are dealt.
var ErrTooManySpots = errors.New("table capacity exceeded")

// Table owns the spots, players and per-round state for one blackjack table.
// A table is exclusively owned by a single driver; nothing on it is safe for
// concurrent use.
type Table struct {
	rules    Rules
	learner  *qlearn.Learner
	logger   *log.Logger
	eventBus EventBus
	spots    []*Spot
	players  []*Player
	round    int
}

// NewTable seats players at a table. The total requested spots must fit the
// table's capacity. The learner may be nil when no seated strategy learns.
func NewTable(rules Rules, seatings []Seating, learner *qlearn.Learner, logger *log.Logger) (*Table, error) {
	required := 0
	for _, s := range seatings {
		required += s.Spots
	}
	if required > rules.MaxSpots {
		return nil, fmt.Errorf("%w: %d spots needed but table has %d", ErrTooManySpots, required, rules.MaxSpots)
	}

	t := &Table{
		rules:    rules,
		learner:  learner,
		logger:   logger,
		eventBus: NewEventBus(),
		spots:    make([]*Spot, 0, required),
		players:  make([]*Player, 0, len(seatings)),
	}

	position := 0
	for _, s := range seatings {
		t.players = append(t.players, s.Player)
		for i := 0; i < s.Spots; i++ {
			t.spots = append(t.spots, &Spot{Position: position, Player: s.Player})
			position++
		}
	}
	return t, nil
}

// EventBus returns the bus the engine publishes round events on.
func (t *Table) EventBus() EventBus {
	return t.eventBus
}

// Players returns the seated players in seating order.
func (t *Table) Players() []*Player {
	return t.players
}

// Rules returns the table's house rules.
func (t *Table) Rules() Rules {
	return t.rules
}

// Rounds returns the number of rounds played so far.
func (t *Table) Rounds() int {
	return t.round
}
