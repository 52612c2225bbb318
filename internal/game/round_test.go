package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjackforbots/internal/deck"
)

// scriptedStrategy answers each question from a queue, defaulting to false
// once a queue runs dry.
type scriptedStrategy struct {
	splits  []bool
	doubles []bool
	hits    []bool
}

func popAnswer(queue *[]bool) bool {
	if len(*queue) == 0 {
		return false
	}
	v := (*queue)[0]
	*queue = (*queue)[1:]
	return v
}

func (s *scriptedStrategy) Splits(hand *PlayerHand, upcard deck.Card) bool {
	return popAnswer(&s.splits)
}

func (s *scriptedStrategy) Doubles(hand *PlayerHand, upcard deck.Card) bool {
	return popAnswer(&s.doubles)
}

func (s *scriptedStrategy) Hits(hand *PlayerHand, upcard deck.Card) bool {
	return popAnswer(&s.hits)
}

// eventRecorder captures every published event for assertions.
type eventRecorder struct {
	events []GameEvent
}

func (r *eventRecorder) OnEvent(event GameEvent) {
	r.events = append(r.events, event)
}

func (r *eventRecorder) outcomes() []HandOutcomeEvent {
	var out []HandOutcomeEvent
	for _, e := range r.events {
		if o, ok := e.(HandOutcomeEvent); ok {
			out = append(out, o)
		}
	}
	return out
}

func (r *eventRecorder) actions(action HandAction) int {
	count := 0
	for _, e := range r.events {
		if a, ok := e.(HandActionEvent); ok && a.Action == action {
			count++
		}
	}
	return count
}

func newTestTable(t *testing.T, strat Strategy, insurance bool, spots int) (*Table, *Player, *eventRecorder) {
	t.Helper()
	player := NewPlayer("alice", 1000, strat, insurance)
	table, err := NewTable(DefaultRules(), []Seating{{Player: player, Spots: spots}}, nil, log.New(io.Discard))
	require.NoError(t, err)

	recorder := &eventRecorder{}
	table.EventBus().Subscribe(recorder)
	return table, player, recorder
}

// stacked builds a shoe that deals the given ranks in order.
func stacked(ranks ...deck.Rank) *deck.Shoe {
	return deck.NewStackedShoe(cards(ranks...), 0)
}

func TestRoundPlayerWinsOnDealerBust(t *testing.T) {
	table, player, recorder := newTestTable(t, &scriptedStrategy{}, false, 1)

	// Dealer T,6 draws a T and busts; player stands on 19.
	table.PlayRound(stacked(deck.Ten, deck.Six, deck.Ten, deck.Nine, deck.Ten))

	assert.Equal(t, 1100.0, player.Bankroll)
	outcomes := recorder.outcomes()
	require.Len(t, outcomes, 1)
	assert.Equal(t, OutcomeWin, outcomes[0].Outcome)
	assert.Equal(t, 100.0, outcomes[0].Net)
}

func TestRoundPlayerLoses(t *testing.T) {
	table, player, recorder := newTestTable(t, &scriptedStrategy{}, false, 1)

	// Dealer stands on 20, player stands on 19.
	table.PlayRound(stacked(deck.Ten, deck.Queen, deck.Ten, deck.Nine))

	assert.Equal(t, 900.0, player.Bankroll)
	outcomes := recorder.outcomes()
	require.Len(t, outcomes, 1)
	assert.Equal(t, OutcomeLoss, outcomes[0].Outcome)
}

func TestRoundPushMovesNoMoney(t *testing.T) {
	table, player, recorder := newTestTable(t, &scriptedStrategy{}, false, 1)

	// Both sides stand on 19.
	table.PlayRound(stacked(deck.Ten, deck.Nine, deck.King, deck.Nine))

	assert.Equal(t, 1000.0, player.Bankroll)
	outcomes := recorder.outcomes()
	require.Len(t, outcomes, 1)
	assert.Equal(t, OutcomePush, outcomes[0].Outcome)
	assert.Equal(t, 0.0, outcomes[0].Net)
}

func TestRoundPlayerBlackjackPaysThreeToTwo(t *testing.T) {
	table, player, recorder := newTestTable(t, &scriptedStrategy{}, false, 1)

	table.PlayRound(stacked(deck.Ten, deck.Seven, deck.Ace, deck.King))

	assert.Equal(t, 1150.0, player.Bankroll)
	outcomes := recorder.outcomes()
	require.Len(t, outcomes, 1)
	assert.Equal(t, OutcomeBlackjack, outcomes[0].Outcome)
	assert.Equal(t, 150.0, outcomes[0].Net)
}

func TestRoundDealerBlackjack(t *testing.T) {
	table, player, recorder := newTestTable(t, &scriptedStrategy{}, false, 2)

	// Dealer shows an Ace over a ten hole. Spot one holds 19 and loses its
	// bet; spot two holds a natural and pushes.
	table.PlayRound(stacked(deck.Ten, deck.Ace, deck.Ten, deck.Nine, deck.Ace, deck.Queen))

	assert.Equal(t, 900.0, player.Bankroll)
	outcomes := recorder.outcomes()
	require.Len(t, outcomes, 2)
	assert.Equal(t, OutcomeLoss, outcomes[0].Outcome)
	assert.Equal(t, OutcomePush, outcomes[1].Outcome)
}

func TestInsurancePaysOnDealerTenHole(t *testing.T) {
	table, player, recorder := newTestTable(t, &scriptedStrategy{}, true, 1)

	// Insurance pays the bet amount, then the 19 loses to the natural.
	table.PlayRound(stacked(deck.Ten, deck.Ace, deck.Ten, deck.Nine))

	assert.Equal(t, 1000.0, player.Bankroll)

	var insurance *InsuranceEvent
	for _, e := range recorder.events {
		if ev, ok := e.(InsuranceEvent); ok {
			insurance = &ev
		}
	}
	require.NotNil(t, insurance)
	assert.True(t, insurance.Won)
	assert.Equal(t, 100.0, insurance.Amount)
}

func TestInsuranceCostsHalfBetWithoutTenHole(t *testing.T) {
	table, player, _ := newTestTable(t, &scriptedStrategy{}, true, 1)

	// Dealer shows an Ace over a nine hole: insurance loses 50, then the
	// round continues and the player's 19 loses to the dealer's 20.
	table.PlayRound(stacked(deck.Nine, deck.Ace, deck.Ten, deck.Nine))

	assert.Equal(t, 850.0, player.Bankroll)
}

func TestRoundPlayerBustLosesImmediately(t *testing.T) {
	table, player, recorder := newTestTable(t, &scriptedStrategy{hits: []bool{true}}, false, 1)

	// Player hits 16 into a ten and busts. The dealer still draws out the
	// house hand before the round ends.
	table.PlayRound(stacked(deck.Ten, deck.Seven, deck.Ten, deck.Six, deck.Ten))

	assert.Equal(t, 900.0, player.Bankroll)
	outcomes := recorder.outcomes()
	require.Len(t, outcomes, 1)
	assert.Equal(t, OutcomeBust, outcomes[0].Outcome)
}

func TestRoundDoubleDownTakesOneCardAtDoubleStakes(t *testing.T) {
	table, player, recorder := newTestTable(t, &scriptedStrategy{doubles: []bool{true}}, false, 1)

	// Player doubles 11 into a ten for 21; dealer stands on 18.
	table.PlayRound(stacked(deck.Ten, deck.Eight, deck.Five, deck.Six, deck.Ten))

	assert.Equal(t, 1200.0, player.Bankroll)
	assert.Equal(t, 1, recorder.actions(ActionDouble))
	outcomes := recorder.outcomes()
	require.Len(t, outcomes, 1)
	assert.Equal(t, OutcomeWin, outcomes[0].Outcome)
	assert.Equal(t, 200.0, outcomes[0].Net)
}

func TestRoundSplitPlaysBothHands(t *testing.T) {
	strat := &scriptedStrategy{
		splits: []bool{true},
		hits:   []bool{true},
	}
	table, player, recorder := newTestTable(t, strat, false, 1)

	// 8,8 splits into 8,3 and 8,T. The first hand hits to 21 and wins, the
	// second stands on 18 and pushes against the dealer's 18.
	table.PlayRound(stacked(
		deck.Ten, deck.Eight, // dealer
		deck.Eight, deck.Eight, // player pair
		deck.Three, deck.Ten, // split cards
		deck.Ten, // hit on the first hand
	))

	assert.Equal(t, 1100.0, player.Bankroll)
	assert.Equal(t, 1, recorder.actions(ActionSplit))
	outcomes := recorder.outcomes()
	require.Len(t, outcomes, 2)
	assert.Equal(t, OutcomeWin, outcomes[0].Outcome)
	assert.Equal(t, OutcomePush, outcomes[1].Outcome)
}

func TestResplitStopsAtCeiling(t *testing.T) {
	strat := &scriptedStrategy{
		splits: []bool{true, true, true, true},
	}
	player := NewPlayer("alice", 1000, strat, false)

	rules := DefaultRules()
	rules.MaxResplit = 2
	table, err := NewTable(rules, []Seating{{Player: player, Spots: 1}}, nil, log.New(io.Discard))
	require.NoError(t, err)

	recorder := &eventRecorder{}
	table.EventBus().Subscribe(recorder)

	// The split deals two more eights, so both children are pairs again,
	// but the two-hand ceiling refuses any further split.
	table.PlayRound(stacked(
		deck.Ten, deck.Ten, // dealer 20
		deck.Eight, deck.Eight, // player pair
		deck.Eight, deck.Eight, // split cards
	))

	assert.Equal(t, 1, recorder.actions(ActionSplit))
	assert.Len(t, recorder.outcomes(), 2)
	assert.Equal(t, 800.0, player.Bankroll)
}

func TestPlayShoeStopsAtCutCard(t *testing.T) {
	table, _, _ := newTestTable(t, &scriptedStrategy{}, false, 1)

	// Each round consumes four cards. Twelve cards with the cut card four
	// from the bottom yields exactly two rounds.
	var ranks []deck.Rank
	for i := 0; i < 3; i++ {
		ranks = append(ranks, deck.Ten, deck.Seven, deck.Ten, deck.Nine)
	}
	shoe := deck.NewStackedShoe(cards(ranks...), 4)

	rounds := table.PlayShoe(shoe)
	assert.Equal(t, 2, rounds)
	assert.Equal(t, 2, table.Rounds())
}

func TestNewTableRejectsOverCapacity(t *testing.T) {
	rules := DefaultRules()
	rules.MaxSpots = 3

	player := NewPlayer("alice", 1000, &scriptedStrategy{}, false)
	_, err := NewTable(rules, []Seating{{Player: player, Spots: 4}}, nil, log.New(io.Discard))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooManySpots)
}
