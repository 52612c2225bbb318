package game

import (
	"time"

	"github.com/lox/blackjackforbots/internal/deck"
	"github.com/lox/blackjackforbots/internal/qlearn"
)

// PlayShoe plays rounds until the shoe's cut card comes out. The round in
// flight when the cut card appears still completes. Returns the number of
// rounds played.
func (t *Table) PlayShoe(shoe *deck.Shoe) int {
	rounds := 0
	for !shoe.Depleted() {
		t.PlayRound(shoe)
		rounds++
	}
	return rounds
}

// PlayRound runs one complete round: deal, insurance, blackjack checks,
// per-spot resolution, dealer draw, settlement, clear. Learner observations
// are folded into the tables before returning.
func (t *Table) PlayRound(shoe *deck.Shoe) {
	t.round++

	dealer := NewDealerHand(shoe.Deal(2))
	t.logger.Debug("dealer hand dealt", "round", t.round, "upcard", dealer.Upcard())

	for _, spot := range t.spots {
		hand := NewPlayerHand(shoe.Deal(2), t.rules.DefaultBet)
		spot.Hands = []*PlayerHand{hand}
		t.logger.Debug("player hand dealt", "player", spot.Player.Name, "spot", spot.Position, "hand", hand.String())
	}

	t.eventBus.Publish(RoundStartEvent{
		Round:        t.round,
		DealerUpcard: dealer.Upcard(),
		Spots:        len(t.spots),
		timestamp:    time.Now(),
	})

	if dealer.Upcard().IsAce() {
		t.resolveInsurance(dealer)
	}

	if dealer.IsBlackjack() {
		t.logger.Debug("dealer has blackjack", "round", t.round)
		for _, spot := range t.spots {
			hand := spot.Hands[0]
			if !hand.IsBlackjack() {
				spot.Player.Lose(float64(hand.Bet))
				t.publishOutcome(spot, hand, OutcomeLoss, -float64(hand.Bet))
			} else {
				t.publishOutcome(spot, hand, OutcomePush, 0)
			}
			spot.Hands = nil
		}
		t.finishRound(dealer)
		return
	}

	for _, spot := range t.spots {
		hand := spot.Hands[0]
		if hand.IsBlackjack() {
			win := t.rules.BlackjackPayout * float64(hand.Bet)
			spot.Player.Win(win)
			t.logger.Debug("player blackjack", "player", spot.Player.Name, "win", win)
			t.publishOutcome(spot, hand, OutcomeBlackjack, win)
			spot.Hands = nil
		}
	}

	for _, spot := range t.spots {
		if len(spot.Hands) > 0 {
			t.resolveSpot(shoe, spot, dealer.Upcard())
		}
	}

	for dealer.Hits(t.rules) {
		dealer.Cards = append(dealer.Cards, shoe.Deal(1)[0])
	}
	t.logger.Debug("dealer stands", "hand", dealer.String(), "total", dealer.Total(), "bust", dealer.IsBust())

	t.settle(dealer)
	t.finishRound(dealer)
}

// resolveInsurance adjudicates insurance per spot before the hole card is
// checked for blackjack. It pays the bet amount on a dealer ten-hole and
// costs half the bet otherwise. Insurance never feeds the learner.
func (t *Table) resolveInsurance(dealer *DealerHand) {
	for _, spot := range t.spots {
		if !spot.Player.TakesInsurance {
			continue
		}
		bet := float64(spot.Hands[0].Bet)
		won := dealer.Hole().IsPaint()
		var amount float64
		if won {
			amount = bet
			spot.Player.Win(amount)
		} else {
			amount = bet / 2
			spot.Player.Lose(amount)
		}
		t.logger.Debug("insurance resolved", "player", spot.Player.Name, "won", won, "amount", amount)
		t.eventBus.Publish(InsuranceEvent{
			Player:    spot.Player.Name,
			Position:  spot.Position,
			Won:       won,
			Amount:    amount,
			timestamp: time.Now(),
		})
	}
}

// resolveSpot runs splitting, doubling and hit/stand for one spot.
func (t *Table) resolveSpot(shoe *deck.Shoe, spot *Spot, upcard deck.Card) {
	t.resolveSplits(shoe, spot, upcard)
	t.resolveDoubles(shoe, spot, upcard)
	t.resolveHitStand(shoe, spot, upcard)
}

// resolveSplits processes pair splitting with an explicit worklist so that
// resplits nest to any depth while the ceiling stays a simple count check.
// The pre-split decision is recorded against both resulting hands.
func (t *Table) resolveSplits(shoe *deck.Shoe, spot *Spot, upcard deck.Card) {
	worklist := make([]*PlayerHand, len(spot.Hands))
	copy(worklist, spot.Hands)

	for len(worklist) > 0 {
		hand := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if !hand.IsPair() || len(spot.Hands) >= t.rules.MaxResplit {
			continue
		}

		willSplit := spot.Player.Strategy.Splits(hand, upcard)
		decision := qlearn.Decision{
			Key:      qlearn.Key(hand.Cards, upcard),
			Choice:   willSplit,
			HandSize: len(hand.Cards),
		}
		if !willSplit {
			hand.record(qlearn.Split, decision)
			continue
		}

		cards := shoe.Deal(2)
		left, right := hand.Split(cards[0], cards[1])
		left.record(qlearn.Split, decision)
		right.record(qlearn.Split, decision)

		t.logger.Debug("hand split", "player", spot.Player.Name, "hand", hand.String(), "left", left.String(), "right", right.String())
		t.publishAction(spot, ActionSplit, hand)

		spot.Hands = removeHand(spot.Hands, hand)
		spot.Hands = append(spot.Hands, left, right)
		worklist = append(worklist, left, right)
	}
}

// resolveDoubles offers every hand one double-down. A doubled hand takes
// exactly one card and no further action; a bust settles immediately.
func (t *Table) resolveDoubles(shoe *deck.Shoe, spot *Spot, upcard deck.Card) {
	survivors := spot.Hands[:0]
	for _, hand := range spot.Hands {
		willDouble := spot.Player.Strategy.Doubles(hand, upcard)
		hand.record(qlearn.Double, qlearn.Decision{
			Key:      qlearn.Key(hand.Cards, upcard),
			Choice:   willDouble,
			HandSize: len(hand.Cards),
		})
		if willDouble {
			hand.Bet *= 2
			hand.Hit(shoe.Deal(1)[0])
			hand.Doubled = true
			t.logger.Debug("hand doubled", "player", spot.Player.Name, "hand", hand.String(), "bet", hand.Bet)
			t.publishAction(spot, ActionDouble, hand)
		}
		if hand.IsBust() {
			t.loseBusted(spot, hand)
			continue
		}
		survivors = append(survivors, hand)
	}
	spot.Hands = survivors
}

// resolveHitStand runs the hit/stand loop for every non-doubled hand.
func (t *Table) resolveHitStand(shoe *deck.Shoe, spot *Spot, upcard deck.Card) {
	survivors := spot.Hands[:0]
	for _, hand := range spot.Hands {
		if hand.Doubled {
			survivors = append(survivors, hand)
			continue
		}

		busted := false
		for {
			willHit := spot.Player.Strategy.Hits(hand, upcard)
			hand.record(qlearn.HitStand, qlearn.Decision{
				Key:      qlearn.Key(hand.Cards, upcard),
				Choice:   willHit,
				HandSize: len(hand.Cards),
			})
			if !willHit {
				t.logger.Debug("hand stands", "player", spot.Player.Name, "hand", hand.String(), "total", hand.Total())
				t.publishAction(spot, ActionStand, hand)
				break
			}

			hand.Hit(shoe.Deal(1)[0])
			t.logger.Debug("hand hits", "player", spot.Player.Name, "hand", hand.String(), "total", hand.Total())
			t.publishAction(spot, ActionHit, hand)
			if hand.IsBust() {
				busted = true
				t.loseBusted(spot, hand)
				break
			}
		}
		if !busted {
			survivors = append(survivors, hand)
		}
	}
	spot.Hands = survivors
}

// settle pays or collects every surviving hand against the dealer total.
// Equal totals push with no money moved and no learner observation.
func (t *Table) settle(dealer *DealerHand) {
	dealerBust := dealer.IsBust()
	dealerTotal := dealer.Total()

	for _, spot := range t.spots {
		for _, hand := range spot.Hands {
			bet := float64(hand.Bet)
			switch {
			case dealerBust || hand.Total() > dealerTotal:
				spot.Player.Win(bet)
				hand.settle(t.learner, true)
				t.publishOutcome(spot, hand, OutcomeWin, bet)
			case hand.Total() < dealerTotal:
				spot.Player.Lose(bet)
				hand.settle(t.learner, false)
				t.publishOutcome(spot, hand, OutcomeLoss, -bet)
			default:
				t.publishOutcome(spot, hand, OutcomePush, 0)
			}
		}
	}
}

// loseBusted settles a busted hand immediately: the bet is lost and the hand
// takes no further part in the round.
func (t *Table) loseBusted(spot *Spot, hand *PlayerHand) {
	spot.Player.Lose(float64(hand.Bet))
	hand.settle(t.learner, false)
	t.logger.Debug("hand busts", "player", spot.Player.Name, "hand", hand.String(), "lost", hand.Bet)
	t.publishOutcome(spot, hand, OutcomeBust, -float64(hand.Bet))
}

// finishRound clears all spots, publishes the round end and folds the
// learner's pending observations.
func (t *Table) finishRound(dealer *DealerHand) {
	for _, spot := range t.spots {
		spot.Hands = nil
	}
	t.eventBus.Publish(RoundEndEvent{
		Round:       t.round,
		DealerHand:  dealer.String(),
		DealerTotal: dealer.Total(),
		DealerBust:  dealer.IsBust(),
		timestamp:   time.Now(),
	})
	if t.learner != nil {
		t.learner.FoldRound()
	}
}

func (t *Table) publishAction(spot *Spot, action HandAction, hand *PlayerHand) {
	t.eventBus.Publish(HandActionEvent{
		Player:    spot.Player.Name,
		Position:  spot.Position,
		Action:    action,
		Hand:      hand.String(),
		Total:     hand.Total(),
		timestamp: time.Now(),
	})
}

func (t *Table) publishOutcome(spot *Spot, hand *PlayerHand, outcome HandOutcome, net float64) {
	t.eventBus.Publish(HandOutcomeEvent{
		Player:    spot.Player.Name,
		Position:  spot.Position,
		Outcome:   outcome,
		Hand:      hand.String(),
		Net:       net,
		timestamp: time.Now(),
	})
}

func removeHand(hands []*PlayerHand, target *PlayerHand) []*PlayerHand {
	for i, h := range hands {
		if h == target {
			return append(hands[:i], hands[i+1:]...)
		}
	}
	return hands
}
