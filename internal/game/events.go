package game

import (
	"time"

	"github.com/lox/blackjackforbots/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypeRoundStart  EventType = "round_start"
	EventTypeInsurance   EventType = "insurance"
	EventTypeHandAction  EventType = "hand_action"
	EventTypeHandOutcome EventType = "hand_outcome"
	EventTypeRoundEnd    EventType = "round_end"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a round
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// RoundStartEvent is published after the initial deal.
type RoundStartEvent struct {
	Round        int
	DealerUpcard deck.Card
	Spots        int
	timestamp    time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// InsuranceEvent is published when a spot's insurance bet resolves.
type InsuranceEvent struct {
	Player    string
	Position  int
	Won       bool
	Amount    float64
	timestamp time.Time
}

func (e InsuranceEvent) EventType() EventType { return EventTypeInsurance }
func (e InsuranceEvent) Timestamp() time.Time { return e.timestamp }

// HandAction identifies a choice applied to a hand.
type HandAction string

const (
	ActionSplit  HandAction = "split"
	ActionDouble HandAction = "double"
	ActionHit    HandAction = "hit"
	ActionStand  HandAction = "stand"
)

// HandActionEvent is published for every split, double, hit and stand.
type HandActionEvent struct {
	Player    string
	Position  int
	Action    HandAction
	Hand      string
	Total     int
	timestamp time.Time
}

func (e HandActionEvent) EventType() EventType { return EventTypeHandAction }
func (e HandActionEvent) Timestamp() time.Time { return e.timestamp }

// HandOutcome labels how a hand settled.
type HandOutcome string

const (
	OutcomeBlackjack HandOutcome = "blackjack"
	OutcomeBust      HandOutcome = "bust"
	OutcomeWin       HandOutcome = "win"
	OutcomeLoss      HandOutcome = "loss"
	OutcomePush      HandOutcome = "push"
)

// HandOutcomeEvent is published when a hand settles for money (or pushes).
type HandOutcomeEvent struct {
	Player    string
	Position  int
	Outcome   HandOutcome
	Hand      string
	Net       float64
	timestamp time.Time
}

func (e HandOutcomeEvent) EventType() EventType { return EventTypeHandOutcome }
func (e HandOutcomeEvent) Timestamp() time.Time { return e.timestamp }

// RoundEndEvent is published after spots are cleared.
type RoundEndEvent struct {
	Round       int
	DealerHand  string
	DealerTotal int
	DealerBust  bool
	timestamp   time.Time
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }
func (e RoundEndEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription. The engine behaves
// identically whether or not anything subscribes.
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{subscribers: make([]EventSubscriber, 0)}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
