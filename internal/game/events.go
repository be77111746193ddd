// internal/game/events.go
package game

// EventType tags the outcome of an engine operation so the publisher
// can tell clients what just happened.
type EventType string

const (
	EventDeal            EventType = "DEAL"
	EventCall            EventType = "CALL"
	EventPass            EventType = "PASS"
	EventChooseFromDummy EventType = "CHOOSE_FROM_DUMMY"
	EventBuyCards        EventType = "BUY_CARDS"
	EventCardPlayed      EventType = "CARD_PLAYED"
	EventHandCompleted   EventType = "HAND_COMPLETED"
	EventRoundCompleted  EventType = "ROUND_COMPLETED"
	EventGameOver        EventType = "GAME_OVER"
	EventReplay          EventType = "REPLAY"
)

// Event describes what a transform did. Detail is an optional
// human-readable note (e.g. "Niamh bought 3 cards").
type Event struct {
	Type   EventType `json:"type"`
	Detail string    `json:"detail,omitempty"`
}
