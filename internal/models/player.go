// internal/models/player.go
package models

// SeatKind distinguishes a human-held seat from the dummy placeholder
// that is dealt a hand each round and absorbed by the goer.
type SeatKind string

const (
	SeatActive SeatKind = "ACTIVE"
	SeatDummy  SeatKind = "DUMMY"
)

// DummyID is the wire id of the dummy seat; clients render it
// specially. Membership tests must use Player.IsDummy, not this id.
const DummyID = "dummy"

// Player is one seat's full state within a game aggregate. Cards are
// only exposed to the owning player; projections blank them for
// everyone else.
type Player struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Seat        SeatKind `json:"seat"`
	SeatNumber  int      `json:"seatNumber"`
	Call        int      `json:"call"`
	Cards       []Card   `json:"cards"`
	CardsBought *int     `json:"cardsBought"`
	Score       int      `json:"score"`
	Rings       int      `json:"rings"`
	TeamID      string   `json:"teamId"`
	Winner      bool     `json:"winner"`
}

// IsDummy reports whether the seat is the dummy placeholder.
func (p *Player) IsDummy() bool { return p.Seat == SeatDummy }

// HasCard reports whether the card is currently in the player's hand.
func (p *Player) HasCard(c Card) bool {
	for _, h := range p.Cards {
		if h == c {
			return true
		}
	}
	return false
}

// NewDummy builds a fresh dummy seat holding no cards.
func NewDummy() Player {
	return Player{
		ID:          DummyID,
		DisplayName: DummyID,
		Seat:        SeatDummy,
		TeamID:      DummyID,
	}
}

// clone deep-copies the player so snapshot transforms never share
// card slices with their input.
func (p Player) clone() Player {
	out := p
	if p.Cards != nil {
		out.Cards = make([]Card, len(p.Cards))
		copy(out.Cards, p.Cards)
	}
	if p.CardsBought != nil {
		n := *p.CardsBought
		out.CardsBought = &n
	}
	return out
}
