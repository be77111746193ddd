// internal/game/view.go
package game

import (
	"github.com/google/uuid"

	"github.com/padraigk/cards110/internal/models"
)

// PlayerView is the game as one player is allowed to see it: their
// own hand, everyone's public info and the round with other hands
// blanked.
type PlayerView struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Status        models.GameStatus `json:"status"`
	Me            PlayerSummary     `json:"me"`
	IsMyGo        bool              `json:"isMyGo"`
	IAmGoer       bool              `json:"iamGoer"`
	IAmDealer     bool              `json:"iamDealer"`
	IAmAdmin      bool              `json:"iamAdmin"`
	Cards         []models.Card     `json:"cards"`
	MaxCall       int               `json:"maxCall"`
	Players       []PlayerSummary   `json:"players"`
	Round         models.Round      `json:"round"`
	PreviousRound *models.Round     `json:"previousRound,omitempty"`
}

// PlayerSummary is one player's public state: no cards.
type PlayerSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	SeatNumber  int    `json:"seatNumber"`
	Call        int    `json:"call"`
	CardsBought int    `json:"cardsBought"`
	CardsHeld   int    `json:"cardsHeld"`
	Score       int    `json:"score"`
	Rings       int    `json:"rings"`
	TeamID      string `json:"teamId"`
	Winner      bool   `json:"winner"`
}

// SpectatorView is the table as an outside observer sees it: all
// public info, no hands at all.
type SpectatorView struct {
	ID      uuid.UUID         `json:"id"`
	Name    string            `json:"name"`
	Status  models.GameStatus `json:"status"`
	Players []PlayerSummary   `json:"players"`
	Round   models.Round      `json:"round"`
}

func summarize(p models.Player) PlayerSummary {
	bought := 0
	if p.CardsBought != nil {
		bought = *p.CardsBought
	}
	return PlayerSummary{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		SeatNumber:  p.SeatNumber,
		Call:        p.Call,
		CardsBought: bought,
		CardsHeld:   len(p.Cards),
		Score:       p.Score,
		Rings:       p.Rings,
		TeamID:      p.TeamID,
		Winner:      p.Winner,
	}
}

func publicPlayers(players []models.Player) []PlayerSummary {
	out := make([]PlayerSummary, 0, len(players))
	for _, p := range players {
		if p.IsDummy() {
			continue
		}
		out = append(out, summarize(p))
	}
	return out
}

// ViewFor projects the game for one player. The goer sees the dummy's
// cards folded into their own while choosing; nobody else ever sees
// another hand.
func ViewFor(g models.Game, playerID string) (PlayerView, error) {
	me := g.Player(playerID)
	if me == nil {
		return PlayerView{}, ErrNotFound
	}
	round := g.CurrentRound

	cards := append([]models.Card(nil), me.Cards...)
	iamGoer := round.GoerID == playerID
	if iamGoer && round.Status == models.RoundCalled {
		if dummy := g.Dummy(); dummy != nil {
			cards = append(cards, dummy.Cards...)
		}
	}

	maxCall := 0
	if top := g.TopCaller(); top != nil {
		maxCall = top.Call
	}

	view := PlayerView{
		ID:        g.ID,
		Name:      g.Name,
		Status:    g.Status,
		Me:        summarize(*me),
		IsMyGo:    round.CurrentHand.CurrentPlayerID == playerID,
		IAmGoer:   iamGoer,
		IAmDealer: round.DealerID == playerID,
		IAmAdmin:  g.AdminID == playerID,
		Cards:     cards,
		MaxCall:   maxCall,
		Players:   publicPlayers(g.Players),
		Round:     round.Clone(),
	}
	if n := len(g.CompletedRounds); n > 0 {
		prev := g.CompletedRounds[n-1].Clone()
		view.PreviousRound = &prev
	}
	return view, nil
}

// ViewForSpectator projects the public table state.
func ViewForSpectator(g models.Game) SpectatorView {
	return SpectatorView{
		ID:      g.ID,
		Name:    g.Name,
		Status:  g.Status,
		Players: publicPlayers(g.Players),
		Round:   g.CurrentRound.Clone(),
	}
}
