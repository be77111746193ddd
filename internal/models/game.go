// internal/models/game.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// GameStatus is the aggregate's lifecycle state. FINISHED means a
// player has crossed 110 and winners are decided; COMPLETED means the
// table has acknowledged the result (or been replayed).
type GameStatus string

const (
	GameActive    GameStatus = "ACTIVE"
	GameFinished  GameStatus = "FINISHED"
	GameCompleted GameStatus = "COMPLETED"
	GameCancelled GameStatus = "CANCELLED"
)

// Game is the aggregate root. It is treated as an immutable snapshot
// by the engine: every operation clones it, mutates the clone and
// returns it, so a rejected operation never leaves partial state.
type Game struct {
	ID              uuid.UUID  `json:"id"`
	Timestamp       time.Time  `json:"timestamp"`
	Name            string     `json:"name"`
	Status          GameStatus `json:"status"`
	AdminID         string     `json:"adminId"`
	Players         []Player   `json:"players"`
	CurrentRound    Round      `json:"currentRound"`
	CompletedRounds []Round    `json:"completedRounds"`
}

// Clone deep-copies the aggregate.
func (g Game) Clone() Game {
	out := g
	if g.Players != nil {
		out.Players = make([]Player, len(g.Players))
		for i, p := range g.Players {
			out.Players[i] = p.clone()
		}
	}
	out.CurrentRound = g.CurrentRound.Clone()
	if g.CompletedRounds != nil {
		out.CompletedRounds = make([]Round, len(g.CompletedRounds))
		for i, r := range g.CompletedRounds {
			out.CompletedRounds[i] = r.Clone()
		}
	}
	return out
}

// Player returns a pointer into the aggregate's player list, or nil
// if the id is unknown.
func (g *Game) Player(id string) *Player {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i]
		}
	}
	return nil
}

// Dummy returns the dummy seat if it is currently in the game.
func (g *Game) Dummy() *Player {
	for i := range g.Players {
		if g.Players[i].IsDummy() {
			return &g.Players[i]
		}
	}
	return nil
}

// ActivePlayerCount is the number of non-dummy seats.
func (g *Game) ActivePlayerCount() int {
	n := 0
	for i := range g.Players {
		if !g.Players[i].IsDummy() {
			n++
		}
	}
	return n
}

// TopCaller returns the player with the highest call so far. The
// dummy never calls.
func (g *Game) TopCaller() *Player {
	var top *Player
	for i := range g.Players {
		p := &g.Players[i]
		if p.IsDummy() {
			continue
		}
		if top == nil || p.Call > top.Call {
			top = p
		}
	}
	return top
}
