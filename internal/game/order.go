// internal/game/order.go
package game

import (
	"fmt"

	"github.com/padraigk/cards110/internal/models"
)

// NextPlayer returns the player after currentID in seating order,
// wrapping at the end of the list and skipping the dummy seat. It is
// used identically for advancing the bidder, the dealer pointer and
// trick play order.
func NextPlayer(players []models.Player, currentID string) (models.Player, error) {
	cur := -1
	for i := range players {
		if players[i].ID == currentID {
			cur = i
			break
		}
	}
	if cur == -1 {
		return models.Player{}, fmt.Errorf("%w: player %s", ErrNotFound, currentID)
	}
	for step := 1; step <= len(players); step++ {
		next := &players[(cur+step)%len(players)]
		if !next.IsDummy() {
			return *next, nil
		}
	}
	return models.Player{}, fmt.Errorf("%w: no active seat after %s", ErrCorruptState, currentID)
}

// orderPlayersAtStartOfGame fixes the seating for a deal: the player
// after the dealer leads the bidding, a fresh dummy sits second to
// last and the dealer sits last. All calls and cards are cleared.
func orderPlayersAtStartOfGame(dealerID string, players []models.Player) ([]models.Player, error) {
	active := withoutDummy(players)
	dealerIdx := -1
	for i := range active {
		if active[i].ID == dealerID {
			dealerIdx = i
			break
		}
	}
	if dealerIdx == -1 {
		return nil, fmt.Errorf("%w: dealer %s", ErrNotFound, dealerID)
	}

	ordered := make([]models.Player, 0, len(active)+1)
	for step := 1; step < len(active); step++ {
		ordered = append(ordered, active[(dealerIdx+step)%len(active)])
	}
	ordered = append(ordered, models.NewDummy())
	ordered = append(ordered, active[dealerIdx])

	for i := range ordered {
		ordered[i].Cards = nil
		ordered[i].Call = 0
		ordered[i].CardsBought = nil
	}
	return ordered, nil
}

// orderPlayers reorders so that winnerID leads the next trick,
// preserving the relative seating of the rest. The dummy, if still
// present, is dropped; it never plays a card.
func orderPlayers(winnerID string, players []models.Player) ([]models.Player, error) {
	active := withoutDummy(players)
	winnerIdx := -1
	for i := range active {
		if active[i].ID == winnerID {
			winnerIdx = i
			break
		}
	}
	if winnerIdx == -1 {
		return nil, fmt.Errorf("%w: player %s", ErrNotFound, winnerID)
	}
	ordered := make([]models.Player, 0, len(active))
	for step := 0; step < len(active); step++ {
		ordered = append(ordered, active[(winnerIdx+step)%len(active)])
	}
	return ordered, nil
}

func withoutDummy(players []models.Player) []models.Player {
	out := make([]models.Player, 0, len(players))
	for i := range players {
		if !players[i].IsDummy() {
			out = append(out, players[i])
		}
	}
	return out
}
