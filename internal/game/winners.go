// internal/game/winners.go
package game

import (
	"fmt"

	"github.com/padraigk/cards110/internal/models"
)

// WinningScore is the game-ending threshold.
const WinningScore = 110

// IsGameOver reports whether any player has reached the winning
// score.
func IsGameOver(players []models.Player) bool {
	for i := range players {
		if players[i].Score >= WinningScore {
			return true
		}
	}
	return false
}

// FindWinners resolves the winning team once the game is over.
// Priority: a sole team over the line wins outright; if several are
// over and one is the goer's, the goer's team wins; otherwise the
// round is replayed backwards trick by trick until a unique team is
// first past the post.
func FindWinners(g models.Game) ([]models.Player, error) {
	if !IsGameOver(g.Players) {
		return nil, fmt.Errorf("%w: game %s is not over", ErrInvalidOperation, g.ID)
	}

	over := playersAtOrAbove(g.Players, WinningScore)
	if len(teamsOf(over)) == 1 {
		return over, nil
	}

	for _, p := range over {
		if p.ID == g.CurrentRound.GoerID {
			return teamMembers(g.Players, p.TeamID), nil
		}
	}

	return calculateFirstPastThePost(g.CurrentRound, g.Players)
}

// applyWinners marks the winning players on the aggregate.
func applyWinners(g *models.Game) error {
	winners, err := FindWinners(*g)
	if err != nil {
		return err
	}
	for i := range g.Players {
		for _, w := range winners {
			if w.ID == g.Players[i].ID {
				g.Players[i].Winner = true
			}
		}
	}
	return nil
}

// calculateFirstPastThePost replays the round's tricks in reverse
// chronological order, subtracting each trick's points from its
// winner's team, until exactly one team remains at or over the line.
// Failure to isolate a unique winner means the aggregate is corrupt.
func calculateFirstPastThePost(round models.Round, players []models.Player) ([]models.Player, error) {
	best := bestCardPlayed(round)

	scores := map[string]int{}
	for i := range players {
		scores[players[i].TeamID] = players[i].Score
	}
	if team, ok := uniqueWinningTeam(scores); ok {
		return teamMembers(players, team), nil
	}

	hands := round.AllHands()
	for i := len(hands) - 1; i >= 0; i-- {
		winner, card, err := HandWinner(hands[i], round.Suit, players)
		if err != nil {
			return nil, err
		}
		points := TrickPoints
		if card == best {
			points += BestCardBonus
		}
		scores[winner.TeamID] -= points
		if team, ok := uniqueWinningTeam(scores); ok {
			return teamMembers(players, team), nil
		}
	}
	return nil, fmt.Errorf("%w: cannot isolate a first-past-the-post winner", ErrCorruptState)
}

// uniqueWinningTeam returns the single team at or over the winning
// score, if exactly one remains.
func uniqueWinningTeam(scores map[string]int) (string, bool) {
	team := ""
	count := 0
	for t, s := range scores {
		if s >= WinningScore {
			team = t
			count++
		}
	}
	return team, count == 1
}

func playersAtOrAbove(players []models.Player, score int) []models.Player {
	var out []models.Player
	for i := range players {
		if players[i].Score >= score {
			out = append(out, players[i])
		}
	}
	return out
}

func teamsOf(players []models.Player) map[string]struct{} {
	teams := map[string]struct{}{}
	for i := range players {
		teams[players[i].TeamID] = struct{}{}
	}
	return teams
}

func teamMembers(players []models.Player, teamID string) []models.Player {
	var out []models.Player
	for i := range players {
		if players[i].TeamID == teamID {
			out = append(out, players[i])
		}
	}
	return out
}
