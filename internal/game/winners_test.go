// internal/game/winners_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraigk/cards110/internal/models"
)

func TestIsGameOver(t *testing.T) {
	players := []models.Player{activeSeat("p1", 1), activeSeat("p2", 2)}
	assert.False(t, IsGameOver(players))

	players[0].Score = 109
	assert.False(t, IsGameOver(players))

	players[0].Score = 110
	assert.True(t, IsGameOver(players))
}

func TestFindWinnersSoleTeamOver(t *testing.T) {
	g := models.Game{Players: []models.Player{activeSeat("p1", 1), activeSeat("p2", 2)}}
	g.Players[0].Score = 115
	g.Players[1].Score = 80

	winners, err := FindWinners(g)
	require.NoError(t, err)
	require.Len(t, winners, 1)
	assert.Equal(t, "p1", winners[0].ID)
}

func TestFindWinnersGoerTakesPrecedence(t *testing.T) {
	g := models.Game{
		Players:      []models.Player{activeSeat("p1", 1), activeSeat("p2", 2)},
		CurrentRound: models.Round{GoerID: "p2"},
	}
	g.Players[0].Score = 115
	g.Players[1].Score = 110

	winners, err := FindWinners(g)
	require.NoError(t, err)
	require.Len(t, winners, 1)
	assert.Equal(t, "p2", winners[0].ID, "the goer crosses the line first by rule")
}

func TestFindWinnersFirstPastThePost(t *testing.T) {
	// Both p1 and p2 cross the line this round while the goer's team
	// stays under; the tricks are unwound newest-first until only one
	// team remains over.
	g := models.Game{
		Players: []models.Player{
			activeSeat("p1", 1),
			activeSeat("p2", 2),
			activeSeat("p3", 3),
		},
		CurrentRound: fiveTrickRound(models.SuitHearts),
	}
	g.CurrentRound.GoerID = "p3"
	g.Players[0].Score = 115 // 95 going in, +20 this round
	g.Players[1].Score = 110 // 100 going in, +10 this round
	g.Players[2].Score = 40

	winners, err := FindWinners(g)
	require.NoError(t, err)
	require.Len(t, winners, 1)
	assert.Equal(t, "p1", winners[0].ID, "unwinding the last trick drops p2 back under the line")
}

func TestFindWinnersNotOver(t *testing.T) {
	g := models.Game{Players: []models.Player{activeSeat("p1", 1)}}
	_, err := FindWinners(g)
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestApplyWinnersFlagsWholeTeam(t *testing.T) {
	p1 := activeSeat("p1", 1)
	p2 := activeSeat("p2", 2)
	p3 := activeSeat("p3", 3)
	p4 := activeSeat("p4", 4)
	p1.TeamID, p3.TeamID = "teamA", "teamA"
	p2.TeamID, p4.TeamID = "teamB", "teamB"
	p1.Score, p3.Score = 110, 110

	g := models.Game{Players: []models.Player{p1, p2, p3, p4}}
	require.NoError(t, applyWinners(&g))

	assert.True(t, g.Player("p1").Winner)
	assert.True(t, g.Player("p3").Winner)
	assert.False(t, g.Player("p2").Winner)
	assert.False(t, g.Player("p4").Winner)
}
