// internal/game/view_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraigk/cards110/internal/models"
)

func TestViewForHidesOtherHands(t *testing.T) {
	g := playingGame()

	view, err := ViewFor(g, "p2")
	require.NoError(t, err)
	assert.ElementsMatch(t, g.Player("p2").Cards, view.Cards)
	assert.True(t, view.IsMyGo)
	assert.False(t, view.IAmGoer)

	// The summaries expose counts, never cards.
	for _, p := range view.Players {
		assert.Equal(t, 2, p.CardsHeld)
	}
}

func TestViewForGoerSeesDummyWhileChoosing(t *testing.T) {
	g := calledGame()

	view, err := ViewFor(g, "p3")
	require.NoError(t, err)
	assert.True(t, view.IAmGoer)
	assert.Len(t, view.Cards, 10, "own five plus the dummy's five")
	assert.Equal(t, 20, view.MaxCall)

	// Other players never see the dummy's cards.
	other, err := ViewFor(g, "p2")
	require.NoError(t, err)
	assert.Empty(t, other.Cards)
	for _, p := range other.Players {
		assert.NotEqual(t, models.DummyID, p.ID, "dummy is not listed publicly")
	}
}

func TestViewForUnknownPlayer(t *testing.T) {
	_, err := ViewFor(callingGame(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestViewForSpectator(t *testing.T) {
	g := playingGame()
	view := ViewForSpectator(g)

	assert.Equal(t, g.ID, view.ID)
	require.Len(t, view.Players, 2)
	for _, p := range view.Players {
		assert.Equal(t, 2, p.CardsHeld)
	}
}
