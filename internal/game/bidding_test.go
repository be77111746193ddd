// internal/game/bidding_test.go
package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraigk/cards110/internal/models"
)

// callingGame builds a four-seat game mid-round, dealt and waiting
// for the first bid: order [p2 p3 p4 dummy p1], dealer p1, p2 to act.
func callingGame() models.Game {
	return models.Game{
		ID:     uuid.New(),
		Status: models.GameActive,
		Players: []models.Player{
			activeSeat("p2", 2),
			activeSeat("p3", 3),
			activeSeat("p4", 4),
			models.NewDummy(),
			activeSeat("p1", 1),
		},
		CurrentRound: models.Round{
			Number:   1,
			DealerID: "p1",
			Status:   models.RoundCalling,
			BidPhase: models.BidAwaiting,
			CurrentHand: models.Hand{
				CurrentPlayerID: "p2",
			},
		},
	}
}

// mustCall drives one bid through and returns the new snapshot.
func mustCall(t *testing.T, g models.Game, playerID string, call int) models.Game {
	t.Helper()
	out, _, err := Call(g, playerID, call)
	require.NoError(t, err)
	return out
}

func TestCallPassAdvancesTurn(t *testing.T) {
	g := callingGame()

	g = mustCall(t, g, "p2", 0)
	assert.Equal(t, "p3", g.CurrentRound.CurrentHand.CurrentPlayerID)

	g = mustCall(t, g, "p3", 15)
	g = mustCall(t, g, "p4", 0)
	// The dummy never bids.
	assert.Equal(t, "p1", g.CurrentRound.CurrentHand.CurrentPlayerID)
}

func TestCallRejectsOutOfTurn(t *testing.T) {
	g := callingGame()
	_, _, err := Call(g, "p3", 15)
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestCallRejectsInvalidValues(t *testing.T) {
	g := callingGame()
	for _, bad := range []int{5, 11, 35, -10} {
		_, _, err := Call(g, "p2", bad)
		assert.ErrorIs(t, err, ErrInvalidOperation, "call %d should be rejected", bad)
	}
}

func TestCallMustBeatTopBid(t *testing.T) {
	g := callingGame()
	g = mustCall(t, g, "p2", 15)

	_, _, err := Call(g, "p3", 15)
	assert.ErrorIs(t, err, ErrInvalidOperation, "a non-dealer cannot match")

	_, _, err = Call(g, "p3", 10)
	assert.ErrorIs(t, err, ErrInvalidOperation)

	g = mustCall(t, g, "p3", 20)
	assert.Equal(t, 20, g.Player("p3").Call)
}

func TestCallBunkerMayOnlyPass(t *testing.T) {
	g := callingGame()
	g.Player("p2").Score = -30

	_, _, err := Call(g, "p2", 15)
	assert.ErrorIs(t, err, ErrInvalidOperation)

	out := mustCall(t, g, "p2", 0)
	assert.Equal(t, "p3", out.CurrentRound.CurrentHand.CurrentPlayerID)
}

func TestCallSingleBidderWinsWhenDealerPasses(t *testing.T) {
	g := callingGame()
	g = mustCall(t, g, "p2", 0)
	g = mustCall(t, g, "p3", 15)
	g = mustCall(t, g, "p4", 0)
	g = mustCall(t, g, "p1", 0)

	assert.Equal(t, models.RoundCalled, g.CurrentRound.Status)
	assert.Equal(t, models.BidResolved, g.CurrentRound.BidPhase)
	assert.Equal(t, "p3", g.CurrentRound.GoerID)
	assert.Equal(t, "p3", g.CurrentRound.CurrentHand.CurrentPlayerID)
}

func TestCallDealerMayMatch(t *testing.T) {
	g := callingGame()
	g = mustCall(t, g, "p2", 0)
	g = mustCall(t, g, "p3", 15)
	g = mustCall(t, g, "p4", 0)
	g = mustCall(t, g, "p1", 15)

	// The dealer goes on it; the original bidder gets the last word.
	assert.Equal(t, models.BidDealerReview, g.CurrentRound.BidPhase)
	assert.Equal(t, "p3", g.CurrentRound.CurrentHand.CurrentPlayerID)

	// Conceding hands the contract to the dealer.
	out := mustCall(t, g, "p3", 0)
	assert.Equal(t, models.RoundCalled, out.CurrentRound.Status)
	assert.Equal(t, "p1", out.CurrentRound.GoerID)
}

func TestCallDealerReviewRaise(t *testing.T) {
	g := callingGame()
	g = mustCall(t, g, "p2", 0)
	g = mustCall(t, g, "p3", 15)
	g = mustCall(t, g, "p4", 0)
	g = mustCall(t, g, "p1", 15)

	// Matching back is not enough, the bidder must raise past the
	// dealer.
	_, _, err := Call(g, "p3", 15)
	assert.ErrorIs(t, err, ErrInvalidOperation)

	g = mustCall(t, g, "p3", 20)
	assert.Equal(t, models.BidAwaiting, g.CurrentRound.BidPhase)
	assert.Equal(t, "p1", g.CurrentRound.CurrentHand.CurrentPlayerID)

	// The dealer lets it go.
	g = mustCall(t, g, "p1", 0)
	assert.Equal(t, "p3", g.CurrentRound.GoerID)
}

func TestCallAllPassForcesRedeal(t *testing.T) {
	g := callingGame()
	for _, id := range []string{"p2", "p3", "p4", "p1"} {
		g = mustCall(t, g, id, 0)
	}

	assert.Equal(t, 2, g.CurrentRound.Number)
	assert.Equal(t, models.RoundCalling, g.CurrentRound.Status)
	assert.Equal(t, "p2", g.CurrentRound.DealerID, "deal rotates left")
	assert.Len(t, g.CompletedRounds, 1)
}

func TestCallTopBidTenForcesRedeal(t *testing.T) {
	g := callingGame()
	g = mustCall(t, g, "p2", 10)
	g = mustCall(t, g, "p3", 0)
	g = mustCall(t, g, "p4", 0)
	g = mustCall(t, g, "p1", 0)

	assert.Equal(t, 2, g.CurrentRound.Number, "ten is not worth playing for")
}

func TestCallJinkByDealerResolvesImmediately(t *testing.T) {
	g := callingGame()
	g = mustCall(t, g, "p2", 0)
	g = mustCall(t, g, "p3", 25)
	g = mustCall(t, g, "p4", 0)
	g = mustCall(t, g, "p1", JinkCall)

	assert.Equal(t, models.RoundCalled, g.CurrentRound.Status)
	assert.Equal(t, "p1", g.CurrentRound.GoerID)
}

func TestCallJinkByOtherGoesToDealer(t *testing.T) {
	g := callingGame()
	g = mustCall(t, g, "p2", JinkCall)

	// The dealer still gets a say, skipping the other seats.
	assert.Equal(t, models.RoundCalling, g.CurrentRound.Status)
	assert.Equal(t, "p1", g.CurrentRound.CurrentHand.CurrentPlayerID)

	// The dealer can take the jink for themselves or concede.
	out := mustCall(t, g, "p1", 0)
	assert.Equal(t, "p2", out.CurrentRound.GoerID)

	out = mustCall(t, g, "p1", JinkCall)
	assert.Equal(t, "p1", out.CurrentRound.GoerID)
}

func TestCallRejectedWhenNotCalling(t *testing.T) {
	g := callingGame()
	g.CurrentRound.Status = models.RoundPlaying
	_, _, err := Call(g, "p2", 15)
	assert.ErrorIs(t, err, ErrInvalidOperation)

	g = callingGame()
	g.Status = models.GameFinished
	_, _, err = Call(g, "p2", 15)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
