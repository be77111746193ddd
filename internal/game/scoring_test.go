// internal/game/scoring_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraigk/cards110/internal/models"
)

func trick(lead models.Card, plays ...models.PlayedCard) models.Hand {
	return models.Hand{LeadOut: lead, PlayedCards: plays}
}

func play(playerID string, card models.Card) models.PlayedCard {
	return models.PlayedCard{PlayerID: playerID, Card: card}
}

func TestHandWinnerTrumpBeatsCold(t *testing.T) {
	players := []models.Player{activeSeat("p1", 1), activeSeat("p2", 2)}
	hand := trick(models.KingSpades,
		play("p1", models.KingSpades),
		play("p2", models.TwoHearts),
	)

	winner, card, err := HandWinner(hand, models.SuitHearts, players)
	require.NoError(t, err)
	assert.Equal(t, "p2", winner.ID)
	assert.Equal(t, models.TwoHearts, card)
}

func TestHandWinnerColdFollowsLeadSuit(t *testing.T) {
	players := []models.Player{activeSeat("p1", 1), activeSeat("p2", 2), activeSeat("p3", 3)}
	hand := trick(models.QueenSpades,
		play("p1", models.QueenSpades),
		play("p2", models.ThreeSpades),
		play("p3", models.AceDiamonds), // off-suit discard never wins
	)

	winner, _, err := HandWinner(hand, models.SuitHearts, players)
	require.NoError(t, err)
	assert.Equal(t, "p1", winner.ID)
}

func TestHandWinnerBlackSuitsRankLowToHighCold(t *testing.T) {
	players := []models.Player{activeSeat("p1", 1), activeSeat("p2", 2)}
	hand := trick(models.TenClubs,
		play("p1", models.TenClubs),
		play("p2", models.TwoClubs),
	)

	winner, _, err := HandWinner(hand, models.SuitHearts, players)
	require.NoError(t, err)
	assert.Equal(t, "p2", winner.ID, "two of clubs beats ten of clubs off trump")
}

func TestHandWinnerWildCards(t *testing.T) {
	players := []models.Player{activeSeat("p1", 1), activeSeat("p2", 2)}

	// Joker outranks the ace of hearts.
	hand := trick(models.AceHearts,
		play("p1", models.AceHearts),
		play("p2", models.Joker),
	)
	winner, _, err := HandWinner(hand, models.SuitClubs, players)
	require.NoError(t, err)
	assert.Equal(t, "p2", winner.ID)

	// But the five of trumps outranks everything.
	hand = trick(models.Joker,
		play("p1", models.Joker),
		play("p2", models.FiveClubs),
	)
	winner, _, err = HandWinner(hand, models.SuitClubs, players)
	require.NoError(t, err)
	assert.Equal(t, "p2", winner.ID)
}

func TestIsFollowingTrumpLead(t *testing.T) {
	trump := models.SuitHearts
	lead := trick(models.QueenHearts, play("p1", models.QueenHearts))

	// Holding a plain trump, the player must play it.
	hand := []models.Card{models.TwoHearts, models.KingSpades}
	assert.True(t, isFollowing(models.TwoHearts, hand, lead, trump))
	assert.False(t, isFollowing(models.KingSpades, hand, lead, trump))

	// Holding only a renegable trump above the lead, the player may
	// keep it back.
	hand = []models.Card{models.FiveHearts, models.KingSpades}
	assert.True(t, isFollowing(models.KingSpades, hand, lead, trump))

	// A higher trump lead forces the renegable card out.
	bigLead := trick(models.FiveHearts, play("p1", models.FiveHearts))
	hand = []models.Card{models.JackHearts, models.KingSpades}
	assert.False(t, isFollowing(models.KingSpades, hand, bigLead, trump))
	assert.True(t, isFollowing(models.JackHearts, hand, bigLead, trump))
}

func TestIsFollowingPlainLead(t *testing.T) {
	trump := models.SuitHearts
	lead := trick(models.QueenSpades, play("p1", models.QueenSpades))

	// Must follow the led suit when held, but trumping is always
	// allowed.
	hand := []models.Card{models.ThreeSpades, models.TwoHearts, models.KingClubs}
	assert.True(t, isFollowing(models.ThreeSpades, hand, lead, trump))
	assert.True(t, isFollowing(models.TwoHearts, hand, lead, trump))
	assert.False(t, isFollowing(models.KingClubs, hand, lead, trump))

	// Void in the led suit, anything goes.
	hand = []models.Card{models.KingClubs, models.FourDiamonds}
	assert.True(t, isFollowing(models.FourDiamonds, hand, lead, trump))
}

// fiveTrickRound builds a finished round where p1's team takes three
// tricks (including the best card) and p2's team takes two.
func fiveTrickRound(trump models.Suit) models.Round {
	return models.Round{
		Number: 1,
		Suit:   trump,
		Status: models.RoundReveal,
		CompletedHands: []models.Hand{
			trick(models.FiveHearts, play("p1", models.FiveHearts), play("p2", models.TwoHearts)),
			trick(models.JackHearts, play("p1", models.JackHearts), play("p2", models.ThreeHearts)),
			trick(models.AceHearts, play("p1", models.AceHearts), play("p2", models.FourHearts)),
			trick(models.TwoSpades, play("p1", models.TwoSpades), play("p2", models.AceSpades)),
		},
		CurrentHand: trick(models.KingClubs, play("p2", models.KingClubs), play("p1", models.ThreeClubs)),
	}
}

func TestCalculateScoresForRound(t *testing.T) {
	players := []models.Player{activeSeat("p1", 1), activeSeat("p2", 2)}
	round := fiveTrickRound(models.SuitHearts)

	scores, err := CalculateScoresForRound(round, players)
	require.NoError(t, err)

	// p1 took three tricks, one holding the five of trumps.
	assert.Equal(t, 20, scores["p1"])
	assert.Equal(t, 10, scores["p2"])

	total := 0
	for _, s := range scores {
		total += s
	}
	assert.Equal(t, 5*TrickPoints+BestCardBonus, total)
}

func TestApplyScoresContractMade(t *testing.T) {
	g := models.Game{
		Players:      []models.Player{activeSeat("p1", 1), activeSeat("p2", 2)},
		CurrentRound: models.Round{GoerID: "p1"},
	}
	g.Player("p1").Call = 20

	err := applyScoresForRound(&g, map[string]int{"p1": 20, "p2": 10})
	require.NoError(t, err)
	assert.Equal(t, 20, g.Player("p1").Score)
	assert.Equal(t, 10, g.Player("p2").Score)
	assert.Zero(t, g.Player("p1").Rings)
}

func TestApplyScoresContractMissed(t *testing.T) {
	g := models.Game{
		Players:      []models.Player{activeSeat("p1", 1), activeSeat("p2", 2)},
		CurrentRound: models.Round{GoerID: "p1"},
	}
	g.Player("p1").Call = 25

	err := applyScoresForRound(&g, map[string]int{"p1": 20, "p2": 10})
	require.NoError(t, err)
	assert.Equal(t, -25, g.Player("p1").Score, "failed contract loses the bid, tricks don't count")
	assert.Equal(t, 1, g.Player("p1").Rings)
	assert.Equal(t, 10, g.Player("p2").Score)
}

func TestApplyScoresJinkDoubles(t *testing.T) {
	g := models.Game{
		Players:      []models.Player{activeSeat("p1", 1), activeSeat("p2", 2)},
		CurrentRound: models.Round{GoerID: "p1"},
	}
	g.Player("p1").Call = JinkCall

	err := applyScoresForRound(&g, map[string]int{"p1": 30})
	require.NoError(t, err)
	assert.Equal(t, 60, g.Player("p1").Score)
}

func TestApplyScoresTeamShared(t *testing.T) {
	p1 := activeSeat("p1", 1)
	p2 := activeSeat("p2", 2)
	p3 := activeSeat("p3", 3)
	p4 := activeSeat("p4", 4)
	p1.TeamID, p3.TeamID = "teamA", "teamA"
	p2.TeamID, p4.TeamID = "teamB", "teamB"

	g := models.Game{
		Players:      []models.Player{p1, p2, p3, p4},
		CurrentRound: models.Round{GoerID: "p2"},
	}
	g.Player("p2").Call = 15

	err := applyScoresForRound(&g, map[string]int{"teamB": 10, "teamA": 20})
	require.NoError(t, err)

	// teamB missed: every member takes the penalty and a ring.
	assert.Equal(t, -15, g.Player("p2").Score)
	assert.Equal(t, -15, g.Player("p4").Score)
	assert.Equal(t, 1, g.Player("p2").Rings)
	assert.Equal(t, 1, g.Player("p4").Rings)
	assert.Equal(t, 20, g.Player("p1").Score)
	assert.Equal(t, 20, g.Player("p3").Score)
}
