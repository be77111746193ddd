// internal/game/scoring.go
package game

import (
	"fmt"

	"github.com/padraigk/cards110/internal/models"
)

// TrickPoints is what winning a trick is worth; the round's best
// trump card earns its trick BestCardBonus on top.
const (
	TrickPoints   = 5
	BestCardBonus = 5
)

// JinkCall is the maximum bid; making it doubles the round's points.
const JinkCall = 30

// HandWinner determines who took the trick. If no trump or wild card
// was played the lead card's suit is the active suit and cold ranking
// applies; otherwise the highest trump wins.
func HandWinner(hand models.Hand, trump models.Suit, players []models.Player) (models.Player, models.Card, error) {
	if len(hand.PlayedCards) == 0 {
		return models.Player{}, models.EmptyCard, fmt.Errorf("%w: no cards played in hand", ErrCorruptState)
	}

	trumped := false
	for _, pc := range hand.PlayedCards {
		if pc.Card.IsTrump(trump) {
			trumped = true
			break
		}
	}

	var winner models.PlayedCard
	best := -1
	if trumped {
		for _, pc := range hand.PlayedCards {
			if pc.Card.IsTrump(trump) && pc.Card.Rank() > best {
				winner, best = pc, pc.Card.Rank()
			}
		}
	} else {
		lead := hand.LeadOut.Suit()
		for _, pc := range hand.PlayedCards {
			if pc.Card.Suit() == lead && pc.Card.ColdRank() > best {
				winner, best = pc, pc.Card.ColdRank()
			}
		}
	}
	if best == -1 {
		return models.Player{}, models.EmptyCard, fmt.Errorf("%w: no winning card in hand", ErrCorruptState)
	}

	for i := range players {
		if players[i].ID == winner.PlayerID {
			return players[i], winner.Card, nil
		}
	}
	return models.Player{}, models.EmptyCard, fmt.Errorf("%w: winning player %s", ErrNotFound, winner.PlayerID)
}

// bestCardPlayed returns the highest trump card played anywhere in
// the round. There is always at least one: the goer's team must lead
// trumps eventually, and the wild cards are always trumps.
func bestCardPlayed(round models.Round) models.Card {
	best := models.EmptyCard
	for _, hand := range round.AllHands() {
		for _, pc := range hand.PlayedCards {
			if pc.Card.IsTrump(round.Suit) && pc.Card.Rank() > best.Rank() {
				best = pc.Card
			}
		}
	}
	return best
}

// CalculateScoresForRound totals each team's points for the round: 5
// per trick won, plus 5 for the trick containing the round's best
// trump card. Contract adjustment happens in applyScoresForRound.
func CalculateScoresForRound(round models.Round, players []models.Player) (map[string]int, error) {
	best := bestCardPlayed(round)
	scores := map[string]int{}
	for _, hand := range round.AllHands() {
		winner, card, err := HandWinner(hand, round.Suit, players)
		if err != nil {
			return nil, err
		}
		points := TrickPoints
		if card == best {
			points += BestCardBonus
		}
		scores[winner.TeamID] += points
	}
	return scores, nil
}

// applyScoresForRound applies the accumulated round scores to the
// players' running totals. The goer's team must make its bid: if it
// does, it banks its full accumulation (doubled on a jink); if not,
// the bid is subtracted and the team takes a ring. Other teams simply
// bank what they took.
func applyScoresForRound(g *models.Game, scores map[string]int) error {
	if g.CurrentRound.GoerID == "" {
		return fmt.Errorf("%w: no goer set for round %d", ErrCorruptState, g.CurrentRound.Number)
	}
	goer := g.Player(g.CurrentRound.GoerID)
	if goer == nil {
		return fmt.Errorf("%w: goer %s", ErrNotFound, g.CurrentRound.GoerID)
	}

	goerScore := scores[goer.TeamID]
	if goerScore >= goer.Call {
		points := goerScore
		if goer.Call == JinkCall {
			points *= 2
		}
		updateTeamScore(g.Players, goer.TeamID, points)
	} else {
		updateTeamScore(g.Players, goer.TeamID, -goer.Call)
	}
	for teamID, points := range scores {
		if teamID == goer.TeamID {
			continue
		}
		updateTeamScore(g.Players, teamID, points)
	}
	return nil
}

// updateTeamScore adds points to every member of the team. A negative
// delta is a failed contract and counts a ring against each member.
func updateTeamScore(players []models.Player, teamID string, points int) {
	for i := range players {
		if players[i].TeamID == teamID {
			players[i].Score += points
			if points < 0 {
				players[i].Rings++
			}
		}
	}
}

// isFollowing reports whether playing card is legal given the
// player's full hand and the trick so far. When trumps are led a
// player holding trumps must play one, unless every trump they hold
// is renegable and outranks the lead (the renege exception). When
// a plain suit is led, trumps are always legal and the led suit must
// otherwise be followed if held.
func isFollowing(card models.Card, hand []models.Card, trick models.Hand, trump models.Suit) bool {
	if trick.LeadOut.IsTrump(trump) {
		var trumps []models.Card
		for _, c := range hand {
			if c.IsTrump(trump) {
				trumps = append(trumps, c)
			}
		}
		return len(trumps) == 0 || card.IsTrump(trump) || canRenege(trick.LeadOut, trumps)
	}

	holdsLeadSuit := false
	for _, c := range hand {
		if c.Suit() == trick.LeadOut.Suit() {
			holdsLeadSuit = true
			break
		}
	}
	return !holdsLeadSuit || card.IsTrump(trump) || card.Suit() == trick.LeadOut.Suit()
}

// canRenege reports whether every held trump may be legally withheld
// from the led trump: all must be renegable and strictly outrank the
// lead card. A renegable trump is forced out by any higher trump
// lead.
func canRenege(leadOut models.Card, trumps []models.Card) bool {
	for _, c := range trumps {
		if !c.Renegable() || c.Rank() <= leadOut.Rank() {
			return false
		}
	}
	return true
}
