// internal/models/round.go
package models

import "time"

// RoundStatus is the round's phase. REVEAL is entered when the last
// card of a trick has been played and scoring awaits; it replaces the
// fixed post-trick delay with an explicit, observable state.
type RoundStatus string

const (
	RoundCalling  RoundStatus = "CALLING"
	RoundCalled   RoundStatus = "CALLED"
	RoundBuying   RoundStatus = "BUYING"
	RoundPlaying  RoundStatus = "PLAYING"
	RoundReveal   RoundStatus = "REVEAL"
	RoundFinished RoundStatus = "FINISHED"
)

// BidPhase is the bidding sub-state. DealerReview is entered when the
// dealer matches the top bid ("goes on it") and control returns to
// the original top bidder, who may raise or concede.
type BidPhase string

const (
	BidAwaiting     BidPhase = "AWAITING_BID"
	BidDealerReview BidPhase = "DEALER_REVIEW"
	BidResolved     BidPhase = "RESOLVED"
)

// PlayedCard pairs a card with the player who played it. A trick's
// plays are kept in play order.
type PlayedCard struct {
	PlayerID string `json:"playerId"`
	Card     Card   `json:"card"`
}

// Hand is one trick: the lead card, whose go it is, and the cards
// played so far in order.
type Hand struct {
	Timestamp       time.Time    `json:"timestamp"`
	LeadOut         Card         `json:"leadOut,omitempty"`
	CurrentPlayerID string       `json:"currentPlayerId"`
	PlayedCards     []PlayedCard `json:"playedCards"`
}

// CardFor returns the card played by the given player this trick.
func (h *Hand) CardFor(playerID string) (Card, bool) {
	for _, pc := range h.PlayedCards {
		if pc.PlayerID == playerID {
			return pc.Card, true
		}
	}
	return EmptyCard, false
}

func (h Hand) clone() Hand {
	out := h
	if h.PlayedCards != nil {
		out.PlayedCards = make([]PlayedCard, len(h.PlayedCards))
		copy(out.PlayedCards, h.PlayedCards)
	}
	return out
}

// Round is one bidding+play cycle. Suit and GoerID are set exactly
// once, when calling concludes, and never change afterwards.
type Round struct {
	Timestamp      time.Time   `json:"timestamp"`
	Number         int         `json:"number"`
	DealerID       string      `json:"dealerId"`
	GoerID         string      `json:"goerId,omitempty"`
	Suit           Suit        `json:"suit,omitempty"`
	Status         RoundStatus `json:"status"`
	BidPhase       BidPhase    `json:"bidPhase"`
	CurrentHand    Hand        `json:"currentHand"`
	CompletedHands []Hand      `json:"completedHands"`
}

// AllHands returns the completed tricks followed by the current one.
func (r *Round) AllHands() []Hand {
	hands := make([]Hand, 0, len(r.CompletedHands)+1)
	hands = append(hands, r.CompletedHands...)
	hands = append(hands, r.CurrentHand)
	return hands
}

// Clone deep-copies the round.
func (r Round) Clone() Round {
	out := r
	out.CurrentHand = r.CurrentHand.clone()
	if r.CompletedHands != nil {
		out.CompletedHands = make([]Hand, len(r.CompletedHands))
		for i, h := range r.CompletedHands {
			out.CompletedHands[i] = h.clone()
		}
	}
	return out
}
