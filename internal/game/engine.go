// internal/game/engine.go
//
// The engine is a set of value-returning transforms over the Game
// aggregate: each operation validates fully against the input
// snapshot, then clones it, mutates the clone and returns it together
// with an event descriptor. A rejected operation never leaves partial
// state; committing the returned snapshot is the session's job.
package game

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/padraigk/cards110/internal/deck"
	"github.com/padraigk/cards110/internal/models"
)

// ValidCalls are the accepted bid values. 0 is a pass and 30 is the
// jink.
var ValidCalls = []int{0, 10, 15, 20, 25, 30}

// BunkerScore is the threshold at or below which a player may only
// pass ("in the bunker").
const BunkerScore = -30

// HandSize is the number of cards each seat holds after dealing and
// buying.
const HandSize = 5

// TricksPerRound is the number of tricks in a round.
const TricksPerRound = 5

var log = logrus.StandardLogger()

// Seed identifies one human player joining a new game.
type Seed struct {
	ID          string
	DisplayName string
}

// NewGame builds a fresh aggregate: seats shuffled, teams assigned
// (three fixed pairs for six players, everyone for themselves
// otherwise), round one in the calling phase with the first seat
// dealing.
func NewGame(name string, seeds []Seed, adminID string) (models.Game, error) {
	if len(seeds) < 2 || len(seeds) > 6 {
		return models.Game{}, fmt.Errorf("%w: need 2-6 players, got %d", ErrInvalidOperation, len(seeds))
	}

	shuffled := make([]Seed, len(seeds))
	copy(shuffled, seeds)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	players := make([]models.Player, len(shuffled))
	teamIDs := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}
	for i, s := range shuffled {
		teamID := s.ID
		if len(shuffled) == 6 {
			// Partners sit across the table: seats i and i+3.
			teamID = teamIDs[i%3]
		}
		players[i] = models.Player{
			ID:          s.ID,
			DisplayName: s.DisplayName,
			Seat:        models.SeatActive,
			SeatNumber:  i + 1,
			TeamID:      teamID,
		}
	}

	now := time.Now()
	dealerID := players[0].ID
	first, err := NextPlayer(players, dealerID)
	if err != nil {
		return models.Game{}, err
	}

	g := models.Game{
		ID:        uuid.New(),
		Timestamp: now,
		Name:      name,
		Status:    models.GameActive,
		AdminID:   adminID,
		Players:   players,
		CurrentRound: models.Round{
			Timestamp: now,
			Number:    1,
			DealerID:  dealerID,
			Status:    models.RoundCalling,
			BidPhase:  models.BidAwaiting,
			CurrentHand: models.Hand{
				Timestamp:       now,
				CurrentPlayerID: first.ID,
			},
		},
	}
	log.WithFields(logrus.Fields{"game": g.ID, "players": len(players)}).Info("game created")
	return g, nil
}

// Deal shuffles a fresh deck and deals five cards to every seat
// including the dummy. Only the dealer may deal, and only once per
// round.
func Deal(g models.Game, playerID string) (models.Game, deck.Deck, Event, error) {
	if g.Status != models.GameActive {
		return g, deck.Deck{}, Event{}, fmt.Errorf("%w: game is %s", ErrInvalidStatus, g.Status)
	}
	if g.CurrentRound.Status != models.RoundCalling {
		return g, deck.Deck{}, Event{}, fmt.Errorf("%w: can only deal in the calling phase", ErrInvalidOperation)
	}
	if g.CurrentRound.DealerID != playerID {
		return g, deck.Deck{}, Event{}, fmt.Errorf("%w: player %s is not the dealer", ErrInvalidOperation, playerID)
	}
	for i := range g.Players {
		if len(g.Players[i].Cards) > 0 {
			return g, deck.Deck{}, Event{}, fmt.Errorf("%w: round %d is already dealt", ErrInvalidOperation, g.CurrentRound.Number)
		}
	}

	out := g.Clone()
	ordered, err := orderPlayersAtStartOfGame(playerID, out.Players)
	if err != nil {
		return g, deck.Deck{}, Event{}, err
	}
	out.Players = ordered

	d := deck.New(out.ID)
	for round := 0; round < HandSize; round++ {
		for i := range out.Players {
			card, err := d.Pop()
			if err != nil {
				return g, deck.Deck{}, Event{}, err
			}
			out.Players[i].Cards = append(out.Players[i].Cards, card)
		}
	}

	first, err := NextPlayer(out.Players, playerID)
	if err != nil {
		return g, deck.Deck{}, Event{}, err
	}
	out.CurrentRound.CurrentHand.CurrentPlayerID = first.ID

	log.WithFields(logrus.Fields{"game": out.ID, "round": out.CurrentRound.Number}).Info("round dealt")
	return out, d, Event{Type: EventDeal}, nil
}

// Call processes one bid or pass in the calling phase and advances
// the bidding sub-state machine.
func Call(g models.Game, playerID string, call int) (models.Game, Event, error) {
	if !validCall(call) {
		return g, Event{}, fmt.Errorf("%w: call value %d is invalid", ErrInvalidOperation, call)
	}
	if g.Status != models.GameActive {
		return g, Event{}, fmt.Errorf("%w: game is %s", ErrInvalidStatus, g.Status)
	}
	round := g.CurrentRound
	if round.Status != models.RoundCalling {
		return g, Event{}, fmt.Errorf("%w: can only call in the calling phase", ErrInvalidOperation)
	}
	if round.CurrentHand.CurrentPlayerID != playerID {
		return g, Event{}, fmt.Errorf("%w: it's not your go", ErrInvalidOperation)
	}
	me := g.Player(playerID)
	if me == nil {
		return g, Event{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}
	if me.Score <= BunkerScore && call != 0 {
		return g, Event{}, fmt.Errorf("%w: you are in the bunker and may only pass", ErrInvalidOperation)
	}

	isDealer := playerID == round.DealerID
	if round.BidPhase == models.BidDealerReview {
		// The dealer has matched this player's top bid; they may only
		// concede or raise past it.
		if call != 0 && call <= me.Call {
			return g, Event{}, fmt.Errorf("%w: you must raise past %d or pass", ErrInvalidOperation, me.Call)
		}
	} else if call != 0 {
		top := g.TopCaller()
		if top == nil {
			return g, Event{}, fmt.Errorf("%w: no top caller", ErrCorruptState)
		}
		if isDealer && call >= top.Call {
			// The dealer may match the top bid ("go on it").
		} else if call > top.Call {
			// A plain raise.
		} else {
			return g, Event{}, fmt.Errorf("%w: call must be higher than %d", ErrInvalidOperation, top.Call)
		}
	}

	out := g.Clone()
	outRound := &out.CurrentRound
	outMe := out.Player(playerID)
	outMe.Call = call

	ev := Event{Type: EventCall}
	if call == 0 {
		ev.Type = EventPass
	}

	switch {
	case call == JinkCall:
		if isDealer {
			// The dealer taking the jink settles it immediately.
			log.WithField("game", out.ID).Info("jink called by the dealer")
			resolveBidding(outRound, playerID)
		} else {
			// Anyone else's jink still goes to the dealer for a final
			// say.
			outRound.CurrentHand.CurrentPlayerID = outRound.DealerID
			outRound.BidPhase = models.BidAwaiting
		}

	case isDealer && outRound.BidPhase != models.BidDealerReview:
		// The dealer has acted; everyone has now called.
		top := out.TopCaller()
		switch {
		case top.Call == 0:
			// Nobody wanted it, redeal.
			log.WithField("game", out.ID).Info("all passed, redealing")
			if err := completeRound(&out); err != nil {
				return g, Event{}, err
			}
			ev = Event{Type: EventRoundCompleted}
		case top.Call == outMe.Call && top.ID != outMe.ID:
			// The dealer went on the bid; back to the top bidder.
			outRound.CurrentHand.CurrentPlayerID = top.ID
			outRound.BidPhase = models.BidDealerReview
		case top.Call == 10:
			// Ten isn't worth playing for; redeal.
			log.WithField("game", out.ID).Info("can't go on ten, redealing")
			if err := completeRound(&out); err != nil {
				return g, Event{}, err
			}
			ev = Event{Type: EventRoundCompleted}
		default:
			resolveBidding(outRound, top.ID)
		}

	case outRound.BidPhase == models.BidDealerReview:
		if call == 0 {
			// The top bidder conceded; the dealer takes it.
			resolveBidding(outRound, outRound.DealerID)
		} else {
			// Raised past the dealer; the dealer gets another look.
			outRound.CurrentHand.CurrentPlayerID = outRound.DealerID
			outRound.BidPhase = models.BidAwaiting
		}

	default:
		next, err := NextPlayer(out.Players, playerID)
		if err != nil {
			return g, Event{}, err
		}
		outRound.CurrentHand.CurrentPlayerID = next.ID
	}

	return out, ev, nil
}

// resolveBidding settles the calling phase with goerID as the winning
// bidder. GoerID is set exactly once per round.
func resolveBidding(round *models.Round, goerID string) {
	round.Status = models.RoundCalled
	round.BidPhase = models.BidResolved
	round.GoerID = goerID
	round.CurrentHand.CurrentPlayerID = goerID
}

// ChooseFromDummy lets the goer assemble a hand from their own cards
// and the dummy's, fixes the trump suit for the round and removes the
// dummy seat.
func ChooseFromDummy(g models.Game, playerID string, keep []models.Card, trump models.Suit) (models.Game, Event, error) {
	if g.Status != models.GameActive {
		return g, Event{}, fmt.Errorf("%w: game is %s", ErrInvalidStatus, g.Status)
	}
	round := g.CurrentRound
	if round.Status != models.RoundCalled {
		return g, Event{}, fmt.Errorf("%w: can only choose from the dummy in the called phase", ErrInvalidOperation)
	}
	if round.GoerID != playerID || round.CurrentHand.CurrentPlayerID != playerID {
		return g, Event{}, fmt.Errorf("%w: player %s is not the goer and current player", ErrInvalidOperation, playerID)
	}
	if !validTrump(trump) {
		return g, Event{}, fmt.Errorf("%w: %s is not a valid trump suit", ErrInvalidOperation, trump)
	}
	if err := validateBuyCount(len(keep), g.ActivePlayerCount()); err != nil {
		return g, Event{}, err
	}
	if hasDuplicates(keep) {
		return g, Event{}, fmt.Errorf("%w: duplicate cards selected", ErrInvalidOperation)
	}

	me := g.Player(playerID)
	if me == nil {
		return g, Event{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}
	dummy := g.Dummy()
	if dummy == nil {
		return g, Event{}, fmt.Errorf("%w: dummy seat", ErrNotFound)
	}
	for _, c := range keep {
		if !me.HasCard(c) && !dummy.HasCard(c) {
			return g, Event{}, fmt.Errorf("%w: you can't select card %s", ErrInvalidOperation, c)
		}
	}

	out := g.Clone()
	out.Player(playerID).Cards = append([]models.Card(nil), keep...)

	players := make([]models.Player, 0, len(out.Players)-1)
	for i := range out.Players {
		if !out.Players[i].IsDummy() {
			players = append(players, out.Players[i])
		}
	}
	out.Players = players

	out.CurrentRound.Suit = trump
	out.CurrentRound.Status = models.RoundBuying
	first, err := NextPlayer(out.Players, out.CurrentRound.DealerID)
	if err != nil {
		return g, Event{}, err
	}
	out.CurrentRound.CurrentHand.CurrentPlayerID = first.ID

	log.WithFields(logrus.Fields{"game": out.ID, "trump": trump}).Info("dummy chosen, trumps set")
	return out, Event{Type: EventChooseFromDummy}, nil
}

// BuyCards lets the current buyer discard down to keep and draw back
// up to a full hand. When the dealer finishes buying, play begins
// with the player after the goer.
func BuyCards(g models.Game, d deck.Deck, playerID string, keep []models.Card) (models.Game, deck.Deck, Event, error) {
	if g.Status != models.GameActive {
		return g, d, Event{}, fmt.Errorf("%w: game is %s", ErrInvalidStatus, g.Status)
	}
	round := g.CurrentRound
	if round.Status != models.RoundBuying {
		return g, d, Event{}, fmt.Errorf("%w: can only buy in the buying phase", ErrInvalidOperation)
	}
	if round.CurrentHand.CurrentPlayerID != playerID {
		return g, d, Event{}, fmt.Errorf("%w: it's not your go", ErrInvalidOperation)
	}
	if err := validateBuyCount(len(keep), g.ActivePlayerCount()); err != nil {
		return g, d, Event{}, err
	}
	if hasDuplicates(keep) {
		return g, d, Event{}, fmt.Errorf("%w: duplicate cards selected", ErrInvalidOperation)
	}
	me := g.Player(playerID)
	if me == nil {
		return g, d, Event{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}
	for _, c := range keep {
		if !me.HasCard(c) {
			return g, d, Event{}, fmt.Errorf("%w: you can't select card %s", ErrInvalidOperation, c)
		}
	}

	out := g.Clone()
	outDeck := d.Clone()
	cards := append([]models.Card(nil), keep...)
	bought := HandSize - len(keep)
	for i := 0; i < bought; i++ {
		card, err := outDeck.Pop()
		if err != nil {
			return g, d, Event{}, err
		}
		cards = append(cards, card)
	}
	outMe := out.Player(playerID)
	outMe.Cards = cards
	outMe.CardsBought = &bought

	if round.DealerID == playerID {
		// The dealer buys last; trick play starts with the player
		// after the goer.
		out.CurrentRound.Status = models.RoundPlaying
		first, err := NextPlayer(out.Players, out.CurrentRound.GoerID)
		if err != nil {
			return g, d, Event{}, err
		}
		out.CurrentRound.CurrentHand.CurrentPlayerID = first.ID
	} else {
		next, err := NextPlayer(out.Players, playerID)
		if err != nil {
			return g, d, Event{}, err
		}
		out.CurrentRound.CurrentHand.CurrentPlayerID = next.ID
	}

	detail := fmt.Sprintf("%s bought %d cards", outMe.DisplayName, bought)
	return out, outDeck, Event{Type: EventBuyCards, Detail: detail}, nil
}

// PlayCard validates and applies one card play. Completing a trick
// moves the round into the REVEAL phase; FinishReveal settles it.
func PlayCard(g models.Game, playerID string, card models.Card) (models.Game, Event, error) {
	if g.Status != models.GameActive {
		return g, Event{}, fmt.Errorf("%w: game is %s", ErrInvalidStatus, g.Status)
	}
	round := g.CurrentRound
	if round.Status != models.RoundPlaying {
		return g, Event{}, fmt.Errorf("%w: can only play in the playing phase", ErrInvalidOperation)
	}
	if round.Suit == "" || round.Suit == models.SuitEmpty {
		return g, Event{}, fmt.Errorf("%w: no trump suit set in the playing phase", ErrCorruptState)
	}
	if round.CurrentHand.CurrentPlayerID != playerID {
		return g, Event{}, fmt.Errorf("%w: it's not your go", ErrInvalidOperation)
	}
	me := g.Player(playerID)
	if me == nil {
		return g, Event{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}
	if len(me.Cards) == 0 {
		return g, Event{}, fmt.Errorf("%w: you have no cards left", ErrInvalidOperation)
	}
	if !card.Valid() || !me.HasCard(card) {
		return g, Event{}, fmt.Errorf("%w: you can't play card %s", ErrInvalidOperation, card)
	}
	if round.CurrentHand.LeadOut != "" && !isFollowing(card, me.Cards, round.CurrentHand, round.Suit) {
		return g, Event{}, fmt.Errorf("%w: must follow suit", ErrInvalidOperation)
	}

	out := g.Clone()
	outHand := &out.CurrentRound.CurrentHand
	if outHand.LeadOut == "" {
		outHand.LeadOut = card
	}

	outMe := out.Player(playerID)
	remaining := outMe.Cards[:0]
	for _, c := range outMe.Cards {
		if c != card {
			remaining = append(remaining, c)
		}
	}
	outMe.Cards = remaining
	outHand.PlayedCards = append(outHand.PlayedCards, models.PlayedCard{PlayerID: playerID, Card: card})

	if len(outHand.PlayedCards) < out.ActivePlayerCount() {
		next, err := NextPlayer(out.Players, playerID)
		if err != nil {
			return g, Event{}, err
		}
		outHand.CurrentPlayerID = next.ID
	} else {
		// Trick complete: hold in the reveal phase so clients can see
		// the final card before scoring moves it away.
		out.CurrentRound.Status = models.RoundReveal
		outHand.CurrentPlayerID = ""
	}

	return out, Event{Type: EventCardPlayed}, nil
}

// FinishReveal settles a completed trick: mid-round it installs the
// winner as next leader; on the round's last trick it applies scores
// and either ends the game or rolls into the next round.
func FinishReveal(g models.Game) (models.Game, Event, error) {
	if g.Status != models.GameActive {
		return g, Event{}, fmt.Errorf("%w: game is %s", ErrInvalidStatus, g.Status)
	}
	round := g.CurrentRound
	if round.Status != models.RoundReveal {
		return g, Event{}, fmt.Errorf("%w: round is not in the reveal phase", ErrInvalidOperation)
	}
	if len(round.CurrentHand.PlayedCards) != g.ActivePlayerCount() {
		return g, Event{}, fmt.Errorf("%w: reveal with incomplete trick", ErrCorruptState)
	}

	out := g.Clone()

	if len(out.CurrentRound.CompletedHands) < TricksPerRound-1 {
		if err := completeHand(&out); err != nil {
			return g, Event{}, err
		}
		return out, Event{Type: EventHandCompleted}, nil
	}

	// Final trick of the round: score it.
	scores, err := CalculateScoresForRound(out.CurrentRound, out.Players)
	if err != nil {
		return g, Event{}, err
	}
	if err := applyScoresForRound(&out, scores); err != nil {
		return g, Event{}, err
	}

	if IsGameOver(out.Players) {
		out.Status = models.GameFinished
		out.CurrentRound.Status = models.RoundFinished
		if err := applyWinners(&out); err != nil {
			return g, Event{}, err
		}
		log.WithField("game", out.ID).Info("game over")
		return out, Event{Type: EventGameOver}, nil
	}

	if err := completeRound(&out); err != nil {
		return g, Event{}, err
	}
	return out, Event{Type: EventRoundCompleted}, nil
}

// completeHand archives the current trick, seats the winner as the
// next leader and reorders play from their position.
func completeHand(g *models.Game) error {
	round := &g.CurrentRound
	winner, _, err := HandWinner(round.CurrentHand, round.Suit, g.Players)
	if err != nil {
		return err
	}

	round.CompletedHands = append(round.CompletedHands, round.CurrentHand)
	round.CurrentHand = models.Hand{
		Timestamp:       time.Now(),
		CurrentPlayerID: winner.ID,
	}
	round.Status = models.RoundPlaying

	ordered, err := orderPlayers(winner.ID, g.Players)
	if err != nil {
		return err
	}
	g.Players = ordered
	return nil
}

// completeRound archives the current round and opens the next one
// with the next dealer. Also used to abandon an uncalled round for a
// redeal.
func completeRound(g *models.Game) error {
	g.CompletedRounds = append(g.CompletedRounds, g.CurrentRound)

	nextDealer, err := NextPlayer(g.Players, g.CurrentRound.DealerID)
	if err != nil {
		return err
	}
	first, err := NextPlayer(g.Players, nextDealer.ID)
	if err != nil {
		return err
	}

	now := time.Now()
	g.CurrentRound = models.Round{
		Timestamp: now,
		Number:    g.CurrentRound.Number + 1,
		DealerID:  nextDealer.ID,
		Status:    models.RoundCalling,
		BidPhase:  models.BidAwaiting,
		CurrentHand: models.Hand{
			Timestamp:       now,
			CurrentPlayerID: first.ID,
		},
	}

	for i := range g.Players {
		g.Players[i].Cards = nil
		g.Players[i].Call = 0
		g.Players[i].CardsBought = nil
	}
	return nil
}

// Replay completes the current game and builds a fresh one with the
// same table: seats reshuffled, teams reassigned, scores zeroed. Only
// the current dealer may trigger it.
func Replay(g models.Game, playerID string) (models.Game, models.Game, Event, error) {
	if g.CurrentRound.DealerID != playerID {
		return g, models.Game{}, Event{}, fmt.Errorf("%w: player %s is not the dealer", ErrInvalidOperation, playerID)
	}

	old := g.Clone()
	old.Status = models.GameCompleted

	seeds := make([]Seed, 0, len(g.Players))
	for i := range g.Players {
		if g.Players[i].IsDummy() {
			continue
		}
		seeds = append(seeds, Seed{ID: g.Players[i].ID, DisplayName: g.Players[i].DisplayName})
	}
	next, err := NewGame(g.Name, seeds, g.AdminID)
	if err != nil {
		return g, models.Game{}, Event{}, err
	}

	log.WithFields(logrus.Fields{"old": old.ID, "new": next.ID}).Info("game replayed")
	return old, next, Event{Type: EventReplay}, nil
}

// Finish acknowledges a finished game, marking it completed.
func Finish(g models.Game) (models.Game, error) {
	if g.Status != models.GameFinished {
		return g, fmt.Errorf("%w: can only complete a game in the FINISHED state, not %s", ErrInvalidStatus, g.Status)
	}
	out := g.Clone()
	out.Status = models.GameCompleted
	return out, nil
}

// Cancel abandons a game entirely.
func Cancel(g models.Game) (models.Game, error) {
	if g.Status == models.GameCancelled {
		return g, fmt.Errorf("%w: game is already cancelled", ErrInvalidStatus)
	}
	out := g.Clone()
	out.Status = models.GameCancelled
	return out, nil
}

func validCall(call int) bool {
	for _, v := range ValidCalls {
		if v == call {
			return true
		}
	}
	return false
}

func validTrump(s models.Suit) bool {
	for _, t := range models.TrumpSuits {
		if t == s {
			return true
		}
	}
	return false
}

// validateBuyCount enforces the minimum number of cards a player must
// keep when buying, which depends on the table size, and the
// five-card maximum.
func validateBuyCount(selected, numPlayers int) error {
	mustKeep := 0
	switch {
	case numPlayers <= 4:
		mustKeep = 0
	case numPlayers == 5:
		mustKeep = 1
	default:
		mustKeep = 2
	}
	if selected < mustKeep {
		return fmt.Errorf("%w: you must keep at least %d cards", ErrInvalidOperation, mustKeep)
	}
	if selected > HandSize {
		return fmt.Errorf("%w: you can only keep %d cards", ErrInvalidOperation, HandSize)
	}
	return nil
}

func hasDuplicates(cards []models.Card) bool {
	seen := map[models.Card]struct{}{}
	for _, c := range cards {
		if _, ok := seen[c]; ok {
			return true
		}
		seen[c] = struct{}{}
	}
	return false
}
