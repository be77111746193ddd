// internal/game/session.go
package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/padraigk/cards110/internal/deck"
	"github.com/padraigk/cards110/internal/models"
)

// DefaultRevealDelay is how long a completed trick stays on the table
// before it is scored and cleared.
const DefaultRevealDelay = 4 * time.Second

// Session owns one live game: the aggregate, its deck and the reveal
// timer, guarded by a single mutex. All IO hooks are function fields;
// nil hooks are skipped, which keeps the engine testable without a
// database or sockets.
type Session struct {
	mu   sync.Mutex
	game models.Game
	deck deck.Deck

	// revealSeq invalidates stale reveal timers: it is bumped on
	// every commit, and the timer callback only fires the reveal if
	// the sequence it captured is still current.
	revealSeq   uint64
	revealTimer *time.Timer

	RevealDelay time.Duration

	// BroadcastFn pushes a per-player view to every connected player.
	// SpectatorFn pushes the public view. PersistFn and DeckPersistFn
	// write through to storage. HistoryFn records the event stream.
	BroadcastFn   func(g models.Game, ev Event)
	SpectatorFn   func(g models.Game, ev Event)
	PersistFn     func(ctx context.Context, g models.Game) error
	DeckPersistFn func(ctx context.Context, d deck.Deck) error
	HistoryFn     func(ctx context.Context, gameID uuid.UUID, ev Event)

	log *logrus.Entry
}

// NewSession wraps a game (and optionally its persisted deck) in a
// live session.
func NewSession(g models.Game, d deck.Deck) *Session {
	return &Session{
		game:        g,
		deck:        d,
		RevealDelay: DefaultRevealDelay,
		log:         logrus.WithField("game", g.ID),
	}
}

// ID returns the game's id.
func (s *Session) ID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.ID
}

// Snapshot returns a deep copy of the current aggregate.
func (s *Session) Snapshot() models.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Clone()
}

// ViewFor projects the current state for one player.
func (s *Session) ViewFor(playerID string) (PlayerView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ViewFor(s.game, playerID)
}

// ViewForSpectator projects the public state.
func (s *Session) ViewForSpectator() SpectatorView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ViewForSpectator(s.game)
}

// Deal deals the current round.
func (s *Session) Deal(ctx context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, d, ev, err := Deal(s.game, playerID)
	if err != nil {
		return err
	}
	return s.commitWithDeck(ctx, next, d, ev)
}

// Call records a bid or pass.
func (s *Session) Call(ctx context.Context, playerID string, call int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ev, err := Call(s.game, playerID, call)
	if err != nil {
		return err
	}
	return s.commit(ctx, next, ev)
}

// ChooseFromDummy applies the goer's hand selection and trump choice.
func (s *Session) ChooseFromDummy(ctx context.Context, playerID string, keep []models.Card, trump models.Suit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ev, err := ChooseFromDummy(s.game, playerID, keep, trump)
	if err != nil {
		return err
	}
	return s.commit(ctx, next, ev)
}

// BuyCards applies one player's buy.
func (s *Session) BuyCards(ctx context.Context, playerID string, keep []models.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, d, ev, err := BuyCards(s.game, s.deck, playerID, keep)
	if err != nil {
		return err
	}
	return s.commitWithDeck(ctx, next, d, ev)
}

// PlayCard applies one card play. Completing a trick schedules the
// reveal timer.
func (s *Session) PlayCard(ctx context.Context, playerID string, card models.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ev, err := PlayCard(s.game, playerID, card)
	if err != nil {
		return err
	}
	if err := s.commit(ctx, next, ev); err != nil {
		return err
	}
	if s.game.CurrentRound.Status == models.RoundReveal {
		s.scheduleReveal()
	}
	return nil
}

// FinishReveal settles the completed trick immediately, without
// waiting out the reveal delay. Normally driven by the timer.
func (s *Session) FinishReveal(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishRevealLocked(ctx)
}

func (s *Session) finishRevealLocked(ctx context.Context) error {
	next, ev, err := FinishReveal(s.game)
	if err != nil {
		return err
	}
	return s.commit(ctx, next, ev)
}

// scheduleReveal arms the reveal timer. Caller holds the lock.
func (s *Session) scheduleReveal() {
	if s.revealTimer != nil {
		s.revealTimer.Stop()
	}
	seq := s.revealSeq
	s.revealTimer = time.AfterFunc(s.RevealDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// A commit since scheduling means someone already moved the
		// game on; this timer is stale.
		if s.revealSeq != seq || s.game.CurrentRound.Status != models.RoundReveal {
			s.log.WithField("seq", seq).Debug("stale reveal timer ignored")
			return
		}
		if err := s.finishRevealLocked(context.Background()); err != nil {
			s.log.WithError(err).Error("reveal failed")
		}
	})
}

// Replay completes this game and returns a fresh one for the same
// table. The caller installs the new game in the store.
func (s *Session) Replay(ctx context.Context, playerID string) (models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, next, ev, err := Replay(s.game, playerID)
	if err != nil {
		return models.Game{}, err
	}
	s.stopTimersLocked()
	if err := s.commit(ctx, old, ev); err != nil {
		return models.Game{}, err
	}
	return next, nil
}

// Finish marks a finished game completed.
func (s *Session) Finish(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := Finish(s.game)
	if err != nil {
		return err
	}
	s.stopTimersLocked()
	return s.commit(ctx, next, Event{Type: EventGameOver, Detail: "game completed"})
}

// Cancel abandons the game.
func (s *Session) Cancel(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := Cancel(s.game)
	if err != nil {
		return err
	}
	s.stopTimersLocked()
	return s.commit(ctx, next, Event{Type: EventGameOver, Detail: "game cancelled"})
}

func (s *Session) stopTimersLocked() {
	if s.revealTimer != nil {
		s.revealTimer.Stop()
		s.revealTimer = nil
	}
}

// commit installs the new snapshot, persists it and publishes the
// event. Persistence failure aborts the commit; the in-memory state
// is left unchanged so the client can retry.
func (s *Session) commit(ctx context.Context, next models.Game, ev Event) error {
	return s.commitWithDeck(ctx, next, s.deck, ev)
}

// commitWithDeck is commit for operations that also replace the deck.
func (s *Session) commitWithDeck(ctx context.Context, next models.Game, d deck.Deck, ev Event) error {
	if s.PersistFn != nil {
		if err := s.PersistFn(ctx, next); err != nil {
			s.log.WithError(err).Error("failed to persist game")
			return err
		}
	}
	if s.DeckPersistFn != nil {
		if err := s.DeckPersistFn(ctx, d); err != nil {
			s.log.WithError(err).Error("failed to persist deck")
			return err
		}
	}
	s.game = next
	s.deck = d
	s.revealSeq++

	if s.HistoryFn != nil {
		s.HistoryFn(ctx, s.game.ID, ev)
	}
	if s.BroadcastFn != nil {
		s.BroadcastFn(s.game.Clone(), ev)
	}
	if s.SpectatorFn != nil {
		s.SpectatorFn(s.game.Clone(), ev)
	}
	return nil
}
