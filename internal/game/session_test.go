// internal/game/session_test.go
package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraigk/cards110/internal/deck"
	"github.com/padraigk/cards110/internal/models"
)

// mockBroadcaster collects committed snapshots and events instead of
// pushing them over sockets.
type mockBroadcaster struct {
	mu     sync.Mutex
	events []Event
	last   models.Game
}

func (mb *mockBroadcaster) broadcastFn(g models.Game, ev Event) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.events = append(mb.events, ev)
	mb.last = g
}

func (mb *mockBroadcaster) lastEvent() *Event {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if len(mb.events) == 0 {
		return nil
	}
	return &mb.events[len(mb.events)-1]
}

func (mb *mockBroadcaster) eventCount() int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return len(mb.events)
}

func newTestSession(g models.Game) (*Session, *mockBroadcaster) {
	mb := &mockBroadcaster{}
	s := NewSession(g, deck.Deck{GameID: g.ID})
	s.RevealDelay = 50 * time.Millisecond
	s.BroadcastFn = mb.broadcastFn
	return s, mb
}

func TestSessionCallCommitsAndBroadcasts(t *testing.T) {
	s, mb := newTestSession(callingGame())
	ctx := context.Background()

	require.NoError(t, s.Call(ctx, "p2", 0))
	require.NotNil(t, mb.lastEvent())
	assert.Equal(t, EventPass, mb.lastEvent().Type)
	assert.Equal(t, "p3", s.Snapshot().CurrentRound.CurrentHand.CurrentPlayerID)

	// A rejected action changes nothing and broadcasts nothing.
	n := mb.eventCount()
	assert.Error(t, s.Call(ctx, "p2", 15))
	assert.Equal(t, n, mb.eventCount())
}

func TestSessionPersistFailureAborts(t *testing.T) {
	s, mb := newTestSession(callingGame())
	s.PersistFn = func(ctx context.Context, g models.Game) error {
		return assert.AnError
	}

	err := s.Call(context.Background(), "p2", 0)
	assert.Error(t, err)
	assert.Zero(t, mb.eventCount())
	assert.Equal(t, "p2", s.Snapshot().CurrentRound.CurrentHand.CurrentPlayerID, "state must not move on persist failure")
}

func TestSessionRevealTimerSettlesTrick(t *testing.T) {
	s, mb := newTestSession(playingGame())
	ctx := context.Background()

	require.NoError(t, s.PlayCard(ctx, "p2", models.KingSpades))
	require.NoError(t, s.PlayCard(ctx, "p1", models.AceHearts))
	assert.Equal(t, models.RoundReveal, s.Snapshot().CurrentRound.Status)

	// The timer fires FinishReveal after the delay.
	require.Eventually(t, func() bool {
		return s.Snapshot().CurrentRound.Status == models.RoundPlaying
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, EventHandCompleted, mb.lastEvent().Type)
	assert.Len(t, s.Snapshot().CurrentRound.CompletedHands, 1)
}

func TestSessionManualRevealBeatsTimer(t *testing.T) {
	s, _ := newTestSession(playingGame())
	s.RevealDelay = time.Hour
	ctx := context.Background()

	require.NoError(t, s.PlayCard(ctx, "p2", models.KingSpades))
	require.NoError(t, s.PlayCard(ctx, "p1", models.AceHearts))

	require.NoError(t, s.FinishReveal(ctx))
	assert.Equal(t, models.RoundPlaying, s.Snapshot().CurrentRound.Status)

	// Finishing twice is rejected; the armed timer is stale now and
	// must not fire a second settle.
	assert.ErrorIs(t, s.FinishReveal(ctx), ErrInvalidOperation)
}

func TestSessionStore(t *testing.T) {
	store := NewSessionStore()
	s, _ := newTestSession(callingGame())

	store.Add(s)
	got, ok := store.Get(s.ID())
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Len(t, store.IDs(), 1)

	store.Delete(s.ID())
	_, ok = store.Get(s.ID())
	assert.False(t, ok)
}
