// internal/handlers/game_server.go
package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/padraigk/cards110/internal/cache"
	"github.com/padraigk/cards110/internal/database"
	"github.com/padraigk/cards110/internal/deck"
	"github.com/padraigk/cards110/internal/game"
	"github.com/padraigk/cards110/internal/models"
)

// GameServer holds the live sessions and the per-game connection
// registry used to push state to clients.
type GameServer struct {
	mu       sync.Mutex
	Sessions *game.SessionStore
	Logger   *logrus.Logger

	// players[gameID][playerID] and spectators[gameID] hold open
	// sockets. Writes happen off the session lock.
	players    map[uuid.UUID]map[string]*websocket.Conn
	spectators map[uuid.UUID][]*websocket.Conn
}

func NewGameServer(logger *logrus.Logger) *GameServer {
	return &GameServer{
		Sessions:   game.NewSessionStore(),
		Logger:     logger,
		players:    make(map[uuid.UUID]map[string]*websocket.Conn),
		spectators: make(map[uuid.UUID][]*websocket.Conn),
	}
}

// NewSession builds a session for a freshly created game, wires its
// persistence and broadcast hooks and installs it in the store.
func (gs *GameServer) NewSession(g models.Game) *game.Session {
	sess := game.NewSession(g, deck.Deck{GameID: g.ID})
	gs.attach(sess)
	gs.Sessions.Add(sess)
	return sess
}

// attach wires the session's IO hooks to the database, Redis and the
// socket registry.
func (gs *GameServer) attach(sess *game.Session) {
	sess.PersistFn = func(ctx context.Context, g models.Game) error {
		if err := database.SaveGame(ctx, g); err != nil {
			return err
		}
		if g.Status == models.GameFinished {
			if err := database.RecordGameResults(ctx, g); err != nil {
				gs.Logger.WithError(err).Errorf("failed to record results for game %s", g.ID)
			}
		}
		return nil
	}
	sess.DeckPersistFn = func(ctx context.Context, d deck.Deck) error {
		return cache.SaveDeck(ctx, d)
	}
	sess.HistoryFn = func(ctx context.Context, gameID uuid.UUID, ev game.Event) {
		record := cache.GameEventRecord{
			GameID:    gameID,
			EventType: string(ev.Type),
			Detail:    ev.Detail,
			Timestamp: time.Now().UnixMilli(),
		}
		if err := cache.PublishGameEvent(ctx, record); err != nil {
			gs.Logger.WithError(err).Warnf("failed to publish event for game %s", gameID)
		}
	}
	sess.BroadcastFn = func(g models.Game, ev game.Event) {
		gs.broadcastToPlayers(g, ev)
	}
	sess.SpectatorFn = func(g models.Game, ev game.Event) {
		gs.broadcastToSpectators(g, ev)
	}
}

// RestoreSessions rehydrates live sessions for every active game in
// the database, pulling each deck back out of Redis.
func (gs *GameServer) RestoreSessions(ctx context.Context) error {
	games, err := database.LoadActiveGames(ctx)
	if err != nil {
		return err
	}
	for _, g := range games {
		d, err := cache.LoadDeck(ctx, g.ID)
		if err != nil {
			gs.Logger.WithError(err).Warnf("no deck for active game %s, starting empty", g.ID)
			d = deck.Deck{GameID: g.ID}
		}
		sess := game.NewSession(g, d)
		gs.attach(sess)
		gs.Sessions.Add(sess)
	}
	gs.Logger.Infof("restored %d active game sessions", len(games))
	return nil
}

// ReplayGame completes the session's game and spins up a fresh
// session for the same table, returning the new game's id.
func (gs *GameServer) ReplayGame(ctx context.Context, sess *game.Session, playerID string) (uuid.UUID, error) {
	next, err := sess.Replay(ctx, playerID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := database.SaveGame(ctx, next); err != nil {
		return uuid.Nil, err
	}
	gs.Sessions.Delete(sess.ID())
	gs.NewSession(next)
	return next.ID, nil
}

func (gs *GameServer) registerPlayer(gameID uuid.UUID, playerID string, c *websocket.Conn) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if gs.players[gameID] == nil {
		gs.players[gameID] = make(map[string]*websocket.Conn)
	}
	gs.players[gameID][playerID] = c
}

func (gs *GameServer) unregisterPlayer(gameID uuid.UUID, playerID string, c *websocket.Conn) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if gs.players[gameID][playerID] == c {
		delete(gs.players[gameID], playerID)
	}
}

func (gs *GameServer) registerSpectator(gameID uuid.UUID, c *websocket.Conn) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.spectators[gameID] = append(gs.spectators[gameID], c)
}

func (gs *GameServer) unregisterSpectator(gameID uuid.UUID, c *websocket.Conn) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	conns := gs.spectators[gameID]
	for i, conn := range conns {
		if conn == c {
			gs.spectators[gameID] = append(conns[:i], conns[i+1:]...)
			return
		}
	}
}

// broadcastToPlayers projects the snapshot per player and pushes each
// view on that player's socket. Called while the session lock is
// held, so the writes happen on a goroutine.
func (gs *GameServer) broadcastToPlayers(g models.Game, ev game.Event) {
	gs.mu.Lock()
	conns := make(map[string]*websocket.Conn, len(gs.players[g.ID]))
	for pid, c := range gs.players[g.ID] {
		conns[pid] = c
	}
	gs.mu.Unlock()

	for pid, c := range conns {
		view, err := game.ViewFor(g, pid)
		if err != nil {
			continue
		}
		go gs.writeJSON(c, stateMessage(view, ev))
	}
}

func (gs *GameServer) broadcastToSpectators(g models.Game, ev game.Event) {
	gs.mu.Lock()
	conns := append([]*websocket.Conn(nil), gs.spectators[g.ID]...)
	gs.mu.Unlock()
	if len(conns) == 0 {
		return
	}

	view := game.ViewForSpectator(g)
	for _, c := range conns {
		go gs.writeJSON(c, stateMessage(view, ev))
	}
}

func stateMessage(view interface{}, ev game.Event) map[string]interface{} {
	return map[string]interface{}{
		"type":  "state",
		"event": ev,
		"state": view,
	}
}

func (gs *GameServer) writeJSON(c *websocket.Conn, v interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := writeMessage(ctx, c, v); err != nil {
		gs.Logger.WithError(err).Debug("websocket write failed")
	}
}
