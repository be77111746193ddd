// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/padraigk/cards110/internal/game"
	"github.com/padraigk/cards110/internal/middleware"
	"github.com/padraigk/cards110/internal/models"
)

// GameMessage is the envelope for incoming WebSocket messages during
// a game. Fields beyond Type are used by specific actions.
type GameMessage struct {
	Type string `json:"type"`

	// Call is the bid value for "call" messages.
	Call int `json:"call,omitempty"`

	// Cards carries the selection for "chooseFromDummy" and
	// "buyCards".
	Cards []models.Card `json:"cards,omitempty"`

	// Suit is the trump choice for "chooseFromDummy".
	Suit models.Suit `json:"suit,omitempty"`

	// Card is the single card for "playCard".
	Card models.Card `json:"card,omitempty"`
}

// GameWSHandler upgrades the connection for a game instance,
// authenticates the user and runs the read loop. Users without a seat
// in the game are attached as spectators.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idStr := strings.TrimPrefix(r.URL.Path, "/game/ws/")
		gameID, err := uuid.Parse(idStr)
		if err != nil {
			http.Error(w, "invalid game id (/game/ws/{game_id})", http.StatusBadRequest)
			return
		}
		sess, ok := gs.Sessions.Get(gameID)
		if !ok {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"game"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for game %s: %v", gameID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal server error during handler exit")

		if c.Subprotocol() != "game" {
			c.Close(BadSubprotocolError, "client must use the 'game' subprotocol")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		userID, err := authenticatedUser(r)
		if err != nil {
			logger.Warnf("User authentication failed for game %s: %v", gameID, err)
			c.Close(InvalidAuthTokenError, "authentication failed")
			return
		}

		snapshot := sess.Snapshot()
		isPlayer := snapshot.Player(userID) != nil

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		if isPlayer {
			gs.registerPlayer(gameID, userID, c)
			defer gs.unregisterPlayer(gameID, userID, c)

			if view, err := sess.ViewFor(userID); err == nil {
				gs.writeJSON(c, stateMessage(view, game.Event{}))
			}
			readGameMessages(ctx, c, gs, sess, userID, logger)
		} else {
			gs.registerSpectator(gameID, c)
			defer gs.unregisterSpectator(gameID, c)

			gs.writeJSON(c, stateMessage(sess.ViewForSpectator(), game.Event{}))
			readSpectatorMessages(ctx, c, logger)
		}

		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, nil)
	}
}

// readGameMessages routes a player's actions to the session until the
// socket closes.
func readGameMessages(ctx context.Context, c *websocket.Conn, gs *GameServer, sess *game.Session, userID string, logger *logrus.Logger) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("WebSocket closed normally for user %s in game %s", userID, sess.ID())
			} else if !strings.Contains(err.Error(), "context canceled") {
				logger.Warnf("Error reading from WebSocket for user %s in game %s: %v", userID, sess.ID(), err)
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg GameMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sendWsError(ctx, c, "invalid JSON format")
			continue
		}
		logger.Debugf("Received action '%s' from user %s in game %s", msg.Type, userID, sess.ID())

		var actionErr error
		switch msg.Type {
		case "deal":
			actionErr = sess.Deal(ctx, userID)
		case "call":
			actionErr = sess.Call(ctx, userID, msg.Call)
		case "chooseFromDummy":
			actionErr = sess.ChooseFromDummy(ctx, userID, msg.Cards, msg.Suit)
		case "buyCards":
			actionErr = sess.BuyCards(ctx, userID, msg.Cards)
		case "playCard":
			actionErr = sess.PlayCard(ctx, userID, msg.Card)
		case "replay":
			newID, err := gs.ReplayGame(ctx, sess, userID)
			if err != nil {
				actionErr = err
				break
			}
			sendWsMessage(ctx, c, map[string]interface{}{"type": "replay", "game_id": newID})
			return
		case "ping":
			sendWsMessage(ctx, c, map[string]string{"type": "pong"})
			continue
		default:
			sendWsError(ctx, c, fmt.Sprintf("unknown action type: %s", msg.Type))
			continue
		}

		if actionErr != nil {
			logger.Debugf("Action '%s' rejected for user %s: %v", msg.Type, userID, actionErr)
			sendWsError(ctx, c, actionErr.Error())
		}
	}
}

// readSpectatorMessages drains a spectator socket; spectators only
// get to ping.
func readSpectatorMessages(ctx context.Context, c *websocket.Conn, logger *logrus.Logger) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			return
		}
		if msgType != websocket.MessageText {
			continue
		}
		var msg GameMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type == "ping" {
			sendWsMessage(ctx, c, map[string]string{"type": "pong"})
		}
	}
}

// writeMessage marshals and writes one message with the caller's
// context.
func writeMessage(ctx context.Context, c *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Write(ctx, websocket.MessageText, data)
}

// sendWsMessage marshals a message and sends it with a write timeout.
func sendWsMessage(ctx context.Context, c *websocket.Conn, message interface{}) {
	if c == nil {
		return
	}
	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = writeMessage(writeCtx, c, message)
}

// sendWsError sends a structured error message to the client.
func sendWsError(ctx context.Context, c *websocket.Conn, errorMsg string) {
	sendWsMessage(ctx, c, map[string]interface{}{
		"type":    "error",
		"message": errorMsg,
	})
}
