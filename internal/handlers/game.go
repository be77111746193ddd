// internal/handlers/game.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/padraigk/cards110/internal/database"
	"github.com/padraigk/cards110/internal/game"
)

type createGameRequest struct {
	Name    string `json:"name"`
	Players []struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	} `json:"players"`
}

// ServeHTTP routes /game/* REST endpoints. WebSockets are handled
// separately by GameWSHandler.
func (gs *GameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/game/create" && r.Method == http.MethodPost:
		gs.handleCreateGame(w, r)
	case r.URL.Path == "/game/all" && r.Method == http.MethodGet:
		gs.handleListGames(w, r)
	case strings.HasPrefix(r.URL.Path, "/game/state/") && r.Method == http.MethodGet:
		gs.handleGameState(w, r)
	case strings.HasPrefix(r.URL.Path, "/game/finish/") && r.Method == http.MethodPut:
		gs.handleFinishGame(w, r)
	case strings.HasPrefix(r.URL.Path, "/game/cancel/") && r.Method == http.MethodPut:
		gs.handleCancelGame(w, r)
	default:
		http.Error(w, "unsupported route, use /game/ws/{id} for websockets", http.StatusNotFound)
	}
}

func (gs *GameServer) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	adminID, err := authenticatedUser(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}

	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	seeds := make([]game.Seed, 0, len(req.Players))
	for _, p := range req.Players {
		seeds = append(seeds, game.Seed{ID: p.ID, DisplayName: p.DisplayName})
	}

	g, err := game.NewGame(req.Name, seeds, adminID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if err := database.SaveGame(r.Context(), g); err != nil {
		gs.Logger.WithError(err).Error("failed to save new game")
		http.Error(w, "error creating game", http.StatusInternalServerError)
		return
	}
	gs.NewSession(g)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{"game_id": g.ID})
}

func (gs *GameServer) handleListGames(w http.ResponseWriter, r *http.Request) {
	playerID, err := authenticatedUser(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	games, err := database.GamesForPlayer(r.Context(), playerID)
	if err != nil {
		gs.Logger.WithError(err).Error("failed to list games")
		http.Error(w, "error listing games", http.StatusInternalServerError)
		return
	}

	summaries := make([]map[string]interface{}, 0, len(games))
	for _, g := range games {
		summaries = append(summaries, map[string]interface{}{
			"id":     g.ID,
			"name":   g.Name,
			"status": g.Status,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaries)
}

func (gs *GameServer) handleGameState(w http.ResponseWriter, r *http.Request) {
	playerID, err := authenticatedUser(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	sess, ok := gs.sessionFromPath(w, r, "/game/state/")
	if !ok {
		return
	}
	view, err := sess.ViewFor(playerID)
	if err != nil {
		// Not a player; fall back to the public projection.
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sess.ViewForSpectator())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

func (gs *GameServer) handleFinishGame(w http.ResponseWriter, r *http.Request) {
	if !gs.requireAdmin(w, r, "/game/finish/") {
		return
	}
	sess, ok := gs.sessionFromPath(w, r, "/game/finish/")
	if !ok {
		return
	}
	if err := sess.Finish(r.Context()); err != nil {
		writeEngineError(w, err)
		return
	}
	gs.Sessions.Delete(sess.ID())
	w.WriteHeader(http.StatusOK)
}

func (gs *GameServer) handleCancelGame(w http.ResponseWriter, r *http.Request) {
	if !gs.requireAdmin(w, r, "/game/cancel/") {
		return
	}
	sess, ok := gs.sessionFromPath(w, r, "/game/cancel/")
	if !ok {
		return
	}
	if err := sess.Cancel(r.Context()); err != nil {
		writeEngineError(w, err)
		return
	}
	gs.Sessions.Delete(sess.ID())
	w.WriteHeader(http.StatusOK)
}

// requireAdmin checks the caller is the game's admin.
func (gs *GameServer) requireAdmin(w http.ResponseWriter, r *http.Request, prefix string) bool {
	playerID, err := authenticatedUser(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return false
	}
	sess, ok := gs.sessionFromPath(w, r, prefix)
	if !ok {
		return false
	}
	if sess.Snapshot().AdminID != playerID {
		http.Error(w, "only the game admin can do that", http.StatusForbidden)
		return false
	}
	return true
}

// sessionFromPath resolves /{prefix}{uuid} to a live session, writing
// the HTTP error itself when it can't.
func (gs *GameServer) sessionFromPath(w http.ResponseWriter, r *http.Request, prefix string) (*game.Session, bool) {
	idStr := strings.TrimPrefix(r.URL.Path, prefix)
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return nil, false
	}
	sess, ok := gs.Sessions.Get(id)
	if !ok {
		http.Error(w, "game not found", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}
