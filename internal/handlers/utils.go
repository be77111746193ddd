// internal/handlers/utils.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/padraigk/cards110/internal/auth"
	"github.com/padraigk/cards110/internal/deck"
	"github.com/padraigk/cards110/internal/game"
)

// extractTokenFromCookie pulls the auth_token value out of a raw
// Cookie header, or returns empty if not present.
func extractTokenFromCookie(cookieHeader string) string {
	parts := strings.Split(cookieHeader, "auth_token=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// authenticatedUser resolves the request's auth cookie to a user id.
func authenticatedUser(r *http.Request) (string, error) {
	token := extractTokenFromCookie(r.Header.Get("Cookie"))
	return auth.AuthenticateJWT(token)
}

// writeEngineError maps engine error kinds to HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, game.ErrInvalidOperation), errors.Is(err, game.ErrInvalidStatus):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, game.ErrCorruptState), errors.Is(err, deck.ErrEmptyDeck):
		http.Error(w, "internal game state error", http.StatusInternalServerError)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
