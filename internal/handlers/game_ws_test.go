// internal/handlers/game_ws_test.go
package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraigk/cards110/internal/deck"
	"github.com/padraigk/cards110/internal/game"
)

func newWSTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	gs := NewGameServer(logger)
	g, err := game.NewGame("table", []game.Seed{
		{ID: "p1", DisplayName: "p1"},
		{ID: "p2", DisplayName: "p2"},
	}, "p1")
	require.NoError(t, err)
	gs.Sessions.Add(game.NewSession(g, deck.Deck{GameID: g.ID}))

	srv := httptest.NewServer(GameWSHandler(logger, gs))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/ws/" + g.ID.String()
	return srv, url
}

func TestGameWSClosesOnMissingSubprotocol(t *testing.T) {
	_, url := newWSTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer c.Close(websocket.StatusNormalClosure, "")

	_, _, err = c.Read(ctx)
	assert.Equal(t, websocket.StatusCode(BadSubprotocolError), websocket.CloseStatus(err))
}

func TestGameWSClosesOnMissingAuth(t *testing.T) {
	_, url := newWSTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		Subprotocols: []string{"game"},
	})
	require.NoError(t, err)
	defer c.Close(websocket.StatusNormalClosure, "")

	_, _, err = c.Read(ctx)
	assert.Equal(t, websocket.StatusCode(InvalidAuthTokenError), websocket.CloseStatus(err))
}
