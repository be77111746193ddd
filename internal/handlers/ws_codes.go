// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the game handlers. These give
// clients more specific closure reasons than the standard codes.
// Invalid game ids are rejected before the upgrade with an HTTP
// status, and users without a seat are attached as spectators, so
// neither case closes the socket.
const (
	BadSubprotocolError   = 3000 // Client connected with an unsupported subprotocol.
	InvalidAuthTokenError = 3001 // Provided auth token was invalid or expired.
)
