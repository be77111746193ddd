// internal/game/errors.go
package game

import "errors"

// Error kinds surfaced by the engine. Handlers map InvalidOperation
// and NotFound to client errors; CorruptState (and deck.ErrEmptyDeck)
// indicate an invariant violation and are never user-triggerable.
var (
	// ErrInvalidOperation covers user-correctable rejections: wrong
	// phase, wrong turn, illegal card, bid or selection.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrNotFound indicates a missing player, game or round; usually
	// a referential bug or stale client state.
	ErrNotFound = errors.New("not found")

	// ErrInvalidStatus indicates an illegal game status transition.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrCorruptState indicates the aggregate violates an engine
	// invariant. Never expected; not retryable.
	ErrCorruptState = errors.New("corrupt game state")
)
