// internal/deck/deck.go
package deck

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/padraigk/cards110/internal/models"
)

// ErrEmptyDeck is returned when a draw is attempted on an exhausted
// deck. Under correct dealing this never happens, so callers treat it
// as a fatal consistency bug rather than a recoverable condition.
var ErrEmptyDeck = errors.New("deck is empty")

// Deck is the per-game stack of undealt cards. The top of the stack
// is the end of the slice.
type Deck struct {
	GameID uuid.UUID     `json:"gameId"`
	Cards  []models.Card `json:"cards"`
}

// New builds a freshly shuffled 53-card deck for the game. The
// shuffle is a Fisher-Yates driven by crypto/rand.
func New(gameID uuid.UUID) Deck {
	cards := models.AllCards()
	secureShuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return Deck{GameID: gameID, Cards: cards}
}

// Pop removes and returns the top card.
func (d *Deck) Pop() (models.Card, error) {
	if len(d.Cards) == 0 {
		return models.EmptyCard, fmt.Errorf("%w: game %s", ErrEmptyDeck, d.GameID)
	}
	top := d.Cards[len(d.Cards)-1]
	d.Cards = d.Cards[:len(d.Cards)-1]
	return top, nil
}

// Remaining reports how many cards are left undealt.
func (d *Deck) Remaining() int { return len(d.Cards) }

// Clone copies the deck so value-style transforms never alias the
// stored card stack.
func (d Deck) Clone() Deck {
	out := d
	out.Cards = make([]models.Card, len(d.Cards))
	copy(out.Cards, d.Cards)
	return out
}

// secureShuffle is a Fisher-Yates shuffle using crypto/rand for the
// index draws.
func secureShuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			// crypto/rand read failure means the platform RNG is
			// broken; nothing sensible to do but stop.
			panic(fmt.Sprintf("deck: crypto/rand failed: %v", err))
		}
		swap(i, int(j.Int64()))
	}
}
