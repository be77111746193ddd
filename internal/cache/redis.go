// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/padraigk/cards110/internal/deck"
)

// Rdb is the global Redis client. Connect it once at application startup.
var Rdb *redis.Client

// DefaultEventQueue is the Redis list (queue) name for the game event log.
var DefaultEventQueue = "cards110_events"

// deckTTL bounds how long an abandoned game's deck lingers.
const deckTTL = 48 * time.Hour

// GameEventRecord is one entry of the game event log, consumed by the
// event feed worker.
type GameEventRecord struct {
	GameID    uuid.UUID `json:"game_id"`
	EventType string    `json:"event_type"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

// ConnectRedis initializes the global Redis client with environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
func ConnectRedis() error {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

func deckKey(gameID uuid.UUID) string {
	return fmt.Sprintf("deck:%s", gameID)
}

// SaveDeck stores a game's remaining deck. The deck is hot state that
// changes on every deal and buy, so it lives here rather than in
// Postgres.
func SaveDeck(ctx context.Context, d deck.Deck) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal deck: %w", err)
	}
	if err := Rdb.Set(ctx, deckKey(d.GameID), data, deckTTL).Err(); err != nil {
		return fmt.Errorf("failed to save deck for game %s: %w", d.GameID, err)
	}
	return nil
}

// LoadDeck fetches a game's deck. A missing key returns redis.Nil.
func LoadDeck(ctx context.Context, gameID uuid.UUID) (deck.Deck, error) {
	data, err := Rdb.Get(ctx, deckKey(gameID)).Bytes()
	if err != nil {
		return deck.Deck{}, fmt.Errorf("failed to load deck for game %s: %w", gameID, err)
	}
	var d deck.Deck
	if err := json.Unmarshal(data, &d); err != nil {
		return deck.Deck{}, fmt.Errorf("failed to unmarshal deck for game %s: %w", gameID, err)
	}
	return d, nil
}

// DeleteDeck removes a finished game's deck.
func DeleteDeck(ctx context.Context, gameID uuid.UUID) error {
	return Rdb.Del(ctx, deckKey(gameID)).Err()
}

// PublishGameEvent serializes the given record to JSON, then pushes it to the
// Redis queue. This does not block the calling logic (other than a quick
// network send).
func PublishGameEvent(ctx context.Context, record GameEventRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal GameEventRecord: %w", err)
	}

	queueName := getEnv("EVENT_QUEUE_NAME", DefaultEventQueue)
	if err := Rdb.RPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", queueName, err)
	}
	return nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
