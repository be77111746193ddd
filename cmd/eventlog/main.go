// cmd/eventlog/main.go is an asynchronous worker that pops game event
// records from the Redis queue and persists them to PostgreSQL. It
// also cancels games that have gone quiet for too long.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"github.com/padraigk/cards110/internal/cache"
	"github.com/padraigk/cards110/internal/database"
	"github.com/padraigk/cards110/internal/models"
)

// EventLogService batches event records off the Redis queue into the
// game_events table and tracks per-game activity.
type EventLogService struct {
	redisClient *redis.Client
	batchSize   int
	flushDelay  time.Duration
	inactivity  time.Duration
	lastSeen    sync.Map // map[uuid.UUID]time.Time

	batchMu  sync.Mutex
	batch    []cache.GameEventRecord
	ctx      context.Context
	cancelFn context.CancelFunc
}

func NewEventLogService() *EventLogService {
	batchSize := getEnvInt("EVENTLOG_BATCH_SIZE", 20)
	flushMs := getEnvInt("EVENTLOG_FLUSH_MS", 500)
	inactivitySec := getEnvInt("GAME_INACTIVITY_TIMEOUT_SEC", 3600)

	rdb := redis.NewClient(&redis.Options{
		Addr: getEnv("REDIS_ADDR", "localhost:6379"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	return &EventLogService{
		redisClient: rdb,
		batchSize:   batchSize,
		flushDelay:  time.Duration(flushMs) * time.Millisecond,
		inactivity:  time.Duration(inactivitySec) * time.Second,
		batch:       make([]cache.GameEventRecord, 0, batchSize),
		ctx:         ctx,
		cancelFn:    cancel,
	}
}

// Run starts the queue reader and the inactivity sweep, then blocks
// until cancelled.
func (es *EventLogService) Run() {
	database.ConnectDB()

	go es.readRedisLoop()
	go es.inactivityLoop()

	log.Println("cards110-eventlog service started.")
	<-es.ctx.Done()
	log.Println("cards110-eventlog shutting down.")
}

func (es *EventLogService) readRedisLoop() {
	ticker := time.NewTicker(es.flushDelay)
	defer ticker.Stop()

	queueName := getEnv("EVENT_QUEUE_NAME", cache.DefaultEventQueue)

	for {
		select {
		case <-es.ctx.Done():
			return

		case <-ticker.C:
			es.flushBatchToDB()

		default:
			// BLPop with a short timeout so cancellation is noticed.
			res, err := es.redisClient.BLPop(es.ctx, 3*time.Second, queueName).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				log.Printf("[ERROR] BLPop: %v\n", err)
				continue
			}
			if len(res) < 2 {
				continue
			}

			var record cache.GameEventRecord
			if err := json.Unmarshal([]byte(res[1]), &record); err != nil {
				log.Printf("invalid event record: %v\n", err)
				continue
			}

			es.lastSeen.Store(record.GameID, time.Now())
			es.appendToBatch(record)
		}
	}
}

func (es *EventLogService) appendToBatch(record cache.GameEventRecord) {
	es.batchMu.Lock()
	defer es.batchMu.Unlock()

	es.batch = append(es.batch, record)
	if len(es.batch) >= es.batchSize {
		es.flushBatchLocked()
	}
}

func (es *EventLogService) flushBatchToDB() {
	es.batchMu.Lock()
	defer es.batchMu.Unlock()
	es.flushBatchLocked()
}

// flushBatchLocked writes the pending batch in one transaction.
// Caller holds batchMu.
func (es *EventLogService) flushBatchLocked() {
	if len(es.batch) == 0 {
		return
	}
	batchCopy := make([]cache.GameEventRecord, len(es.batch))
	copy(batchCopy, es.batch)
	es.batch = es.batch[:0]

	ctx := context.Background()
	err := pgx.BeginTxFunc(ctx, database.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			INSERT INTO game_events (game_id, event_type, detail, occurred_at)
			VALUES ($1, $2, $3, to_timestamp($4 / 1000.0))
		`
		for _, rec := range batchCopy {
			if _, e := tx.Exec(ctx, q, rec.GameID, rec.EventType, rec.Detail, rec.Timestamp); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[ERROR] flush events: %v\n", err)
	} else {
		log.Printf("Flushed %d events to DB.\n", len(batchCopy))
	}
}

func (es *EventLogService) inactivityLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-es.ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()
			es.lastSeen.Range(func(key, val interface{}) bool {
				gameID, ok1 := key.(uuid.UUID)
				last, ok2 := val.(time.Time)
				if ok1 && ok2 && now.Sub(last) > es.inactivity {
					es.cancelStaleGame(gameID)
					es.lastSeen.Delete(gameID)
				}
				return true
			})
		}
	}
}

// cancelStaleGame cancels a game that has produced no events within
// the inactivity window, if it is still active.
func (es *EventLogService) cancelStaleGame(gameID uuid.UUID) {
	ctx := context.Background()
	err := pgx.BeginTxFunc(ctx, database.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			UPDATE games
			SET status = $1, state = jsonb_set(state, '{status}', to_jsonb($1::text))
			WHERE id = $2 AND status = $3
		`
		_, e := tx.Exec(ctx, q, models.GameCancelled, gameID, models.GameActive)
		return e
	})
	if err != nil {
		log.Printf("failed to cancel stale game %v: %v", gameID, err)
	} else {
		log.Printf("Cancelled game %v due to inactivity.", gameID)
	}
}

func main() {
	svc := NewEventLogService()
	svc.Run()
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

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
