// internal/database/game.go
package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/padraigk/cards110/internal/models"
)

// SaveGame upserts the full game aggregate as JSONB. This is the write
// path for every committed engine operation, so the whole snapshot is
// replaced each time.
func SaveGame(ctx context.Context, g models.Game) error {
	state, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal game %s: %w", g.ID, err)
	}

	q := `
		INSERT INTO games (id, name, status, admin_id, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET status = EXCLUDED.status, state = EXCLUDED.state
	`
	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, e := tx.Exec(ctx, q, g.ID, g.Name, g.Status, g.AdminID, state, g.Timestamp)
		return e
	})
	if err != nil {
		return fmt.Errorf("tx upsert game %s: %w", g.ID, err)
	}
	return nil
}

// LoadGame fetches one game aggregate by id.
func LoadGame(ctx context.Context, id uuid.UUID) (models.Game, error) {
	var state []byte
	q := `SELECT state FROM games WHERE id = $1`
	if err := DB.QueryRow(ctx, q, id).Scan(&state); err != nil {
		return models.Game{}, fmt.Errorf("failed to load game %s: %w", id, err)
	}

	var g models.Game
	if err := json.Unmarshal(state, &g); err != nil {
		return models.Game{}, fmt.Errorf("failed to unmarshal game %s: %w", id, err)
	}
	return g, nil
}

// LoadActiveGames fetches every game still in the ACTIVE state, for
// rehydrating sessions after a restart.
func LoadActiveGames(ctx context.Context) ([]models.Game, error) {
	q := `SELECT state FROM games WHERE status = $1`
	rows, err := DB.Query(ctx, q, models.GameActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query active games: %w", err)
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		var state []byte
		if err := rows.Scan(&state); err != nil {
			return nil, err
		}
		var g models.Game
		if err := json.Unmarshal(state, &g); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game state: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// GamesForPlayer lists every game a player has a seat in, newest
// first.
func GamesForPlayer(ctx context.Context, playerID string) ([]models.Game, error) {
	q := `
		SELECT state FROM games
		WHERE state -> 'players' @> $1
		ORDER BY created_at DESC
	`
	needle, err := json.Marshal([]map[string]string{{"id": playerID}})
	if err != nil {
		return nil, err
	}
	rows, err := DB.Query(ctx, q, needle)
	if err != nil {
		return nil, fmt.Errorf("failed to query games for player %s: %w", playerID, err)
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		var state []byte
		if err := rows.Scan(&state); err != nil {
			return nil, err
		}
		var g models.Game
		if err := json.Unmarshal(state, &g); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// RecordGameResults persists each player's final score, rings and
// winner flag after a game finishes.
func RecordGameResults(ctx context.Context, g models.Game) error {
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			INSERT INTO game_results (game_id, player_id, team_id, score, rings, did_win)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (game_id, player_id)
			DO UPDATE SET score = $4, rings = $5, did_win = $6
		`
		for i := range g.Players {
			p := &g.Players[i]
			if p.IsDummy() {
				continue
			}
			if _, e := tx.Exec(ctx, q, g.ID, p.ID, p.TeamID, p.Score, p.Rings, p.Winner); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx upsert game results for %s: %w", g.ID, err)
	}
	return nil
}
