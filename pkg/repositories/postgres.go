package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS game_records (
	game_id TEXT PRIMARY KEY,
	started_at TIMESTAMPTZ NOT NULL,
	ended_at TIMESTAMPTZ NOT NULL,
	transcript JSONB NOT NULL,
	final_state BYTEA NOT NULL
);
`

type PostgresRepository struct {
	conn *pgx.Conn
}

// NewPostgresRepository creates a new PostgresRepository.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string) (Repository, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	if _, err := conn.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %v", err)
	}

	return &PostgresRepository{
		conn: conn,
	}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) SaveGameRecord(ctx context.Context, record *GameRecord) error {
	transcript, err := json.Marshal(record.Transcript)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %v", err)
	}

	q := `
	INSERT INTO game_records (game_id, started_at, ended_at, transcript, final_state)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (game_id) DO UPDATE SET
		started_at = $2, ended_at = $3, transcript = $4, final_state = $5;
	`
	_, err = r.conn.Exec(ctx, q, record.GameID, record.StartedAt, record.EndedAt, transcript, record.FinalState)
	if err != nil {
		return fmt.Errorf("failed to insert game record: %v", err)
	}

	return nil
}

func (r *PostgresRepository) LoadGameRecord(ctx context.Context, gameID string) (*GameRecord, error) {
	q := `
	SELECT started_at, ended_at, transcript, final_state FROM game_records WHERE game_id = $1;
	`
	record := &GameRecord{GameID: gameID}
	var transcript []byte
	if err := r.conn.QueryRow(ctx, q, gameID).Scan(&record.StartedAt, &record.EndedAt, &transcript, &record.FinalState); err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan game record: %v", err)
	}
	if err := json.Unmarshal(transcript, &record.Transcript); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript: %v", err)
	}

	return record, nil
}
