package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS game_records (
	game_id TEXT PRIMARY KEY,
	started_at TIMESTAMP NOT NULL,
	ended_at TIMESTAMP NOT NULL,
	transcript TEXT NOT NULL,
	final_state BLOB NOT NULL
);
`

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, path string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %v", err)
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveGameRecord(ctx context.Context, record *GameRecord) error {
	transcript, err := json.Marshal(record.Transcript)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %v", err)
	}

	q := `
	INSERT OR REPLACE INTO game_records (game_id, started_at, ended_at, transcript, final_state)
	VALUES (?, ?, ?, ?, ?);
	`
	_, err = r.db.ExecContext(ctx, q, record.GameID, record.StartedAt, record.EndedAt, string(transcript), record.FinalState)
	if err != nil {
		return fmt.Errorf("failed to insert game record: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) LoadGameRecord(ctx context.Context, gameID string) (*GameRecord, error) {
	q := `
	SELECT started_at, ended_at, transcript, final_state FROM game_records WHERE game_id = ?;
	`
	record := &GameRecord{GameID: gameID}
	var transcript string
	if err := r.db.QueryRowContext(ctx, q, gameID).Scan(&record.StartedAt, &record.EndedAt, &transcript, &record.FinalState); err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan game record: %v", err)
	}
	if err := json.Unmarshal([]byte(transcript), &record.Transcript); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript: %v", err)
	}

	return record, nil
}
