package repositories

import (
	"context"
	"time"
)

// GameRecord is the persisted summary of a finished game. FinalState is
// the zstd-compressed JSON encoding of the final game state.
type GameRecord struct {
	GameID     string
	StartedAt  time.Time
	EndedAt    time.Time
	Transcript []string
	FinalState []byte
}

type Repository interface {
	Close(ctx context.Context) error
	SaveGameRecord(ctx context.Context, record *GameRecord) error
	LoadGameRecord(ctx context.Context, gameID string) (*GameRecord, error)
}
