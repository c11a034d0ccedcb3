package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/horizoncarlo/badlands-online-sub000/pkg/game/types"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/log"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/repositories"
	"github.com/klauspost/compress/zstd"
)

// GameRecordRequest asks the record worker to persist a finished game.
type GameRecordRequest struct {
	GameID     string
	StartedAt  time.Time
	EndedAt    time.Time
	Transcript []string
	FinalState *types.GameState
}

type RecordWorker struct {
	repository repositories.Repository
	recordChan <-chan GameRecordRequest
}

type NewRecordWorkerOptions struct {
	Repository repositories.Repository
	RecordChan <-chan GameRecordRequest
}

// NewRecordWorker creates a new RecordWorker. The worker persists game
// records off the session goroutines so a slow database never stalls a
// running game.
func NewRecordWorker(opts NewRecordWorkerOptions) *RecordWorker {
	return &RecordWorker{
		repository: opts.Repository,
		recordChan: opts.RecordChan,
	}
}

func (w *RecordWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case request := <-w.recordChan:
			if err := w.saveRecord(ctx, request); err != nil {
				log.Error("Failed to save record for game %s: %v", request.GameID, err)
			}
		}
	}
}

func (w *RecordWorker) saveRecord(ctx context.Context, request GameRecordRequest) error {
	finalState, err := CompressFinalState(request.FinalState)
	if err != nil {
		return fmt.Errorf("failed to compress final state: %v", err)
	}

	record := &repositories.GameRecord{
		GameID:     request.GameID,
		StartedAt:  request.StartedAt,
		EndedAt:    request.EndedAt,
		Transcript: request.Transcript,
		FinalState: finalState,
	}
	if err := w.repository.SaveGameRecord(ctx, record); err != nil {
		return fmt.Errorf("failed to save game record: %v", err)
	}
	log.Info("Saved record for game %s", request.GameID)
	return nil
}

// CompressFinalState serializes a final game state and zstd-compresses it
// for storage.
func CompressFinalState(state *types.GameState) ([]byte, error) {
	b, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal final state: %v", err)
	}

	compressed := bytes.NewBuffer(nil)
	compWriter, err := zstd.NewWriter(compressed, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %v", err)
	}
	if _, err := compWriter.Write(b); err != nil {
		return nil, fmt.Errorf("failed to compress final state: %v", err)
	}
	if err := compWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zstd writer: %v", err)
	}

	return compressed.Bytes(), nil
}
