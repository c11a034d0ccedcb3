package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/lobby"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/log"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/repositories"
	"github.com/klauspost/compress/zstd"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port       int
	TLS        *TLSConfig
	Lobby      *lobby.Lobby
	Repository repositories.Repository
	StaticDir  string
}

// NewAPIServer creates a new http.Server for the game's HTTP surface:
// the static browser client, game creation and listing, and finished
// game records.
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	router.HandleFunc("/games", handleListGames(opts.Lobby)).Methods(http.MethodGet)
	router.HandleFunc("/games", handleCreateGame(opts.Lobby)).Methods(http.MethodPost)
	router.HandleFunc("/records/{gameID}", handleGetRecord(opts.Repository)).Methods(http.MethodGet)

	if opts.StaticDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(opts.StaticDir)))
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

func handleListGames(l *lobby.Lobby) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(l.ActiveGames()); err != nil {
			log.Error("failed to encode game list: %v", err)
		}
	}
}

func handleCreateGame(l *lobby.Lobby) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		response := map[string]string{"gameId": l.NewGameID()}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.Error("failed to encode new game id: %v", err)
		}
	}
}

type gameRecordResponse struct {
	GameID     string          `json:"gameId"`
	StartedAt  time.Time       `json:"startedAt"`
	EndedAt    time.Time       `json:"endedAt"`
	Transcript []string        `json:"transcript"`
	FinalState json.RawMessage `json:"finalState"`
}

func handleGetRecord(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := mux.Vars(r)["gameID"]
		record, err := repository.LoadGameRecord(r.Context(), gameID)
		if err != nil {
			if repositories.IsNotFound(err) {
				http.Error(w, "Record not found", http.StatusNotFound)
				return
			}
			log.Error("failed to load game record: %v", err)
			http.Error(w, "Failed to load game record", http.StatusInternalServerError)
			return
		}

		finalState, err := decompressFinalState(record.FinalState)
		if err != nil {
			log.Error("failed to decompress final state for game %s: %v", gameID, err)
			http.Error(w, "Failed to decode game record", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		response := gameRecordResponse{
			GameID:     record.GameID,
			StartedAt:  record.StartedAt,
			EndedAt:    record.EndedAt,
			Transcript: record.Transcript,
			FinalState: finalState,
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.Error("failed to encode game record: %v", err)
		}
	}
}

func decompressFinalState(compressed []byte) ([]byte, error) {
	compReader, err := zstd.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %v", err)
	}
	defer compReader.Close()
	b, err := io.ReadAll(compReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read decompressed state: %v", err)
	}
	return b, nil
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
