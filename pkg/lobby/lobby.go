// Package lobby owns the map from game id to running session. Sessions
// are created on the first join for a game id and removed once both
// seats have left.
package lobby

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/clients"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/game"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/log"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/messages"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/network"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/queue"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/workers"
)

const actionQueueCapacity = 1024

type Lobby struct {
	ctx           context.Context
	clientManager *clients.ClientManager
	recordChan    chan<- workers.GameRecordRequest
	interval      time.Duration
	soloMode      bool

	mu       sync.Mutex
	sessions map[string]*game.GameSession
	byClient map[uint32]string
}

type NewLobbyOptions struct {
	ClientManager *clients.ClientManager
	RecordChan    chan<- workers.GameRecordRequest
	Interval      time.Duration
	SoloMode      bool
}

// NewLobby creates a lobby. The context bounds the lifetime of every
// session it spawns.
func NewLobby(ctx context.Context, opts NewLobbyOptions) *Lobby {
	return &Lobby{
		ctx:           ctx,
		clientManager: opts.ClientManager,
		recordChan:    opts.RecordChan,
		interval:      opts.Interval,
		soloMode:      opts.SoloMode,
		sessions:      make(map[string]*game.GameSession),
		byClient:      make(map[uint32]string),
	}
}

// NewGameID mints an id for a game that does not exist yet. The session
// itself is created lazily on the first join.
func (l *Lobby) NewGameID() string {
	return uuid.NewString()
}

// GameSummary describes one running game for the HTTP API.
type GameSummary struct {
	GameID    string `json:"gameId"`
	Connected int    `json:"connected"`
}

// ActiveGames lists running sessions and how many connections are routed
// to each.
func (l *Lobby) ActiveGames() []GameSummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	connected := make(map[string]int)
	for _, gameID := range l.byClient {
		connected[gameID]++
	}
	summaries := make([]GameSummary, 0, len(l.sessions))
	for gameID := range l.sessions {
		summaries = append(summaries, GameSummary{
			GameID:    gameID,
			Connected: connected[gameID],
		})
	}
	return summaries
}

// HandleMessage routes one inbound message to the session the sending
// connection belongs to. Messages from connections in no game are
// answered directly where possible and dropped otherwise.
func (l *Lobby) HandleMessage(ctx context.Context, message *messages.Message) {
	if message.Type == messages.MessageTypeClientJoinGame {
		l.handleJoin(ctx, message)
		return
	}

	l.mu.Lock()
	gameID, inGame := l.byClient[message.PlayerID]
	session := l.sessions[gameID]
	l.mu.Unlock()

	if !inGame || session == nil {
		switch message.Type {
		case messages.MessageTypeClientPing:
			l.sendTo(ctx, message.PlayerID, messages.MessageTypeServerPong, struct{}{})
		default:
			l.sendTo(ctx, message.PlayerID, messages.MessageTypeServerAlert, messages.ServerAlert{
				Text: "join a game first",
			})
		}
		return
	}

	if err := session.Enqueue(message); err != nil {
		log.Error("Failed to enqueue %s for game %s: %v", message.Type, gameID, err)
	}
}

func (l *Lobby) handleJoin(ctx context.Context, message *messages.Message) {
	join := &messages.ClientJoinGame{}
	if err := json.Unmarshal(message.Details, join); err != nil || join.GameID == "" {
		log.Warn("Dropping malformed joinGame from client %d", message.PlayerID)
		return
	}

	l.mu.Lock()
	// A connection can only be in one game. Joining a second game
	// releases its seat in the first, so that session can still tear
	// itself down once everyone has left.
	if oldGameID, ok := l.byClient[message.PlayerID]; ok && oldGameID != join.GameID {
		if old := l.sessions[oldGameID]; old != nil {
			leave := &messages.Message{
				PlayerID: message.PlayerID,
				Type:     messages.MessageTypeClientUnsubscribe,
			}
			if err := old.Enqueue(leave); err != nil {
				log.Error("Failed to enqueue leave for game %s: %v", oldGameID, err)
			}
		}
	}
	session, ok := l.sessions[join.GameID]
	if !ok {
		session = l.createSessionLocked(join.GameID)
	}
	l.byClient[message.PlayerID] = join.GameID
	l.mu.Unlock()

	if err := session.Enqueue(message); err != nil {
		log.Error("Failed to enqueue join for game %s: %v", join.GameID, err)
	}
}

// createSessionLocked spawns a session and the goroutine that reaps it
// once it tears itself down. Callers must hold l.mu.
func (l *Lobby) createSessionLocked(gameID string) *game.GameSession {
	session := game.NewGameSession(game.NewGameSessionOptions{
		GameID:        gameID,
		ActionQueue:   queue.NewInMemoryQueue(actionQueueCapacity),
		ClientManager: l.clientManager,
		RecordChan:    l.recordChan,
		Interval:      l.interval,
		Rand:          rand.New(rand.NewSource(time.Now().UnixNano())),
		SoloMode:      l.soloMode,
	})
	l.sessions[gameID] = session
	log.Info("Created game %s", gameID)

	go session.Start(l.ctx)
	go func() {
		select {
		case <-session.Done():
			l.removeSession(gameID)
		case <-l.ctx.Done():
		}
	}()
	return session
}

func (l *Lobby) removeSession(gameID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.sessions, gameID)
	for clientID, id := range l.byClient {
		if id == gameID {
			delete(l.byClient, clientID)
		}
	}
	log.Info("Removed game %s", gameID)
}

// HandleDisconnect turns a transport disconnect into a leave action for
// the game the connection was in.
func (l *Lobby) HandleDisconnect(clientID uint32) {
	l.mu.Lock()
	gameID, ok := l.byClient[clientID]
	session := l.sessions[gameID]
	delete(l.byClient, clientID)
	l.mu.Unlock()

	if !ok || session == nil {
		return
	}
	leave := &messages.Message{
		PlayerID: clientID,
		Type:     messages.MessageTypeClientUnsubscribe,
	}
	if err := session.Enqueue(leave); err != nil {
		log.Error("Failed to enqueue leave for game %s: %v", gameID, err)
	}
}

func (l *Lobby) sendTo(ctx context.Context, clientID uint32, messageType string, details interface{}) {
	client, err := l.clientManager.GetClient(clientID)
	if err != nil {
		return
	}
	message, err := messages.NewServerMessage(messageType, details)
	if err != nil {
		log.Error("Failed to build %s message: %v", messageType, err)
		return
	}
	if err := network.WriteMessageToWS(ctx, client.Conn, message); err != nil {
		log.Error("Failed to write %s message to client %d: %v", messageType, clientID, err)
	}
}
