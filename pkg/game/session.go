package game

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/horizoncarlo/badlands-online-sub000/pkg/clients"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/game/types"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/log"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/messages"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/network"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/queue"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/workers"
)

// GameSession is the single authority for one game id. All mutation of
// its state happens on the session goroutine, which drains the inbound
// queue on a short ticker, so two actions never interleave.
type GameSession struct {
	state         *types.GameState
	actionQueue   queue.Queue
	clientManager *clients.ClientManager
	recordChan    chan<- workers.GameRecordRequest
	interval      time.Duration
	handlers      map[string]actionHandler
	startedAt     time.Time
	everJoined    bool
	done          chan struct{}

	// soloMode allows startTurn without an opponent seated, for local
	// play against an empty board and for tests.
	soloMode bool
}

type actionHandler func(ctx context.Context, playerID uint32, details json.RawMessage) error

// NewGameSessionOptions contains options for creating a new GameSession.
type NewGameSessionOptions struct {
	GameID        string
	ActionQueue   queue.Queue
	ClientManager *clients.ClientManager
	RecordChan    chan<- workers.GameRecordRequest
	Interval      time.Duration
	Rand          *rand.Rand
	SoloMode      bool
}

func NewGameSession(opts NewGameSessionOptions) *GameSession {
	state := types.NewGameState(opts.GameID)
	state.DrawPile, state.CampPool = BuildDecks(opts.Rand)

	s := &GameSession{
		state:         state,
		actionQueue:   opts.ActionQueue,
		clientManager: opts.ClientManager,
		recordChan:    opts.RecordChan,
		interval:      opts.Interval,
		startedAt:     time.Now(),
		done:          make(chan struct{}),
		soloMode:      opts.SoloMode,
	}
	s.handlers = map[string]actionHandler{
		messages.MessageTypeClientJoinGame:    s.handleJoinGame,
		messages.MessageTypeClientDoneCamps:   s.handleDoneCamps,
		messages.MessageTypeClientStartTurn:   s.handleStartTurn,
		messages.MessageTypeClientEndTurn:     s.handleEndTurn,
		messages.MessageTypeClientPlayCard:    s.handlePlayCard,
		messages.MessageTypeClientUseCard:     s.handleUseCard,
		messages.MessageTypeClientDrawCard:    s.handleDrawCard,
		messages.MessageTypeClientJunkCard:    s.handleJunkCard,
		messages.MessageTypeClientDoneTargets: s.handleDoneTargets,
		messages.MessageTypeClientChat:        s.handleChat,
		messages.MessageTypeClientUnsubscribe: s.handleUnsubscribe,
		messages.MessageTypeClientPing:        s.handlePing,
	}
	return s
}

// allowedOutOfTurn lists the actions exempt from the turn-order guard.
var allowedOutOfTurn = map[string]bool{
	messages.MessageTypeClientJoinGame:    true,
	messages.MessageTypeClientDoneCamps:   true,
	messages.MessageTypeClientStartTurn:   true,
	messages.MessageTypeClientChat:        true,
	messages.MessageTypeClientUnsubscribe: true,
	messages.MessageTypeClientPing:        true,
}

// Enqueue hands an inbound action to the session. Safe to call from any
// goroutine.
func (s *GameSession) Enqueue(message *messages.Message) error {
	return s.actionQueue.Enqueue(message)
}

// Done is closed when the session has torn itself down.
func (s *GameSession) Done() <-chan struct{} {
	return s.done
}

// GameID returns the opaque identifier for this game.
func (s *GameSession) GameID() string {
	return s.state.GameID
}

// Start runs the session loop until the context is canceled or both
// seats have left.
func (s *GameSession) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.processActions(ctx)
			if s.finished() {
				s.record()
				close(s.done)
				return
			}
		}
	}
}

func (s *GameSession) processActions(ctx context.Context) {
	pendingActions, err := s.actionQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read actions for game %s: %v", s.state.GameID, err)
		return
	}
	for _, item := range pendingActions {
		message, ok := item.(*messages.Message)
		if !ok {
			log.Error("Failed to cast action to messages.Message")
			continue
		}
		s.dispatch(ctx, message)
	}
}

// Dispatch lifecycle: Received -> Guarded -> Applied or Rejected -> Synced.
// A rejection is reported to the offending player only and leaves state
// untouched; an applied action is followed by a redacted sync to both
// players.
func (s *GameSession) dispatch(ctx context.Context, message *messages.Message) {
	handler, ok := s.handlers[message.Type]
	if !ok {
		log.Warn("Dropping unhandled action type %q in game %s", message.Type, s.state.GameID)
		return
	}

	if !allowedOutOfTurn[message.Type] {
		if _, joined := PlayerLabelForConnection(s.state, message.PlayerID); !joined {
			s.sendError(ctx, message.PlayerID, types.NewRuleError(types.ErrNotJoined, "you have not joined this game"))
			return
		}
		if !IsCurrentTurn(s.state, message.PlayerID) {
			s.sendError(ctx, message.PlayerID, types.NewRuleError(types.ErrOutOfTurn, "it is not your turn"))
			return
		}
	}

	if err := handler(ctx, message.PlayerID, message.Details); err != nil {
		if _, isRule := types.RuleErrorKindOf(err); isRule {
			s.sendError(ctx, message.PlayerID, err)
			return
		}
		// Malformed payloads and transport failures are logged and
		// dropped so a buggy client cannot take the game down.
		log.Warn("Dropping %s action in game %s: %v", message.Type, s.state.GameID, err)
		return
	}

	if message.Type != messages.MessageTypeClientPing {
		s.syncAll(ctx)
	}
}

func (s *GameSession) finished() bool {
	if !s.everJoined {
		return false
	}
	return s.state.Players[types.PlayerLabel1].ConnectionID == 0 &&
		s.state.Players[types.PlayerLabel2].ConnectionID == 0
}

func (s *GameSession) record() {
	if s.recordChan == nil {
		return
	}
	transcript := make([]string, len(s.state.ChatLog))
	copy(transcript, s.state.ChatLog)
	request := workers.GameRecordRequest{
		GameID:     s.state.GameID,
		StartedAt:  s.startedAt,
		EndedAt:    time.Now(),
		Transcript: transcript,
		FinalState: s.state,
	}
	select {
	case s.recordChan <- request:
	default:
		log.Error("Record channel full, dropping record for game %s", s.state.GameID)
	}
}

// sendError routes a rule violation to the offending player only, as a
// system chat line. It is never appended to the shared chat log.
func (s *GameSession) sendError(ctx context.Context, playerID uint32, err error) {
	s.sendTo(ctx, playerID, messages.MessageTypeServerChat, messages.ServerChat{
		Text: "SYS: " + err.Error(),
	})
}

func (s *GameSession) sendTo(ctx context.Context, playerID uint32, messageType string, details interface{}) {
	client, err := s.clientManager.GetClient(playerID)
	if err != nil {
		log.Trace("No client %d to send %s to: %v", playerID, messageType, err)
		return
	}
	message, err := messages.NewServerMessage(messageType, details)
	if err != nil {
		log.Error("Failed to build %s message: %v", messageType, err)
		return
	}
	if err := network.WriteMessageToWS(ctx, client.Conn, message); err != nil {
		log.Error("Failed to write %s message to client %d: %v", messageType, playerID, err)
	}
}

func (s *GameSession) sendToLabel(ctx context.Context, label types.PlayerLabel, messageType string, details interface{}) {
	connectionID := s.state.Players[label].ConnectionID
	if connectionID == 0 {
		return
	}
	s.sendTo(ctx, connectionID, messageType, details)
}

func (s *GameSession) broadcast(ctx context.Context, messageType string, details interface{}) {
	for _, label := range []types.PlayerLabel{types.PlayerLabel1, types.PlayerLabel2} {
		s.sendToLabel(ctx, label, messageType, details)
	}
}

// syncAll pushes a freshly redacted view of the state to each seated
// player. This is the only channel that publishes state to clients.
func (s *GameSession) syncAll(ctx context.Context) {
	for _, label := range []types.PlayerLabel{types.PlayerLabel1, types.PlayerLabel2} {
		if s.state.Players[label].ConnectionID == 0 {
			continue
		}
		view := BuildView(s.state, label)
		s.sendToLabel(ctx, label, messages.MessageTypeServerSync, messages.ServerSync{GS: view})
	}
}
