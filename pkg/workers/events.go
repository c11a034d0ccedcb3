package workers

import (
	"github.com/horizoncarlo/badlands-online-sub000/pkg/clients"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/log"
)

type ClientEventWorker struct {
	clientManager *clients.ClientManager
	onDisconnect  func(clientID uint32)
}

type NewClientEventWorkerOptions struct {
	ClientManager *clients.ClientManager
	OnDisconnect  func(clientID uint32)
}

// NewClientEventWorker creates a new ClientEventWorker.
// The worker processes client connect and disconnect events and routes
// disconnects to the lobby so the affected game sees a leave action.
func NewClientEventWorker(opts NewClientEventWorkerOptions) *ClientEventWorker {
	return &ClientEventWorker{
		clientManager: opts.ClientManager,
		onDisconnect:  opts.OnDisconnect,
	}
}

func (w *ClientEventWorker) Start() {
	for event := range w.clientManager.GetClientEventChan() {
		switch event.Type {
		case clients.ClientEventTypeConnect:
			log.Debug("Client %d connected", event.ClientID)
		case clients.ClientEventTypeDisconnect:
			log.Debug("Client %d disconnected", event.ClientID)
			w.onDisconnect(event.ClientID)
		default:
			log.Error("Unknown client event type: %v", event.Type)
		}
	}
}
