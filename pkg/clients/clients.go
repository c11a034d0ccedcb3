package clients

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/horizoncarlo/badlands-online-sub000/pkg/log"
	"nhooyr.io/websocket"
)

const (
	// ClientIDMaxRetries represents the maximum number of retries when generating a unique ID
	ClientIDMaxRetries = 1024
	// ClientEventChannelSize represents the size of the client event channel
	ClientEventChannelSize = 1024
)

// Client represents a connected client.
type Client struct {
	ID   uint32
	Conn *websocket.Conn
}

// ClientEventType represents the type of a client event
type ClientEventType int

const (
	ClientEventTypeConnect ClientEventType = iota
	ClientEventTypeDisconnect
)

// ClientEvent represents an event that happened to a client
type ClientEvent struct {
	ClientID uint32
	Type     ClientEventType
}

// ClientManager manages connected clients
type ClientManager struct {
	clients         map[uint32]*Client
	clientsLock     sync.RWMutex
	clientEventChan chan ClientEvent
}

// NewClientManager creates a new ClientManager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients:         make(map[uint32]*Client),
		clientEventChan: make(chan ClientEvent, ClientEventChannelSize),
	}
}

// GetClientEventChan returns a one-way channel for receiving client events
func (cm *ClientManager) GetClientEventChan() <-chan ClientEvent {
	return cm.clientEventChan
}

// ConnectClient adds a new client to the manager and returns its ID
func (cm *ClientManager) ConnectClient(conn *websocket.Conn) (uint32, error) {
	cm.clientsLock.Lock()
	clientID, err := cm.generateUniqueID(ClientIDMaxRetries)
	if err != nil {
		cm.clientsLock.Unlock()
		return 0, fmt.Errorf("failed to generate a unique ID: %v", err)
	}
	cm.clients[clientID] = &Client{
		ID:   clientID,
		Conn: conn,
	}
	cm.clientsLock.Unlock()

	cm.publishEvent(ClientEvent{
		ClientID: clientID,
		Type:     ClientEventTypeConnect,
	})
	return clientID, nil
}

// DisconnectClient removes a client from the manager
func (cm *ClientManager) DisconnectClient(clientID uint32) {
	cm.clientsLock.Lock()
	_, ok := cm.clients[clientID]
	if !ok {
		cm.clientsLock.Unlock()
		return
	}
	delete(cm.clients, clientID)
	cm.clientsLock.Unlock()

	cm.publishEvent(ClientEvent{
		ClientID: clientID,
		Type:     ClientEventTypeDisconnect,
	})
}

// publishEvent emits a client event without holding the registry lock
// and without blocking. A stalled consumer costs us the event, not the
// registry.
func (cm *ClientManager) publishEvent(event ClientEvent) {
	select {
	case cm.clientEventChan <- event:
	default:
		log.Error("Client event channel full, dropping event for client %d", event.ClientID)
	}
}

// GetClient returns a client by its ID
func (cm *ClientManager) GetClient(clientID uint32) (*Client, error) {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	client, ok := cm.clients[clientID]
	if !ok {
		return nil, fmt.Errorf("client %d is not connected", clientID)
	}
	return client, nil
}

// GetClientIDByConn returns the ID of a client by its connection.
// Returns 0 if the client is not found
func (cm *ClientManager) GetClientIDByConn(conn *websocket.Conn) uint32 {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	for _, client := range cm.clients {
		if client.Conn == conn {
			return client.ID
		}
	}
	return 0
}

// generateUniqueID generates a unique client ID with a maximum number of retries
// it reads from the clients, so it needs to be locked before calling
func (cm *ClientManager) generateUniqueID(maxRetries int) (uint32, error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		id := rand.Uint32()
		if id == 0 {
			continue
		}
		if _, ok := cm.clients[id]; !ok {
			return id, nil
		}
	}

	return 0, fmt.Errorf("failed to generate a unique ID after %d attempts", maxRetries)
}
