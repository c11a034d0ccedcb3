package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientManager_ConnectDisconnectEvents(t *testing.T) {
	cm := NewClientManager()

	clientID, err := cm.ConnectClient(nil)
	require.NoError(t, err)
	require.NotZero(t, clientID)

	event := <-cm.GetClientEventChan()
	assert.Equal(t, clientID, event.ClientID)
	assert.Equal(t, ClientEventTypeConnect, event.Type)

	cm.DisconnectClient(clientID)
	event = <-cm.GetClientEventChan()
	assert.Equal(t, clientID, event.ClientID)
	assert.Equal(t, ClientEventTypeDisconnect, event.Type)

	_, err = cm.GetClient(clientID)
	assert.Error(t, err)
}

func TestClientManager_DisconnectUnknownClientEmitsNothing(t *testing.T) {
	cm := NewClientManager()
	cm.DisconnectClient(42)
	assert.Empty(t, cm.GetClientEventChan())
}

func TestClientManager_EventOverflowDoesNotBlockRegistry(t *testing.T) {
	cm := NewClientManager()

	// Fill the event channel past capacity with nobody consuming. The
	// registry must keep accepting connections and lookups regardless.
	var lastID uint32
	for i := 0; i < ClientEventChannelSize+8; i++ {
		clientID, err := cm.ConnectClient(nil)
		require.NoError(t, err)
		lastID = clientID
	}

	client, err := cm.GetClient(lastID)
	require.NoError(t, err)
	assert.Equal(t, lastID, client.ID)
	assert.Len(t, cm.GetClientEventChan(), ClientEventChannelSize)
}
