package messages

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeMessage_RoundTrip(t *testing.T) {
	details, err := json.Marshal(ClientPlayCard{CardID: 12, SlotIndex: 4})
	require.NoError(t, err)

	in := &Message{
		PlayerID: 42,
		Type:     MessageTypeClientPlayCard,
		Details:  details,
	}

	b, err := SerializeMessage(in)
	require.NoError(t, err)

	out, err := DeserializeMessage(b)
	require.NoError(t, err)
	assert.Equal(t, in.PlayerID, out.PlayerID)
	assert.Equal(t, in.Type, out.Type)

	play := &ClientPlayCard{}
	require.NoError(t, json.Unmarshal(out.Details, play))
	assert.Equal(t, 12, play.CardID)
	assert.Equal(t, 4, play.SlotIndex)
}

func TestDeserializeMessage_RejectsGarbage(t *testing.T) {
	_, err := DeserializeMessage([]byte("not json"))
	assert.Error(t, err)
}

func TestNewServerMessage(t *testing.T) {
	m, err := NewServerMessage(MessageTypeServerChat, ServerChat{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), m.PlayerID, "server messages carry no player id")
	assert.Equal(t, MessageTypeServerChat, m.Type)

	chat := &ServerChat{}
	require.NoError(t, json.Unmarshal(m.Details, chat))
	assert.Equal(t, "hello", chat.Text)
}

func TestMessage_OmitsZeroPlayerID(t *testing.T) {
	m, err := NewServerMessage(MessageTypeServerPong, struct{}{})
	require.NoError(t, err)
	b, err := SerializeMessage(m)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "playerId")
}
