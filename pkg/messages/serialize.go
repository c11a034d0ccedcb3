package messages

import (
	"encoding/json"
	"fmt"
)

// SerializeMessage encodes a Message for the wire. The browser peer speaks
// JSON, so the envelope and every payload are plain JSON objects.
func SerializeMessage(m *Message) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message: %v", err)
	}
	return b, nil
}

// DeserializeMessage decodes a Message from the wire.
func DeserializeMessage(data []byte) (*Message, error) {
	message := &Message{}
	if err := json.Unmarshal(data, message); err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}
	return message, nil
}

// NewServerMessage builds a server-originated message with the given
// payload already marshaled into the details field.
func NewServerMessage(messageType string, details interface{}) (*Message, error) {
	payload, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s details: %v", messageType, err)
	}
	return &Message{
		PlayerID: 0,
		Type:     messageType,
		Details:  payload,
	}, nil
}
