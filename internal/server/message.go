package server

import (
	"encoding/json"
	"time"
)

// MessageType names a WebSocket message
type MessageType string

const (
	// Client → Server
	MessageTypeDeclare MessageType = "declare"
	MessageTypeMove    MessageType = "move"

	// Server → Client
	MessageTypeDeclareResult MessageType = "declare_result"
	MessageTypeMoveResult    MessageType = "move_result"
	MessageTypeError         MessageType = "error"
)

// Message is the WebSocket envelope. ID is chosen by the client and echoed in
// the reply so requests can be pipelined.
type Message struct {
	ID        string          `json:"id,omitempty"`
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp,omitzero"`
}

// NewMessage creates a reply with the current timestamp
func NewMessage(id string, messageType MessageType, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		ID:        id,
		Type:      messageType,
		Payload:   data,
		Timestamp: time.Now(),
	}, nil
}

// ErrorData is the payload of an error message
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
