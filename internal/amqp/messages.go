package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Month event operations.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// MonthEventMessage tells the mirror worker that a month changed. It
// carries only the key and operation; the worker re-reads the ledger for
// the current state, so stale deliveries are harmless.
type MonthEventMessage struct {
	MessageID string    `json:"message_id"`
	MonthKey  string    `json:"month_key"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMonthEventMessage(monthKey, op string) *MonthEventMessage {
	return &MonthEventMessage{
		MessageID: uuid.NewString(),
		MonthKey:  monthKey,
		Op:        op,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *MonthEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MonthEventMessageFromJSON creates a message from JSON bytes.
func MonthEventMessageFromJSON(data []byte) (*MonthEventMessage, error) {
	var msg MonthEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
