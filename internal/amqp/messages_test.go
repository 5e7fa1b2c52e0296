package amqp

import (
	"testing"
	"time"
)

func TestMonthEventMessageRoundTrip(t *testing.T) {
	msg := NewMonthEventMessage("2025-01", OpUpdated)
	if msg.MessageID == "" {
		t.Fatal("message id not set")
	}
	if msg.Timestamp.IsZero() || time.Since(msg.Timestamp) > time.Minute {
		t.Fatalf("timestamp not set: %v", msg.Timestamp)
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	got, err := MonthEventMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.MessageID != msg.MessageID || got.MonthKey != "2025-01" || got.Op != OpUpdated {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestMonthEventMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := MonthEventMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error")
	}
}
