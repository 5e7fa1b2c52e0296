package backend

import (
	"context"

	"housetab/internal/services"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the ledger repository, the optional event
// publisher, and a cleanup function for whatever the factory opened.
type BackendResult struct {
	Repository services.Repository
	Events     services.EventPublisher
	Cleanup    CleanupFunc
}

// Factory creates ledger backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// File backend specific
	LedgerPath string

	// AMQP (optional, enables the month event stream)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	FileBackend   BackendType = "file"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case FileBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
