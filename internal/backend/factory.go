package backend

import (
	"context"
	"fmt"
	"log/slog"

	"housetab/internal/amqp"
	"housetab/internal/filestore"
	"housetab/internal/memstore"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case FileBackend:
		return f.createFileBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createFileBackend(config Config) (*BackendResult, error) {
	if config.LedgerPath == "" {
		return nil, fmt.Errorf("ledger path is required for file backend")
	}
	store := filestore.New(config.LedgerPath)

	result := &BackendResult{Repository: store}
	if client, cleanup := f.connectAMQP(config); client != nil {
		result.Events = client
		result.Cleanup = cleanup
	}

	f.logger.Info("Initialized file backend",
		"ledger_path", config.LedgerPath,
		"amqp_enabled", result.Events != nil)

	return result, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	store := memstore.New()

	result := &BackendResult{Repository: store}
	if client, cleanup := f.connectAMQP(config); client != nil {
		result.Events = client
		result.Cleanup = cleanup
	}

	f.logger.Info("Initialized memory backend", "amqp_enabled", result.Events != nil)

	return result, nil
}

// connectAMQP dials the broker when a URL is configured. A failed dial is
// logged and tolerated: the ledger works without the event stream, the
// mirror just stops receiving updates.
func (f *DefaultFactory) connectAMQP(config Config) (*amqp.Client, CleanupFunc) {
	if config.AMQPURL == "" {
		return nil, nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without month events", "error", err)
		return nil, nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client, client.Close
}
