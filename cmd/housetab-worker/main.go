// housetab-worker consumes month change events and keeps the SQLite mirror
// in sync with the ledger document. Each event names a month; the worker
// re-reads that month from the document and writes the mirror to match, so
// replayed or reordered deliveries converge on the same state.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"housetab/internal/amqp"
	"housetab/internal/cli"
	"housetab/internal/filestore"
	"housetab/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting housetab-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sqliteRepo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ledgerDoc := filestore.New(cfg.LedgerPath)
	reconciler := &reconciler{ledgerDoc: ledgerDoc, mirror: sqliteRepo}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	go func() {
		if err := amqpClient.ConsumeMonthEvents(ctx, func(msg *amqp.MonthEventMessage) error {
			return reconciler.handle(ctx, msg)
		}); err != nil && err != context.Canceled {
			logger.Error("Message consumption failed", "error", err)
		}
	}()

	cli.WaitForShutdown(ctx, done)
}

type reconciler struct {
	ledgerDoc *filestore.Store
	mirror    *storage.SQLiteRepository
}

// handle reconciles one month of the mirror against the ledger document.
// The event op is advisory: the document is re-read and wins, so a created
// event for a month deleted moments later still converges.
func (r *reconciler) handle(ctx context.Context, msg *amqp.MonthEventMessage) error {
	if msg.Op == amqp.OpDeleted {
		return r.mirror.DeleteMonth(ctx, msg.MonthKey)
	}

	store, err := r.ledgerDoc.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger document: %w", err)
	}

	m, err := store.Get(msg.MonthKey)
	if err != nil {
		slog.InfoContext(ctx, "Month no longer in ledger, removing from mirror",
			"month_key", msg.MonthKey, "op", msg.Op)
		return r.mirror.DeleteMonth(ctx, msg.MonthKey)
	}

	return r.mirror.UpsertMonth(ctx, m)
}
