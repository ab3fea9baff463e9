package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kasrt/internal/amqp"
	"kasrt/internal/core"
	ledger "kasrt/internal/ledger"
	"kasrt/internal/storage"
)

// LocalStore is the slice of the SQLite repository the worker needs.
type LocalStore interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	GetPendingSync(ctx context.Context, limit int) ([]storage.PendingTransaction, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

// Mirror is the remote side of the sync: the Google Sheets workbook.
type Mirror interface {
	ledger.TransactionAppender
	ledger.TransactionDeleter
}

// SyncWorker mirrors locally stored ledger entries to the shared
// spreadsheet. It is driven by queue messages, with a catch-up pass at
// startup and on a periodic tick for anything the queue missed.
type SyncWorker struct {
	store     LocalStore
	mirror    Mirror
	batchSize int
}

func NewSyncWorker(store LocalStore, mirror Mirror, batchSize int) *SyncWorker {
	if batchSize < 1 {
		batchSize = 10
	}
	return &SyncWorker{store: store, mirror: mirror, batchSize: batchSize}
}

// HandleMessage processes one queue message. A returned error requeues
// the message.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.SyncMessage) error {
	switch msg.Op {
	case amqp.OpAppend:
		return w.syncAppend(ctx, msg.ID)
	case amqp.OpDelete:
		return w.syncDelete(ctx, msg.ID)
	default:
		// Unknown op: drop rather than requeue forever.
		slog.WarnContext(ctx, "Unknown sync op, dropping message", "op", msg.Op, "id", msg.ID)
		return nil
	}
}

func (w *SyncWorker) syncAppend(ctx context.Context, id int64) error {
	t, err := w.store.GetTransaction(ctx, id)
	if errors.Is(err, ledger.ErrNotFound) {
		// Deleted locally before the mirror ran; nothing to do.
		slog.WarnContext(ctx, "Transaction gone before sync, skipping", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load transaction %d: %w", id, err)
	}

	if err := w.mirror.Append(ctx, t); err != nil {
		if markErr := w.store.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("mirror transaction %d: %w", id, err)
	}
	if err := w.store.MarkSynced(ctx, id); err != nil {
		return fmt.Errorf("mark synced %d: %w", id, err)
	}
	slog.InfoContext(ctx, "Transaction mirrored to sheet", "id", id)
	return nil
}

func (w *SyncWorker) syncDelete(ctx context.Context, id int64) error {
	err := w.mirror.Delete(ctx, id)
	if errors.Is(err, ledger.ErrNotFound) {
		// Row was never mirrored or already removed remotely.
		slog.WarnContext(ctx, "Delete target not on sheet, skipping", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("mirror delete %d: %w", id, err)
	}
	slog.InfoContext(ctx, "Transaction deletion mirrored to sheet", "id", id)
	return nil
}

// ProcessPending mirrors any rows still marked pending, in batches.
// Used at startup and on the periodic tick.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.store.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}
	slog.InfoContext(ctx, "Processing pending sync backlog", "count", len(pending))
	for _, p := range pending {
		if err := w.syncAppend(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Pending sync failed", "id", p.ID, "error", err)
			// keep going; the row stays pending or marked error
		}
	}
	return nil
}
