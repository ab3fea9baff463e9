package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"kasrt/internal/amqp"
	"kasrt/internal/core"
	ledger "kasrt/internal/ledger"
)

// LedgerStore is the mutation surface a ledger backend must provide.
type LedgerStore interface {
	ledger.TransactionAppender
	ledger.TransactionDeleter
}

// LedgerService orchestrates entry and deletion against the active
// backend and, when configured, queues sync messages so the worker
// mirrors the change to the Google Sheets workbook. Mirroring is
// fire-and-forget: a publish failure never fails the user's request.
type LedgerService struct {
	store LedgerStore
	queue *amqp.Client

	mu     sync.Mutex
	lastID int64
}

func NewLedgerService(store LedgerStore, queue *amqp.Client) *LedgerService {
	return &LedgerService{store: store, queue: queue}
}

// NextID generates a transaction ID from the wall clock. IDs only
// need to be unique and never reused; a second entry within the same
// second bumps past the previous ID.
func (s *LedgerService) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := time.Now().Unix()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// CreateTransaction validates and appends one entry, then queues a
// mirror request.
func (s *LedgerService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.ID == 0 {
		t.ID = s.NextID()
	}
	if t.Date.IsZero() {
		t.Date = core.Date{Time: time.Now()}
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.Append(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("append transaction: %w", err)
	}
	s.publish(ctx, amqp.NewSyncMessage(amqp.OpAppend, t.ID, 1))
	return t, nil
}

// DeleteTransaction removes one entry by ID. ledger.ErrNotFound
// passes through untouched: delete-target-not-found is the one
// mutation failure the caller must see.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewSyncMessage(amqp.OpDelete, id, 1))
	return nil
}

func (s *LedgerService) publish(ctx context.Context, msg *amqp.SyncMessage) {
	if s.queue == nil {
		return
	}
	if err := s.queue.PublishSync(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"op", msg.Op, "id", msg.ID, "error", err)
	}
}
