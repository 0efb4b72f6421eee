package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"gamebank/internal/model"
	"gamebank/internal/repository"
)

const (
	archiveQueueGroup = "gamebank_archive"
	archiveTimeout    = 5 * time.Second
)

// archiveStore is implemented by *repository.ArchiveRepo.
type archiveStore interface {
	Save(ctx context.Context, ev model.TransactionEvent) (bool, error)
}

// ArchiveWorker listens on the transactions topic and writes every committed
// wallet transaction to the PostgreSQL archive.
type ArchiveWorker struct {
	store    archiveStore
	natsConn *nats.Conn
}

func NewArchiveWorker(store archiveStore, nc *nats.Conn) *ArchiveWorker {
	return &ArchiveWorker{store: store, natsConn: nc}
}

// Handle archives one bus message. Malformed messages are dropped.
// Cancellation of ctx is ignored so messages drained at shutdown are still
// written; each save is bounded by its own timeout instead.
func (w *ArchiveWorker) Handle(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()

	var event model.TransactionEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("worker: unmarshal transaction event: %w", err)
	}

	written, err := w.store.Save(ctx, event)
	if err != nil {
		return err
	}
	if !written {
		slog.Debug("worker: transaction already archived", "id", event.Transaction.ID)
		return nil
	}
	slog.Info("worker: transaction archived",
		"session_id", event.SessionID,
		"id", event.Transaction.ID,
		"kind", event.Transaction.Kind,
	)
	return nil
}

// Start subscribes to the transactions topic and blocks until ctx is
// cancelled, then drains the subscription.
func (w *ArchiveWorker) Start(ctx context.Context) error {
	// QueueSubscribe: with several API replicas only one of them archives each message.
	sub, err := w.natsConn.QueueSubscribe(repository.TopicTransactions, archiveQueueGroup, func(m *nats.Msg) {
		if err := w.Handle(ctx, m.Data); err != nil {
			slog.Error("worker: failed to archive transaction", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("worker: failed to subscribe to NATS: %w", err)
	}

	slog.Info("Archive worker is running")
	<-ctx.Done()

	slog.Info("Archive worker received shutdown signal, draining subscription...")
	return sub.Drain()
}

// Stop is a no-op; the drain is driven by Start's ctx.
func (w *ArchiveWorker) Stop(ctx context.Context) error {
	return nil
}
