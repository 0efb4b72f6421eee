package engine

import (
	"context"

	"gamebank/internal/model"
)

// Observer receives everything the presentation layer needs: user-facing
// notifications, the state after each mutation, and each committed ledger line.
// Calls are made in commit order and never while the engine lock is held.
type Observer interface {
	Notify(ctx context.Context, n model.Notification)
	StateChanged(ctx context.Context, s model.Snapshot)
	TransactionRecorded(ctx context.Context, ev model.TransactionEvent)
}

type outboxItem struct {
	note *model.Notification
	snap *model.Snapshot
	tx   *model.TransactionEvent
}

// flush delivers queued items. Items are appended to the outbox under e.mu
// in commit order and drained here in FIFO order under dispatchMu, so
// observers see the same order the engine committed in.
func (e *Engine) flush(ctx context.Context) {
	e.dispatchMu.Lock()
	defer e.dispatchMu.Unlock()

	for {
		e.mu.Lock()
		batch := e.outbox
		e.outbox = nil
		e.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, item := range batch {
			for _, o := range e.observers {
				switch {
				case item.note != nil:
					o.Notify(ctx, *item.note)
				case item.snap != nil:
					o.StateChanged(ctx, *item.snap)
				case item.tx != nil:
					o.TransactionRecorded(ctx, *item.tx)
				}
			}
		}
	}
}
