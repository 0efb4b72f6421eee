package model

import (
	"context"
	"sync"
	"time"
)

type PendingKind string

const (
	PendingTopUp    PendingKind = "topup"
	PendingPurchase PendingKind = "purchase"
)

// Pending is the handle returned for an accepted delayed operation.
// It resolves exactly once, when the delayed effect has been committed.
type Pending struct {
	ID         string      `json:"id"`
	Kind       PendingKind `json:"kind"`
	AcceptedAt time.Time   `json:"accepted_at"`
	DueAt      time.Time   `json:"due_at"`

	once sync.Once
	done chan struct{}
	tx   Transaction
}

func NewPending(id string, kind PendingKind, acceptedAt time.Time, delay time.Duration) *Pending {
	return &Pending{
		ID:         id,
		Kind:       kind,
		AcceptedAt: acceptedAt,
		DueAt:      acceptedAt.Add(delay),
		done:       make(chan struct{}),
	}
}

// Resolve records the committed transaction. Calls after the first are ignored.
func (p *Pending) Resolve(tx Transaction) {
	p.once.Do(func() {
		p.tx = tx
		close(p.done)
	})
}

// Done is closed once the operation has been applied.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the operation is applied or ctx ends.
func (p *Pending) Wait(ctx context.Context) (Transaction, error) {
	select {
	case <-p.done:
		return p.tx, nil
	case <-ctx.Done():
		return Transaction{}, ctx.Err()
	}
}

// Result returns the transaction if the operation has completed.
func (p *Pending) Result() (Transaction, bool) {
	select {
	case <-p.done:
		return p.tx, true
	default:
		return Transaction{}, false
	}
}
