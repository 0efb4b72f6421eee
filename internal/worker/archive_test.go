package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"gamebank/internal/model"
)

type mockStore struct {
	saved []model.TransactionEvent
	seen  map[string]bool
	err   error
}

func (m *mockStore) Save(ctx context.Context, ev model.TransactionEvent) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if m.err != nil {
		return false, m.err
	}
	if m.seen == nil {
		m.seen = map[string]bool{}
	}
	if m.seen[ev.Transaction.ID] {
		return false, nil
	}
	m.seen[ev.Transaction.ID] = true
	m.saved = append(m.saved, ev)
	return true, nil
}

func eventPayload(t *testing.T, id string) []byte {
	t.Helper()
	data, err := json.Marshal(model.TransactionEvent{
		SessionID: "s1",
		Transaction: model.Transaction{
			ID:     id,
			Kind:   model.TxTopUp,
			Amount: decimal.RequireFromString("200"),
		},
		Balance: decimal.RequireFromString("250"),
	})
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestHandle_ArchivesOnce(t *testing.T) {
	store := &mockStore{}
	w := NewArchiveWorker(store, nil)

	for i := 0; i < 2; i++ {
		if err := w.Handle(context.Background(), eventPayload(t, "tx-1")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected 1 archived event, got %d", len(store.saved))
	}
	got := store.saved[0]
	if got.SessionID != "s1" || !got.Transaction.Amount.Equal(decimal.NewFromInt(200)) || !got.Balance.Equal(decimal.NewFromInt(250)) {
		t.Errorf("unexpected event %+v", got)
	}
}

func TestHandle_Malformed(t *testing.T) {
	store := &mockStore{}
	w := NewArchiveWorker(store, nil)

	if err := w.Handle(context.Background(), []byte("{not json")); err == nil {
		t.Fatal("expected error")
	}
	if len(store.saved) != 0 {
		t.Error("malformed message archived")
	}
}

func TestHandle_StoreError(t *testing.T) {
	boom := errors.New("db down")
	w := NewArchiveWorker(&mockStore{err: boom}, nil)

	if err := w.Handle(context.Background(), eventPayload(t, "tx-1")); !errors.Is(err, boom) {
		t.Errorf("expected store error, got %v", err)
	}
}

func TestHandle_ArchivesAfterCancel(t *testing.T) {
	store := &mockStore{}
	w := NewArchiveWorker(store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := w.Handle(ctx, eventPayload(t, "tx-late")); err != nil {
		t.Fatalf("drained message was not archived: %v", err)
	}
	if len(store.saved) != 1 || store.saved[0].Transaction.ID != "tx-late" {
		t.Errorf("unexpected archive %+v", store.saved)
	}
}
