package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"gamebank/internal/model"
)

type mockExecutor struct {
	sql  string
	args []any
	tag  string
	err  error
}

func (m *mockExecutor) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.sql = sql
	m.args = args
	return pgconn.NewCommandTag(m.tag), m.err
}

func (m *mockExecutor) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	m.sql = sql
	m.args = args
	return nil, m.err
}

func testEvent() model.TransactionEvent {
	return model.TransactionEvent{
		SessionID: "session-1",
		Transaction: model.Transaction{
			ID:           "0192f1a0-0000-7000-8000-000000000001",
			Kind:         model.TxSend,
			Amount:       decimal.RequireFromString("20"),
			Counterparty: "1111",
			OccurredOn:   "2026-10-17",
		},
		Balance:   decimal.RequireFromString("29.8"),
		CreatedAt: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
	}
}

func TestArchiveSave(t *testing.T) {
	db := &mockExecutor{tag: "INSERT 0 1"}
	repo := NewArchiveRepo(db)

	written, err := repo.Save(context.Background(), testEvent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !written {
		t.Error("expected a row to be written")
	}
	if !strings.Contains(db.sql, "ON CONFLICT (transaction_id) DO NOTHING") {
		t.Errorf("insert is not idempotent: %s", db.sql)
	}
	if len(db.args) != 8 {
		t.Fatalf("expected 8 args, got %d", len(db.args))
	}
	if db.args[3] != "20" || db.args[6] != "29.8" {
		t.Errorf("amounts not passed as exact decimals: %v, %v", db.args[3], db.args[6])
	}
	if db.args[2] != "send" {
		t.Errorf("kind = %v", db.args[2])
	}
}

func TestArchiveSave_Duplicate(t *testing.T) {
	repo := NewArchiveRepo(&mockExecutor{tag: "INSERT 0 0"})

	written, err := repo.Save(context.Background(), testEvent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written {
		t.Error("duplicate delivery reported as written")
	}
}

func TestArchiveSave_Error(t *testing.T) {
	boom := errors.New("connection reset")
	repo := NewArchiveRepo(&mockExecutor{err: boom})

	if _, err := repo.Save(context.Background(), testEvent()); !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestArchiveHistory_DefaultLimit(t *testing.T) {
	boom := errors.New("down")
	db := &mockExecutor{err: boom}
	repo := NewArchiveRepo(db)

	if _, err := repo.History(context.Background(), "session-1", 0); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if db.args[0] != "session-1" || db.args[1] != DefaultHistoryLimit {
		t.Errorf("unexpected args %v", db.args)
	}
}
