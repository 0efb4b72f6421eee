package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"gamebank/internal/model"
)

// DefaultHistoryLimit caps History when the caller passes a non-positive limit.
const DefaultHistoryLimit = 50

// pgExecutor is the subset of *pgxpool.Pool the archive uses.
type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ArchiveRepo is a write-mostly audit log of committed wallet transactions.
// The engine never reads it back; it only feeds the archive endpoint.
type ArchiveRepo struct {
	db pgExecutor
}

func NewArchiveRepo(db pgExecutor) *ArchiveRepo {
	return &ArchiveRepo{db: db}
}

// Save stores one transaction event. Redelivered events are ignored, so the
// call is idempotent per transaction id. It reports whether a row was written.
func (r *ArchiveRepo) Save(ctx context.Context, ev model.TransactionEvent) (bool, error) {
	query := `
		INSERT INTO wallet_transactions
			(transaction_id, session_id, kind, amount, counterparty, occurred_on, balance, created_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6::date, $7::numeric, $8)
		ON CONFLICT (transaction_id) DO NOTHING`

	tag, err := r.db.Exec(ctx, query,
		ev.Transaction.ID,
		ev.SessionID,
		string(ev.Transaction.Kind),
		ev.Transaction.Amount.String(),
		ev.Transaction.Counterparty,
		ev.Transaction.OccurredOn,
		ev.Balance.String(),
		ev.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("archive transaction %s: %w", ev.Transaction.ID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// History returns the newest archived transactions of a session.
func (r *ArchiveRepo) History(ctx context.Context, sessionID string, limit int) ([]model.ArchivedTransaction, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := `
		SELECT transaction_id::text, session_id, kind, amount::text, counterparty,
		       occurred_on::text, balance::text, created_at
		FROM wallet_transactions
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query archive: %w", err)
	}
	defer rows.Close()

	var out []model.ArchivedTransaction
	for rows.Next() {
		var (
			a               model.ArchivedTransaction
			kind            string
			amount, balance string
		)
		if err := rows.Scan(&a.TransactionID, &a.SessionID, &kind, &amount, &a.Counterparty,
			&a.OccurredOn, &balance, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan archive row: %w", err)
		}
		a.Kind = model.TxKind(kind)
		if a.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("archive amount %q: %w", amount, err)
		}
		if a.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("archive balance %q: %w", balance, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archive: %w", err)
	}
	return out, nil
}
