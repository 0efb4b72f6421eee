// Package engine holds the wallet session: ledger, terminal registry and
// progression. All mutations go through one lock; the two delayed
// operations (top-up and terminal purchase) are applied by timers against
// the balance current at the moment they fire.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gamebank/internal/model"
	"gamebank/internal/money"
)

const (
	DefaultTopUpDelay    = 2000 * time.Millisecond
	DefaultPurchaseDelay = 1500 * time.Millisecond
)

var (
	StartingBalance     = money.MustParse("50")
	TransferFeeRate     = money.MustParse("0.01")
	CommissionRate      = money.MustParse("0.02")
	TerminalCreationFee = money.MustParse("50")
	MinTerminalPrice    = money.MustParse("50")
	MinTopUp            = money.MustParse("100")
	BalanceMilestone    = money.MustParse("1000")
)

const (
	seedCounterparty = "System"
	minCardDigits    = 16
)

type Options struct {
	SessionID     string
	TopUpDelay    time.Duration
	PurchaseDelay time.Duration
	Observers     []Observer
	// Now is the clock used for dates and timestamps; time.Now when nil.
	Now func() time.Time
}

type Engine struct {
	sessionID     string
	topUpDelay    time.Duration
	purchaseDelay time.Duration
	now           func() time.Time
	observers     []Observer

	mu        sync.Mutex
	balance   decimal.Decimal
	txs       []model.Transaction // newest first
	terminals []*model.Terminal
	progress  *Progress
	pending   int
	closed    bool
	outbox    []outboxItem

	dispatchMu sync.Mutex
	timers     sync.WaitGroup
}

// New returns an engine seeded with the session-start state: balance 50,
// one incoming transaction from the system, level 1.
func New(opts Options) *Engine {
	e := &Engine{
		sessionID:     opts.SessionID,
		topUpDelay:    opts.TopUpDelay,
		purchaseDelay: opts.PurchaseDelay,
		now:           opts.Now,
		observers:     opts.Observers,
		progress:      NewProgress(),
	}
	if e.sessionID == "" {
		e.sessionID = uuid.NewString()
	}
	if e.topUpDelay <= 0 {
		e.topUpDelay = DefaultTopUpDelay
	}
	if e.purchaseDelay <= 0 {
		e.purchaseDelay = DefaultPurchaseDelay
	}
	if e.now == nil {
		e.now = time.Now
	}

	e.balance = StartingBalance
	e.txs = []model.Transaction{{
		ID:           newID(),
		Kind:         model.TxReceive,
		Amount:       StartingBalance,
		Counterparty: seedCounterparty,
		OccurredOn:   e.now().Format(model.DateLayout),
	}}
	return e
}

func (e *Engine) SessionID() string { return e.sessionID }

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot(ctx context.Context) model.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// PublishState pushes the current state to every observer without mutating it.
func (e *Engine) PublishState(ctx context.Context) {
	e.mu.Lock()
	snap := e.snapshotLocked()
	e.outbox = append(e.outbox, outboxItem{snap: &snap})
	e.mu.Unlock()
	e.flush(ctx)
}

// Close stops accepting operations and waits for scheduled effects to be
// applied. Scheduled effects cannot be cancelled; ctx only bounds the wait.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	e.closed = true
	pending := e.pending
	e.mu.Unlock()

	if pending > 0 {
		slog.Info("engine: waiting for scheduled operations", "pending", pending)
	}

	done := make(chan struct{})
	go func() {
		e.timers.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("engine: close: %w", ctx.Err())
	}
}

func (e *Engine) snapshotLocked() model.Snapshot {
	txs := make([]model.Transaction, len(e.txs))
	copy(txs, e.txs)

	terminals := make([]model.Terminal, 0, len(e.terminals))
	for _, t := range e.terminals {
		terminals = append(terminals, *t)
	}

	level, xp := e.progress.Level(), e.progress.XP()
	required := model.XPRequiredFor(level)
	return model.Snapshot{
		SessionID:    e.sessionID,
		Balance:      e.balance,
		Transactions: txs,
		Terminals:    terminals,
		Achievements: e.progress.Achievements(),
		Level:        level,
		XP:           xp,
		XPRequired:   required,
		XPProgress:   float64(xp) / float64(required) * 100,
		Pending:      e.pending,
		TakenAt:      e.now(),
	}
}

// record prepends a ledger line. Call it after the balance has been updated so
// the published event carries the resulting balance.
func (e *Engine) record(kind model.TxKind, amount decimal.Decimal, counterparty string) model.Transaction {
	now := e.now()
	tx := model.Transaction{
		ID:           newID(),
		Kind:         kind,
		Amount:       amount,
		Counterparty: counterparty,
		OccurredOn:   now.Format(model.DateLayout),
	}
	e.txs = append([]model.Transaction{tx}, e.txs...)
	e.outbox = append(e.outbox, outboxItem{tx: &model.TransactionEvent{
		SessionID:   e.sessionID,
		Transaction: tx,
		Balance:     e.balance,
		CreatedAt:   now,
	}})
	return tx
}

func (e *Engine) notify(kind model.NotificationKind, format string, args ...any) {
	e.outbox = append(e.outbox, outboxItem{note: &model.Notification{
		Kind: kind,
		Text: fmt.Sprintf(format, args...),
		At:   e.now(),
	}})
}

// reject queues the error notification for a failed precondition and
// returns err unchanged.
func (e *Engine) reject(err error, text string) error {
	e.outbox = append(e.outbox, outboxItem{note: &model.Notification{
		Kind:     model.NotifyError,
		Category: Category(err),
		Text:     text,
		At:       e.now(),
	}})
	return err
}

// commit queues the post-mutation snapshot.
func (e *Engine) commit() {
	snap := e.snapshotLocked()
	e.outbox = append(e.outbox, outboxItem{snap: &snap})
}

func (e *Engine) awardXP(n int) {
	e.emitProgress(e.progress.AwardXP(n))
}

func (e *Engine) unlock(id model.AchievementID) {
	e.emitProgress(e.progress.Unlock(id))
}

func (e *Engine) emitProgress(events []ProgressEvent) {
	for _, ev := range events {
		switch {
		case ev.Unlocked != nil:
			e.notify(model.NotifySuccess, "Achievement unlocked: %s", ev.Unlocked.Title)
		case ev.LevelUp > 0:
			e.notify(model.NotifySuccess, "Congratulations! You reached level %d", ev.LevelUp)
		}
	}
}

// checkMilestone runs after every balance mutation.
func (e *Engine) checkMilestone() {
	if e.balance.GreaterThanOrEqual(BalanceMilestone) {
		e.unlock(model.AchBalance1000)
	}
}

// schedule runs fn once after delay. Must be called with e.mu held and the
// engine open, so Close never races a new timer registration.
func (e *Engine) schedule(delay time.Duration, fn func()) {
	e.pending++
	e.timers.Add(1)
	time.AfterFunc(delay, func() {
		defer e.timers.Done()
		fn()
	})
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
