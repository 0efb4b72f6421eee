package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"gamebank/internal/model"
	"gamebank/internal/money"
)

// Transfer sends amount to an external card. The sender pays a 1% fee on
// top of the amount; only the amount is recorded as the ledger line.
func (e *Engine) Transfer(ctx context.Context, req model.TransferRequest) (*model.TransferResult, error) {
	defer e.flush(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}

	amount, err := money.Parse(req.Amount)
	if err != nil || !amount.IsPositive() || amount.GreaterThan(e.balance) {
		return nil, e.reject(fmt.Errorf("%w: transfer amount %q", ErrInvalidAmount, req.Amount),
			"Invalid transfer amount")
	}
	card := strings.TrimSpace(req.RecipientCard)
	if card == "" {
		return nil, e.reject(fmt.Errorf("%w: recipient card", ErrMissingField),
			"Enter the recipient card number")
	}
	fee := money.Percent(amount, TransferFeeRate)
	total := amount.Add(fee)
	if total.GreaterThan(e.balance) {
		return nil, e.reject(fmt.Errorf("%w: need %s including fee, have %s",
			ErrInsufficientFunds, money.Format(total), money.Format(e.balance)),
			"Insufficient funds including the 1% fee")
	}

	e.balance = e.balance.Sub(total)
	tx := e.record(model.TxSend, amount, card)
	e.notify(model.NotifySuccess, "Transferred %s (fee %s)", money.Format(amount), money.Format(fee))
	e.awardXP(XPTransfer)
	e.unlock(model.AchFirstTransfer)
	e.checkMilestone()
	e.commit()

	return &model.TransferResult{Transaction: tx, Fee: fee, Balance: e.balance}, nil
}

// TopUp accepts a card top-up and credits it after the top-up delay. No fee
// is charged.
func (e *Engine) TopUp(ctx context.Context, req model.TopUpRequest) (*model.Pending, error) {
	defer e.flush(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}

	amount, err := money.Parse(req.Amount)
	if err != nil || amount.LessThan(MinTopUp) {
		return nil, e.reject(fmt.Errorf("%w: top-up amount %q", ErrInvalidAmount, req.Amount),
			fmt.Sprintf("Minimum top-up is %s", money.Format(MinTopUp)))
	}
	if !validCard(req.CardNumber) {
		return nil, e.reject(fmt.Errorf("%w: need at least %d digits", ErrInvalidCard, minCardDigits),
			"Enter a valid 16-digit card number")
	}
	label, ok := req.Bank.Label()
	if !ok {
		return nil, e.reject(fmt.Errorf("%w: bank %q", ErrMissingField, req.Bank),
			"Choose a bank")
	}

	p := model.NewPending(newID(), model.PendingTopUp, e.now(), e.topUpDelay)
	e.notify(model.NotifyInfo, "Processing top-up of %s from %s...", money.Format(amount), label)
	e.schedule(e.topUpDelay, func() { e.completeTopUp(p, amount, label) })
	e.commit()
	return p, nil
}

func (e *Engine) completeTopUp(p *model.Pending, amount decimal.Decimal, label string) {
	tx := e.applyTopUp(amount, label)
	e.flush(context.Background())
	p.Resolve(tx)
}

func (e *Engine) applyTopUp(amount decimal.Decimal, label string) model.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pending--
	e.balance = e.balance.Add(amount)
	tx := e.record(model.TxTopUp, amount, label)
	e.notify(model.NotifySuccess, "Top-up of %s from %s credited", money.Format(amount), label)
	e.awardXP(XPTopUp)
	e.unlock(model.AchFirstTopUp)
	e.checkMilestone()
	e.commit()
	return tx
}

// validCard accepts card numbers of at least 16 digits once whitespace is
// removed.
func validCard(raw string) bool {
	digits := strings.Join(strings.Fields(raw), "")
	if len(digits) < minCardDigits {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
