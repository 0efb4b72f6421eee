package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gamebank/internal/model"
	"gamebank/internal/money"
)

// CreateTerminal opens a point of sale for a flat creation fee of 50,
// independent of the terminal's price.
func (e *Engine) CreateTerminal(ctx context.Context, req model.CreateTerminalRequest) (*model.Terminal, error) {
	defer e.flush(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, e.reject(fmt.Errorf("%w: terminal name", ErrMissingField),
			"Fill in all fields. Minimum price is 50")
	}
	price, err := money.Parse(req.Price)
	if err != nil || price.LessThan(MinTerminalPrice) {
		return nil, e.reject(fmt.Errorf("%w: terminal price %q", ErrInvalidAmount, req.Price),
			"Fill in all fields. Minimum price is 50")
	}
	if e.balance.LessThan(TerminalCreationFee) {
		return nil, e.reject(fmt.Errorf("%w: terminal creation costs %s", ErrInsufficientFunds, money.Format(TerminalCreationFee)),
			"Insufficient funds. Creating a terminal costs 50")
	}

	e.balance = e.balance.Sub(TerminalCreationFee)
	t := &model.Terminal{
		ID:           newID(),
		Name:         name,
		Price:        price,
		CreatedOn:    e.now().Format(model.DateLayout),
		Revenue:      decimal.Zero,
		PaymentToken: uuid.NewString(),
	}
	e.terminals = append(e.terminals, t)

	e.notify(model.NotifySuccess, "Terminal %q created", name)
	e.awardXP(XPTerminal)
	e.unlock(model.AchFirstTerminal)
	e.checkMilestone()
	e.commit()

	out := *t
	return &out, nil
}

// Purchase simulates one sale at the referenced terminal. The gross price
// is added to the terminal's revenue and the price net of the 2% commission is
// credited to the balance, both after the purchase delay.
func (e *Engine) Purchase(ctx context.Context, req model.PurchaseRequest) (*model.Pending, error) {
	defer e.flush(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}

	t := e.terminalLocked(req.TerminalRef)
	if t == nil {
		return nil, e.reject(fmt.Errorf("%w: %q", ErrUnknownTerminal, req.TerminalRef),
			"Terminal not found")
	}

	p := model.NewPending(newID(), model.PendingPurchase, e.now(), e.purchaseDelay)
	e.notify(model.NotifyInfo, "Processing payment of %s at %q...", money.Format(t.Price), t.Name)
	e.schedule(e.purchaseDelay, func() { e.completePurchase(p, t) })
	e.commit()
	return p, nil
}

// Terminal looks a terminal up by id or payment token.
func (e *Engine) Terminal(ref string) (model.Terminal, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.terminalLocked(ref)
	if t == nil {
		return model.Terminal{}, false
	}
	return *t, true
}

func (e *Engine) terminalLocked(ref string) *model.Terminal {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	for _, t := range e.terminals {
		if t.ID == ref || t.PaymentToken == ref {
			return t
		}
	}
	return nil
}

func (e *Engine) completePurchase(p *model.Pending, t *model.Terminal) {
	tx := e.applyPurchase(t)
	e.flush(context.Background())
	p.Resolve(tx)
}

// applyPurchase credits the net amount and the gross revenue under one lock
// so neither is observable without the other.
func (e *Engine) applyPurchase(t *model.Terminal) model.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()

	gross := t.Price
	commission := money.Percent(gross, CommissionRate)
	net := gross.Sub(commission)

	e.pending--
	e.balance = e.balance.Add(net)
	t.Revenue = t.Revenue.Add(gross)
	tx := e.record(model.TxPurchase, net, t.Name)

	e.notify(model.NotifySuccess, "Sale at %q: +%s (commission %s)", t.Name, money.Format(net), money.Format(commission))
	e.awardXP(XPTerminalSale)
	e.unlock(model.AchFirstTerminalSale)
	e.checkMilestone()
	e.commit()
	return tx
}
