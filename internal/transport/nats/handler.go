package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"gamebank/internal/engine"
	"gamebank/internal/model"
	"gamebank/internal/service"
)

const (
	SubjectTransfer = "gamebank.commands.transfer"
	SubjectTopUp    = "gamebank.commands.topup"
	SubjectTerminal = "gamebank.commands.terminal"
	SubjectPurchase = "gamebank.commands.purchase"
	SubjectState    = "gamebank.commands.state"

	queueGroup = "gamebank"
)

// Reply is the body sent back on every command subject.
type Reply struct {
	OK       bool            `json:"ok"`
	Result   json.RawMessage `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
	Category string          `json:"category,omitempty"`
}

type pendingCommand[T any] struct {
	Request T    `json:"request"`
	Wait    bool `json:"wait"`
}

// Handler subscribes to command subjects and answers each request with a Reply.
type Handler struct {
	svc  service.WalletService
	nc   *nats.Conn
	subs []*nats.Subscription
}

func NewHandler(svc service.WalletService, nc *nats.Conn) *Handler {
	return &Handler{svc: svc, nc: nc}
}

// Dispatch runs one command and builds its reply. It is independent of the
// connection so it can be exercised without a server.
func (h *Handler) Dispatch(ctx context.Context, subject string, data []byte) Reply {
	var (
		result any
		err    error
	)
	switch subject {
	case SubjectTransfer:
		var req model.TransferRequest
		if err = json.Unmarshal(data, &req); err == nil {
			result, err = h.svc.Transfer(ctx, req)
		}
	case SubjectTopUp:
		var cmd pendingCommand[model.TopUpRequest]
		if err = json.Unmarshal(data, &cmd); err == nil {
			var p *model.Pending
			if p, err = h.svc.TopUp(ctx, cmd.Request); err == nil {
				result, err = settle(ctx, p, cmd.Wait)
			}
		}
	case SubjectTerminal:
		var req model.CreateTerminalRequest
		if err = json.Unmarshal(data, &req); err == nil {
			result, err = h.svc.CreateTerminal(ctx, req)
		}
	case SubjectPurchase:
		var cmd pendingCommand[model.PurchaseRequest]
		if err = json.Unmarshal(data, &cmd); err == nil {
			var p *model.Pending
			if p, err = h.svc.Purchase(ctx, cmd.Request); err == nil {
				result, err = settle(ctx, p, cmd.Wait)
			}
		}
	case SubjectState:
		result = h.svc.Snapshot(ctx)
	default:
		err = fmt.Errorf("unknown subject %q", subject)
	}

	if err != nil {
		return Reply{Error: err.Error(), Category: engine.Category(err)}
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return Reply{Error: err.Error()}
	}
	return Reply{OK: true, Result: raw}
}

func settle(ctx context.Context, p *model.Pending, wait bool) (any, error) {
	if !wait {
		return p, nil
	}
	return p.Wait(ctx)
}

// Start subscribes to command subjects and blocks until ctx is cancelled (graceful shutdown).
func (h *Handler) Start(ctx context.Context) error {
	for _, subject := range []string{SubjectTransfer, SubjectTopUp, SubjectTerminal, SubjectPurchase, SubjectState} {
		sub, err := h.nc.QueueSubscribe(subject, queueGroup, func(m *nats.Msg) {
			reply := h.Dispatch(ctx, m.Subject, m.Data)
			if !reply.OK {
				slog.Warn("nats: command failed", "subject", m.Subject, "error", reply.Error)
			}
			if m.Reply == "" {
				return
			}
			data, _ := json.Marshal(reply)
			if err := m.Respond(data); err != nil {
				slog.Error("nats: failed to respond", "subject", m.Subject, "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("nats: subscribe %s: %w", subject, err)
		}
		h.subs = append(h.subs, sub)
	}

	slog.Info("NATS command handler is running")

	<-ctx.Done()
	slog.Info("NATS command handler shutting down, draining subscriptions...")

	for _, s := range h.subs {
		_ = s.Drain()
	}
	return nil
}

func (h *Handler) Stop(ctx context.Context) error {
	return nil
}
