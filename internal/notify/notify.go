// Package notify holds the engine observers that sit outside the storage layer.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"gamebank/internal/engine"
	"gamebank/internal/model"
	"gamebank/internal/money"
	"gamebank/internal/repository"
)

// Logger writes every notification and committed transaction to slog.
type Logger struct {
	log *slog.Logger
}

func NewLogger(log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{log: log}
}

func (l *Logger) Notify(ctx context.Context, n model.Notification) {
	level := slog.LevelInfo
	if n.Kind == model.NotifyError {
		level = slog.LevelWarn
	}
	l.log.Log(ctx, level, n.Text, "kind", n.Kind, "category", n.Category)
}

func (l *Logger) StateChanged(ctx context.Context, s model.Snapshot) {
	l.log.Debug("state changed",
		"session_id", s.SessionID,
		"balance", money.Format(s.Balance),
		"level", s.Level,
		"xp", s.XP,
		"pending", s.Pending,
	)
}

func (l *Logger) TransactionRecorded(ctx context.Context, ev model.TransactionEvent) {
	l.log.Info("transaction recorded",
		"session_id", ev.SessionID,
		"id", ev.Transaction.ID,
		"kind", ev.Transaction.Kind,
		"amount", money.Format(ev.Transaction.Amount),
		"counterparty", ev.Transaction.Counterparty,
	)
}

// Bus publishes observer calls as JSON messages on the message bus.
type Bus struct {
	bus       repository.MessageBus
	sessionID string
}

func NewBus(bus repository.MessageBus, sessionID string) *Bus {
	return &Bus{bus: bus, sessionID: sessionID}
}

type notificationMessage struct {
	SessionID string `json:"session_id"`
	model.Notification
}

func (b *Bus) Notify(ctx context.Context, n model.Notification) {
	b.publish(repository.TopicNotifications, notificationMessage{SessionID: b.sessionID, Notification: n})
}

func (b *Bus) StateChanged(ctx context.Context, s model.Snapshot) {
	b.publish(repository.TopicSnapshots, s)
}

func (b *Bus) TransactionRecorded(ctx context.Context, ev model.TransactionEvent) {
	b.publish(repository.TopicTransactions, ev)
}

func (b *Bus) publish(topic string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("notify: failed to marshal bus message", "topic", topic, "error", err)
		return
	}
	if err := b.bus.Publish(topic, data); err != nil {
		slog.Error("notify: failed to publish", "topic", topic, "error", err)
	}
}

// Fanout forwards every call to each observer in order.
type Fanout []engine.Observer

func (f Fanout) Notify(ctx context.Context, n model.Notification) {
	for _, o := range f {
		o.Notify(ctx, n)
	}
}

func (f Fanout) StateChanged(ctx context.Context, s model.Snapshot) {
	for _, o := range f {
		o.StateChanged(ctx, s)
	}
}

func (f Fanout) TransactionRecorded(ctx context.Context, ev model.TransactionEvent) {
	for _, o := range f {
		o.TransactionRecorded(ctx, ev)
	}
}

// Func adapts a notification callback into an observer that ignores state
// and transaction events.
type Func func(ctx context.Context, n model.Notification)

func (f Func) Notify(ctx context.Context, n model.Notification)                   { f(ctx, n) }
func (f Func) StateChanged(ctx context.Context, s model.Snapshot)                 {}
func (f Func) TransactionRecorded(ctx context.Context, ev model.TransactionEvent) {}
