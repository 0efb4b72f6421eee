package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyInfo    NotificationKind = "info"
)

type Notification struct {
	Kind     NotificationKind `json:"kind"`
	Category string           `json:"category,omitempty"`
	Text     string           `json:"text"`
	At       time.Time        `json:"at"`
}

// Snapshot is a deep copy of the session state handed to the presentation layer.
type Snapshot struct {
	SessionID    string          `json:"session_id"`
	Balance      decimal.Decimal `json:"balance"`
	Transactions []Transaction   `json:"transactions"`
	Terminals    []Terminal      `json:"terminals"`
	Achievements []Achievement   `json:"achievements"`
	Level        int             `json:"level"`
	XP           int             `json:"xp"`
	XPRequired   int             `json:"xp_required"`
	XPProgress   float64         `json:"xp_progress"`
	Pending      int             `json:"pending"`
	TakenAt      time.Time       `json:"taken_at"`
}

// Achievement looks up an achievement by id.
func (s Snapshot) Achievement(id AchievementID) (Achievement, bool) {
	for _, a := range s.Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// TransactionEvent is published on the bus for every committed transaction.
type TransactionEvent struct {
	SessionID   string          `json:"session_id"`
	Transaction Transaction     `json:"transaction"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ArchivedTransaction is a transaction row read back from the activity archive.
type ArchivedTransaction struct {
	SessionID     string          `json:"session_id"`
	TransactionID string          `json:"transaction_id"`
	Kind          TxKind          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	Counterparty  string          `json:"counterparty"`
	OccurredOn    string          `json:"occurred_on"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
}
