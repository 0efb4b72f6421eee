package model

import "github.com/shopspring/decimal"

type TxKind string

const (
	TxSend     TxKind = "send"
	TxReceive  TxKind = "receive"
	TxTopUp    TxKind = "topup"
	TxPurchase TxKind = "purchase"
)

// DateLayout is the day-granularity format used for OccurredOn/CreatedOn.
const DateLayout = "2006-01-02"

type Transaction struct {
	ID           string          `json:"id"`
	Kind         TxKind          `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	Counterparty string          `json:"counterparty"`
	OccurredOn   string          `json:"occurred_on"`
}

// Credit reports whether the transaction increased the balance.
func (t Transaction) Credit() bool {
	return t.Kind != TxSend
}

type Terminal struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	CreatedOn    string          `json:"created_on"`
	Revenue      decimal.Decimal `json:"revenue"`
	PaymentToken string          `json:"payment_token"`
}

type Bank string

const (
	BankSber    Bank = "sber"
	BankTinkoff Bank = "tinkoff"
	BankVTB     Bank = "vtb"
	BankAlfa    Bank = "alfa"
)

var bankLabels = map[Bank]string{
	BankSber:    "Sber",
	BankTinkoff: "Tinkoff",
	BankVTB:     "VTB",
	BankAlfa:    "Alfa-Bank",
}

// Banks lists the selectable top-up sources in display order.
func Banks() []Bank {
	return []Bank{BankSber, BankTinkoff, BankVTB, BankAlfa}
}

// Label returns the display name and whether the bank is known.
func (b Bank) Label() (string, bool) {
	l, ok := bankLabels[b]
	return l, ok
}

type TransferRequest struct {
	Amount        string `json:"amount"`
	RecipientCard string `json:"recipient_card"`
}

type TransferResult struct {
	Transaction Transaction     `json:"transaction"`
	Fee         decimal.Decimal `json:"fee"`
	Balance     decimal.Decimal `json:"balance"`
}

type TopUpRequest struct {
	Amount     string `json:"amount"`
	CardNumber string `json:"card_number"`
	Bank       Bank   `json:"bank"`
}

type CreateTerminalRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// PurchaseRequest addresses a terminal by id or payment token.
type PurchaseRequest struct {
	TerminalRef string `json:"terminal_ref"`
}
