package engine

import "errors"

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrMissingField      = errors.New("missing field")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidCard       = errors.New("invalid card number")
	ErrUnknownTerminal   = errors.New("unknown terminal")
	ErrClosed            = errors.New("wallet engine is closed")
)

// Category maps an operation error onto the notification category shown to
// the user. Unknown errors map to "".
func Category(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return "invalid-amount"
	case errors.Is(err, ErrMissingField):
		return "missing-field"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient-funds"
	case errors.Is(err, ErrInvalidCard):
		return "invalid-card"
	case errors.Is(err, ErrUnknownTerminal):
		return "unknown-terminal"
	case errors.Is(err, ErrClosed):
		return "closed"
	default:
		return ""
	}
}
