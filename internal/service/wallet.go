package service

import (
	"context"

	"gamebank/internal/model"
)

// WalletService defines the operations of a wallet session.
// All transport layers (HTTP, gRPC, NATS, CLI) depend on this interface, not on the engine.
type WalletService interface {
	Transfer(ctx context.Context, req model.TransferRequest) (*model.TransferResult, error)
	TopUp(ctx context.Context, req model.TopUpRequest) (*model.Pending, error)
	CreateTerminal(ctx context.Context, req model.CreateTerminalRequest) (*model.Terminal, error)
	Purchase(ctx context.Context, req model.PurchaseRequest) (*model.Pending, error)
	Snapshot(ctx context.Context) model.Snapshot
}
