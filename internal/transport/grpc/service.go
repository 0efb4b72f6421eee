package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"

	"gamebank/internal/model"
)

const serviceName = "gamebank.Wallet"

type TopUpRequest struct {
	model.TopUpRequest
	Wait bool `json:"wait"`
}

type PurchaseRequest struct {
	model.PurchaseRequest
	Wait bool `json:"wait"`
}

type SnapshotRequest struct{}

// PendingReply describes an accepted delayed operation. Transaction is set
// only when the caller asked to wait for completion.
type PendingReply struct {
	ID          string             `json:"id"`
	Kind        model.PendingKind  `json:"kind"`
	AcceptedAt  time.Time          `json:"accepted_at"`
	DueAt       time.Time          `json:"due_at"`
	Transaction *model.Transaction `json:"transaction,omitempty"`
}

type walletServer interface {
	Transfer(ctx context.Context, req *model.TransferRequest) (*model.TransferResult, error)
	TopUp(ctx context.Context, req *TopUpRequest) (*PendingReply, error)
	CreateTerminal(ctx context.Context, req *model.CreateTerminalRequest) (*model.Terminal, error)
	Purchase(ctx context.Context, req *PurchaseRequest) (*PendingReply, error)
	Snapshot(ctx context.Context, req *SnapshotRequest) (*model.Snapshot, error)
}

func unaryHandler[Req any, Resp any](method string, call func(walletServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(walletServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/" + method}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(walletServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var walletServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*walletServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("Transfer", walletServer.Transfer),
		unaryHandler("TopUp", walletServer.TopUp),
		unaryHandler("CreateTerminal", walletServer.CreateTerminal),
		unaryHandler("Purchase", walletServer.Purchase),
		unaryHandler("Snapshot", walletServer.Snapshot),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gamebank/wallet",
}
