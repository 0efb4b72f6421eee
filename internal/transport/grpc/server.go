package grpc

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gamebank/internal/engine"
	"gamebank/internal/model"
	"gamebank/internal/service"
)

type Server struct {
	svc  service.WalletService
	srv  *grpc.Server
	addr string
}

func NewServer(addr string, svc service.WalletService) *Server {
	s := &Server{svc: svc, addr: addr, srv: grpc.NewServer()}
	s.srv.RegisterService(&walletServiceDesc, s)
	return s
}

func (s *Server) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

// Serve runs the server on an existing listener.
func (s *Server) Serve(lis net.Listener) error {
	slog.Info("gRPC API is listening", "addr", lis.Addr().String())
	return s.srv.Serve(lis)
}

func (s *Server) Stop(ctx context.Context) error {
	s.srv.GracefulStop()
	return nil
}

func (s *Server) Transfer(ctx context.Context, req *model.TransferRequest) (*model.TransferResult, error) {
	res, err := s.svc.Transfer(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return res, nil
}

func (s *Server) TopUp(ctx context.Context, req *TopUpRequest) (*PendingReply, error) {
	p, err := s.svc.TopUp(ctx, req.TopUpRequest)
	if err != nil {
		return nil, toStatus(err)
	}
	return pendingReply(ctx, p, req.Wait)
}

func (s *Server) CreateTerminal(ctx context.Context, req *model.CreateTerminalRequest) (*model.Terminal, error) {
	t, err := s.svc.CreateTerminal(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return t, nil
}

func (s *Server) Purchase(ctx context.Context, req *PurchaseRequest) (*PendingReply, error) {
	p, err := s.svc.Purchase(ctx, req.PurchaseRequest)
	if err != nil {
		return nil, toStatus(err)
	}
	return pendingReply(ctx, p, req.Wait)
}

func (s *Server) Snapshot(ctx context.Context, req *SnapshotRequest) (*model.Snapshot, error) {
	snap := s.svc.Snapshot(ctx)
	return &snap, nil
}

func pendingReply(ctx context.Context, p *model.Pending, wait bool) (*PendingReply, error) {
	reply := &PendingReply{ID: p.ID, Kind: p.Kind, AcceptedAt: p.AcceptedAt, DueAt: p.DueAt}
	if !wait {
		return reply, nil
	}
	tx, err := p.Wait(ctx)
	if err != nil {
		return nil, status.FromContextError(err).Err()
	}
	reply.Transaction = &tx
	return reply, nil
}

func toStatus(err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, engine.ErrUnknownTerminal):
		code = codes.NotFound
	case errors.Is(err, engine.ErrInsufficientFunds):
		code = codes.FailedPrecondition
	case errors.Is(err, engine.ErrClosed):
		code = codes.Unavailable
	case engine.Category(err) != "":
		code = codes.InvalidArgument
	default:
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}
