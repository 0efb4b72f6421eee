package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"gamebank/internal/model"
)

// Client calls a remote gamebank.Wallet service.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to addr without transport security.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) invoke(ctx context.Context, method string, in, out any) error {
	return c.conn.Invoke(ctx, "/"+serviceName+"/"+method, in, out)
}

func (c *Client) Transfer(ctx context.Context, req model.TransferRequest) (*model.TransferResult, error) {
	out := new(model.TransferResult)
	if err := c.invoke(ctx, "Transfer", &req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) TopUp(ctx context.Context, req model.TopUpRequest, wait bool) (*PendingReply, error) {
	out := new(PendingReply)
	if err := c.invoke(ctx, "TopUp", &TopUpRequest{TopUpRequest: req, Wait: wait}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTerminal(ctx context.Context, req model.CreateTerminalRequest) (*model.Terminal, error) {
	out := new(model.Terminal)
	if err := c.invoke(ctx, "CreateTerminal", &req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Purchase(ctx context.Context, req model.PurchaseRequest, wait bool) (*PendingReply, error) {
	out := new(PendingReply)
	if err := c.invoke(ctx, "Purchase", &PurchaseRequest{PurchaseRequest: req, Wait: wait}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	out := new(model.Snapshot)
	if err := c.invoke(ctx, "Snapshot", &SnapshotRequest{}, out); err != nil {
		return nil, err
	}
	return out, nil
}
