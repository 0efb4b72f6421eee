package infrastructure

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Server is anything the App runs until shutdown.
type Server interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

const shutdownTimeout = 10 * time.Second

type App struct {
	servers  []Server
	shutdown []func(ctx context.Context) error
}

// NewApp runs servers. On shutdown the hooks run first, while every server is
// still live, and only then are the servers stopped.
func NewApp(servers []Server, shutdown ...func(ctx context.Context) error) *App {
	return &App{servers: servers, shutdown: shutdown}
}

func (a *App) Run(ctx context.Context) error {
	// Servers outlive ctx until the shutdown hooks have finished.
	serveCtx, stopServing := context.WithCancel(context.WithoutCancel(ctx))
	defer stopServing()
	g, serveCtx := errgroup.WithContext(serveCtx)

	for _, srv := range a.servers {
		g.Go(func() error {
			return srv.Start(serveCtx)
		})
	}

	select {
	case <-ctx.Done():
	case <-serveCtx.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, fn := range a.shutdown {
		if err := fn(stopCtx); err != nil {
			slog.Error("shutdown hook failed", "error", err)
		}
	}

	stopServing()
	for _, srv := range a.servers {
		if err := srv.Stop(stopCtx); err != nil {
			slog.Error("failed to stop server", "error", err)
		}
	}
	return g.Wait()
}
