package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"gamebank/internal/config"
	"gamebank/internal/engine"
	"gamebank/internal/notify"
	"gamebank/internal/repository"
	transportGRPC "gamebank/internal/transport/grpc"
	transportHTTP "gamebank/internal/transport/http"
	transportNATS "gamebank/internal/transport/nats"
	"gamebank/internal/worker"
)

// Bootstrap wires the wallet engine, its observers and every enabled
// transport. Returns the App, a cleanup function, or an error.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, func(), error) {
	sessionID := cfg.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	log := logger.With("session_id", sessionID)

	var cleanupFns []func()
	observers := notify.Fanout{notify.NewLogger(log)}

	var (
		archive transportHTTP.ArchiveReader
		feed    transportHTTP.FeedReader
		servers []Server
	)

	// 1. Snapshot cache
	if addr, err := cfg.RedisAddr(); err == nil {
		rdb, err := connectRedis(addr)
		if err != nil {
			return nil, runCleanup(cleanupFns), err
		}
		cleanupFns = append(cleanupFns, func() { _ = rdb.Close() })

		cache := repository.NewSnapshotCache(rdb, cfg.SnapshotTTL)
		observers = append(observers, repository.NewCacheObserver(cache, sessionID))
		feed = cache
		log.Info("snapshot cache enabled", "addr", addr)
	} else {
		log.Info("snapshot cache skipped", "reason", err)
	}

	// 2. Archive database
	var archiveRepo *repository.ArchiveRepo
	if dsn, err := cfg.DSN(); err == nil {
		db, err := connectPostgres(dsn)
		if err != nil {
			return nil, runCleanup(cleanupFns), err
		}
		cleanupFns = append(cleanupFns, db.Close)

		archiveRepo = repository.NewArchiveRepo(db)
		archive = archiveRepo
	} else {
		log.Info("archive skipped", "reason", err)
	}

	// 3. Message bus
	var handlerFor func(*engine.Engine) Server
	var flushBus func(ctx context.Context) error
	if addr, err := cfg.NatsAddr(); err == nil {
		nc, err := connectNats(addr)
		if err != nil {
			return nil, runCleanup(cleanupFns), err
		}
		cleanupFns = append(cleanupFns, nc.Close)

		observers = append(observers, notify.NewBus(transportNATS.NewBus(nc), sessionID))
		handlerFor = func(e *engine.Engine) Server { return transportNATS.NewHandler(e, nc) }
		flushBus = nc.FlushWithContext

		if archiveRepo != nil {
			servers = append(servers, worker.NewArchiveWorker(archiveRepo, nc))
		}
	} else {
		log.Info("message bus skipped", "reason", err)
		if archiveRepo != nil {
			log.Warn("archive is read-only without a message bus; new transactions will not be archived")
		}
	}

	eng := engine.New(engine.Options{
		SessionID:     sessionID,
		TopUpDelay:    cfg.TopUpDelay,
		PurchaseDelay: cfg.PurchaseDelay,
		Observers:     []engine.Observer{observers},
	})

	// 4. Transports
	if handlerFor != nil {
		servers = append(servers, handlerFor(eng))
	}
	if addr, err := cfg.ApiAddr(); err == nil {
		servers = append(servers, transportHTTP.NewServer(addr, eng, archive, feed))
	}
	if addr, err := cfg.GRPCAddr(); err == nil {
		servers = append(servers, transportGRPC.NewServer(addr, eng))
	}
	if len(servers) == 0 {
		log.Warn("no transport enabled; the wallet is only reachable through its observers")
	}

	// Seed the read models with the session-start state.
	eng.PublishState(ctx)

	// The engine closes first so effects completing during shutdown still
	// reach the bus, then the bus is flushed before the worker drains.
	hooks := []func(ctx context.Context) error{eng.Close}
	if flushBus != nil {
		hooks = append(hooks, flushBus)
	}
	return NewApp(servers, hooks...), runCleanup(cleanupFns), nil
}

// runCleanup returns a single function that calls all cleanup functions in reverse order.
func runCleanup(fns []func()) func() {
	return func() {
		for i := len(fns) - 1; i >= 0; i-- {
			fns[i]()
		}
	}
}
