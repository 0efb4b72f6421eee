package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"gamebank/internal/service"
)

type Server struct {
	srv *http.Server
}

func NewServer(addr string, svc service.WalletService, archive ArchiveReader, feed FeedReader) *Server {
	mux := http.NewServeMux()
	h := NewHandler(svc, archive, feed)
	h.Register(mux)

	return &Server{
		srv: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second, // covers "wait": true on delayed operations
			IdleTimeout:  120 * time.Second,
		},
	}
}

func (s *Server) Start(ctx context.Context) error {
	slog.Info("HTTP API is listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
