package infrastructure

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeServer struct {
	mu      sync.Mutex
	started bool
	stopped bool
	err     error
}

func (f *fakeServer) Start(ctx context.Context) error {
	f.mu.Lock()
	f.started = true
	f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return nil
}

func (f *fakeServer) Stop(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return nil
}

func TestApp_StopsOnCancel(t *testing.T) {
	a, b := &fakeServer{}, &fakeServer{}
	var hookRan bool
	app := NewApp([]Server{a, b}, func(ctx context.Context) error {
		hookRan = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop")
	}
	for i, s := range []*fakeServer{a, b} {
		if !s.started || !s.stopped {
			t.Errorf("server %d: started=%v stopped=%v", i, s.started, s.stopped)
		}
	}
	if !hookRan {
		t.Error("shutdown hook did not run")
	}
}

func TestApp_ServerFailureStopsOthers(t *testing.T) {
	boom := errors.New("listen failed")
	healthy := &fakeServer{}
	app := NewApp([]Server{healthy, &fakeServer{err: boom}})

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Fatalf("expected %v, got %v", boom, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop")
	}
	if !healthy.stopped {
		t.Error("healthy server was not stopped")
	}
}

type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

// loggingServer records when its serve context ends and when it is stopped.
type loggingServer struct {
	log *eventLog
}

func (s *loggingServer) Start(ctx context.Context) error {
	<-ctx.Done()
	s.log.add("serve-ctx-done")
	return nil
}

func (s *loggingServer) Stop(ctx context.Context) error {
	s.log.add("stop")
	return nil
}

func TestApp_HooksRunBeforeServersStop(t *testing.T) {
	events := &eventLog{}
	app := NewApp([]Server{&loggingServer{log: events}}, func(ctx context.Context) error {
		// Give a server that reacted to the signal a chance to record it.
		time.Sleep(20 * time.Millisecond)
		events.add("hook")
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop")
	}

	got := events.snapshot()
	if len(got) != 3 || got[0] != "hook" {
		t.Fatalf("expected the hook before the server shut down, got %v", got)
	}
}
