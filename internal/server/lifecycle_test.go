package server_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/grind/internal/server"
)

// blockingService blocks in Start until stopped, recording call order.
type blockingService struct {
	name  string
	order *callOrder
	done  chan struct{}
	once  sync.Once
	fail  error
}

type callOrder struct {
	mu    sync.Mutex
	stops []string
}

func (o *callOrder) recordStop(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stops = append(o.stops, name)
}

func newBlockingService(name string, order *callOrder) *blockingService {
	return &blockingService{name: name, order: order, done: make(chan struct{})}
}

func (s *blockingService) Start() error {
	if s.fail != nil {
		return s.fail
	}
	<-s.done
	return nil
}

func (s *blockingService) Stop() {
	s.order.recordStop(s.name)
	s.once.Do(func() { close(s.done) })
}

func TestLifecycle_ContextCancelStopsInReverseOrder(t *testing.T) {
	order := &callOrder{}
	lc := server.NewLifecycle(zap.NewNop())
	lc.Add("first", newBlockingService("first", order))
	lc.Add("second", newBlockingService("second", order))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- lc.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("lifecycle did not shut down")
	}
	assert.Equal(t, []string{"second", "first"}, order.stops)
}

func TestLifecycle_ServiceFailureTriggersShutdown(t *testing.T) {
	order := &callOrder{}
	failing := newBlockingService("failing", order)
	failing.fail = errors.New("boom")

	lc := server.NewLifecycle(zap.NewNop())
	lc.Add("steady", newBlockingService("steady", order))
	lc.Add("failing", failing)

	done := make(chan error, 1)
	go func() { done <- lc.Run(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("lifecycle did not shut down after service failure")
	}
	assert.Contains(t, order.stops, "steady")
}
