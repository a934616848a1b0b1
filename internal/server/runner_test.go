package server

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"goom-server/internal/protocol"
)

func TestRunnerSerializesEventsAndTicks(t *testing.T) {
	defer goleak.VerifyNone(t)

	inits := make(chan string, 4)
	s, err := New(loadConfig(t, "world.json"), nil, func(ev protocol.Outgoing, to string) {
		inits <- to
	})
	require.NoError(t, err)

	r := NewRunner(s, 100, 8)
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.Run(ctx)
	}()

	require.True(t, r.Enqueue(protocol.Event{Type: protocol.TypeConnection, From: "p1"}))
	select {
	case to := <-inits:
		assert.Equal(t, "p1", to)
	case <-time.After(2 * time.Second):
		t.Fatal("init was never sent")
	}

	done := make(chan int, 1)
	r.Do(func(s *Server) { done <- len(s.Players()) })
	select {
	case n := <-done:
		assert.Equal(t, 1, n)
	case <-time.After(2 * time.Second):
		t.Fatal("task never ran")
	}

	cancel()
	wg.Wait()

	r.Do(func(*Server) { t.Error("task ran after stop") })
}

func TestRunnerDropsWhenInboxFull(t *testing.T) {
	s, _, _ := newTestServer(t)
	r := NewRunner(s, 0, 2)

	assert.True(t, r.Enqueue(protocol.Event{Type: "a"}))
	assert.True(t, r.Enqueue(protocol.Event{Type: "b"}))
	assert.False(t, r.Enqueue(protocol.Event{Type: "c"}))
	assert.Equal(t, int64(1), r.Dropped())
	assert.Equal(t, time.Second/DefaultTickRate, r.interval)
}

func TestRunnerKeepsConnectionWhenInboxFull(t *testing.T) {
	defer goleak.VerifyNone(t)

	inits := make(chan string, 4)
	s, err := New(loadConfig(t, "world.json"), nil, func(ev protocol.Outgoing, to string) {
		inits <- to
	})
	require.NoError(t, err)

	r := NewRunner(s, 100, 1)
	require.True(t, r.Enqueue(protocol.Event{Type: protocol.TypeInput, Value: "left", From: "x"}))
	assert.False(t, r.Enqueue(protocol.Event{Type: protocol.TypeInput, Value: "left", From: "x"}))

	queued := make(chan bool, 1)
	go func() {
		queued <- r.Enqueue(protocol.Event{Type: protocol.TypeConnection, From: "p1"})
	}()

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.Run(ctx)
	}()

	select {
	case ok := <-queued:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("connection event never entered the inbox")
	}
	select {
	case to := <-inits:
		assert.Equal(t, "p1", to)
	case <-time.After(2 * time.Second):
		t.Fatal("init was never sent")
	}
	assert.Equal(t, int64(1), r.Dropped())

	cancel()
	wg.Wait()
	assert.False(t, r.Enqueue(protocol.Event{Type: protocol.TypeConnection, From: "p2"}))
}
