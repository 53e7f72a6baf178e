package worker

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Notification
}

func (s *recordingSender) Send(_ context.Context, notification Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, notification)
	return nil
}

func TestWorkerDrainsQueueOnShutdown(t *testing.T) {
	sender := &recordingSender{}
	w := NewNotificationWorker(sender, 10, 2, nil)

	for i := 0; i < 5; i++ {
		require.True(t, w.Enqueue(Notification{Kind: "test", Subject: "hello"}))
	}
	w.Shutdown()

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Len(t, sender.sent, 5)
}

func TestEnqueueAfterShutdown(t *testing.T) {
	w := NewNotificationWorker(&recordingSender{}, 10, 1, nil)
	w.Shutdown()
	assert.False(t, w.Enqueue(Notification{Kind: "late"}))
}

func TestEnqueueDropsWhenQueueFull(t *testing.T) {
	blocker := make(chan struct{})
	w := NewNotificationWorker(blockingSender{unblock: blocker}, 1, 1, nil)

	// First notification occupies the worker, second fills the queue.
	w.Enqueue(Notification{Kind: "a"})
	w.Enqueue(Notification{Kind: "b"})

	dropped := false
	for i := 0; i < 10; i++ {
		if !w.Enqueue(Notification{Kind: "c"}) {
			dropped = true
			break
		}
	}
	assert.True(t, dropped)

	close(blocker)
	w.Shutdown()
}

func TestConcurrentEnqueueDuringShutdown(t *testing.T) {
	w := NewNotificationWorker(&recordingSender{}, 4, 2, nil)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < 500; j++ {
				w.Enqueue(Notification{Kind: "race"})
			}
		}()
	}

	close(start)
	w.Shutdown()
	wg.Wait()

	// Late enqueues are rejected rather than panicking on closed state.
	assert.False(t, w.Enqueue(Notification{Kind: "late"}))
}

type blockingSender struct {
	unblock chan struct{}
}

func (s blockingSender) Send(_ context.Context, _ Notification) error {
	<-s.unblock
	return nil
}
