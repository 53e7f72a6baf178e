package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Notification is a queued outbound message.
type Notification struct {
	Recipient string
	Subject   string
	Body      string
	Kind      string
}

// Sender delivers a single notification.
type Sender interface {
	Send(ctx context.Context, notification Notification) error
}

// NotificationWorker drains a buffered queue with a small pool of
// goroutines so event handlers never block on delivery.
//
// The queue channel is never closed; intake is fenced by a mutex-guarded
// closed flag so a concurrent Enqueue during Shutdown drops the message
// instead of panicking on a closed channel.
type NotificationWorker struct {
	queue   chan Notification
	sender  Sender
	logger  *zap.Logger
	wg      sync.WaitGroup
	once    sync.Once
	closing chan struct{}
	mu      sync.RWMutex
	closed  bool
}

// NewNotificationWorker builds the worker.
func NewNotificationWorker(sender Sender, queueSize, workers int, logger *zap.Logger) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = 100
	}
	if workers <= 0 {
		workers = 2
	}
	w := &NotificationWorker{
		queue:   make(chan Notification, queueSize),
		sender:  sender,
		logger:  logger,
		closing: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		w.wg.Add(1)
		go w.run()
	}
	return w
}

// Enqueue queues a notification. Returns false when the queue is full or
// the worker is shutting down; the notification is dropped, not blocked on.
func (w *NotificationWorker) Enqueue(notification Notification) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return false
	}
	select {
	case w.queue <- notification:
		return true
	default:
		if w.logger != nil {
			w.logger.Warn("notification queue full, dropping",
				zap.String("kind", notification.Kind),
				zap.String("recipient", notification.Recipient))
		}
		return false
	}
}

func (w *NotificationWorker) run() {
	defer w.wg.Done()
	for {
		select {
		case notification := <-w.queue:
			w.deliver(notification)
		case <-w.closing:
			w.drain()
			return
		}
	}
}

// drain empties whatever is still buffered after intake has stopped.
func (w *NotificationWorker) drain() {
	for {
		select {
		case notification := <-w.queue:
			w.deliver(notification)
		default:
			return
		}
	}
}

func (w *NotificationWorker) deliver(notification Notification) {
	if err := w.sender.Send(context.Background(), notification); err != nil && w.logger != nil {
		w.logger.Error("notification delivery failed",
			zap.String("kind", notification.Kind),
			zap.String("recipient", notification.Recipient),
			zap.Error(err))
	}
}

// Shutdown stops intake and waits for queued notifications to drain.
func (w *NotificationWorker) Shutdown() {
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.closing)
	})
	w.wg.Wait()
}
