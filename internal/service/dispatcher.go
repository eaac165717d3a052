package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gift-service/internal/apperror"
	"gift-service/internal/port"
	"gift-service/prometheus"

	"go.uber.org/zap"
)

// DispatcherConfig sizes the notification workers
type DispatcherConfig struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// Dispatcher fans committed orders out to every notifier on a fixed pool of
// workers. Delivery is best effort: a full queue drops the event and notifier
// errors are only logged.
type Dispatcher struct {
	queue     chan port.OrderPlaced
	notifiers []port.OrderNotifier
	timeout   time.Duration
	logger    *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher starts the workers
func NewDispatcher(cfg DispatcherConfig, logger *zap.Logger, notifiers ...port.OrderNotifier) *Dispatcher {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}

	d := &Dispatcher{
		queue:     make(chan port.OrderPlaced, cfg.QueueSize),
		notifiers: notifiers,
		timeout:   cfg.Timeout,
		logger:    logger,
	}
	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	return d
}

// Enqueue hands the event to the workers without blocking and reports whether it was accepted
func (d *Dispatcher) Enqueue(event port.OrderPlaced) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed || len(d.notifiers) == 0 {
		return false
	}

	select {
	case d.queue <- event:
		prometheus.NotificationQueueGauge.Inc()
		return true
	default:
		d.logger.Warn("Notification queue full, dropping order notification",
			zap.Uint("order_id", event.Order.ID),
			zap.Uint("member_id", event.MemberID))
		prometheus.RecordNotification("dispatcher", "dropped")
		return false
	}
}

// Close stops accepting events, drains the queue and waits for the workers
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for event := range d.queue {
		prometheus.NotificationQueueGauge.Dec()
		for _, n := range d.notifiers {
			d.deliver(n, event)
		}
	}
}

func (d *Dispatcher) deliver(n port.OrderNotifier, event port.OrderPlaced) {
	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	err := safeNotify(ctx, n, event)
	switch {
	case err == nil:
		prometheus.RecordNotification(n.Name(), "success")
	case apperror.IsKind(err, apperror.KindNotFound):
		// Members without a linked account have nothing to notify
		prometheus.RecordNotification(n.Name(), "skipped")
		d.logger.Debug("Order notification skipped",
			zap.String("notifier", n.Name()),
			zap.Uint("order_id", event.Order.ID),
			zap.Error(err))
	default:
		prometheus.RecordNotification(n.Name(), "failure")
		d.logger.Error("Order notification failed",
			zap.String("notifier", n.Name()),
			zap.Uint("order_id", event.Order.ID),
			zap.Uint("member_id", event.MemberID),
			zap.Error(err))
	}
}

func safeNotify(ctx context.Context, n port.OrderNotifier, event port.OrderPlaced) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notifier panicked: %v", r)
		}
	}()
	return n.NotifyOrder(ctx, event)
}
