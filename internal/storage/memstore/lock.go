package memstore

import (
	"context"
	"sync"
	"time"

	"gift-service/internal/apperror"
)

// keyedLock is a set of exclusive locks keyed by id. Each lock is a
// capacity-1 channel so acquisition can be abandoned on timeout.
type keyedLock struct {
	mu    sync.Mutex
	locks map[uint]chan struct{}
}

func newKeyedLock() *keyedLock {
	return &keyedLock{locks: make(map[uint]chan struct{})}
}

func (k *keyedLock) slot(id uint) chan struct{} {
	k.mu.Lock()
	defer k.mu.Unlock()

	ch, ok := k.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		k.locks[id] = ch
	}
	return ch
}

func (k *keyedLock) acquire(ctx context.Context, id uint, timeout time.Duration) error {
	ch := k.slot(id)

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return apperror.Busy("request was cancelled while waiting for the option lock", ctx.Err())
	case <-expired:
		return apperror.Busy("timed out waiting for the option lock", nil)
	}
}

func (k *keyedLock) release(id uint) {
	<-k.slot(id)
}
