package history

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/goodnatureofminers/walletmigrate-backend/internal/model"
)

// walletLocks serializes imports per wallet. Waiters give up when their
// context ends.
type walletLocks struct {
	mu    sync.Mutex
	locks map[model.WalletID]*walletLock
}

type walletLock struct {
	sem  *semaphore.Weighted
	refs int
}

func newWalletLocks() *walletLocks {
	return &walletLocks{locks: make(map[model.WalletID]*walletLock)}
}

// Lock blocks until walletID is free or ctx is done.
func (l *walletLocks) Lock(ctx context.Context, walletID model.WalletID) error {
	l.mu.Lock()
	lock, ok := l.locks[walletID]
	if !ok {
		lock = &walletLock{sem: semaphore.NewWeighted(1)}
		l.locks[walletID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	if err := lock.sem.Acquire(ctx, 1); err != nil {
		l.release(walletID, lock)
		return err
	}
	return nil
}

// Unlock frees walletID. It must follow a successful Lock.
func (l *walletLocks) Unlock(walletID model.WalletID) {
	l.mu.Lock()
	lock := l.locks[walletID]
	l.mu.Unlock()

	lock.sem.Release(1)
	l.release(walletID, lock)
}

func (l *walletLocks) release(walletID model.WalletID, lock *walletLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, walletID)
	}
}
