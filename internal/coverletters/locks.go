package coverletters

import (
	"context"
	"sync"
)

// VariantLocks hands out per-(document, variant) mutual exclusion. Acquisition
// honors ctx, and entries are dropped once no caller holds or waits on them.
type VariantLocks struct {
	mu    sync.Mutex
	locks map[string]*variantLock
}

type variantLock struct {
	ch   chan struct{}
	refs int
}

// NewVariantLocks constructs an empty lock table.
func NewVariantLocks() *VariantLocks {
	return &VariantLocks{locks: make(map[string]*variantLock)}
}

// Lock blocks until the variant lock is held or ctx is done. The returned
// function releases the lock and must be called exactly once.
func (l *VariantLocks) Lock(ctx context.Context, documentID, variantID string) (func(), error) {
	key := documentID + "\x00" + variantID

	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*variantLock)
	}
	vl, ok := l.locks[key]
	if !ok {
		vl = &variantLock{ch: make(chan struct{}, 1)}
		l.locks[key] = vl
	}
	vl.refs++
	l.mu.Unlock()

	select {
	case vl.ch <- struct{}{}:
		return func() {
			<-vl.ch
			l.release(key, vl)
		}, nil
	case <-ctx.Done():
		l.release(key, vl)
		return nil, ctx.Err()
	}
}

func (l *VariantLocks) release(key string, vl *variantLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	vl.refs--
	if vl.refs == 0 {
		delete(l.locks, key)
	}
}

func (l *VariantLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
