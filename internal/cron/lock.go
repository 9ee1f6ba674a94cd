package cron

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultLockTTL = 5 * time.Minute

// Unlock gives a held lock back.
type Unlock func(ctx context.Context) error

// Lock hands out exclusive, named leases. ok is false when someone else holds name.
type Lock interface {
	TryLock(ctx context.Context, name string) (unlock Unlock, ok bool, err error)
}

// LocalLock covers a single API process.
type LocalLock struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewLocalLock() *LocalLock {
	return &LocalLock{held: make(map[string]bool)}
}

func (l *LocalLock) TryLock(_ context.Context, name string) (Unlock, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[name] {
		return nil, false, nil
	}
	l.held[name] = true
	return func(context.Context) error {
		l.mu.Lock()
		delete(l.held, name)
		l.mu.Unlock()
		return nil
	}, true, nil
}

type leaseStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	DeleteIfEquals(ctx context.Context, key, want string) (bool, error)
	LockKey(name string) string
}

// RedisLock lets several API instances share one job schedule. A lease expires after ttl so a
// crashed holder cannot block the job forever; ttl must exceed the longest job run.
type RedisLock struct {
	store leaseStore
	scope string
	ttl   time.Duration
}

// NewRedisLock namespaces every lease under scope, typically the deployment environment.
func NewRedisLock(store leaseStore, scope string, ttl time.Duration) (*RedisLock, error) {
	if store == nil {
		return nil, errors.New("cron: redis store required")
	}
	if scope == "" {
		return nil, errors.New("cron: lock scope required")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLock{store: store, scope: scope, ttl: ttl}, nil
}

func (l *RedisLock) TryLock(ctx context.Context, name string) (Unlock, bool, error) {
	key := l.store.LockKey(l.scope + ":" + name)
	token := uuid.NewString()

	ok, err := l.store.SetNX(ctx, key, token, l.ttl)
	if err != nil {
		return nil, false, fmt.Errorf("cron: lease %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	return func(ctx context.Context) error {
		if _, err := l.store.DeleteIfEquals(ctx, key, token); err != nil {
			return fmt.Errorf("cron: release %s: %w", key, err)
		}
		return nil
	}, true, nil
}
