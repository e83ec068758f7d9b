package badges

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	dErrors "ubersystem/pkg/domain-errors"
)

// Locker is the global badge lock. Lock blocks until the lock is held or ctx
// ends; the returned func releases it and is safe to call once.
type Locker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// MutexLocker serializes badge allocation inside one process.
type MutexLocker struct {
	ch chan struct{}
}

func NewMutexLocker() *MutexLocker {
	return &MutexLocker{ch: make(chan struct{}, 1)}
}

func (m *MutexLocker) Lock(ctx context.Context) (func(), error) {
	select {
	case m.ch <- struct{}{}:
		return func() { <-m.ch }, nil
	case <-ctx.Done():
		return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "timed out waiting for the badge lock")
	}
}

const (
	// DefaultLockKey is the Redis key of the badge lock.
	DefaultLockKey = "ubersystem:badge_lock"

	lockRetryMin = 5 * time.Millisecond
	lockRetryMax = 200 * time.Millisecond
)

// releaseScript deletes the key only while it still holds our token, so a
// holder whose lease expired cannot release somebody else's lock.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// renewScript extends the lease only while the key still holds our token.
var renewScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('PEXPIRE', KEYS[1], ARGV[2])
	end
	return 0
`)

// RedisLocker is a lease-based lock shared by every server process using the
// same Redis. A holder renews the lease every ttl/3 until it unlocks, so only
// a crashed holder lets the lease lapse. If renewal fails long enough for the
// lease to expire, a second holder can start allocating; the deferred badge
// unique constraint then fails one of the two commits with a conflict.
type RedisLocker struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

func NewRedisLocker(client redis.UniversalClient, key string, ttl time.Duration) *RedisLocker {
	if key == "" {
		key = DefaultLockKey
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{client: client, key: key, ttl: ttl}
}

func (l *RedisLocker) Lock(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	wait := lockRetryMin
	for {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "timed out waiting for the badge lock")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "badge lock unavailable")
		}
		if ok {
			return l.hold(token), nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "timed out waiting for the badge lock")
		case <-timer.C:
		}
		wait = min(wait*2, lockRetryMax)
	}
}

// hold starts renewing the lease and returns the unlock func.
func (l *RedisLocker) hold(token string) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.renew(token, stop)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
			l.release(token)
		})
	}
}

func (l *RedisLocker) renew(token string, stop <-chan struct{}) {
	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		ctx, cancel := context.WithTimeout(context.Background(), l.ttl/3)
		held, err := renewScript.Run(ctx, l.client, []string{l.key}, token, l.ttl.Milliseconds()).Int()
		cancel()
		if err == nil && held == 0 {
			// lease already lost; nothing left to renew
			return
		}
	}
}

// release runs on its own context: the caller's may already be cancelled and
// the lease must still be given back.
func (l *RedisLocker) release(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	// A failed release is harmless: the lease expires on its own.
	_ = releaseScript.Run(ctx, l.client, []string{l.key}, token).Err()
}
