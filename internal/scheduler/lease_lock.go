package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// releaseScript frees a lease only for its owner. When the minimum hold
// has not elapsed yet the key's TTL is shrunk to the remainder instead of
// deleting it, so a fast cycle cannot re-grab the lock immediately.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	if tonumber(ARGV[2]) > 0 then
		return redis.call("pexpire", KEYS[1], ARGV[2])
	end
	return redis.call("del", KEYS[1])
end
return 0
`)

// Lease is one acquired cluster lock. The key expires after the maximum
// hold on its own, so a crashed holder never blocks the cluster for
// longer than that.
type Lease struct {
	rdb        *redis.Client
	key        string
	token      string
	acquiredAt time.Time
	minHold    time.Duration
}

//go:generate mockgen -source=lease_lock.go -destination=mock/lease_lock_mock.go -package=mock
type LeaseLock interface {
	// TryAcquire returns a nil lease without error when another holder
	// owns the lock; contention is an expected outcome, not a failure.
	TryAcquire(ctx context.Context, name string, minHold, maxHold time.Duration) (*Lease, error)
}

type leaseLock struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewLeaseLock(rdb *redis.Client, logger ...*zap.Logger) LeaseLock {
	l := zap.L().Named("scheduler.lease")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("scheduler.lease")
	}
	return &leaseLock{rdb: rdb, logger: l}
}

func (l *leaseLock) TryAcquire(ctx context.Context, name string, minHold, maxHold time.Duration) (*Lease, error) {
	key := "scheduler:lease:" + name
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, token, maxHold).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		l.logger.Debug("lease contended", zap.String("name", name))
		return nil, nil
	}

	l.logger.Debug("lease acquired",
		zap.String("name", name),
		zap.Duration("min_hold", minHold),
		zap.Duration("max_hold", maxHold),
	)
	return &Lease{
		rdb:        l.rdb,
		key:        key,
		token:      token,
		acquiredAt: time.Now(),
		minHold:    minHold,
	}, nil
}

// Release hands the lock back while honoring the minimum hold. Releasing
// an already expired lease is a no-op.
func (le *Lease) Release(ctx context.Context) error {
	remainder := le.minHold - time.Since(le.acquiredAt)
	if remainder < 0 {
		remainder = 0
	}
	return releaseScript.Run(ctx, le.rdb, []string{le.key}, le.token, remainder.Milliseconds()).Err()
}
