package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// Slot lock
// =============================================================================

// SlotLocker serializes work on one (doctor, start time) slot across
// instances. It narrows the confirm race window; the confirmed-slot unique
// index remains the final guarantee.
type SlotLocker interface {
	WithSlotLock(ctx context.Context, doctorID int64, at time.Time, fn func(ctx context.Context) error) error
}

// releaseSlotScript deletes the lock only when the caller still owns it, so a
// holder whose TTL expired cannot release someone else's lock.
var releaseSlotScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const RedisSlotLockKeyPrefix = "lock:slot:"

type redisSlotLocker struct {
	redisClient *redis.Client
	ttl         time.Duration
	log         *logrus.Logger
}

func NewRedisSlotLocker(redisClient *redis.Client, ttl time.Duration, log *logrus.Logger) SlotLocker {
	return &redisSlotLocker{
		redisClient: redisClient,
		ttl:         ttl,
		log:         log,
	}
}

func SlotLockKey(doctorID int64, at time.Time) string {
	return fmt.Sprintf("%s%d:%d", RedisSlotLockKeyPrefix, doctorID, at.UTC().Unix())
}

func (l *redisSlotLocker) WithSlotLock(ctx context.Context, doctorID int64, at time.Time, fn func(ctx context.Context) error) error {
	key := SlotLockKey(doctorID, at)
	token := uuid.NewString()

	ok, err := l.redisClient.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire slot lock: %w", err)
	}
	if !ok {
		return ErrSlotBeingBooked
	}

	defer func() {
		// Release even if the request context is already cancelled.
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if _, err := releaseSlotScript.Run(releaseCtx, l.redisClient, []string{key}, token).Result(); err != nil && !errors.Is(err, redis.Nil) {
			l.log.Warnf("Failed to release slot lock %s: %+v", key, err)
		}
	}()

	lockedCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(lockedCtx)
}
