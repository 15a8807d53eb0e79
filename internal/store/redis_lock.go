package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	userLockKeyPrefix   = "moderation:lock:"
	userLockTTL         = 10 * time.Second
	userLockRetryDelay  = 50 * time.Millisecond
	userLockMaxAttempts = 100
)

// RedisUserLocker serializes per-user pipeline invocations across service
// instances with a SET NX PX lock. The TTL bounds how long a crashed holder
// can block a user's pipeline.
type RedisUserLocker struct {
	Client *redis.Client
}

func NewRedisUserLocker(client *redis.Client) *RedisUserLocker {
	return &RedisUserLocker{Client: client}
}

func (l *RedisUserLocker) Lock(ctx context.Context, userID string) (func(), error) {
	key := userLockKeyPrefix + userID
	token := uuid.NewString()

	for attempt := 0; attempt < userLockMaxAttempts; attempt++ {
		ok, err := l.Client.SetNX(ctx, key, token, userLockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(userLockRetryDelay):
		}
	}
	return nil, context.DeadlineExceeded
}

// release deletes the lock only if we still hold it. The get/compare/delete
// is not atomic; the TTL makes the worst case a briefly overlapping hold,
// which the durable-read recheck tolerates.
func (l *RedisUserLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	current, err := l.Client.Get(ctx, key).Result()
	if err != nil || current != token {
		return
	}
	l.Client.Del(ctx, key)
}
