package conflict

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"gymflow/models"
)

// OwnerLocker serializes writes to one owner's commitment set so the
// conflict re-check and the insert happen against the same snapshot.
type OwnerLocker interface {
	// Acquire returns a release func, or ErrOwnerBusy if the owner is locked.
	Acquire(ctx context.Context, ownerID string, kind models.OwnerKind) (release func(), err error)
}

// RedisOwnerLocker is an advisory per-owner lock: SET NX with a TTL guarding
// against crashed holders. The lock value is a random token so release only
// deletes a lock this holder still owns.
type RedisOwnerLocker struct {
	Client *redis.Client
	TTL    time.Duration
}

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

func lockKey(ownerID string, kind models.OwnerKind) string {
	return fmt.Sprintf("lock:owner:%s:%s", kind, ownerID)
}

func (l *RedisOwnerLocker) Acquire(ctx context.Context, ownerID string, kind models.OwnerKind) (func(), error) {
	key := lockKey(ownerID, kind)
	token := uuid.New().String()

	ttl := l.TTL
	if ttl == 0 {
		ttl = 10 * time.Second
	}
	ok, err := l.Client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("owner lock: %w", err)
	}
	if !ok {
		return nil, ErrOwnerBusy
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.Client, []string{key}, token).Err()
	}
	return release, nil
}
