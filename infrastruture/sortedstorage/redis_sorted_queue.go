package sortedstorage

import (
	"context"
	"time"

	"github.com/beka-birhanu/vinom-biolab/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

var _ i.SortedQueue = (*RedisSortedQueue)(nil)

// RedisSortedQueue keeps a scored set in Redis with TTL support.
type RedisSortedQueue struct {
	client *redis.Client
	locker *redsync.Redsync
	ttl    time.Duration
}

// NewRedisSortedQueue initializes a RedisSortedQueue with the provided Redis client and TTL.
func NewRedisSortedQueue(client *redis.Client, ttlSeconds int) (*RedisSortedQueue, error) {
	queue := &RedisSortedQueue{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
	pool := goredis.NewPool(client)
	queue.locker = redsync.New(pool)
	return queue, nil
}

// Enqueue adds a member with a given score and refreshes the key expiration.
func (rsq *RedisSortedQueue) Enqueue(ctx context.Context, queueKey string, score float64, member string) error {
	_, err := rsq.client.ZAdd(ctx, queueKey, redis.Z{Score: score, Member: member}).Result()
	if err != nil {
		return err
	}

	if rsq.ttl > 0 {
		_ = rsq.client.Expire(ctx, queueKey, rsq.ttl).Err()
	}
	return nil
}

// Recent retrieves up to `amount` members with the highest scores, highest first.
func (rsq *RedisSortedQueue) Recent(ctx context.Context, queueKey string, amount int64) ([]string, error) {
	if amount <= 0 {
		return []string{}, nil
	}
	return rsq.client.ZRevRange(ctx, queueKey, 0, amount-1).Result()
}

// Trim removes the lowest scored members until at most keep remain.
func (rsq *RedisSortedQueue) Trim(ctx context.Context, queueKey string, keep int64) error {
	mutex := rsq.locker.NewMutex(queueKey + ":trim_lock")
	if err := mutex.LockContext(ctx); err != nil {
		return err
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	count := rsq.client.ZCard(ctx, queueKey).Val()
	if count <= keep {
		return nil
	}
	// Ranks are ascending by score, so the first count-keep ranks are the oldest.
	return rsq.client.ZRemRangeByRank(ctx, queueKey, 0, count-keep-1).Err()
}

// Count returns the number of members in the sorted queue.
func (rsq *RedisSortedQueue) Count(ctx context.Context, queueKey string) int64 {
	return rsq.client.ZCard(ctx, queueKey).Val()
}
