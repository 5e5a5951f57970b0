package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache records the refresh token issued to each user. A refresh request
// is only honored when it presents the recorded token, so issuing a new pair
// retires the previous refresh token.
type TokenCache struct {
	client *redis.Client
}

func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{client: client}
}

func NewRedisClient(addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return client, nil
}

func tokenKey(userID int64) string {
	return "refresh_token:" + strconv.FormatInt(userID, 10)
}

func (c *TokenCache) Store(ctx context.Context, userID int64, token string, ttl time.Duration) error {
	return c.client.Set(ctx, tokenKey(userID), token, ttl).Err()
}

func (c *TokenCache) Get(ctx context.Context, userID int64) (string, error) {
	token, err := c.client.Get(ctx, tokenKey(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return token, err
}

func (c *TokenCache) Invalidate(ctx context.Context, userID int64) error {
	return c.client.Del(ctx, tokenKey(userID)).Err()
}
