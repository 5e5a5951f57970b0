package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bazaar-team/bazaar-backend/internal/catalog/usecase"
)

const treeTTL = 1 * time.Hour

// CategoryTreeCache keeps rendered category trees in redis. The tree changes
// only on category writes, which invalidate every cached root.
type CategoryTreeCache struct {
	client *redis.Client
}

func NewCategoryTreeCache(client *redis.Client) *CategoryTreeCache {
	return &CategoryTreeCache{client: client}
}

func (c *CategoryTreeCache) GetTree(ctx context.Context, key string) ([]*usecase.TreeNode, error) {
	data, err := c.client.Get(ctx, "category:"+key).Bytes()
	if err == redis.Nil {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, err
	}
	var nodes []*usecase.TreeNode
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (c *CategoryTreeCache) SetTree(ctx context.Context, key string, nodes []*usecase.TreeNode) error {
	data, err := json.Marshal(nodes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "category:"+key, data, treeTTL).Err()
}

func (c *CategoryTreeCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "category:tree:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
