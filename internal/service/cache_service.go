package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/campus-pms-api/internal/models"
)

const (
	publicViewKeyPrefix = "passport:public:"
	viewCountKeyPrefix  = "passport:views:"
)

// PublicViewCache keeps published passport projections and their view counter
// in Redis. A cache miss is not an error; callers fall through to the store.
type PublicViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPublicViewCache constructs the cache with the given entry TTL.
func NewPublicViewCache(client *redis.Client, ttl time.Duration) *PublicViewCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PublicViewCache{client: client, ttl: ttl}
}

// GetPublicView returns the cached projection, or nil on a miss.
func (c *PublicViewCache) GetPublicView(ctx context.Context, ippID string) (*models.PublicPassportView, error) {
	raw, err := c.client.Get(ctx, publicViewKeyPrefix+ippID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get public view: %w", err)
	}
	var view models.PublicPassportView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, fmt.Errorf("decode public view: %w", err)
	}
	return &view, nil
}

// SetPublicView stores the projection for the configured TTL.
func (c *PublicViewCache) SetPublicView(ctx context.Context, view *models.PublicPassportView) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("encode public view: %w", err)
	}
	if err := c.client.Set(ctx, publicViewKeyPrefix+view.IppID, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set public view: %w", err)
	}
	return nil
}

// IncrementViewCount bumps and returns the public view counter. The counter
// has no TTL; it survives cache entry expiry.
func (c *PublicViewCache) IncrementViewCount(ctx context.Context, ippID string) (int64, error) {
	count, err := c.client.Incr(ctx, viewCountKeyPrefix+ippID).Result()
	if err != nil {
		return 0, fmt.Errorf("increment view count: %w", err)
	}
	return count, nil
}
