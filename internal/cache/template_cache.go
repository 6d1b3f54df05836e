package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"accord/internal/model"
)

// TemplateCache caches normalized templates so the normalizer runs once per
// template version. Invalidation is explicit: any template update must call
// Invalidate before readers see the new payload.
type TemplateCache interface {
	Set(ctx context.Context, id string, tpl *model.Template) error
	Get(ctx context.Context, id string) (*model.Template, error)
	Invalidate(ctx context.Context, id string) error
}

type templateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTemplateCache creates a new template cache
func NewTemplateCache(client *redis.Client) TemplateCache {
	return &templateCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *templateCache) key(id string) string {
	return fmt.Sprintf("template:%s", id)
}

func (c *templateCache) Set(ctx context.Context, id string, tpl *model.Template) error {
	data, err := json.Marshal(tpl)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(id), data, c.ttl).Err()
}

func (c *templateCache) Get(ctx context.Context, id string) (*model.Template, error) {
	data, err := c.client.Get(ctx, c.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var tpl model.Template
	if err := json.Unmarshal([]byte(data), &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (c *templateCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
