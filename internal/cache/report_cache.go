package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"accord/internal/model"
)

// ReportCache keeps the latest comparison report per session hot. Any
// response resubmission must Invalidate so partners never see a stale report.
type ReportCache interface {
	Set(ctx context.Context, sessionCode string, report *model.StoredReport) error
	Get(ctx context.Context, sessionCode string) (*model.StoredReport, error)
	Invalidate(ctx context.Context, sessionCode string) error
}

type reportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a new report cache
func NewReportCache(client *redis.Client) ReportCache {
	return &reportCache{
		client: client,
		ttl:    time.Hour,
	}
}

func (c *reportCache) key(sessionCode string) string {
	return fmt.Sprintf("report:%s", sessionCode)
}

func (c *reportCache) Set(ctx context.Context, sessionCode string, report *model.StoredReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(sessionCode), data, c.ttl).Err()
}

func (c *reportCache) Get(ctx context.Context, sessionCode string) (*model.StoredReport, error) {
	data, err := c.client.Get(ctx, c.key(sessionCode)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var report model.StoredReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *reportCache) Invalidate(ctx context.Context, sessionCode string) error {
	return c.client.Del(ctx, c.key(sessionCode)).Err()
}
