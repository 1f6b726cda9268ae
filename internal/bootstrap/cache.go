package bootstrap

import (
	"context"

	"github.com/kirillkom/summary-service/internal/core/domain"
	"github.com/kirillkom/summary-service/internal/core/ports"
	"github.com/kirillkom/summary-service/internal/observability/metrics"
)

// instrumentedCache counts hits and misses of the summary cache.
type instrumentedCache struct {
	next    ports.SummaryCache
	metrics *metrics.HTTPServerMetrics
	service string
}

func (c *instrumentedCache) Get(ctx context.Context, id string) (*domain.SummaryRecord, bool, error) {
	rec, ok, err := c.next.Get(ctx, id)
	if err == nil {
		c.metrics.RecordCacheLookup(c.service, ok)
	}
	return rec, ok, err
}

func (c *instrumentedCache) Put(ctx context.Context, rec *domain.SummaryRecord) error {
	return c.next.Put(ctx, rec)
}
