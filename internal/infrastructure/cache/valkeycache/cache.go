package valkeycache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/kirillkom/summary-service/internal/core/domain"
)

const keyPrefix = "summary:"

// Cache stores rated summary records. Unrated records are never written because
// their score may still change.
type Cache struct {
	client valkey.Client
	ttl    time.Duration
}

func New(ctx context.Context, addr, password string, ttl time.Duration) (*Cache, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:      []string{addr},
		Password:         password,
		ConnWriteTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("create valkey client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey: %w", err)
	}
	slog.Info("valkey_connected", "addr", addr)
	return &Cache{client: client, ttl: ttl}, nil
}

func (c *Cache) Close() {
	c.client.Close()
}

func (c *Cache) Get(ctx context.Context, id string) (*domain.SummaryRecord, bool, error) {
	raw, err := c.client.Do(ctx, c.client.B().Get().Key(cacheKey(id)).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("valkey get: %w", err)
	}
	rec, err := decodeRecord(raw)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

func (c *Cache) Put(ctx context.Context, rec *domain.SummaryRecord) error {
	if !rec.Rated() {
		return nil
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	set := c.client.B().Set().Key(cacheKey(rec.ID)).Value(string(raw))
	var cmd valkey.Completed
	if secs := int64(c.ttl / time.Second); secs > 0 {
		cmd = set.ExSeconds(secs).Build()
	} else {
		cmd = set.Build()
	}
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("valkey set: %w", err)
	}
	return nil
}

func cacheKey(id string) string {
	return keyPrefix + id
}

func decodeRecord(raw []byte) (*domain.SummaryRecord, error) {
	var rec domain.SummaryRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode cached summary: %w", err)
	}
	if !rec.Rated() {
		return nil, fmt.Errorf("cached summary %s has no score", rec.ID)
	}
	return &rec, nil
}
