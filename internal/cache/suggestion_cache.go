package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/m2go-inventory/internal/config"
	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const suggestionKeyPrefix = "suggestions"

// SuggestionCache stores computed suggestion lists per cycle and calendar day.
// Anything that changes engine inputs must call InvalidateAll.
type SuggestionCache interface {
	Get(ctx context.Context, cycle domain.OrderCycle, day time.Time) ([]domain.Suggestion, bool, error)
	Set(ctx context.Context, cycle domain.OrderCycle, day time.Time, suggestions []domain.Suggestion) error
	InvalidateAll(ctx context.Context) error
}

type redisSuggestionCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSuggestionCache struct{}

func NewSuggestionCache(cfg config.CacheConfig) (SuggestionCache, error) {
	if !cfg.Enabled {
		return &noopSuggestionCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisSuggestionCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopSuggestionCache() SuggestionCache {
	return &noopSuggestionCache{}
}

func (c *redisSuggestionCache) Get(ctx context.Context, cycle domain.OrderCycle, day time.Time) ([]domain.Suggestion, bool, error) {
	payload, err := c.client.Get(ctx, suggestionKey(cycle, day)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var suggestions []domain.Suggestion
	if err := json.Unmarshal(payload, &suggestions); err != nil {
		return nil, false, fmt.Errorf("decode suggestion cache: %w", err)
	}
	return suggestions, true, nil
}

func (c *redisSuggestionCache) Set(ctx context.Context, cycle domain.OrderCycle, day time.Time, suggestions []domain.Suggestion) error {
	payload, err := json.Marshal(suggestions)
	if err != nil {
		return fmt.Errorf("encode suggestion cache: %w", err)
	}
	if err := c.client.Set(ctx, suggestionKey(cycle, day), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSuggestionCache) InvalidateAll(ctx context.Context) error {
	n, err := deleteKeysWithPrefix(ctx, c.client, suggestionKeyPrefix+":")
	if err != nil {
		return err
	}
	log.Debug().Int("keys", n).Msg("suggestion cache invalidated")
	return nil
}

func (n *noopSuggestionCache) Get(ctx context.Context, cycle domain.OrderCycle, day time.Time) ([]domain.Suggestion, bool, error) {
	return nil, false, nil
}

func (n *noopSuggestionCache) Set(ctx context.Context, cycle domain.OrderCycle, day time.Time, suggestions []domain.Suggestion) error {
	return nil
}

func (n *noopSuggestionCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func suggestionKey(cycle domain.OrderCycle, day time.Time) string {
	return fmt.Sprintf("%s:%s:%s", suggestionKeyPrefix, cycle, day.Format(domain.DateLayout))
}
