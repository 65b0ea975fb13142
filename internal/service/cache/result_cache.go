package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"SignalForge/internal/domain/models"
	domsvc "SignalForge/internal/domain/service"
)

const latestKeyPrefix = "signalforge:latest:"

// ResultCache stores the latest AnalysisResult per symbol as JSON.
type ResultCache struct {
	store BytesCache
	ttl   time.Duration
}

var _ domsvc.ResultCache = (*ResultCache)(nil)

func NewResultCache(store BytesCache, ttl time.Duration) *ResultCache {
	return &ResultCache{store: store, ttl: ttl}
}

func latestKey(symbol string) string { return latestKeyPrefix + strings.ToUpper(symbol) }

func (c *ResultCache) Put(ctx context.Context, r *models.AnalysisResult) error {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return c.store.SetBytes(ctx, latestKey(r.Symbol), b, c.ttl)
}

func (c *ResultCache) Latest(ctx context.Context, symbol string) (*models.AnalysisResult, bool, error) {
	b, ok, err := c.store.GetBytes(ctx, latestKey(symbol))
	if err != nil || !ok {
		return nil, false, err
	}
	var r models.AnalysisResult
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, false, fmt.Errorf("decode cached result: %w", err)
	}
	return &r, true, nil
}
