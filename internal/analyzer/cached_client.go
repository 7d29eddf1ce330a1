package analyzer

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/safebet-analyst/internal/config"
	"github.com/yourusername/safebet-analyst/internal/models"
)

// CachedClient wraps Client with an analysis cache. Failed results are never
// cached.
type CachedClient struct {
	client *Client
	cache  *AnalysisCache
	logger *logrus.Logger
}

// NewCachedClient creates a new cached analysis client
func NewCachedClient(cfg *config.LLMConfig, httpClient *http.Client, logger *logrus.Logger) (*CachedClient, error) {
	client, err := NewClient(cfg, httpClient, logger)
	if err != nil {
		return nil, err
	}

	return &CachedClient{
		client: client,
		cache:  NewAnalysisCache(time.Duration(cfg.CacheTTLSeconds)*time.Second, cfg.CacheMaxSize),
		logger: logger,
	}, nil
}

// AnalyzeBetSlip returns the cached pre-match analysis or asks the model
func (c *CachedClient) AnalyzeBetSlip(ctx context.Context, bet models.BetRecord) models.AnalysisResult[models.BetAnalysis] {
	key := CacheKey(KindPreMatch, c.client.Model(), bet, nil)
	if v, ok := c.cache.Get(key); ok {
		if res, ok := v.(models.AnalysisResult[models.BetAnalysis]); ok {
			c.logger.WithField("cache_key", key).Debug("Cache hit for bet analysis")
			AnalysisRequestsTotal.WithLabelValues(KindPreMatch, "cached").Inc()
			return res
		}
	}

	res := c.client.AnalyzeBetSlip(ctx, bet)
	if res.OK() {
		c.cache.Set(key, res)
	}
	return res
}

// AnalyzeActiveBet returns the cached live analysis or asks the model
func (c *CachedClient) AnalyzeActiveBet(ctx context.Context, bet models.BetRecord, live *models.LiveMatchStats) models.AnalysisResult[models.LiveBetAnalysis] {
	key := CacheKey(KindLive, c.client.Model(), bet, live)
	if v, ok := c.cache.Get(key); ok {
		if res, ok := v.(models.AnalysisResult[models.LiveBetAnalysis]); ok {
			c.logger.WithField("cache_key", key).Debug("Cache hit for live analysis")
			AnalysisRequestsTotal.WithLabelValues(KindLive, "cached").Inc()
			return res
		}
	}

	res := c.client.AnalyzeActiveBet(ctx, bet, live)
	if res.OK() {
		c.cache.Set(key, res)
	}
	return res
}

// ClearCache clears all cached analyses
func (c *CachedClient) ClearCache() {
	c.cache.Clear()
}

// GetCacheStats returns cache statistics
func (c *CachedClient) GetCacheStats() (hits, misses uint64, hitRatio float64) {
	return c.cache.Stats()
}
