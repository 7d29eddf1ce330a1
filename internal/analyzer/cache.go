package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/safebet-analyst/internal/models"
)

// CacheKey hashes the analysis kind, model and inputs
func CacheKey(kind, model string, bet models.BetRecord, live *models.LiveMatchStats) string {
	payload, _ := json.Marshal(struct {
		Kind  string                 `json:"kind"`
		Model string                 `json:"model"`
		Match string                 `json:"match"`
		Type  string                 `json:"type"`
		Odds  float64                `json:"odds"`
		Stake string                 `json:"stake"`
		State string                 `json:"status"`
		Left  *string                `json:"time_left"`
		Live  *models.LiveMatchStats `json:"live"`
	}{kind, model, bet.MatchName, bet.BetType, bet.Odds, bet.Stake.String(), bet.NormalizedStatus(), bet.TimeLeft, live})

	sum := sha256.Sum256(payload)
	return kind + ":" + hex.EncodeToString(sum[:])
}

// AnalysisCache is a TTL cache of successful analyses
type AnalysisCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewAnalysisCache creates a new analysis cache
func NewAnalysisCache(ttl time.Duration, maxSize int) *AnalysisCache {
	return &AnalysisCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached value
func (ac *AnalysisCache) Get(key string) (any, bool) {
	if v, found := ac.cache.Get(key); found {
		ac.hitCount.Add(1)
		ac.updateMetrics()
		return v, true
	}
	ac.missCount.Add(1)
	ac.updateMetrics()
	return nil, false
}

// Set stores a value. When the cache is full, expired entries are evicted
// first and the insert is dropped if that frees nothing.
func (ac *AnalysisCache) Set(key string, v any) {
	if ac.cache.ItemCount() >= ac.maxSize {
		ac.cache.DeleteExpired()
		if ac.cache.ItemCount() >= ac.maxSize {
			return
		}
	}
	ac.cache.Set(key, v, ac.ttl)
}

// Clear flushes the cache and resets statistics
func (ac *AnalysisCache) Clear() {
	ac.cache.Flush()
	ac.hitCount.Store(0)
	ac.missCount.Store(0)
}

// Stats returns cache statistics
func (ac *AnalysisCache) Stats() (hits, misses uint64, ratio float64) {
	hits = ac.hitCount.Load()
	misses = ac.missCount.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (ac *AnalysisCache) ItemCount() int {
	return ac.cache.ItemCount()
}

func (ac *AnalysisCache) updateMetrics() {
	_, _, ratio := ac.Stats()
	AnalysisCacheHitRatio.Set(ratio)
}
