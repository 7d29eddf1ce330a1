package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/safebet-analyst/internal/config"
)

// SourceType represents the type of fixture source
type SourceType string

const (
	// StaticSourceType serves the built-in fixture list
	StaticSourceType SourceType = StaticSourceName
	// FeedSourceType reads fixtures from a remote JSON feed
	FeedSourceType SourceType = FeedSourceName
)

// NewFixtureSource creates the FixtureSource selected by configuration.
// anchor fixes the kickoff times of the static list.
func NewFixtureSource(cfg config.FixturesConfig, anchor time.Time, logger *logrus.Logger) (FixtureSource, error) {
	switch SourceType(cfg.Source) {
	case StaticSourceType, "":
		return NewStaticSource(anchor), nil

	case FeedSourceType:
		if cfg.FeedURL == "" {
			return nil, fmt.Errorf("fixture feed URL is required")
		}
		httpCfg := DefaultHTTPClientConfig()
		httpCfg.RateLimit = cfg.RateLimit
		if cfg.TimeoutSeconds > 0 {
			httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
		httpClient := NewRateLimitedHTTPClient(httpCfg, logger)
		return NewFeedSource(httpClient, cfg.FeedURL, cfg.APIKey, true, logger), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, cfg.Source)
	}
}

// ListAvailableSources returns the supported source types
func ListAvailableSources() []SourceType {
	return []SourceType{StaticSourceType, FeedSourceType}
}
