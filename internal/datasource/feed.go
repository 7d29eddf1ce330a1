package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/safebet-analyst/internal/models"
)

// FeedSourceName identifies the remote JSON fixture feed
const FeedSourceName = "feed"

// feedDateLayout is the minute-precision kickoff format used by the feed
const feedDateLayout = "2006-01-02 15:04"

// FeedSource implements FixtureSource over a remote JSON fixture feed
type FeedSource struct {
	httpClient *RateLimitedHTTPClient
	url        string
	apiKey     string
	enabled    bool
	logger     *logrus.Entry
}

// FeedFixture is a fixture as served by the feed
type FeedFixture struct {
	MatchID        string            `json:"match_id"`
	HomeTeam       string            `json:"home_team"`
	AwayTeam       string            `json:"away_team"`
	League         string            `json:"league"`
	Venue          string            `json:"venue"`
	Date           string            `json:"date"`
	HeadToHead     models.HeadToHead `json:"h2h_last_5"`
	RecentForm     models.RecentForm `json:"recent_form"`
	KeyPlayersHome []string          `json:"key_players_home"`
	KeyPlayersAway []string          `json:"key_players_away"`
}

// NewFeedSource creates a new fixture feed client
func NewFeedSource(httpClient *RateLimitedHTTPClient, url, apiKey string, enabled bool, logger *logrus.Logger) *FeedSource {
	return &FeedSource{
		httpClient: httpClient,
		url:        url,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger.WithField("source", FeedSourceName),
	}
}

func (c *FeedSource) Name() string { return FeedSourceName }

func (c *FeedSource) IsEnabled() bool { return c.enabled }

// FetchFixtures retrieves and converts every fixture in the feed. Entries that
// fail conversion are skipped with a warning.
func (c *FeedSource) FetchFixtures(ctx context.Context) ([]models.Fixture, error) {
	if !c.enabled {
		return nil, NewDataSourceError(FeedSourceName, ErrCodeDisabled, "data source is disabled", ErrSourceDisabled)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, NewDataSourceError(FeedSourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(FeedSourceName, ErrCodeNetworkError, "failed to fetch fixtures", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, NewDataSourceError(FeedSourceName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case http.StatusTooManyRequests:
		return nil, NewDataSourceError(FeedSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case http.StatusNotFound:
		return nil, NewDataSourceError(FeedSourceName, ErrCodeNotFound, "feed not found", nil)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, NewDataSourceError(FeedSourceName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var feed []FeedFixture
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, NewDataSourceError(FeedSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	fixtures := make([]models.Fixture, 0, len(feed))
	for i := range feed {
		f, err := convertFeedFixture(&feed[i])
		if err != nil {
			c.logger.WithError(err).WithField("match_id", feed[i].MatchID).Warn("Skipping malformed fixture")
			continue
		}
		fixtures = append(fixtures, f)
	}

	return fixtures, nil
}

func convertFeedFixture(ff *FeedFixture) (models.Fixture, error) {
	kickoff, err := parseKickoff(ff.Date)
	if err != nil {
		return models.Fixture{}, err
	}
	f := models.Fixture{
		ID:             ff.MatchID,
		HomeTeam:       ff.HomeTeam,
		AwayTeam:       ff.AwayTeam,
		League:         ff.League,
		Venue:          ff.Venue,
		Kickoff:        kickoff,
		HeadToHead:     ff.HeadToHead,
		RecentForm:     ff.RecentForm,
		KeyPlayersHome: ff.KeyPlayersHome,
		KeyPlayersAway: ff.KeyPlayersAway,
	}
	return f, f.Validate()
}

func parseKickoff(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(feedDateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid kickoff %q: %w", s, err)
	}
	return t, nil
}
