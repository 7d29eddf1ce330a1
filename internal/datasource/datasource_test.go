package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/safebet-analyst/internal/config"
	"github.com/yourusername/safebet-analyst/internal/models"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testClient(maxRetries, breaker int) *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = maxRetries
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = 2 * time.Millisecond
	cfg.RateLimit = 0
	cfg.CircuitBreakerMax = breaker
	cfg.Timeout = 2 * time.Second
	return NewRateLimitedHTTPClient(cfg, quietLogger())
}

func TestStaticFixtures(t *testing.T) {
	anchor := time.Date(2024, 5, 10, 12, 30, 45, 0, time.UTC)
	fixtures := StaticFixtures(anchor)

	require.Len(t, fixtures, 6)
	seen := map[string]bool{}
	for _, f := range fixtures {
		assert.NoError(t, f.Validate(), f.ID)
		assert.False(t, seen[f.ID], "duplicate id %s", f.ID)
		seen[f.ID] = true

		delta := f.Kickoff.Sub(anchor.Truncate(time.Minute))
		assert.Contains(t, []time.Duration{24 * time.Hour, 48 * time.Hour}, delta, f.ID)
	}

	assert.Equal(t, "Manchester United", fixtures[0].HomeTeam)
	assert.Equal(t, models.HeadToHead{HomeWins: 4, AwayWins: 0, Draws: 1}, fixtures[3].HeadToHead)
}

func TestStaticSource(t *testing.T) {
	anchor := time.Now()
	src := NewStaticSource(anchor)

	assert.Equal(t, StaticSourceName, src.Name())
	assert.True(t, src.IsEnabled())

	first, err := src.FetchFixtures(context.Background())
	require.NoError(t, err)
	second, err := src.FetchFixtures(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second, "static fixtures must be stable for a fixed anchor")
}

func TestFeedSourceFetchFixtures(t *testing.T) {
	kickoff := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Minute)
	feed := []FeedFixture{
		{
			MatchID:        "feed_001",
			HomeTeam:       "Ajax",
			AwayTeam:       "PSV",
			League:         "Eredivisie",
			Venue:          "Johan Cruijff Arena",
			Date:           kickoff.Format(time.RFC3339),
			HeadToHead:     models.HeadToHead{HomeWins: 2, AwayWins: 2, Draws: 1},
			RecentForm:     models.RecentForm{Home: []int{3, 1, 0, 3, 3}, Away: []int{3, 3, 3, 0, 1}},
			KeyPlayersHome: []string{"Taylor"},
			KeyPlayersAway: []string{"de Jong"},
		},
		{
			MatchID:  "feed_002",
			HomeTeam: "Broken",
			AwayTeam: "Broken",
			Date:     "not a date",
		},
	}

	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(feed)
	}))
	defer server.Close()

	src := NewFeedSource(testClient(0, 5), server.URL, "secret", true, quietLogger())
	fixtures, err := src.FetchFixtures(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", auth)
	require.Len(t, fixtures, 1, "malformed fixture should be skipped")
	assert.Equal(t, "feed_001", fixtures[0].ID)
	assert.True(t, fixtures[0].Kickoff.Equal(kickoff))
}

func TestFeedSourceStatusCodes(t *testing.T) {
	tests := []struct {
		status int
		code   string
	}{
		{http.StatusUnauthorized, ErrCodeAuthenticationFailed},
		{http.StatusTooManyRequests, ErrCodeRateLimitExceeded},
		{http.StatusNotFound, ErrCodeNotFound},
		{http.StatusBadGateway, ErrCodeServerError},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			src := NewFeedSource(testClient(0, 0), server.URL, "", true, quietLogger())
			_, err := src.FetchFixtures(context.Background())
			require.Error(t, err)

			var dsErr DataSourceError
			require.True(t, errors.As(err, &dsErr))
			assert.Equal(t, tt.code, dsErr.Code)
			assert.Equal(t, FeedSourceName, dsErr.Source)
		})
	}
}

func TestFeedSourceDisabled(t *testing.T) {
	src := NewFeedSource(testClient(0, 0), "http://127.0.0.1:1", "", false, quietLogger())
	_, err := src.FetchFixtures(context.Background())
	assert.ErrorIs(t, err, ErrSourceDisabled)
	assert.False(t, src.IsEnabled())
}

func TestFeedSourceInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer server.Close()

	src := NewFeedSource(testClient(0, 0), server.URL, "", true, quietLogger())
	_, err := src.FetchFixtures(context.Background())

	var dsErr DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, ErrCodeInvalidData, dsErr.Code)
}

func TestParseKickoff(t *testing.T) {
	got, err := parseKickoff("2024-05-11 20:00")
	require.NoError(t, err)
	assert.Equal(t, 20, got.Hour())

	_, err = parseKickoff("11/05/2024")
	assert.Error(t, err)
}

func TestRateLimitedHTTPClientRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := testClient(3, 5)
	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.False(t, client.IsOpen())
}

func TestRateLimitedHTTPClientCircuitBreaker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(0, 2)
	for i := 0; i < 2; i++ {
		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.True(t, client.IsOpen())
	_, err := client.Get(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestRateLimitedHTTPClientStandardClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	resp, err := testClient(0, 0).StandardClient().Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestNewFixtureSource(t *testing.T) {
	anchor := time.Now()

	src, err := NewFixtureSource(config.FixturesConfig{Source: "static"}, anchor, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, StaticSourceName, src.Name())

	src, err = NewFixtureSource(config.FixturesConfig{Source: "feed", FeedURL: "http://localhost/fixtures"}, anchor, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, FeedSourceName, src.Name())

	_, err = NewFixtureSource(config.FixturesConfig{Source: "feed"}, anchor, quietLogger())
	assert.Error(t, err)

	_, err = NewFixtureSource(config.FixturesConfig{Source: "csv"}, anchor, quietLogger())
	assert.ErrorIs(t, err, ErrUnknownSource)

	assert.Len(t, ListAvailableSources(), 2)
}
