package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/safebet-analyst/internal/config"
)

func testApp(t *testing.T) *app {
	t.Helper()

	var err error
	cfg, err = config.Load("")
	require.NoError(t, err)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	a, err := newApp(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestSelectPredictions(t *testing.T) {
	a := testApp(t)
	t.Cleanup(func() { predictTop, predictMinConfidence, predictMinOdd, predictMaxOdd = 0, 0, 0, 0 })

	predictTop = 2
	preds, err := selectPredictions(a, false)
	require.NoError(t, err)
	assert.Len(t, preds, 2)

	predictTop, predictMinConfidence = 0, 40
	preds, err = selectPredictions(a, false)
	require.NoError(t, err)
	for _, p := range preds {
		assert.GreaterOrEqual(t, p.Confidence, 40.0)
	}

	predictMinConfidence, predictMinOdd, predictMaxOdd = 0, 1.0, 1.01
	preds, err = selectPredictions(a, true)
	require.NoError(t, err)
	assert.Empty(t, preds, "no most-likely result is priced that short")
}

func TestOpenStorageSeedsMemoryHistory(t *testing.T) {
	a := testApp(t)
	require.NoError(t, a.openStorage(context.Background()))

	records, err := a.tracker.History(context.Background(), 30)
	require.NoError(t, err)
	assert.NotEmpty(t, records)
	assert.Nil(t, a.db)
}

func TestScraperFactoryWithoutCredentials(t *testing.T) {
	a := testApp(t)
	a.cfg.Scraper.Username, a.cfg.Scraper.Password = "", ""
	assert.Nil(t, a.scraperFactory())
}

func TestNewAnalyzerWithoutKey(t *testing.T) {
	a := testApp(t)
	a.cfg.LLM.APIKey = ""
	client, err := a.newAnalyzer()
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestReadBets(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "bets.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"match_name":"Arsenal vs Chelsea","odds":1.85,"stake":"20","status":"Won"}]`), 0o600))
	bets, err := readBets(path)
	require.NoError(t, err)
	require.Len(t, bets, 1)
	assert.Equal(t, "Arsenal vs Chelsea", bets[0].MatchName)
	assert.Equal(t, "20", bets[0].Stake.String())

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`[]`), 0o600))
	_, err = readBets(empty)
	assert.Error(t, err)

	_, err = readBets(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
