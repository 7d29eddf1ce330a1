package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/safebet-analyst/internal/config"
	"github.com/yourusername/safebet-analyst/internal/models"
)

// fakeBotAPI records sendMessage calls
type fakeBotAPI struct {
	server *httptest.Server
	mu     sync.Mutex
	sent   []sentMessage
}

type sentMessage struct {
	chatID    string
	text      string
	parseMode string
	at        time.Time
}

func newFakeBotAPI(t *testing.T) *fakeBotAPI {
	t.Helper()
	f := &fakeBotAPI{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":42,"is_bot":true,"first_name":"SafeBet","username":"safebet_bot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			_ = r.ParseForm()
			f.mu.Lock()
			f.sent = append(f.sent, sentMessage{
				chatID:    r.Form.Get("chat_id"),
				text:      r.Form.Get("text"),
				parseMode: r.Form.Get("parse_mode"),
				at:        time.Now(),
			})
			f.mu.Unlock()
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":1001,"type":"private"},"text":"ok"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
		}
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeBotAPI) endpoint() string {
	return f.server.URL + "/bot%s/%s"
}

func (f *fakeBotAPI) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentMessage, len(f.sent))
	copy(out, f.sent)
	return out
}

func testNotifyConfig() config.NotifyConfig {
	return config.NotifyConfig{
		NewBets:     true,
		Predictions: true,
		Telegram: config.TelegramConfig{
			Enabled:            true,
			BotToken:           "123:abc",
			ChatID:             1001,
			MinIntervalSeconds: 1,
		},
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func sampleBets() []models.BetRecord {
	return []models.BetRecord{
		{MatchName: "Arsenal vs Chelsea", BetType: "1X2 <Home>", Odds: 1.85,
			Stake: decimal.NewFromInt(20), PotentialWin: decimal.RequireFromString("37")},
	}
}

func TestNewSelectsNoopWhenDisabled(t *testing.T) {
	n, err := New(config.NotifyConfig{}, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, NoopNotifier{}, n)
	assert.NoError(t, n.NotifyNewBets(context.Background(), sampleBets()))
	n.Close()
}

func TestTelegramNotifierRequiresCredentials(t *testing.T) {
	cfg := testNotifyConfig()
	cfg.Telegram.ChatID = 0
	_, err := NewTelegramNotifierWithEndpoint(cfg, "http://127.0.0.1/bot%s/%s", quietLogger())
	assert.Error(t, err)
}

func TestTelegramNotifierSendsThrottled(t *testing.T) {
	api := newFakeBotAPI(t)
	n, err := NewTelegramNotifierWithEndpoint(testNotifyConfig(), api.endpoint(), quietLogger())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, n.NotifyNewBets(ctx, sampleBets()))
	require.NoError(t, n.NotifyPredictions(ctx, []models.Prediction{{Match: "Barcelona vs Real Madrid", PredictedOutcome: "Draw", Confidence: 55.2}}))
	n.Close()

	msgs := api.messages()
	require.Len(t, msgs, 2, "close flushes the queue")
	assert.Equal(t, "1001", msgs[0].chatID)
	assert.Equal(t, "HTML", msgs[0].parseMode)
	assert.Contains(t, msgs[0].text, "New bets detected (1)")
	assert.Contains(t, msgs[0].text, "1X2 &lt;Home&gt;")
	assert.Contains(t, msgs[1].text, "Barcelona vs Real Madrid")
}

func TestTelegramNotifierHonoursFlags(t *testing.T) {
	api := newFakeBotAPI(t)
	cfg := testNotifyConfig()
	cfg.Predictions = false
	n, err := NewTelegramNotifierWithEndpoint(cfg, api.endpoint(), quietLogger())
	require.NoError(t, err)

	require.NoError(t, n.NotifyPredictions(context.Background(), []models.Prediction{{Match: "A vs B"}}))
	require.NoError(t, n.NotifyNewBets(context.Background(), nil))
	n.Close()

	assert.Empty(t, api.messages())
}

func TestTelegramNotifierPreferencesOverrideConfig(t *testing.T) {
	api := newFakeBotAPI(t)
	n, err := NewTelegramNotifierWithEndpoint(testNotifyConfig(), api.endpoint(), quietLogger())
	require.NoError(t, err)

	n.SetPreferences(Preferences{NewBets: false, Predictions: true})
	require.NoError(t, n.NotifyNewBets(context.Background(), sampleBets()))
	require.NoError(t, n.NotifyPredictions(context.Background(), []models.Prediction{{Match: "A vs B"}}))
	n.Close()

	msgs := api.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].text, "A vs B")
}

func TestTelegramNotifierRejectsAfterClose(t *testing.T) {
	api := newFakeBotAPI(t)
	n, err := NewTelegramNotifierWithEndpoint(testNotifyConfig(), api.endpoint(), quietLogger())
	require.NoError(t, err)
	n.SetPreferences(Preferences{NewBets: true, Predictions: true})
	n.Close()

	for i := 0; i < 50; i++ {
		require.ErrorIs(t, n.NotifyNewBets(context.Background(), sampleBets()), ErrStopped)
		require.ErrorIs(t, n.NotifyPredictions(context.Background(), []models.Prediction{{Match: "A vs B"}}), ErrStopped)
	}
	assert.Empty(t, api.messages())
}

func TestTelegramNotifierCloseDuringNotify(t *testing.T) {
	api := newFakeBotAPI(t)
	cfg := testNotifyConfig()
	n, err := NewTelegramNotifierWithEndpoint(cfg, api.endpoint(), quietLogger())
	require.NoError(t, err)
	n.SetPreferences(Preferences{NewBets: true})

	var accepted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				err := n.NotifyNewBets(context.Background(), sampleBets())
				if err == nil {
					accepted.Add(1)
					continue
				}
				if errors.Is(err, ErrStopped) {
					return
				}
			}
		}()
	}
	n.Close()
	wg.Wait()

	assert.Len(t, api.messages(), int(accepted.Load()), "every accepted alert is delivered")
}

func TestFormatNewBetsTruncates(t *testing.T) {
	bets := make([]models.BetRecord, maxListed+5)
	for i := range bets {
		bets[i] = models.BetRecord{MatchName: "X vs Y", Stake: decimal.Zero, PotentialWin: decimal.Zero}
	}
	text := FormatNewBets(bets)
	assert.Contains(t, text, "New bets detected (25)")
	assert.Contains(t, text, "...and 5 more")
	assert.Equal(t, maxListed, strings.Count(text, "• "))
}

func TestFormatPredictions(t *testing.T) {
	kickoff := time.Date(2024, 5, 11, 15, 0, 0, 0, time.UTC)
	text := FormatPredictions([]models.Prediction{{Match: "A & B", PredictedOutcome: "A to Win", Confidence: 81.46, Kickoff: kickoff}})
	assert.Contains(t, text, "A &amp; B")
	assert.Contains(t, text, "A to Win (81.5% confidence)")
	assert.Contains(t, text, "Kick-off: 2024-05-11 15:00 UTC")
}
