package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/safebet-analyst/internal/config"
	"github.com/yourusername/safebet-analyst/internal/logger"
	"github.com/yourusername/safebet-analyst/internal/metrics"
	"github.com/yourusername/safebet-analyst/internal/models"
)

// DefaultSendInterval keeps a chat under Telegram's per-chat rate limit
const DefaultSendInterval = 2 * time.Second

// maxListed bounds the number of items rendered into one message
const maxListed = 20

const queueSize = 100

var (
	// ErrQueueFull indicates the send queue is saturated and the alert was dropped
	ErrQueueFull = errors.New("notification queue is full")

	// ErrStopped indicates the notifier has been closed
	ErrStopped = errors.New("notifier stopped")
)

type queuedMessage struct {
	kind string
	text string
}

// TelegramNotifier sends alerts to one chat through a throttled queue
type TelegramNotifier struct {
	bot         *tgbotapi.BotAPI
	chatID      int64
	interval    time.Duration
	newBets     atomic.Bool
	predictions atomic.Bool
	log         *logrus.Entry

	mu       sync.RWMutex
	closed   bool
	queue    chan queuedMessage
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	lastSend time.Time
}

// NewTelegramNotifier connects to the Bot API and starts the sender
func NewTelegramNotifier(cfg config.NotifyConfig, log *logrus.Logger) (*TelegramNotifier, error) {
	return NewTelegramNotifierWithEndpoint(cfg, tgbotapi.APIEndpoint, log)
}

// NewTelegramNotifierWithEndpoint is NewTelegramNotifier against a custom
// Bot API endpoint of the form "https://host/bot%s/%s".
func NewTelegramNotifierWithEndpoint(cfg config.NotifyConfig, endpoint string, log *logrus.Logger) (*TelegramNotifier, error) {
	tg := cfg.Telegram
	if tg.BotToken == "" || tg.ChatID == 0 {
		return nil, errors.New("telegram bot token and chat id are required")
	}

	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(tg.BotToken, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = false

	interval := time.Duration(tg.MinIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = DefaultSendInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	n := &TelegramNotifier{
		bot:      bot,
		chatID:   tg.ChatID,
		interval: interval,
		log:      logger.Component(log, "telegram"),
		queue:    make(chan queuedMessage, queueSize),
		ctx:      ctx,
		cancel:   cancel,
	}

	n.SetPreferences(Preferences{NewBets: cfg.NewBets, Predictions: cfg.Predictions})

	n.wg.Add(1)
	go n.sender()

	n.log.WithFields(logrus.Fields{
		"bot":     bot.Self.UserName,
		"chat_id": tg.ChatID,
	}).Info("Telegram notifier initialized")
	return n, nil
}

// SetPreferences switches alert kinds on or off
func (n *TelegramNotifier) SetPreferences(p Preferences) {
	n.newBets.Store(p.NewBets)
	n.predictions.Store(p.Predictions)
}

// NotifyNewBets queues an alert listing newly seen bets
func (n *TelegramNotifier) NotifyNewBets(ctx context.Context, bets []models.BetRecord) error {
	if !n.newBets.Load() || len(bets) == 0 {
		return nil
	}
	return n.enqueue(ctx, queuedMessage{kind: "new_bets", text: FormatNewBets(bets)})
}

// NotifyPredictions queues an alert with the given predictions
func (n *TelegramNotifier) NotifyPredictions(ctx context.Context, predictions []models.Prediction) error {
	if !n.predictions.Load() || len(predictions) == 0 {
		return nil
	}
	return n.enqueue(ctx, queuedMessage{kind: "predictions", text: FormatPredictions(predictions)})
}

func (n *TelegramNotifier) enqueue(ctx context.Context, msg queuedMessage) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return ErrStopped
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case n.queue <- msg:
		return nil
	default:
		metrics.RecordNotification(msg.kind, "dropped")
		n.log.WithField("kind", msg.kind).Warn("Telegram queue full, dropping message")
		return ErrQueueFull
	}
}

// sender delivers queued messages no faster than one per interval
func (n *TelegramNotifier) sender() {
	defer n.wg.Done()
	for {
		select {
		case <-n.ctx.Done():
			for {
				select {
				case msg := <-n.queue:
					n.send(msg)
				default:
					return
				}
			}
		case msg := <-n.queue:
			if wait := n.interval - time.Since(n.lastSend); wait > 0 {
				select {
				case <-n.ctx.Done():
				case <-time.After(wait):
				}
			}
			n.send(msg)
		}
	}
}

func (n *TelegramNotifier) send(msg queuedMessage) {
	out := tgbotapi.NewMessage(n.chatID, msg.text)
	out.ParseMode = tgbotapi.ModeHTML
	out.DisableWebPagePreview = true

	n.lastSend = time.Now()
	if _, err := n.bot.Send(out); err != nil {
		metrics.RecordNotification(msg.kind, "failed")
		n.log.WithError(err).WithField("kind", msg.kind).Error("Telegram send failed")
		return
	}
	metrics.RecordNotification(msg.kind, "sent")
	n.log.WithField("kind", msg.kind).Debug("Telegram message sent")
}

// Close stops accepting alerts, flushes the queue and waits for the sender
func (n *TelegramNotifier) Close() {
	n.mu.Lock()
	n.closed = true
	n.mu.Unlock()

	n.cancel()
	n.wg.Wait()
}

// FormatNewBets renders a new-bets alert as Telegram HTML
func FormatNewBets(bets []models.BetRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>New bets detected (%d)</b>\n\n", len(bets))
	for i, bet := range bets {
		if i == maxListed {
			fmt.Fprintf(&b, "...and %d more\n", len(bets)-maxListed)
			break
		}
		fmt.Fprintf(&b, "• <b>%s</b>\n  %s @ %.2f, stake %s, to win %s\n",
			html.EscapeString(bet.MatchName), html.EscapeString(bet.BetType),
			bet.Odds, bet.Stake.StringFixed(2), bet.PotentialWin.StringFixed(2))
	}
	return b.String()
}

// FormatPredictions renders a predictions alert as Telegram HTML
func FormatPredictions(predictions []models.Prediction) string {
	var b strings.Builder
	b.WriteString("<b>Top predictions</b>\n\n")
	for i, p := range predictions {
		if i == maxListed {
			fmt.Fprintf(&b, "...and %d more\n", len(predictions)-maxListed)
			break
		}
		fmt.Fprintf(&b, "• <b>%s</b>\n  %s (%.1f%% confidence)\n",
			html.EscapeString(p.Match), html.EscapeString(p.PredictedOutcome), p.Confidence)
		if !p.Kickoff.IsZero() {
			fmt.Fprintf(&b, "  Kick-off: %s\n", p.Kickoff.UTC().Format("2006-01-02 15:04 UTC"))
		}
	}
	return b.String()
}
