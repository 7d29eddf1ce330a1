// Package notify pushes new-bet and prediction alerts to external channels.
package notify

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/safebet-analyst/internal/config"
	"github.com/yourusername/safebet-analyst/internal/models"
)

// Notifier delivers alerts. Implementations must not block the caller on
// slow delivery.
type Notifier interface {
	NotifyNewBets(ctx context.Context, bets []models.BetRecord) error
	NotifyPredictions(ctx context.Context, predictions []models.Prediction) error
	SetPreferences(p Preferences)
	Close()
}

// Preferences selects which alert kinds are delivered
type Preferences struct {
	NewBets     bool
	Predictions bool
}

// NoopNotifier discards every alert
type NoopNotifier struct{}

func (NoopNotifier) NotifyNewBets(context.Context, []models.BetRecord) error { return nil }

func (NoopNotifier) NotifyPredictions(context.Context, []models.Prediction) error { return nil }

func (NoopNotifier) SetPreferences(Preferences) {}

func (NoopNotifier) Close() {}

// New builds the notifier selected by cfg
func New(cfg config.NotifyConfig, log *logrus.Logger) (Notifier, error) {
	if !cfg.Telegram.Enabled {
		return NoopNotifier{}, nil
	}
	return NewTelegramNotifier(cfg, log)
}
