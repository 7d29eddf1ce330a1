package dashboard

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/yourusername/safebet-analyst/internal/history"
	"github.com/yourusername/safebet-analyst/internal/models"
	"github.com/yourusername/safebet-analyst/internal/notify"
)

// Prediction tabs
const (
	TabGeneral  = "general"
	TabTwoPlus  = "2plus"
	TabFivePlus = "5plus"
	TabSlip     = "slip"
)

var overUnderThresholds = []string{"0.5", "1.5", "2.5", "3.5"}

var templateFuncs = template.FuncMap{
	"pct": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) + "%" },
	"odd": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	"money": func(d decimal.Decimal) string {
		return "$" + d.StringFixed(2)
	},
	"moneyPtr": func(d *decimal.Decimal) string {
		if d == nil {
			return "-"
		}
		return "$" + d.StringFixed(2)
	},
	"str": func(s *string) string {
		if s == nil {
			return "-"
		}
		return *s
	},
	"when": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Local().Format("2006-01-02 15:04")
	},
	"thresholds": func() []string { return overUnderThresholds },
	"overUnder": func(m models.BettingMarkets, k string) models.OverUnderMarket {
		return m.OverUnder[k]
	},
	"top": func(n int, factors []string) []string {
		if len(factors) > n {
			return factors[:n]
		}
		return factors
	},
}

// predictionsFor returns the session's cached top predictions, computing them
// on first use.
func (s *Server) predictionsFor(sess *Session) ([]models.Prediction, error) {
	if sess.Predictions != nil {
		return sess.Predictions, nil
	}
	preds, err := s.opts.Predictions.PredictTopMatches(s.opts.Config.TopPredictions)
	if err != nil {
		return nil, err
	}
	if preds == nil {
		preds = []models.Prediction{}
	}
	sess.Predictions = preds
	sess.PredictionsAt = time.Now()
	s.sessions.Save(sess)
	return preds, nil
}

func (s *Server) betSnapshot() (active, hist []models.BetRecord, at time.Time, stats models.BetStats) {
	if s.opts.Bets == nil {
		return nil, nil, time.Time{}, models.ComputeBetStats(nil, nil)
	}
	snap := s.opts.Bets.Snapshot()
	return snap.Active, snap.History, snap.RefreshedAt, s.opts.Bets.Stats()
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Load(w, r)

	preds, err := s.predictionsFor(sess)
	if err != nil {
		s.log.WithError(err).Warn("Failed to generate predictions")
		sess.Flash = "Error generating predictions: " + err.Error()
	}

	active, hist, at, stats := s.betSnapshot()
	recent := hist
	if len(recent) > recentActivityRows {
		recent = recent[:recentActivityRows]
	}
	if len(preds) > 3 {
		preds = preds[:3]
	}

	s.render(w, sess, "overview", "Dashboard Overview", overviewData{
		Stats:          stats,
		Active:         active,
		Recent:         recent,
		Predictions:    preds,
		RefreshedAt:    at,
		ScraperEnabled: s.opts.Bets != nil,
	})
}

func (s *Server) handleBets(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Load(w, r)
	active, hist, at, _ := s.betSnapshot()
	s.render(w, sess, "bets", "My Bets", betsData{
		Active:         active,
		History:        hist,
		RefreshedAt:    at,
		ScraperEnabled: s.opts.Bets != nil,
	})
}

func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Load(w, r)

	data := predictionsData{Tab: r.URL.Query().Get("tab")}
	var err error
	switch data.Tab {
	case TabTwoPlus:
		var best []models.Prediction
		if best, err = s.opts.Predictions.TwoPlusBest(bestTopN); err == nil {
			data.TwoPlus = GroupSlips(best, twoPlusMinConfidence, twoPlusSlipSize, TwoPlusBadge)
		}
	case TabFivePlus:
		var best []models.Prediction
		if best, err = s.opts.Predictions.FivePlusBest(bestTopN); err == nil {
			data.FivePlus = GroupSlips(best, fivePlusMinConfidence, fivePlusSlipSize, FivePlusBadge)
		}
	case TabSlip:
		var two, five []models.SlipEntry
		if two, err = s.opts.Predictions.SlipFormat(2.0); err == nil {
			if five, err = s.opts.Predictions.SlipFormat(5.0); err == nil {
				data.TwoPlusSlip = TopSlipEntries(two, slipEntryMinConfidence, slipEntriesShown)
				data.FivePlusSlip = TopSlipEntries(five, slipEntryMinConfidence, slipEntriesShown)
			}
		}
	default:
		data.Tab = TabGeneral
		data.General, err = s.predictionsFor(sess)
	}
	if err != nil {
		s.log.WithError(err).WithField("tab", data.Tab).Warn("Failed to build predictions page")
		sess.Flash = "Error generating predictions: " + err.Error()
	}

	s.render(w, sess, "predictions", "AI Predictions", data)
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Load(w, r)
	board := s.opts.Live

	live, finished, upcoming := SplitLive(board.Matches())
	s.render(w, sess, "live", "Live Scores & Game States", liveData{
		Running:    board.IsRunning(),
		NextRun:    board.NextRun(),
		LastUpdate: board.LastUpdate(),
		Live:       live,
		Finished:   finished,
		Upcoming:   upcoming,
		Stats:      board.Stats(),
	})
}

func normalizeSection(section string) string {
	switch section {
	case string(models.VIPSectionTwoPlus), string(models.VIPSectionFivePlus), string(models.VIPSectionGeneral):
		return section
	default:
		return history.SectionAll
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Load(w, r)
	section := normalizeSection(r.URL.Query().Get("section"))

	records, err := s.opts.History.Section(r.Context(), section, history.DefaultDaysBack)
	if err != nil {
		s.log.WithError(err).Warn("Failed to load prediction history")
		sess.Flash = "Error loading prediction history: " + err.Error()
	}

	s.render(w, sess, "history", "Prediction History", historyData{
		Section: section,
		Records: records,
		Summary: history.Summarize(records),
	})
}

func (s *Server) settingsView(settings Settings, errs []string) settingsData {
	return settingsData{
		Settings:           settings,
		ScraperEnabled:     s.opts.Bets != nil,
		AutoRefreshEnabled: s.opts.AutoRefresh != nil,
		Errors:             errs,
	}
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Load(w, r)
	s.render(w, sess, "settings", "Settings", s.settingsView(sess.Settings, nil))
}

func checked(r *http.Request, name string) bool {
	switch r.FormValue(name) {
	case "on", "true", "1":
		return true
	default:
		return false
	}
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Load(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	interval, err := strconv.Atoi(r.FormValue("refresh_interval_minutes"))
	if err != nil {
		interval = 0
	}
	settings := Settings{
		AutoRefresh:            checked(r, "auto_refresh"),
		RefreshIntervalMinutes: interval,
		NotifyNewBets:          checked(r, "notify_new_bets"),
		NotifyPredictions:      checked(r, "notify_predictions"),
	}

	if err := s.validate.Struct(settings); err != nil {
		var verrs validator.ValidationErrors
		msgs := []string{err.Error()}
		if errors.As(err, &verrs) {
			msgs = msgs[:0]
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			}
		}
		s.renderStatus(w, sess, http.StatusUnprocessableEntity, "settings", "Settings", s.settingsView(settings, msgs))
		return
	}

	sess.Settings = settings
	s.opts.Notifier.SetPreferences(notify.Preferences{
		NewBets:     settings.NotifyNewBets,
		Predictions: settings.NotifyPredictions,
	})

	flash := "Settings saved successfully!"
	if s.opts.AutoRefresh != nil {
		if settings.AutoRefresh {
			err = s.opts.AutoRefresh.Enable(time.Duration(settings.RefreshIntervalMinutes) * time.Minute)
		} else {
			err = s.opts.AutoRefresh.Disable()
		}
		if err != nil {
			s.log.WithError(err).Warn("Failed to apply auto-refresh setting")
			flash = "Settings saved, but auto-refresh could not be updated: " + err.Error()
		}
	}
	s.redirect(w, r, sess, flash, "/settings")
}

func (s *Server) handleAutoUpdate(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Load(w, r)
	enable := checked(r, "enabled")
	board := s.opts.Live

	var err error
	switch {
	case enable && !board.IsRunning():
		err = board.Start()
	case !enable && board.IsRunning():
		err = board.Stop()
	}
	if err != nil {
		s.log.WithError(err).Warn("Failed to toggle live auto-update")
		s.redirect(w, r, sess, "Error toggling auto-update: "+err.Error(), "/live")
		return
	}

	sess.AutoUpdate = enable
	msg := "Auto-update disabled"
	if enable {
		msg = "Auto-update enabled"
	}
	s.redirect(w, r, sess, msg, "/live")
}

func (s *Server) handleRefreshBets(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Load(w, r)
	if s.opts.Bets == nil {
		s.redirect(w, r, sess, "Bookmaker credentials are not configured", "/bets")
		return
	}

	snap, err := s.opts.Bets.Refresh(r.Context())
	if err != nil {
		s.log.WithError(err).Warn("Bet refresh failed")
		s.redirect(w, r, sess, "Error refreshing bets: "+err.Error(), "/bets")
		return
	}
	s.redirect(w, r, sess, fmt.Sprintf("Loaded %d active and %d settled bets", len(snap.Active), len(snap.History)), "/bets")
}

func (s *Server) handleRefreshPredictions(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Load(w, r)

	preds, err := s.opts.Predictions.PredictTopMatches(s.opts.Config.TopPredictions)
	if err != nil {
		s.log.WithError(err).Warn("Prediction refresh failed")
		s.redirect(w, r, sess, "Error generating predictions: "+err.Error(), "/predictions")
		return
	}
	if preds == nil {
		preds = []models.Prediction{}
	}
	sess.Predictions = preds
	sess.PredictionsAt = time.Now()

	if len(preds) > 0 {
		if err := s.opts.Notifier.NotifyPredictions(r.Context(), preds); err != nil {
			s.log.WithError(err).Warn("Failed to queue prediction notification")
		}
	}
	s.redirect(w, r, sess, fmt.Sprintf("Generated %d predictions", len(preds)), "/predictions")
}

func (s *Server) handleRefreshLive(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Load(w, r)
	snapshot := s.opts.Live.Update()
	s.redirect(w, r, sess, fmt.Sprintf("Live scores updated (%d matches)", len(snapshot)), "/live")
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	board := s.opts.Live
	initial, err := encodeLive(board.Matches(), board.Stats(), board.LastUpdate())
	if err != nil {
		s.log.WithError(err).Error("Failed to encode live snapshot")
		initial = nil
	}
	s.hub.ServeWS(w, r, initial)
}
