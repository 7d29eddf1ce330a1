// Package dashboard serves the web dashboard: HTML pages, form actions, a JSON
// API and a websocket live feed.
package dashboard

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/safebet-analyst/internal/config"
	"github.com/yourusername/safebet-analyst/internal/logger"
	"github.com/yourusername/safebet-analyst/internal/metrics"
	"github.com/yourusername/safebet-analyst/internal/models"
	"github.com/yourusername/safebet-analyst/internal/notify"
	"github.com/yourusername/safebet-analyst/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"overview", "bets", "predictions", "live", "history", "settings"}

// Predictions produces scorer output for the dashboard
type Predictions interface {
	PredictTopMatches(n int) ([]models.Prediction, error)
	TwoPlusBest(topN int) ([]models.Prediction, error)
	FivePlusBest(topN int) ([]models.Prediction, error)
	SlipFormat(threshold float64) ([]models.SlipEntry, error)
}

// LiveBoard is the live-state simulator as seen by the dashboard
type LiveBoard interface {
	Update() []models.LiveMatch
	Start() error
	Stop() error
	IsRunning() bool
	NextRun() time.Time
	LastUpdate() time.Time
	Matches() []models.LiveMatch
	Stats() models.LiveStats
	Subscribe() chan []models.LiveMatch
	Unsubscribe(ch chan []models.LiveMatch)
}

// HistoryReader reads tracked prediction outcomes
type HistoryReader interface {
	Section(ctx context.Context, section string, daysBack int) ([]models.PredictionRecord, error)
}

// Bets exposes the scraped account state
type Bets interface {
	Snapshot() service.BetSnapshot
	Stats() models.BetStats
	Refresh(ctx context.Context) (*service.BetSnapshot, error)
	AnalyzeActive(ctx context.Context) ([]models.AnalyzedActiveBet, error)
	AnalyzeHistory(ctx context.Context) ([]models.AnalyzedBet, models.SummaryReport, error)
}

// AutoRefresh toggles scheduled bet scraping
type AutoRefresh interface {
	Enable(interval time.Duration) error
	Disable() error
}

// Options wires the dashboard to its collaborators. Bets and AutoRefresh are
// nil when no bookmaker credentials are configured.
type Options struct {
	Config      config.DashboardConfig
	Predictions Predictions
	Live        LiveBoard
	History     HistoryReader
	Bets        Bets
	AutoRefresh AutoRefresh
	Notifier    notify.Notifier
	Defaults    Settings
	Logger      *logrus.Logger
}

// Server is the dashboard HTTP server
type Server struct {
	opts     Options
	sessions *SessionStore
	hub      *Hub
	pages    map[string]*template.Template
	validate *validator.Validate
	log      *logrus.Entry
	server   *http.Server
}

// New parses the embedded templates and builds the server
func New(opts Options) (*Server, error) {
	if opts.Predictions == nil || opts.Live == nil || opts.History == nil {
		return nil, errors.New("dashboard requires predictions, live board and history")
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NoopNotifier{}
	}
	if opts.Config.TopPredictions <= 0 {
		opts.Config.TopPredictions = 3
	}
	if opts.Defaults.RefreshIntervalMinutes == 0 {
		opts.Defaults.RefreshIntervalMinutes = 10
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	log := logger.Component(opts.Logger, "dashboard")
	return &Server{
		opts:     opts,
		sessions: NewSessionStore(opts.Config, opts.Defaults),
		hub:      NewHub(log),
		pages:    pages,
		validate: validator.New(),
		log:      log,
	}, nil
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// Handler returns the dashboard routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /{$}", s.instrument("overview", s.handleOverview))
	mux.Handle("GET /bets", s.instrument("bets", s.handleBets))
	mux.Handle("GET /predictions", s.instrument("predictions", s.handlePredictions))
	mux.Handle("GET /live", s.instrument("live", s.handleLive))
	mux.Handle("GET /history", s.instrument("history", s.handleHistory))
	mux.Handle("GET /settings", s.instrument("settings", s.handleSettings))
	mux.Handle("POST /settings", s.instrument("settings_save", s.handleSaveSettings))

	mux.Handle("POST /actions/auto-update", s.instrument("auto_update", s.handleAutoUpdate))
	mux.Handle("POST /actions/refresh-bets", s.instrument("refresh_bets", s.handleRefreshBets))
	mux.Handle("POST /actions/refresh-predictions", s.instrument("refresh_predictions", s.handleRefreshPredictions))
	mux.Handle("POST /actions/refresh-live", s.instrument("refresh_live", s.handleRefreshLive))

	mux.Handle("GET /api/predictions", s.instrument("api_predictions", s.apiPredictions))
	mux.Handle("GET /api/slips", s.instrument("api_slips", s.apiSlips))
	mux.Handle("GET /api/live", s.instrument("api_live", s.apiLive))
	mux.Handle("GET /api/history", s.instrument("api_history", s.apiHistory))
	mux.Handle("GET /api/bets", s.instrument("api_bets", s.apiBets))
	mux.Handle("GET /api/bets/analysis/active", s.instrument("api_analysis_active", s.apiAnalyzeActive))
	mux.Handle("GET /api/bets/analysis/history", s.instrument("api_analysis_history", s.apiAnalyzeHistory))

	mux.Handle("GET /ws/live", s.instrument("ws_live", s.handleWS))

	return mux
}

// Start runs the websocket hub and serves HTTP until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)
	go s.hub.Feed(ctx, s.opts.Live)

	s.server = &http.Server{
		Addr:              s.opts.Config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		s.log.WithField("address", s.opts.Config.Address).Info("Dashboard server starting")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("Dashboard server error")
		}
	}()

	go func() {
		<-ctx.Done()
		_ = s.Shutdown()
	}()

	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}
	s.log.Info("Dashboard server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) instrument(route string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		metrics.RecordDashboardRequest(route)
		h(w, r)
		s.log.WithFields(logrus.Fields{
			"route":       route,
			"method":      r.Method,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("Handled request")
	})
}

func (s *Server) render(w http.ResponseWriter, sess *Session, page, title string, data any) {
	s.renderStatus(w, sess, http.StatusOK, page, title, data)
}

// renderStatus executes a page into a buffer so template errors never produce
// a half-written response. The session flash is consumed.
func (s *Server) renderStatus(w http.ResponseWriter, sess *Session, status int, page, title string, data any) {
	pd := pageData{
		Title:   title,
		Nav:     page,
		Flash:   sess.Flash,
		Session: sess,
		Now:     time.Now(),
		Data:    data,
	}
	if sess.Flash != "" {
		sess.Flash = ""
		s.sessions.Save(sess)
	}

	var buf bytes.Buffer
	if err := s.pages[page].ExecuteTemplate(&buf, "layout", pd); err != nil {
		s.log.WithError(err).WithField("page", page).Error("Failed to render page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request, sess *Session, flash, fallback string) {
	sess.Flash = flash
	s.sessions.Save(sess)

	target := fallback
	if next := r.FormValue("next"); isLocalPath(next) {
		target = next
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func isLocalPath(p string) bool {
	return len(p) > 0 && p[0] == '/' && (len(p) == 1 || (p[1] != '/' && p[1] != '\\'))
}
