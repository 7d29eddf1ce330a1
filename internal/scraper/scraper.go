// Package scraper reads bet slips from the bookmaker account pages through a
// headless browser. The browser session is read-only: requests that could
// move funds are aborted and clicks on fund-affecting controls are swallowed.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/safebet-analyst/internal/config"
	"github.com/yourusername/safebet-analyst/internal/logger"
	"github.com/yourusername/safebet-analyst/internal/metrics"
	"github.com/yourusername/safebet-analyst/internal/models"
)

var (
	// ErrMissingCredentials indicates no bookmaker username or password is configured
	ErrMissingCredentials = errors.New("bookmaker username and password are required")

	// ErrLoginFailed indicates the post-login page is not an account page
	ErrLoginFailed = errors.New("login failed - could not verify login state")

	// ErrSecurityViolation indicates the browser ended up on a fund-affecting page
	ErrSecurityViolation = errors.New("security violation: navigated to payment section unexpectedly")

	// ErrNotStarted indicates the browser has not been started
	ErrNotStarted = errors.New("scraper browser not started")
)

// loggedInMarkers must appear in the URL reached after login
var loggedInMarkers = []string{"office", "profile"}

// Scraper drives one browser session against the bookmaker site
type Scraper struct {
	cfg   config.ScraperConfig
	log   *logrus.Entry
	audit *logger.AuditLogger
	clock func() time.Time

	mu          sync.Mutex
	browserCtx  context.Context
	cancelAlloc context.CancelFunc
	cancelTab   context.CancelFunc
	guarded     bool
}

// New creates a scraper. The browser is not launched until Start.
func New(cfg *config.ScraperConfig, log *logrus.Logger) (*Scraper, error) {
	if strings.TrimSpace(cfg.Username) == "" || cfg.Password == "" {
		return nil, ErrMissingCredentials
	}
	return &Scraper{
		cfg:   *cfg,
		log:   logger.Component(log, "scraper"),
		audit: logger.NewAuditLogger(log),
		clock: time.Now,
	}, nil
}

// allocatorOptions returns the browser launch flags
func (s *Scraper) allocatorOptions() []chromedp.ExecAllocatorOption {
	return append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.cfg.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(s.cfg.UserAgent),
	)
}

// Start launches the browser and installs the read-only guard
func (s *Scraper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browserCtx != nil {
		return nil
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), s.allocatorOptions()...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...any) {
		s.log.Debugf(format, v...)
	}))

	s.browserCtx = tabCtx
	s.cancelAlloc = cancelAlloc
	s.cancelTab = cancelTab

	// The first Run launches the browser and binds it to tabCtx, so it must
	// not be given a shorter-lived context.
	if err := chromedp.Run(tabCtx); err != nil {
		s.closeLocked()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	headers := network.Headers{
		"Accept-Language":           "en-US,en;q=0.9",
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Upgrade-Insecure-Requests": "1",
	}
	if err := s.run(ctx, time.Duration(s.cfg.PageTimeoutSeconds)*time.Second,
		network.Enable(),
		network.SetExtraHTTPHeaders(headers),
		chromedp.EmulateViewport(1920, 1080),
	); err != nil {
		s.closeLocked()
		return fmt.Errorf("failed to start browser: %w", err)
	}

	if err := s.ensureReadOnlyLocked(ctx); err != nil {
		s.closeLocked()
		return err
	}

	s.log.WithField("headless", s.cfg.Headless).Info("Browser started")
	return nil
}

// EnsureReadOnly installs request interception and the click guard once per
// browser session. Start calls it; later calls are no-ops until Close.
func (s *Scraper) EnsureReadOnly(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureReadOnlyLocked(ctx)
}

func (s *Scraper) ensureReadOnlyLocked(ctx context.Context) error {
	if s.browserCtx == nil {
		return ErrNotStarted
	}
	if s.guarded {
		return nil
	}

	browserCtx := s.browserCtx
	chromedp.ListenTarget(browserCtx, func(ev any) {
		paused, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		go s.handlePaused(browserCtx, paused)
	})

	script := fmt.Sprintf(clickGuardScript, jsStringArray(BlockedClickKeywords))
	err := s.run(ctx, time.Duration(s.cfg.PageTimeoutSeconds)*time.Second,
		fetch.Enable().WithPatterns(requestPatterns()),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(script).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return err
	}
	s.guarded = true
	return nil
}

// handlePaused aborts intercepted fund-affecting requests and lets any other
// paused request through.
func (s *Scraper) handlePaused(browserCtx context.Context, ev *fetch.EventRequestPaused) {
	c := chromedp.FromContext(browserCtx)
	if c == nil || c.Target == nil {
		return
	}
	execCtx := cdp.WithExecutor(browserCtx, c.Target)

	url := ev.Request.URL
	if _, bad := IsForbiddenURL(url); !bad {
		if err := fetch.ContinueRequest(ev.RequestID).Do(execCtx); err != nil {
			s.log.WithError(err).Debug("Failed to continue paused request")
		}
		return
	}

	s.audit.LogBlockedRequest(url, ev.ResourceType.String())
	metrics.RecordBlockedRequest("request")
	if err := fetch.FailRequest(ev.RequestID, network.ErrorReasonBlockedByClient).Do(execCtx); err != nil {
		s.log.WithError(err).Warn("Failed to abort forbidden request")
	}
}

// Login signs in with the configured credentials and verifies that the
// browser landed on an account page.
func (s *Scraper) Login(ctx context.Context) error {
	start := s.clock()
	var landing string

	err := s.run(ctx, time.Duration(s.cfg.LoginTimeoutSeconds)*time.Second,
		chromedp.Navigate(s.cfg.LoginURL),
		chromedp.WaitVisible(`input[name="login"]`, chromedp.ByQuery),
	)
	if err != nil {
		s.audit.LogLoginAttempt(s.cfg.Username, false, s.cfg.LoginURL)
		return fmt.Errorf("login form not found: %w", err)
	}

	err = s.run(ctx, time.Duration(s.cfg.PageTimeoutSeconds+s.cfg.SettleDelaySeconds)*time.Second,
		chromedp.SendKeys(`input[name="login"]`, s.cfg.Username, chromedp.ByQuery),
		chromedp.SendKeys(`input[name="password"]`, s.cfg.Password, chromedp.ByQuery),
		chromedp.Click(`button[type="submit"]`, chromedp.ByQuery),
		chromedp.Sleep(time.Duration(s.cfg.SettleDelaySeconds)*time.Second),
		chromedp.Location(&landing),
	)
	metrics.RecordScrapeDuration("login", time.Since(start).Seconds())
	if err != nil {
		s.audit.LogLoginAttempt(s.cfg.Username, false, landing)
		return fmt.Errorf("login submit failed: %w", err)
	}

	if !containsAny(landing, loggedInMarkers) {
		s.audit.LogLoginAttempt(s.cfg.Username, false, landing)
		return ErrLoginFailed
	}

	s.audit.LogLoginAttempt(s.cfg.Username, true, landing)
	return nil
}

// NavigateToHistory opens the bet history page
func (s *Scraper) NavigateToHistory(ctx context.Context) error {
	var current string
	err := s.run(ctx, time.Duration(s.cfg.PageTimeoutSeconds)*time.Second,
		chromedp.Navigate(s.cfg.HistoryURL),
		chromedp.WaitVisible(historyReady, chromedp.ByQuery),
		chromedp.Location(&current),
	)
	if err != nil {
		return fmt.Errorf("history page did not load: %w", err)
	}
	return s.checkLocation(current)
}

// ScrapeBets extracts the bets listed on the history page
func (s *Scraper) ScrapeBets(ctx context.Context) ([]models.BetRecord, error) {
	return s.extract(ctx, models.BetSourceHistory, historyPage)
}

// ActiveBets opens the active bets page and extracts the open bets
func (s *Scraper) ActiveBets(ctx context.Context) ([]models.BetRecord, error) {
	var current string
	err := s.run(ctx, time.Duration(s.cfg.PageTimeoutSeconds)*time.Second,
		chromedp.Navigate(s.cfg.ActiveBetsURL),
		chromedp.Location(&current),
	)
	if err != nil {
		return nil, fmt.Errorf("active bets page did not load: %w", err)
	}
	if err := s.checkLocation(current); err != nil {
		return nil, err
	}
	return s.extract(ctx, models.BetSourceActive, activePage)
}

func (s *Scraper) extract(ctx context.Context, source models.BetSource, p betPage) ([]models.BetRecord, error) {
	start := s.clock()
	var raws []rawBet

	err := s.run(ctx, time.Duration(s.cfg.PageTimeoutSeconds)*time.Second,
		chromedp.WaitVisible(p.Ready, chromedp.ByQuery),
		chromedp.Evaluate(p.extractScript(), &raws),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s bets: %w", source, err)
	}

	now := s.clock()
	bets := make([]models.BetRecord, 0, len(raws))
	for _, raw := range raws {
		bets = append(bets, toBetRecord(raw, source, now))
	}

	elapsed := time.Since(start)
	metrics.RecordBetsScraped(string(source), len(bets))
	metrics.RecordScrapeDuration("extract_"+string(source), elapsed.Seconds())
	s.audit.LogScrape(string(source), len(bets), elapsed)
	return bets, nil
}

func (s *Scraper) checkLocation(current string) error {
	if kw, bad := IsForbiddenURL(current); bad {
		s.audit.LogSecurityViolation(current, kw)
		metrics.RecordBlockedRequest("navigation")
		return ErrSecurityViolation
	}
	return nil
}

// run executes actions in the browser tab, bounded by timeout and by ctx
func (s *Scraper) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if s.browserCtx == nil {
		return ErrNotStarted
	}
	runCtx, cancel := context.WithTimeout(s.browserCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// Close shuts the browser down
func (s *Scraper) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Scraper) closeLocked() {
	if s.cancelTab != nil {
		s.cancelTab()
	}
	if s.cancelAlloc != nil {
		s.cancelAlloc()
	}
	s.browserCtx, s.cancelTab, s.cancelAlloc = nil, nil, nil
	s.guarded = false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func jsStringArray(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
