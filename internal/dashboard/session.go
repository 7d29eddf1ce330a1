package dashboard

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/yourusername/safebet-analyst/internal/config"
	"github.com/yourusername/safebet-analyst/internal/models"
)

// Settings are the per-session preferences edited on the settings page
type Settings struct {
	AutoRefresh            bool `json:"auto_refresh"`
	RefreshIntervalMinutes int  `json:"refresh_interval_minutes" validate:"min=1,max=60"`
	NotifyNewBets          bool `json:"notify_new_bets"`
	NotifyPredictions      bool `json:"notify_predictions"`
}

// Session is the state a browser carries between requests
type Session struct {
	ID            string
	AutoUpdate    bool
	Predictions   []models.Prediction
	PredictionsAt time.Time
	Settings      Settings
	Flash         string
	CreatedAt     time.Time
}

// SessionStore keeps sessions in memory with a sliding TTL
type SessionStore struct {
	cache      *cache.Cache
	ttl        time.Duration
	cookieName string
	secure     bool
	defaults   Settings
}

// NewSessionStore creates a session store from dashboard configuration
func NewSessionStore(cfg config.DashboardConfig, defaults Settings) *SessionStore {
	ttl := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	name := cfg.CookieName
	if name == "" {
		name = "safebet_session"
	}
	return &SessionStore{
		cache:      cache.New(ttl, ttl/2),
		ttl:        ttl,
		cookieName: name,
		secure:     cfg.CookieSecure,
		defaults:   defaults,
	}
}

// Load returns the caller's session, creating one and setting the cookie
// when the request has none or it expired.
func (s *SessionStore) Load(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(s.cookieName); err == nil {
		if v, ok := s.cache.Get(c.Value); ok {
			sess := v.(Session)
			return &sess
		}
	}

	sess := Session{
		ID:        uuid.NewString(),
		Settings:  s.defaults,
		CreatedAt: time.Now(),
	}
	s.cache.Set(sess.ID, sess, s.ttl)
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
	return &sess
}

// Save stores sess and refreshes its TTL
func (s *SessionStore) Save(sess *Session) {
	s.cache.Set(sess.ID, *sess, s.ttl)
}

// Count returns the number of live sessions
func (s *SessionStore) Count() int {
	return s.cache.ItemCount()
}
