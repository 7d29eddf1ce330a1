package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/yourusername/safebet-analyst/internal/history"
	"github.com/yourusername/safebet-analyst/internal/models"
	"github.com/yourusername/safebet-analyst/internal/service"
)

const maxAPIPredictions = 50

type errorResponse struct {
	Error string `json:"error"`
}

type historyResponse struct {
	Section string                    `json:"section"`
	Days    int                       `json:"days"`
	Summary models.AccuracySummary    `json:"summary"`
	Records []models.PredictionRecord `json:"records"`
}

type historyAnalysisResponse struct {
	Bets    []models.AnalyzedBet `json:"bets"`
	Summary models.SummaryReport `json:"summary"`
}

type betsResponse struct {
	Active      []models.BetRecord `json:"active"`
	History     []models.BetRecord `json:"history"`
	Stats       models.BetStats    `json:"stats"`
	RefreshedAt *time.Time         `json:"refreshed_at,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// intParam parses a positive integer query parameter, returning def when absent.
func intParam(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func (s *Server) apiPredictions(w http.ResponseWriter, r *http.Request) {
	n, ok := intParam(r, "top", s.opts.Config.TopPredictions)
	if !ok {
		writeError(w, http.StatusBadRequest, "top must be a positive integer")
		return
	}
	if n > maxAPIPredictions {
		n = maxAPIPredictions
	}

	preds, err := s.opts.Predictions.PredictTopMatches(n)
	if err != nil {
		s.log.WithError(err).Warn("API prediction request failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if preds == nil {
		preds = []models.Prediction{}
	}
	writeJSON(w, http.StatusOK, preds)
}

func (s *Server) apiSlips(w http.ResponseWriter, r *http.Request) {
	threshold := 2.0
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "threshold must be a number >= 1")
			return
		}
		threshold = v
	}

	entries, err := s.opts.Predictions.SlipFormat(threshold)
	if err != nil {
		s.log.WithError(err).Warn("API slip request failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []models.SlipEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) apiLive(w http.ResponseWriter, r *http.Request) {
	board := s.opts.Live
	matches := board.Matches()
	if matches == nil {
		matches = []models.LiveMatch{}
	}
	writeJSON(w, http.StatusOK, LiveMessage{
		Type:      "live",
		Matches:   matches,
		Stats:     board.Stats(),
		UpdatedAt: board.LastUpdate(),
	})
}

func (s *Server) apiHistory(w http.ResponseWriter, r *http.Request) {
	days, ok := intParam(r, "days", history.DefaultDaysBack)
	if !ok {
		writeError(w, http.StatusBadRequest, "days must be a positive integer")
		return
	}
	section := normalizeSection(r.URL.Query().Get("section"))

	records, err := s.opts.History.Section(r.Context(), section, days)
	if err != nil {
		s.log.WithError(err).Warn("API history request failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []models.PredictionRecord{}
	}
	writeJSON(w, http.StatusOK, historyResponse{
		Section: section,
		Days:    days,
		Summary: history.Summarize(records),
		Records: records,
	})
}

func (s *Server) apiBets(w http.ResponseWriter, r *http.Request) {
	active, hist, at, stats := s.betSnapshot()
	resp := betsResponse{Active: active, History: hist, Stats: stats}
	if resp.Active == nil {
		resp.Active = []models.BetRecord{}
	}
	if resp.History == nil {
		resp.History = []models.BetRecord{}
	}
	if !at.IsZero() {
		resp.RefreshedAt = &at
	}
	writeJSON(w, http.StatusOK, resp)
}

// analysisStatus maps bet analysis errors to a response code
func analysisStatus(err error) int {
	if errors.Is(err, service.ErrNoAnalyzer) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) apiAnalyzeActive(w http.ResponseWriter, r *http.Request) {
	if s.opts.Bets == nil {
		writeError(w, http.StatusServiceUnavailable, "bookmaker credentials are not configured")
		return
	}
	analyzed, err := s.opts.Bets.AnalyzeActive(r.Context())
	if err != nil {
		s.log.WithError(err).Warn("Active bet analysis failed")
		writeError(w, analysisStatus(err), err.Error())
		return
	}
	if analyzed == nil {
		analyzed = []models.AnalyzedActiveBet{}
	}
	writeJSON(w, http.StatusOK, analyzed)
}

func (s *Server) apiAnalyzeHistory(w http.ResponseWriter, r *http.Request) {
	if s.opts.Bets == nil {
		writeError(w, http.StatusServiceUnavailable, "bookmaker credentials are not configured")
		return
	}
	analyzed, summary, err := s.opts.Bets.AnalyzeHistory(r.Context())
	if err != nil {
		s.log.WithError(err).Warn("Bet history analysis failed")
		writeError(w, analysisStatus(err), err.Error())
		return
	}
	if analyzed == nil {
		analyzed = []models.AnalyzedBet{}
	}
	writeJSON(w, http.StatusOK, historyAnalysisResponse{Bets: analyzed, Summary: summary})
}
