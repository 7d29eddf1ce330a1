// Package analyzer sends bet slips to an OpenAI-compatible chat completion
// endpoint and turns the replies into structured assessments.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/safebet-analyst/internal/config"
	"github.com/yourusername/safebet-analyst/internal/logger"
	"github.com/yourusername/safebet-analyst/internal/models"
)

// Analysis kinds, used as metric and log labels
const (
	KindPreMatch = "pre_match"
	KindLive     = "live"
)

// Analyzer is implemented by Client and CachedClient
type Analyzer interface {
	AnalyzeBetSlip(ctx context.Context, bet models.BetRecord) models.AnalysisResult[models.BetAnalysis]
	AnalyzeActiveBet(ctx context.Context, bet models.BetRecord, live *models.LiveMatchStats) models.AnalysisResult[models.LiveBetAnalysis]
}

// DefaultBetAnalysis is returned when the model cannot be reached or replies
// with something unusable.
func DefaultBetAnalysis() models.BetAnalysis {
	return models.BetAnalysis{
		WinProbability:       50.0,
		MomentumAnalysis:     "Unable to assess momentum due to insufficient live data",
		PlayerStatusAnalysis: "Unable to assess player status due to insufficient live data",
		AISuggestion:         "Insufficient data for accurate prediction",
		RiskLevel:            "Medium",
		ConfidenceLevel:      "Low",
	}
}

// DefaultLiveBetAnalysis is the live counterpart of DefaultBetAnalysis
func DefaultLiveBetAnalysis() models.LiveBetAnalysis {
	return models.LiveBetAnalysis{
		UpdatedWinProbability:  50.0,
		CurrentMomentum:        "Unable to assess with current data",
		RiskAssessment:         "Insufficient live data for accurate assessment",
		CashoutRecommendation:  "Not enough information to recommend cashout",
		StayInRecommendation:   "Continue monitoring the match",
		ConfidenceInPrediction: "Low",
	}
}

// Client is the chat completion backed analyzer
type Client struct {
	api    openai.Client
	config config.LLMConfig
	log    *logger.AnalysisLogger
	clock  func() time.Time
}

// NewClient creates an analysis client. httpClient may be nil to use the
// library default transport.
func NewClient(cfg *config.LLMConfig, httpClient *http.Client, log *logrus.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.TimeoutSeconds > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	log.WithFields(logrus.Fields{
		"base_url": cfg.BaseURL,
		"model":    cfg.Model,
	}).Info("LLM analysis client configured")

	return &Client{
		api:    openai.NewClient(opts...),
		config: *cfg,
		log:    logger.NewAnalysisLogger(log),
		clock:  time.Now,
	}, nil
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.config.Model
}

// AnalyzeBetSlip asks the model for a pre-match assessment of bet
func (c *Client) AnalyzeBetSlip(ctx context.Context, bet models.BetRecord) models.AnalysisResult[models.BetAnalysis] {
	prompt, err := BuildPreMatchPrompt(bet)
	if err != nil {
		return c.failBet(err)
	}

	var out models.BetAnalysis
	if err := c.complete(ctx, KindPreMatch, preMatchSystemPrompt, prompt,
		c.config.PreMatchTemperature, c.config.PreMatchMaxTokens, &out); err != nil {
		return c.failBet(err)
	}
	if !validProbability(out.WinProbability) {
		return c.failBet(fmt.Errorf("%w: win_probability %v out of range", ErrInvalidResponse, out.WinProbability))
	}

	return models.AnalysisResult[models.BetAnalysis]{Status: models.AnalysisOK, Data: out}
}

// AnalyzeActiveBet asks the model to reassess an open bet. live may be nil
// when no in-play data is known for the match.
func (c *Client) AnalyzeActiveBet(ctx context.Context, bet models.BetRecord, live *models.LiveMatchStats) models.AnalysisResult[models.LiveBetAnalysis] {
	prompt, err := BuildLivePrompt(bet, live)
	if err != nil {
		return c.failLive(err)
	}

	var out models.LiveBetAnalysis
	if err := c.complete(ctx, KindLive, liveSystemPrompt, prompt,
		c.config.LiveTemperature, c.config.LiveMaxTokens, &out); err != nil {
		return c.failLive(err)
	}
	if !validProbability(out.UpdatedWinProbability) {
		return c.failLive(fmt.Errorf("%w: updated_win_probability %v out of range", ErrInvalidResponse, out.UpdatedWinProbability))
	}

	return models.AnalysisResult[models.LiveBetAnalysis]{Status: models.AnalysisOK, Data: out}
}

func (c *Client) complete(ctx context.Context, kind, system, prompt string, temperature float64, maxTokens int, out any) error {
	start := c.clock()
	defer func() {
		AnalysisLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}()

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.config.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(int64(maxTokens)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		AnalysisRequestsTotal.WithLabelValues(kind, string(models.AnalysisFailed)).Inc()
		c.log.LogAnalysisFailure(kind, c.config.Model, err)
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		AnalysisRequestsTotal.WithLabelValues(kind, string(models.AnalysisFailed)).Inc()
		c.log.LogAnalysisFailure(kind, c.config.Model, ErrEmptyResponse)
		return ErrEmptyResponse
	}

	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), out); err != nil {
		AnalysisRequestsTotal.WithLabelValues(kind, string(models.AnalysisFailed)).Inc()
		c.log.LogAnalysisFailure(kind, c.config.Model, err)
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	AnalysisRequestsTotal.WithLabelValues(kind, string(models.AnalysisOK)).Inc()
	c.log.LogAnalysisRequest(kind, c.config.Model, false, float64(time.Since(start).Milliseconds()))
	return nil
}

func (c *Client) failBet(err error) models.AnalysisResult[models.BetAnalysis] {
	return models.AnalysisResult[models.BetAnalysis]{
		Status: models.AnalysisFailed,
		Reason: err.Error(),
		Data:   DefaultBetAnalysis(),
	}
}

func (c *Client) failLive(err error) models.AnalysisResult[models.LiveBetAnalysis] {
	return models.AnalysisResult[models.LiveBetAnalysis]{
		Status: models.AnalysisFailed,
		Reason: err.Error(),
		Data:   DefaultLiveBetAnalysis(),
	}
}

func validProbability(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 100
}
