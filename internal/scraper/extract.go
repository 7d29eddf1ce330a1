package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/safebet-analyst/internal/models"
)

// rawBet is the text extracted in-page for one bet container
type rawBet struct {
	MatchName    *string `json:"match_name"`
	BetType      *string `json:"bet_type"`
	Odds         *string `json:"odds"`
	Stake        *string `json:"stake"`
	Status       *string `json:"status"`
	Date         *string `json:"date"`
	PotentialWin *string `json:"potential_win"`
	ActualWin    *string `json:"actual_win"`
	TimeLeft     *string `json:"time_left"`
}

const (
	unknownMatch   = "Unknown Match"
	unknownBetType = "Unknown Bet Type"
	unknownStatus  = "Unknown Status"
)

var (
	nonAmountChars = regexp.MustCompile(`[^\d.\-]`)
	leadingFloat   = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// toBetRecord converts extracted text into a bet record. Missing text falls
// back to placeholder values and unparseable numbers become zero.
func toBetRecord(raw rawBet, source models.BetSource, now time.Time) models.BetRecord {
	status := unknownStatus
	if source == models.BetSourceActive {
		status = "Active"
	}

	rec := models.BetRecord{
		MatchName:    textOr(raw.MatchName, unknownMatch),
		BetType:      textOr(raw.BetType, unknownBetType),
		Status:       textOr(raw.Status, status),
		Odds:         parseOdds(raw.Odds),
		Stake:        amountOrZero(raw.Stake),
		PotentialWin: amountOrZero(raw.PotentialWin),
		Source:       source,
		ScrapedAt:    now,
	}

	if source == models.BetSourceHistory {
		rec.Date = textOr(raw.Date, now.UTC().Format(time.RFC3339))
		if raw.ActualWin != nil {
			if amt, ok := parseAmount(*raw.ActualWin); ok {
				rec.ActualWin = &amt
			}
		}
	}
	if raw.TimeLeft != nil {
		left := strings.TrimSpace(*raw.TimeLeft)
		rec.TimeLeft = &left
	}
	return rec
}

func textOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return strings.TrimSpace(*s)
}

func parseOdds(s *string) float64 {
	if s == nil {
		return 0
	}
	v, ok := parseLeadingFloat(strings.ReplaceAll(*s, ",", ""))
	if !ok {
		return 0
	}
	return v
}

func amountOrZero(s *string) decimal.Decimal {
	if s == nil {
		return decimal.Zero
	}
	if amt, ok := parseAmount(*s); ok {
		return amt
	}
	return decimal.Zero
}

// parseAmount keeps digits, dots and minus signs and parses the leading number
func parseAmount(s string) (decimal.Decimal, bool) {
	cleaned := nonAmountChars.ReplaceAllString(s, "")
	m := leadingFloat.FindString(cleaned)
	if m == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(m, "."))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// parseLeadingFloat parses the longest numeric prefix of s after trimming
// whitespace.
func parseLeadingFloat(s string) (float64, bool) {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
