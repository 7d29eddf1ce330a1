package predictor

import "github.com/yourusername/safebet-analyst/internal/models"

// Odd thresholds for the VIP sections
const (
	TwoPlusOdd  = 2.0
	FivePlusOdd = 5.0
)

// FormatOdds converts a probability fraction to decimal odds. Probabilities
// outside (0, 1) have no price and return 0.
func FormatOdds(probability float64) float64 {
	if probability <= 0 || probability >= 1 {
		return 0
	}
	return round2(1 / probability)
}

// ExpectedValue returns the expected profit per unit stake of a bet at the
// given decimal odds, with the win probability in percent.
func ExpectedValue(odds, probabilityPct float64) float64 {
	if odds == 0 || probabilityPct == 0 {
		return 0
	}
	p := probabilityPct / 100
	return round3(odds*p - (1 - p))
}

// ImpliedOdd converts the most likely match-result probability (percent) to decimal odds.
func ImpliedOdd(m models.MatchResultMarket) float64 {
	_, best := m.Best()
	if best <= 0 {
		return 0
	}
	return 1 / (best / 100)
}

// SectionForOdd buckets a decimal odd into its VIP section.
func SectionForOdd(odd float64) models.VIPSection {
	switch {
	case odd >= FivePlusOdd:
		return models.VIPSectionFivePlus
	case odd >= TwoPlusOdd:
		return models.VIPSectionTwoPlus
	default:
		return models.VIPSectionGeneral
	}
}
