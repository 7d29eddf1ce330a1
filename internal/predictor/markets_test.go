package predictor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/safebet-analyst/internal/models"
)

func TestCorrectScoresDeduplicates(t *testing.T) {
	d := models.Distribution{Home: 0.6323, Draw: 0.3177, Away: 0.05}
	scores := CorrectScores(d, ExpectedGoals(d))

	require.Len(t, scores, 4)
	assert.Equal(t, "2-0", scores[0].Score)
	assert.Equal(t, []string{"2-0", "3-0", "2-1", "1-0"}, []string{
		scores[0].Score, scores[1].Score, scores[2].Score, scores[3].Score,
	})
	assert.Equal(t, 33.3, scores[0].Probability)
	assert.Equal(t, 16.7, scores[3].Probability)
}

func TestCorrectScoresClampsNegativeGoals(t *testing.T) {
	d := models.Distribution{Home: 0.05, Draw: 0.05, Away: 0.9}
	for _, s := range CorrectScores(d, ExpectedGoals(d)) {
		assert.GreaterOrEqual(t, s.HomeGoals, 0)
		assert.GreaterOrEqual(t, s.AwayGoals, 0)
	}
}

func TestExpectedGoals(t *testing.T) {
	assert.InDelta(t, 2.33, ExpectedGoals(models.Distribution{Home: 0.3708, Draw: 0.34, Away: 0.2892}), 1e-9)
	assert.InDelta(t, 2.5, ExpectedGoals(models.Distribution{Home: 0.5, Draw: 0, Away: 0.5}), 1e-9)
}

func TestProbabilityOver(t *testing.T) {
	assert.Equal(t, 1.0, ProbabilityOver(3, 0.5))
	assert.InDelta(t, 0.7, ProbabilityOver(2.5, 2.5), 1e-9)
	assert.InDelta(t, 0.4, ProbabilityOver(2.5, 3.5), 1e-9)
	assert.Equal(t, 0.0, ProbabilityOver(0.5, 10))
}

func TestFormatOdds(t *testing.T) {
	assert.Equal(t, 2.0, FormatOdds(0.5))
	assert.Equal(t, 3.33, FormatOdds(0.3))
	assert.Equal(t, 0.0, FormatOdds(0))
	assert.Equal(t, 0.0, FormatOdds(1))
	assert.Equal(t, 0.0, FormatOdds(-0.2))
}

func TestExpectedValue(t *testing.T) {
	assert.Equal(t, 0.75, ExpectedValue(2.5, 50))
	assert.Equal(t, 0.0, ExpectedValue(3.0, 25))
	assert.Equal(t, 0.0, ExpectedValue(0, 60))
	assert.Equal(t, 0.0, ExpectedValue(2, 0))
}

func TestImpliedOdd(t *testing.T) {
	assert.InDelta(t, 2.0, ImpliedOdd(models.MatchResultMarket{Win: 50, Draw: 30, Lose: 20}), 1e-9)
	assert.InDelta(t, 4.0, ImpliedOdd(models.MatchResultMarket{Win: 20, Draw: 25, Lose: 25}), 1e-9)
	assert.Equal(t, 0.0, ImpliedOdd(models.MatchResultMarket{}))
}

func TestSectionForOdd(t *testing.T) {
	assert.Equal(t, models.VIPSectionGeneral, SectionForOdd(1.99))
	assert.Equal(t, models.VIPSectionTwoPlus, SectionForOdd(2.0))
	assert.Equal(t, models.VIPSectionTwoPlus, SectionForOdd(4.99))
	assert.Equal(t, models.VIPSectionFivePlus, SectionForOdd(5.0))
}
