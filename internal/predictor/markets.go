package predictor

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/yourusername/safebet-analyst/internal/models"
)

// OverUnderThresholds are the goal lines priced in the over/under market.
var OverUnderThresholds = []float64{0.5, 1.5, 2.5, 3.5}

const maxCorrectScores = 5

func buildMarkets(f models.Fixture, d models.Distribution) models.BettingMarkets {
	xg := ExpectedGoals(d)
	return models.BettingMarkets{
		MatchResult: models.MatchResultMarket{
			Win:  pct(d.Home),
			Draw: pct(d.Draw),
			Lose: pct(d.Away),
		},
		OverUnder:     overUnderMarkets(xg),
		BTTS:          bttsMarket(d),
		DoubleChance:  doubleChance(d),
		CorrectScores: CorrectScores(d, xg),
		Confidence:    round1(math.Min(95, math.Max(60, d.Sum()*30+40))),
		RiskLevel:     RiskLevel(d),
		KeyFactors:    marketKeyFactors(f, d),
	}
}

// ExpectedGoals estimates total goals from the two side strengths.
func ExpectedGoals(d models.Distribution) float64 {
	total := d.Sum()
	homeStrength := d.Home / total
	awayStrength := d.Away / total
	return 2.5 + (homeStrength+awayStrength-1)*0.5
}

// ProbabilityOver is a two-branch linear approximation of P(goals > k).
func ProbabilityOver(xg, k float64) float64 {
	if k < xg {
		return math.Min(1, 0.3+(xg-k)*0.4)
	}
	return math.Max(0, 0.7-(k-xg)*0.3)
}

func overUnderMarkets(xg float64) map[string]models.OverUnderMarket {
	markets := make(map[string]models.OverUnderMarket, len(OverUnderThresholds))
	for _, k := range OverUnderThresholds {
		over := pct(ProbabilityOver(xg, k))
		markets[strconv.FormatFloat(k, 'f', 1, 64)] = models.OverUnderMarket{
			Over:  over,
			Under: round1(100 - over),
		}
	}
	return markets
}

func bttsMarket(d models.Distribution) models.BTTSMarket {
	total := d.Sum()
	yes := (d.Home/total*0.7 + d.Away/total*0.7) * 0.8
	return models.BTTSMarket{
		Yes: pct(yes),
		No:  pct(1 - yes),
	}
}

func doubleChance(d models.Distribution) models.DoubleChanceMarket {
	return models.DoubleChanceMarket{
		HomeOrDraw: pct(d.Home + d.Draw),
		AwayOrDraw: pct(d.Away + d.Draw),
		HomeOrAway: pct(d.Home + d.Away),
	}
}

// CorrectScores builds up to five scorelines around the expected goals per
// side. Duplicate scorelines keep their first, highest weight; the weights of
// the unique lines are renormalized to percentages.
func CorrectScores(d models.Distribution, xg float64) []models.ScoreProbability {
	homeExp := xg * (d.Home / (d.Home + d.Away + 0.1))
	awayExp := xg * (d.Away / (d.Home + d.Away + 0.1))
	h := int(math.RoundToEven(homeExp))
	a := int(math.RoundToEven(awayExp))

	candidates := [][2]int{
		{h, a},
		{h + 1, a},
		{h, a + 1},
		{h - 1, a},
		{h, a - 1},
	}

	type weighted struct {
		home, away int
		weight     float64
	}
	seen := make(map[string]bool, len(candidates))
	lines := make([]weighted, 0, len(candidates))
	var total float64
	for i, c := range candidates {
		home, away := max(0, c[0]), max(0, c[1])
		key := scoreKey(home, away)
		if seen[key] {
			continue
		}
		seen[key] = true
		w := math.Max(5, float64(30-5*i))
		lines = append(lines, weighted{home: home, away: away, weight: w})
		total += w
	}

	scores := make([]models.ScoreProbability, 0, len(lines))
	for _, l := range lines {
		scores = append(scores, models.ScoreProbability{
			Score:       scoreKey(l.home, l.away),
			HomeGoals:   l.home,
			AwayGoals:   l.away,
			Probability: round1(l.weight / total * 100),
		})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Probability > scores[j].Probability
	})
	if len(scores) > maxCorrectScores {
		scores = scores[:maxCorrectScores]
	}
	return scores
}

func scoreKey(home, away int) string {
	return fmt.Sprintf("%d-%d", home, away)
}
