package analyzer

import (
	"strings"
	"text/template"

	"github.com/yourusername/safebet-analyst/internal/models"
)

const (
	preMatchSystemPrompt = "You are an expert sports analyst with deep knowledge of betting strategies and probability assessment. " +
		"Focus on providing accurate, data-driven analysis without encouraging gambling. " +
		"Your analysis should be objective and based on the information provided."

	liveSystemPrompt = "You are an expert sports analyst providing real-time analysis of active bets. " +
		"Focus on objective assessment based on live data without encouraging gambling. " +
		"Your recommendations should be data-driven and responsible."
)

var preMatchTemplate = template.Must(template.New("pre_match").Parse(`Analyze this betting slip for potential outcome:

Match: {{or .MatchName "Unknown"}}
Bet Type: {{or .BetType "Unknown"}}
Odds: {{.Odds}}
Stake: {{.Stake}}
Status: {{or .Status "Unknown"}}
Potential Win: {{.PotentialWin}}
Actual Win: {{if .ActualWin}}{{.ActualWin}}{{else}}N/A{{end}}

Using your knowledge of sports analytics, evaluate:
1. Momentum: Which team has more dangerous attacks in the last 10 minutes? (if available)
2. Player Status: Are key players from the slip currently on the field or subbed out? (if available)
3. Outcome Probability: Provide a percentage (%) of the slip winning
4. AI Suggestion: Give a recommendation (e.g., "High Probability - Stay in" or "Risk Detected - Cashout if possible")

Respond in JSON format with the following structure:
{
  "win_probability": float,
  "momentum_analysis": string,
  "player_status_analysis": string,
  "ai_suggestion": string,
  "risk_level": string,
  "confidence_level": string
}
`))

var liveTemplate = template.Must(template.New("live").Parse(`Analyze this ACTIVE betting slip with live match data:

Match: {{or .Bet.MatchName "Unknown"}}
Your Bet: {{or .Bet.BetType "Unknown"}} on {{or .Bet.MatchName "Unknown"}}
Original Odds: {{.Bet.Odds}}
Stake: {{.Bet.Stake}}
Potential Win: {{.Bet.PotentialWin}}
Time Left: {{if .Bet.TimeLeft}}{{.Bet.TimeLeft}}{{else}}N/A{{end}}
{{with .Live}}
Live Match Data:
Current Score: {{.Score}}
Minute: {{.Minute}}
Possession (Home/Away): {{.Possession.Home}}% / {{.Possession.Away}}%
Shots (Home/Away): {{.Shots.Home}} / {{.Shots.Away}}
Dangerous Attacks (Home/Away): {{.DangerousAttacks.Home}} / {{.DangerousAttacks.Away}}
Corners (Home/Away): {{.Corners.Home}} / {{.Corners.Away}}
Yellow Cards (Home/Away): {{.YellowCards.Home}} / {{.YellowCards.Away}}
Red Cards (Home/Away): {{.RedCards.Home}} / {{.RedCards.Away}}
{{end}}
Based on the live data, evaluate:
1. Current momentum: Which team is currently dominating based on live stats?
2. Risk Assessment: Is your bet still favorable given the current score and match state?
3. Cash-out Opportunity: Would you recommend cashing out now if available?
4. Updated Win Probability: Adjust the win probability based on live data
5. Recommendation: Should the user stay in the bet or consider cashing out?

Respond in JSON format with the following structure:
{
  "updated_win_probability": float,
  "current_momentum": string,
  "risk_assessment": string,
  "cashout_recommendation": string,
  "stay_in_recommendation": string,
  "confidence_in_prediction": string
}
`))

// BuildPreMatchPrompt renders the pre-match analysis prompt for bet
func BuildPreMatchPrompt(bet models.BetRecord) (string, error) {
	var b strings.Builder
	if err := preMatchTemplate.Execute(&b, bet); err != nil {
		return "", err
	}
	return b.String(), nil
}

// BuildLivePrompt renders the live analysis prompt. live may be nil, in
// which case the live data block is omitted.
func BuildLivePrompt(bet models.BetRecord, live *models.LiveMatchStats) (string, error) {
	var b strings.Builder
	data := struct {
		Bet  models.BetRecord
		Live *models.LiveMatchStats
	}{bet, live}
	if err := liveTemplate.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
