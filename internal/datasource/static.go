package datasource

import (
	"context"
	"time"

	"github.com/yourusername/safebet-analyst/internal/models"
)

// StaticSourceName identifies the built-in fixture list
const StaticSourceName = "static"

// StaticSource serves the built-in fixture list, with kickoffs anchored to a
// fixed instant so the list is immutable for the process lifetime.
type StaticSource struct {
	anchor time.Time
}

// NewStaticSource creates a static source anchored at anchor.
func NewStaticSource(anchor time.Time) *StaticSource {
	return &StaticSource{anchor: anchor}
}

func (s *StaticSource) FetchFixtures(_ context.Context) ([]models.Fixture, error) {
	return StaticFixtures(s.anchor), nil
}

func (s *StaticSource) Name() string { return StaticSourceName }

func (s *StaticSource) IsEnabled() bool { return true }

// StaticFixtures returns the six built-in fixtures, kicking off one or two
// days after anchor.
func StaticFixtures(anchor time.Time) []models.Fixture {
	day := 24 * time.Hour
	plus1 := anchor.Add(day).Truncate(time.Minute)
	plus2 := anchor.Add(2 * day).Truncate(time.Minute)

	return []models.Fixture{
		{
			ID:             "match_001",
			HomeTeam:       "Manchester United",
			AwayTeam:       "Liverpool",
			League:         "Premier League",
			Venue:          "Old Trafford",
			Kickoff:        plus1,
			HeadToHead:     models.HeadToHead{HomeWins: 1, AwayWins: 3, Draws: 1},
			RecentForm:     models.RecentForm{Home: []int{1, 0, 3, 1, 3}, Away: []int{3, 3, 3, 1, 3}},
			KeyPlayersHome: []string{"Bruno Fernandes", "Rashford", "Casemiro"},
			KeyPlayersAway: []string{"Salah", "van Dijk", "Alisson"},
		},
		{
			ID:             "match_002",
			HomeTeam:       "Real Madrid",
			AwayTeam:       "Barcelona",
			League:         "La Liga",
			Venue:          "Santiago Bernabeu",
			Kickoff:        plus2,
			HeadToHead:     models.HeadToHead{HomeWins: 2, AwayWins: 2, Draws: 1},
			RecentForm:     models.RecentForm{Home: []int{3, 1, 3, 3, 0}, Away: []int{3, 3, 1, 3, 3}},
			KeyPlayersHome: []string{"Bellingham", "Vinicius Jr.", "Courtois"},
			KeyPlayersAway: []string{"Lewandowski", "Pedri", "Ter Stegen"},
		},
		{
			ID:             "match_003",
			HomeTeam:       "Bayern Munich",
			AwayTeam:       "Borussia Dortmund",
			League:         "Bundesliga",
			Venue:          "Allianz Arena",
			Kickoff:        plus1,
			HeadToHead:     models.HeadToHead{HomeWins: 3, AwayWins: 1, Draws: 1},
			RecentForm:     models.RecentForm{Home: []int{3, 3, 3, 1, 3}, Away: []int{1, 3, 0, 3, 1}},
			KeyPlayersHome: []string{"Kane", "Musiala", "Kimmich"},
			KeyPlayersAway: []string{"Haaland", "Reus", "Hummels"},
		},
		{
			ID:             "match_004",
			HomeTeam:       "PSG",
			AwayTeam:       "Marseille",
			League:         "Ligue 1",
			Venue:          "Parc des Princes",
			Kickoff:        plus2,
			HeadToHead:     models.HeadToHead{HomeWins: 4, AwayWins: 0, Draws: 1},
			RecentForm:     models.RecentForm{Home: []int{3, 3, 3, 3, 3}, Away: []int{1, 0, 3, 1, 1}},
			KeyPlayersHome: []string{"Mbappe", "Neymar", "Verratti"},
			KeyPlayersAway: []string{"Payet", "Mitrovic", "Lopez"},
		},
		{
			ID:             "match_005",
			HomeTeam:       "Arsenal",
			AwayTeam:       "Chelsea",
			League:         "Premier League",
			Venue:          "Emirates Stadium",
			Kickoff:        plus1,
			HeadToHead:     models.HeadToHead{HomeWins: 3, AwayWins: 1, Draws: 1},
			RecentForm:     models.RecentForm{Home: []int{3, 3, 3, 1, 3}, Away: []int{1, 0, 3, 1, 0}},
			KeyPlayersHome: []string{"Saka", "Martinelli", "Ramsdale"},
			KeyPlayersAway: []string{"Sterling", "Enzo", "Cucurella"},
		},
		{
			ID:             "match_006",
			HomeTeam:       "Juventus",
			AwayTeam:       "AC Milan",
			League:         "Serie A",
			Venue:          "Allianz Stadium",
			Kickoff:        plus2,
			HeadToHead:     models.HeadToHead{HomeWins: 2, AwayWins: 2, Draws: 1},
			RecentForm:     models.RecentForm{Home: []int{3, 1, 1, 3, 0}, Away: []int{3, 3, 1, 3, 1}},
			KeyPlayersHome: []string{"Vlahovic", "Chiesa", "Szczesny"},
			KeyPlayersAway: []string{"Leao", "Giroud", "Maignan"},
		},
	}
}
