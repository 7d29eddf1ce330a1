package models

import (
	"strconv"
	"time"
)

// LiveStatus is the simulated state of a fixture relative to kickoff
type LiveStatus string

const (
	LiveStatusUpcoming LiveStatus = "UPCOMING"
	LiveStatusLive     LiveStatus = "LIVE"
	LiveStatusFinished LiveStatus = "FINISHED"
)

// Display markers for non-running matches
const (
	DisplayUpcoming = "VS"
	DisplayFinished = "FT"
)

// LiveMatch is the simulated live state of a single fixture
type LiveMatch struct {
	MatchID    string     `json:"match_id"`
	HomeTeam   string     `json:"home_team"`
	AwayTeam   string     `json:"away_team"`
	League     string     `json:"league"`
	Venue      string     `json:"venue"`
	Kickoff    time.Time  `json:"kickoff"`
	HomeScore  int        `json:"home_score"`
	AwayScore  int        `json:"away_score"`
	Minute     int        `json:"minute"`
	Display    string     `json:"display"`
	Status     LiveStatus `json:"status"`
	LastUpdate time.Time  `json:"last_update"`
}

// Score returns the "H-A" score string
func (m LiveMatch) Score() string {
	return strconv.Itoa(m.HomeScore) + "-" + strconv.Itoa(m.AwayScore)
}

// TotalGoals returns the number of goals scored so far
func (m LiveMatch) TotalGoals() int {
	return m.HomeScore + m.AwayScore
}

// Result returns the three-way outcome of the current score
func (m LiveMatch) Result() Outcome {
	switch {
	case m.HomeScore > m.AwayScore:
		return OutcomeHomeWin
	case m.AwayScore > m.HomeScore:
		return OutcomeAwayWin
	default:
		return OutcomeDraw
	}
}

// SidePair is a home/away pair of counters
type SidePair struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// LiveMatchStats is a simulated in-play statistics snapshot
type LiveMatchStats struct {
	MatchID          string   `json:"match_id"`
	Minute           int      `json:"minute"`
	Score            string   `json:"score"`
	Possession       SidePair `json:"possession"`
	Shots            SidePair `json:"shots"`
	DangerousAttacks SidePair `json:"dangerous_attacks"`
	Corners          SidePair `json:"corners"`
	YellowCards      SidePair `json:"yellow_cards"`
	RedCards         SidePair `json:"red_cards"`
	LineupHome       []string `json:"lineup_home"`
	LineupAway       []string `json:"lineup_away"`
}

// Momentum is the share of dangerous attacks per side, in percent
type Momentum struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

// PlayerAvailability reports which key players made the lineup
type PlayerAvailability struct {
	Available        []string `json:"available"`
	Missing          []string `json:"missing"`
	AvailabilityRate float64  `json:"availability_rate"`
}

// LiveStats aggregates the live board
type LiveStats struct {
	LiveCount     int     `json:"live_count"`
	FinishedCount int     `json:"finished_count"`
	UpcomingCount int     `json:"upcoming_count"`
	TotalGoals    int     `json:"total_goals"`
	AverageMinute float64 `json:"average_minute"`
}
