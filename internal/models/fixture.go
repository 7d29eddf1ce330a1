package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// FormLength is the number of recent results tracked per side.
const FormLength = 5

// HeadToHead is the tally of the last five meetings between two sides
type HeadToHead struct {
	HomeWins int `json:"home_wins" validate:"gte=0"`
	AwayWins int `json:"away_wins" validate:"gte=0"`
	Draws    int `json:"draws" validate:"gte=0"`
}

// Total returns the number of meetings in the tally
func (h HeadToHead) Total() int {
	return h.HomeWins + h.AwayWins + h.Draws
}

// RecentForm holds the last five results per side, oldest first.
// Each result is 3 (win), 1 (draw) or 0 (loss).
type RecentForm struct {
	Home []int `json:"home" validate:"len=5,dive,oneof=0 1 3"`
	Away []int `json:"away" validate:"len=5,dive,oneof=0 1 3"`
}

// Fixture represents a scheduled match with fixed metadata
type Fixture struct {
	ID             string     `json:"match_id" validate:"required"`
	HomeTeam       string     `json:"home_team" validate:"required"`
	AwayTeam       string     `json:"away_team" validate:"required,nefield=HomeTeam"`
	League         string     `json:"league"`
	Venue          string     `json:"venue" validate:"required"`
	Kickoff        time.Time  `json:"kickoff" validate:"required"`
	HeadToHead     HeadToHead `json:"h2h_last_5"`
	RecentForm     RecentForm `json:"recent_form"`
	KeyPlayersHome []string   `json:"key_players_home" validate:"required,min=1,dive,required"`
	KeyPlayersAway []string   `json:"key_players_away" validate:"required,min=1,dive,required"`
}

// Name returns the "Home vs Away" display label
func (f Fixture) Name() string {
	return fmt.Sprintf("%s vs %s", f.HomeTeam, f.AwayTeam)
}

var fixtureValidator = validator.New()

// Validate checks structural constraints on a fixture.
func (f Fixture) Validate() error {
	if err := fixtureValidator.Struct(f); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidFixture, f.ID, err)
	}
	return nil
}

// FormPoints returns the unweighted points total of a form sequence
func FormPoints(form []int) int {
	total := 0
	for _, r := range form {
		total += ResultPoints(r)
	}
	return total
}

// ResultPoints maps a single form entry to league points.
func ResultPoints(r int) int {
	switch r {
	case 3:
		return 3
	case 1:
		return 1
	default:
		return 0
	}
}
