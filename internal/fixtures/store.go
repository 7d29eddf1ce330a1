// Package fixtures holds the immutable fixture list the predictor and the
// live simulator read from.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/safebet-analyst/internal/datasource"
	"github.com/yourusername/safebet-analyst/internal/models"
)

// ErrEmpty is returned when no valid fixtures could be loaded
var ErrEmpty = errors.New("fixture store is empty")

// Store is a validated, read-only fixture list. It is safe for concurrent use
// because it never changes after construction.
type Store struct {
	fixtures []models.Fixture
	byID     map[string]int
	source   string
}

// NewStore validates fixtures and builds a store. Duplicate ids are rejected.
func NewStore(source string, list []models.Fixture) (*Store, error) {
	s := &Store{
		fixtures: make([]models.Fixture, 0, len(list)),
		byID:     make(map[string]int, len(list)),
		source:   source,
	}
	for _, f := range list {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.byID[f.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate match id %s", models.ErrInvalidFixture, f.ID)
		}
		s.byID[f.ID] = len(s.fixtures)
		s.fixtures = append(s.fixtures, f)
	}
	return s, nil
}

// Load fetches fixtures from primary. If that fails or yields nothing, the
// fallback source is used instead and a warning is logged.
func Load(ctx context.Context, primary, fallback datasource.FixtureSource, logger *logrus.Logger) (*Store, error) {
	log := logger.WithField("component", "fixtures")

	store, err := loadFrom(ctx, primary)
	if err == nil {
		log.WithFields(logrus.Fields{
			"source":   store.source,
			"fixtures": store.Len(),
		}).Info("Fixtures loaded")
		return store, nil
	}
	if fallback == nil {
		return nil, err
	}

	log.WithError(err).WithField("fallback", fallback.Name()).Warn("Primary fixture source failed, using fallback")
	store, ferr := loadFrom(ctx, fallback)
	if ferr != nil {
		return nil, fmt.Errorf("fallback %s: %w (primary: %v)", fallback.Name(), ferr, err)
	}
	return store, nil
}

func loadFrom(ctx context.Context, src datasource.FixtureSource) (*Store, error) {
	if !src.IsEnabled() {
		return nil, fmt.Errorf("%s: %w", src.Name(), datasource.ErrSourceDisabled)
	}
	list, err := src.FetchFixtures(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%s: %w", src.Name(), ErrEmpty)
	}
	return NewStore(src.Name(), list)
}

// All returns a copy of every fixture in load order.
func (s *Store) All() []models.Fixture {
	out := make([]models.Fixture, len(s.fixtures))
	copy(out, s.fixtures)
	return out
}

// Get looks up a fixture by match id.
func (s *Store) Get(id string) (models.Fixture, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Fixture{}, false
	}
	return s.fixtures[i], true
}

// Upcoming returns fixtures with now <= kickoff <= now+horizon.
func (s *Store) Upcoming(now time.Time, horizon time.Duration) []models.Fixture {
	return s.filter(now, now.Add(horizon))
}

// Window returns fixtures with kickoff in [now-span, now+span].
func (s *Store) Window(now time.Time, span time.Duration) []models.Fixture {
	return s.filter(now.Add(-span), now.Add(span))
}

func (s *Store) filter(from, to time.Time) []models.Fixture {
	var out []models.Fixture
	for _, f := range s.fixtures {
		if f.Kickoff.Before(from) || f.Kickoff.After(to) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Len returns the number of fixtures.
func (s *Store) Len() int { return len(s.fixtures) }

// Source names the data source the fixtures came from.
func (s *Store) Source() string { return s.source }

// Check is a readiness probe: it fails when the store holds no fixtures.
func (s *Store) Check(_ context.Context) error {
	if s == nil || len(s.fixtures) == 0 {
		return ErrEmpty
	}
	return nil
}
