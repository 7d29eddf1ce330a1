package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/safebet-analyst/internal/analyzer"
	"github.com/yourusername/safebet-analyst/internal/models"
	"github.com/yourusername/safebet-analyst/internal/notify"
	"github.com/yourusername/safebet-analyst/internal/repository"
)

type fakeScraper struct {
	calls    []string
	active   []models.BetRecord
	history  []models.BetRecord
	loginErr error
	closed   bool
}

func (f *fakeScraper) Start(context.Context) error {
	f.calls = append(f.calls, "start")
	return nil
}

func (f *fakeScraper) Login(context.Context) error {
	f.calls = append(f.calls, "login")
	return f.loginErr
}

func (f *fakeScraper) NavigateToHistory(context.Context) error {
	f.calls = append(f.calls, "history")
	return nil
}

func (f *fakeScraper) ScrapeBets(context.Context) ([]models.BetRecord, error) {
	f.calls = append(f.calls, "scrape")
	return f.history, nil
}

func (f *fakeScraper) ActiveBets(context.Context) ([]models.BetRecord, error) {
	f.calls = append(f.calls, "active")
	return f.active, nil
}

func (f *fakeScraper) Close() { f.closed = true }

// MockBetRecordRepository mocks bet snapshot persistence
type MockBetRecordRepository struct {
	mock.Mock
}

func (m *MockBetRecordRepository) SaveSnapshot(ctx context.Context, source models.BetSource, bets []models.BetRecord) error {
	args := m.Called(ctx, source, bets)
	return args.Error(0)
}

func (m *MockBetRecordRepository) Latest(ctx context.Context, source models.BetSource) ([]models.BetRecord, error) {
	args := m.Called(ctx, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BetRecord), args.Error(1)
}

type recordingNotifier struct {
	mu   sync.Mutex
	bets [][]models.BetRecord
}

func (r *recordingNotifier) NotifyNewBets(_ context.Context, bets []models.BetRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bets = append(r.bets, bets)
	return nil
}

func (r *recordingNotifier) NotifyPredictions(context.Context, []models.Prediction) error {
	return nil
}

func (r *recordingNotifier) SetPreferences(notify.Preferences) {}

func (r *recordingNotifier) Close() {}

type fakeLive struct {
	board []models.LiveMatch
}

func (f fakeLive) Matches() []models.LiveMatch { return f.board }

func (f fakeLive) SimulateMatchStats(matchID string) models.LiveMatchStats {
	return models.LiveMatchStats{MatchID: matchID, Minute: 63, Score: "1-0"}
}

type fakeAnalyzer struct {
	live []*models.LiveMatchStats
}

func (f *fakeAnalyzer) AnalyzeBetSlip(context.Context, models.BetRecord) models.AnalysisResult[models.BetAnalysis] {
	return models.AnalysisResult[models.BetAnalysis]{Status: models.AnalysisOK, Data: models.BetAnalysis{WinProbability: 60, RiskLevel: "High"}}
}

func (f *fakeAnalyzer) AnalyzeActiveBet(_ context.Context, _ models.BetRecord, live *models.LiveMatchStats) models.AnalysisResult[models.LiveBetAnalysis] {
	f.live = append(f.live, live)
	return models.AnalysisResult[models.LiveBetAnalysis]{Status: models.AnalysisOK, Data: analyzer.DefaultLiveBetAnalysis()}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func bet(match, status string, stake, win int64) models.BetRecord {
	return models.BetRecord{
		MatchName:    match,
		BetType:      "1X2",
		Odds:         1.9,
		Stake:        decimal.NewFromInt(stake),
		Status:       status,
		PotentialWin: decimal.NewFromInt(win),
	}
}

func TestRefreshRunsFullScrape(t *testing.T) {
	sc := &fakeScraper{
		active:  []models.BetRecord{bet("Arsenal vs Chelsea", "Active", 10, 19)},
		history: []models.BetRecord{bet("Inter vs Napoli", "Won", 5, 9), bet("Ajax vs PSV", "Lost", 5, 12)},
	}
	repos := repository.NewMemoryRepositories()
	notifier := &recordingNotifier{}
	svc := NewBetService(func() (BetScraper, error) { return sc, nil }, repos.Bets, notifier, nil, nil, quietLogger())

	snap, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "login", "history", "scrape", "active"}, sc.calls)
	assert.True(t, sc.closed)
	assert.Len(t, snap.Active, 1)
	assert.Len(t, snap.History, 2)
	assert.Empty(t, notifier.bets, "the first scrape is not news")

	stored, err := repos.Bets.Latest(context.Background(), models.BetSourceHistory)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	stats := svc.Stats()
	assert.Equal(t, 1, stats.ActiveBets)
	assert.True(t, decimal.NewFromInt(10).Equal(stats.TotalStaked))
	assert.True(t, decimal.NewFromInt(19).Equal(stats.PotentialWinnings))
	assert.Equal(t, 50.0, stats.WinRate)
}

func TestRefreshNotifiesNewBets(t *testing.T) {
	sc := &fakeScraper{active: []models.BetRecord{bet("Arsenal vs Chelsea", "Active", 10, 19)}}
	notifier := &recordingNotifier{}
	svc := NewBetService(func() (BetScraper, error) { return sc, nil },
		repository.NewMemoryBetRecordRepository(), notifier, nil, nil, quietLogger())
	ctx := context.Background()

	_, err := svc.Refresh(ctx)
	require.NoError(t, err)

	sc.active = append(sc.active, bet("Juventus vs AC Milan", "Pending", 4, 11))
	_, err = svc.Refresh(ctx)
	require.NoError(t, err)

	require.Len(t, notifier.bets, 1)
	require.Len(t, notifier.bets[0], 1)
	assert.Equal(t, "Juventus vs AC Milan", notifier.bets[0][0].MatchName)
}

func TestRefreshPropagatesScraperErrors(t *testing.T) {
	loginErr := errors.New("login failed - could not verify login state")
	sc := &fakeScraper{loginErr: loginErr}
	svc := NewBetService(func() (BetScraper, error) { return sc, nil },
		repository.NewMemoryBetRecordRepository(), nil, nil, nil, quietLogger())

	_, err := svc.Refresh(context.Background())
	assert.ErrorIs(t, err, loginErr)
	assert.True(t, sc.closed)
	assert.Empty(t, svc.Snapshot().Active)
}

func TestRestore(t *testing.T) {
	repo := repository.NewMemoryBetRecordRepository()
	ctx := context.Background()
	require.NoError(t, repo.SaveSnapshot(ctx, models.BetSourceActive, []models.BetRecord{bet("A vs B", "Active", 1, 2)}))

	svc := NewBetService(nil, repo, nil, nil, nil, quietLogger())
	require.NoError(t, svc.Restore(ctx))
	assert.Len(t, svc.Snapshot().Active, 1)
}

func TestRefreshSurvivesPersistenceErrors(t *testing.T) {
	sc := &fakeScraper{
		active:  []models.BetRecord{bet("Arsenal vs Chelsea", "Active", 10, 19)},
		history: []models.BetRecord{bet("Inter vs Napoli", "Won", 5, 9)},
	}
	repo := new(MockBetRecordRepository)
	repo.On("SaveSnapshot", mock.Anything, models.BetSourceHistory, sc.history).Return(errors.New("connection refused"))
	repo.On("SaveSnapshot", mock.Anything, models.BetSourceActive, sc.active).Return(nil)

	svc := NewBetService(func() (BetScraper, error) { return sc, nil }, repo, nil, nil, nil, quietLogger())
	snap, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Active, 1)
	assert.Len(t, svc.Snapshot().History, 1)
	repo.AssertExpectations(t)
}

func TestRestoreErrors(t *testing.T) {
	dbErr := errors.New("relation does not exist")
	repo := new(MockBetRecordRepository)
	repo.On("Latest", mock.Anything, models.BetSourceActive).Return([]models.BetRecord{bet("A vs B", "Active", 1, 2)}, nil)
	repo.On("Latest", mock.Anything, models.BetSourceHistory).Return(nil, dbErr)

	svc := NewBetService(nil, repo, nil, nil, nil, quietLogger())
	err := svc.Restore(context.Background())
	assert.ErrorIs(t, err, dbErr)
	assert.Empty(t, svc.Snapshot().Active, "a failed restore leaves the empty snapshot")
	repo.AssertExpectations(t)
}

func TestAnalyzeActiveAttachesLiveStats(t *testing.T) {
	sc := &fakeScraper{active: []models.BetRecord{
		bet("Arsenal vs Chelsea", "Active", 10, 19),
		bet("Juventus vs AC Milan", "Active", 4, 11),
		bet("Unknown FC vs Nobody", "Active", 1, 2),
	}}
	live := fakeLive{board: []models.LiveMatch{
		{MatchID: "match_005", HomeTeam: "Arsenal", AwayTeam: "Chelsea", Status: models.LiveStatusLive},
		{MatchID: "match_006", HomeTeam: "Juventus", AwayTeam: "AC Milan", Status: models.LiveStatusUpcoming},
	}}
	a := &fakeAnalyzer{}
	svc := NewBetService(func() (BetScraper, error) { return sc, nil },
		repository.NewMemoryBetRecordRepository(), nil, a, live, quietLogger())

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	out, err := svc.AnalyzeActive(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.NotNil(t, out[0].Live)
	assert.Equal(t, "match_005", out[0].Live.MatchID)
	assert.Nil(t, out[1].Live, "upcoming matches have no live stats")
	assert.Nil(t, out[2].Live)
	assert.Len(t, a.live, 3)
}

func TestAnalyzeWithoutAnalyzer(t *testing.T) {
	svc := NewBetService(nil, repository.NewMemoryBetRecordRepository(), nil, nil, nil, quietLogger())
	_, err := svc.AnalyzeActive(context.Background())
	assert.ErrorIs(t, err, ErrNoAnalyzer)
	_, _, err = svc.AnalyzeHistory(context.Background())
	assert.ErrorIs(t, err, ErrNoAnalyzer)
}

func TestAnalyzeHistory(t *testing.T) {
	sc := &fakeScraper{history: []models.BetRecord{bet("Inter vs Napoli", "Won", 5, 9)}}
	svc := NewBetService(func() (BetScraper, error) { return sc, nil },
		repository.NewMemoryBetRecordRepository(), nil, &fakeAnalyzer{}, nil, quietLogger())
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	analyzed, report, err := svc.AnalyzeHistory(context.Background())
	require.NoError(t, err)
	assert.Len(t, analyzed, 1)
	assert.Equal(t, 1, report.HighRiskCount)
	assert.Equal(t, 60.0, report.AverageWinProbability)
}

func TestNewBets(t *testing.T) {
	a := bet("A vs B", "Active", 1, 2)
	b := bet("C vs D", "Active", 1, 2)

	assert.Empty(t, NewBets([]models.BetRecord{a, b}, []models.BetRecord{b, a}))
	assert.Equal(t, []models.BetRecord{b}, NewBets([]models.BetRecord{a}, []models.BetRecord{a, b}))
	assert.Len(t, NewBets([]models.BetRecord{a}, []models.BetRecord{a, a}), 1, "duplicates count")
}

func TestFindLiveMatch(t *testing.T) {
	board := []models.LiveMatch{{MatchID: "m1", HomeTeam: "Bayern Munich", AwayTeam: "Borussia Dortmund"}}

	m, ok := FindLiveMatch(board, "Bayern Munich vs Borussia Dortmund")
	assert.True(t, ok)
	assert.Equal(t, "m1", m.MatchID)

	_, ok = FindLiveMatch(board, "Bayern Munich - Borussia Dortmund (Bundesliga)")
	assert.True(t, ok)

	_, ok = FindLiveMatch(board, "Bayern Munich vs Hertha")
	assert.False(t, ok)

	_, ok = FindLiveMatch(board, "  ")
	assert.False(t, ok)
}

func TestAutoRefresherToggle(t *testing.T) {
	repos := repository.NewMemoryRepositories()
	svc := NewBetService(func() (BetScraper, error) { return &fakeScraper{}, nil }, repos.Bets, nil, nil, nil, quietLogger())
	a := NewAutoRefresher(svc, quietLogger())

	enabled, _ := a.Status()
	assert.False(t, enabled)
	assert.NoError(t, a.Disable(), "disabling an idle refresher is a no-op")

	require.NoError(t, a.Enable(10*time.Minute))
	enabled, interval := a.Status()
	assert.True(t, enabled)
	assert.Equal(t, 10*time.Minute, interval)
	assert.Contains(t, a.sched.Entries(), betRefreshJob)

	require.NoError(t, a.Enable(5*time.Minute), "re-enabling replaces the schedule")
	_, interval = a.Status()
	assert.Equal(t, 5*time.Minute, interval)
	assert.Len(t, a.sched.Entries(), 1)

	require.NoError(t, a.Disable())
	enabled, _ = a.Status()
	assert.False(t, enabled)
	assert.False(t, a.sched.IsRunning())
	assert.Empty(t, a.sched.Entries())
}
