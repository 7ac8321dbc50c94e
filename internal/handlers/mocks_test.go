package handlers

import (
	"context"

	"github.com/dynastywire/narrative-api/internal/logic"
	"github.com/dynastywire/narrative-api/internal/models"
)

// MockIngestQueue
type MockIngestQueue struct {
	EnqueueFunc func(event *models.RawLeagueEvent) bool
	Depth       int
	Enqueued    []*models.RawLeagueEvent
}

func (m *MockIngestQueue) Enqueue(event *models.RawLeagueEvent) bool {
	m.Enqueued = append(m.Enqueued, event)
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(event)
	}
	return true
}

func (m *MockIngestQueue) QueueDepth() int { return m.Depth }

// MockHistoryService
type MockHistoryService struct {
	FetchWeekFunc  func(ctx context.Context, season, week int) ([]models.RawLeagueEvent, error)
	LatestWeekFunc func(ctx context.Context, season int) (int, error)
}

func (m *MockHistoryService) FetchWeek(ctx context.Context, season, week int) ([]models.RawLeagueEvent, error) {
	if m.FetchWeekFunc != nil {
		return m.FetchWeekFunc(ctx, season, week)
	}
	return nil, nil
}

func (m *MockHistoryService) LatestWeek(ctx context.Context, season int) (int, error) {
	if m.LatestWeekFunc != nil {
		return m.LatestWeekFunc(ctx, season)
	}
	return 0, nil
}

// MockDeriverService
type MockDeriverService struct {
	BuildMatchupPairsFunc func(ctx context.Context, rows []models.RawLeagueEvent, week, playoffStartWeek int) []models.MatchupPair
	ScoreTransactionsFunc func(ctx context.Context, txs []models.RawLeagueEvent) []models.ScoredEvent
}

func (m *MockDeriverService) BuildMatchupPairs(ctx context.Context, rows []models.RawLeagueEvent, week, playoffStartWeek int) []models.MatchupPair {
	if m.BuildMatchupPairsFunc != nil {
		return m.BuildMatchupPairsFunc(ctx, rows, week, playoffStartWeek)
	}
	return nil
}

func (m *MockDeriverService) ScoreTransactions(ctx context.Context, txs []models.RawLeagueEvent) []models.ScoredEvent {
	if m.ScoreTransactionsFunc != nil {
		return m.ScoreTransactionsFunc(ctx, txs)
	}
	return nil
}

// MockMemoryService
type MockMemoryService struct {
	GetFunc func(ctx context.Context, persona string, season int) (*models.BotMemory, error)
}

func (m *MockMemoryService) AdvanceWeek(ctx context.Context, persona string, season int, wc logic.WeekContext) (*models.BotMemory, error) {
	return nil, nil
}

func (m *MockMemoryService) Get(ctx context.Context, persona string, season int) (*models.BotMemory, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, persona, season)
	}
	return &models.BotMemory{Persona: persona, Season: season}, nil
}

// MockCycleService
type MockCycleService struct {
	RunWeekFunc func(ctx context.Context, week int) (*logic.CycleReport, error)
}

func (m *MockCycleService) RunWeek(ctx context.Context, week int) (*logic.CycleReport, error) {
	if m.RunWeekFunc != nil {
		return m.RunWeekFunc(ctx, week)
	}
	return &logic.CycleReport{Week: week}, nil
}

// MockForecastStore
type MockForecastStore struct {
	ListWeekFunc func(ctx context.Context, week int) ([]models.ForecastSet, error)
}

func (m *MockForecastStore) SaveSet(ctx context.Context, set models.ForecastSet) error { return nil }

func (m *MockForecastStore) ListWeek(ctx context.Context, week int) ([]models.ForecastSet, error) {
	if m.ListWeekFunc != nil {
		return m.ListWeekFunc(ctx, week)
	}
	return nil, nil
}

// MockSimulatorService
type MockSimulatorService struct {
	SimulateFunc func(ctx context.Context, req *models.SimRequest, currentWeek int) (*models.SimResult, error)
}

func (m *MockSimulatorService) Simulate(ctx context.Context, req *models.SimRequest, currentWeek int) (*models.SimResult, error) {
	if m.SimulateFunc != nil {
		return m.SimulateFunc(ctx, req, currentWeek)
	}
	return &models.SimResult{}, nil
}

// MockBaselineService
type MockBaselineService struct {
	GetBaselinesFunc func(ctx context.Context, season int, playerIDs []string) (map[string]*models.PlayerBaseline, error)
}

func (m *MockBaselineService) GetBaselines(ctx context.Context, season int, playerIDs []string) (map[string]*models.PlayerBaseline, error) {
	if m.GetBaselinesFunc != nil {
		return m.GetBaselinesFunc(ctx, season, playerIDs)
	}
	return map[string]*models.PlayerBaseline{}, nil
}
