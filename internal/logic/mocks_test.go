package logic

import (
	"context"

	"github.com/dynastywire/narrative-api/internal/models"
)

// MockNameResolver
type MockNameResolver struct {
	RosterNameFunc func(ctx context.Context, rosterID int) string
	PlayerNameFunc func(ctx context.Context, playerID string) string
}

func (m *MockNameResolver) RosterName(ctx context.Context, rosterID int) string {
	if m.RosterNameFunc != nil {
		return m.RosterNameFunc(ctx, rosterID)
	}
	return "Roster"
}

func (m *MockNameResolver) PlayerName(ctx context.Context, playerID string) string {
	if m.PlayerNameFunc != nil {
		return m.PlayerNameFunc(ctx, playerID)
	}
	return "Player"
}

// MockMemoryStore keeps memory blobs in a map
type MockMemoryStore struct {
	Saved map[string]*models.BotMemory
	Err   error
}

func NewMockMemoryStore() *MockMemoryStore {
	return &MockMemoryStore{Saved: make(map[string]*models.BotMemory)}
}

func (m *MockMemoryStore) Load(ctx context.Context, persona string, season int) (*models.BotMemory, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Saved[persona], nil
}

func (m *MockMemoryStore) Save(ctx context.Context, mem *models.BotMemory) error {
	if m.Err != nil {
		return m.Err
	}
	m.Saved[mem.Persona] = mem
	return nil
}

// MockHistoryService serves canned weeks
type MockHistoryService struct {
	Weeks  map[int][]models.RawLeagueEvent
	Latest int
	Err    error
}

func (m *MockHistoryService) FetchWeek(ctx context.Context, season, week int) ([]models.RawLeagueEvent, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Weeks[week], nil
}

func (m *MockHistoryService) LatestWeek(ctx context.Context, season int) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Latest, nil
}

// MockForecastStore collects saved sets
type MockForecastStore struct {
	Sets []models.ForecastSet
	Err  error
}

func (m *MockForecastStore) SaveSet(ctx context.Context, set models.ForecastSet) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sets = append(m.Sets, set)
	return nil
}

func (m *MockForecastStore) ListWeek(ctx context.Context, week int) ([]models.ForecastSet, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.ForecastSet
	for _, s := range m.Sets {
		if s.Week == week {
			out = append(out, s)
		}
	}
	return out, nil
}

// MockTextGenerator
type MockTextGenerator struct {
	ProposePicksFunc func(ctx context.Context, persona, contextStr string, matchups []UpcomingMatchup) ([]PickProposal, error)
}

func (m *MockTextGenerator) ProposePicks(ctx context.Context, persona, contextStr string, matchups []UpcomingMatchup) ([]PickProposal, error) {
	if m.ProposePicksFunc != nil {
		return m.ProposePicksFunc(ctx, persona, contextStr, matchups)
	}
	return nil, nil
}
