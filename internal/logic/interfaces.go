package logic

import (
	"context"

	"github.com/dynastywire/narrative-api/internal/models"
)

// NameResolver maps provider ids to display names. Unknown ids resolve to a
// synthetic placeholder so downstream formatting never fails.
type NameResolver interface {
	RosterName(ctx context.Context, rosterID int) string
	PlayerName(ctx context.Context, playerID string) string
}

// MemoryStore persists persona memory blobs. The engine treats the blob as
// opaque bytes with the schema of models.BotMemory; Load returns nil (no
// error) when the persona has no saved memory yet.
type MemoryStore interface {
	Load(ctx context.Context, persona string, season int) (*models.BotMemory, error)
	Save(ctx context.Context, mem *models.BotMemory) error
}

// ForecastStore persists issued forecast sets keyed by week
type ForecastStore interface {
	SaveSet(ctx context.Context, set models.ForecastSet) error
	ListWeek(ctx context.Context, week int) ([]models.ForecastSet, error)
}

// TextGenerator is the external text-generation collaborator. A nil
// generator, an error, or a malformed reply all degrade to the heuristic
// pick path.
type TextGenerator interface {
	ProposePicks(ctx context.Context, persona, contextStr string, matchups []UpcomingMatchup) ([]PickProposal, error)
}

// DeriverService turns raw league events into canonical matchup pairs and
// scored transactions.
type DeriverService interface {
	BuildMatchupPairs(ctx context.Context, rows []models.RawLeagueEvent, week, playoffStartWeek int) []models.MatchupPair
	ScoreTransactions(ctx context.Context, txs []models.RawLeagueEvent) []models.ScoredEvent
}

// MemoryService advances and reads persona memory
type MemoryService interface {
	AdvanceWeek(ctx context.Context, persona string, season int, wc WeekContext) (*models.BotMemory, error)
	Get(ctx context.Context, persona string, season int) (*models.BotMemory, error)
}

// ForecastService issues and grades predictions
type ForecastService interface {
	GenerateForecasts(ctx context.Context, mem *models.BotMemory, week int, upcoming []UpcomingMatchup, lastScores map[string]float64) models.ForecastSet
	GradeWeek(ctx context.Context, mem *models.BotMemory, results []models.MatchupPair) int
}

// SimulatorService estimates a live win probability per request
type SimulatorService interface {
	Simulate(ctx context.Context, req *models.SimRequest, currentWeek int) (*models.SimResult, error)
}

// BaselineService computes player scoring baselines from ingested history
type BaselineService interface {
	GetBaselines(ctx context.Context, season int, playerIDs []string) (map[string]*models.PlayerBaseline, error)
}

// HistoryService reads back ingested league events
type HistoryService interface {
	FetchWeek(ctx context.Context, season, week int) ([]models.RawLeagueEvent, error)
	LatestWeek(ctx context.Context, season int) (int, error)
}

// CycleService runs the weekly batch: derive, grade, advance memory,
// generate forecasts.
type CycleService interface {
	RunWeek(ctx context.Context, week int) (*CycleReport, error)
}
