package logic

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dynastywire/narrative-api/internal/models"
)

// CycleReport summarizes one weekly batch run
type CycleReport struct {
	Week      int                  `json:"week"`
	Pairs     []models.MatchupPair `json:"pairs"`
	Events    []models.ScoredEvent `json:"events"`
	Graded    map[string]int       `json:"graded"`    // persona -> picks graded
	Forecasts []models.ForecastSet `json:"forecasts"` // picks for next week
}

type cycleService struct {
	history          HistoryService
	deriver          DeriverService
	forecast         ForecastService
	memory           MemoryStore
	forecasts        ForecastStore
	season           int
	playoffStartWeek int
	logger           *zap.SugaredLogger
}

type CycleConfig struct {
	History          HistoryService
	Deriver          DeriverService
	Forecast         ForecastService
	Memory           MemoryStore
	Forecasts        ForecastStore
	Season           int
	PlayoffStartWeek int
	Logger           *zap.SugaredLogger
}

func NewCycleService(cfg CycleConfig) CycleService {
	return &cycleService{
		history:          cfg.History,
		deriver:          cfg.Deriver,
		forecast:         cfg.Forecast,
		memory:           cfg.Memory,
		forecasts:        cfg.Forecasts,
		season:           cfg.Season,
		playoffStartWeek: cfg.PlayoffStartWeek,
		logger:           cfg.Logger,
	}
}

// RunWeek runs one weekly batch: derive results and scored events for the
// week, then per persona grade last cycle's picks, advance memory, and issue
// forecasts for the following week. Personas fan out concurrently; each owns
// its memory record, so there is no write contention between them.
func (s *cycleService) RunWeek(ctx context.Context, week int) (*CycleReport, error) {
	rows, err := s.history.FetchWeek(ctx, s.season, week)
	if err != nil {
		return nil, fmt.Errorf("fetch week events: %w", err)
	}

	pairs := s.deriver.BuildMatchupPairs(ctx, rows, week, s.playoffStartWeek)
	events := s.deriver.ScoreTransactions(ctx, rows)

	lastScores := make(map[string]float64)
	for _, pair := range pairs {
		for _, ts := range pair.Teams {
			lastScores[ts.TeamName] = ts.Points
		}
	}

	upcoming, err := s.upcomingMatchups(ctx, week+1)
	if err != nil {
		// Forecasting is skipped, not fatal: the schedule may simply not be
		// ingested yet.
		s.logger.Warnw("Upcoming schedule unavailable, skipping forecasts", "week", week+1, "error", err)
	}

	report := &CycleReport{Week: week, Pairs: pairs, Events: events, Graded: make(map[string]int)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, persona := range []string{models.PersonaEntertainer, models.PersonaAnalyst} {
		persona := persona
		g.Go(func() error {
			mem, err := s.memory.Load(gctx, persona, s.season)
			if err != nil {
				return fmt.Errorf("load %s memory: %w", persona, err)
			}
			if mem == nil {
				mem = NewBotMemory(persona, s.season)
			}

			graded := s.forecast.GradeWeek(gctx, mem, pairs)
			AdvanceWeek(mem, WeekContext{Week: week, Pairs: pairs, Events: events})

			var set models.ForecastSet
			if len(upcoming) > 0 {
				set = s.forecast.GenerateForecasts(gctx, mem, week+1, upcoming, lastScores)
				if err := s.forecasts.SaveSet(gctx, set); err != nil {
					s.logger.Errorw("Failed to persist forecasts", "persona", persona, "week", week+1, "error", err)
				}
			}

			if err := s.memory.Save(gctx, mem); err != nil {
				return fmt.Errorf("save %s memory: %w", persona, err)
			}

			mu.Lock()
			report.Graded[persona] = graded
			if len(set.Picks) > 0 {
				report.Forecasts = append(report.Forecasts, set)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Infow("Weekly cycle complete", "week", week,
		"pairs", len(pairs), "events", len(events), "forecast_sets", len(report.Forecasts))
	return report, nil
}

// upcomingMatchups reads the next week's schedule slots. Score rows for a
// future week pair teams by slot; points are ignored.
func (s *cycleService) upcomingMatchups(ctx context.Context, week int) ([]UpcomingMatchup, error) {
	rows, err := s.history.FetchWeek(ctx, s.season, week)
	if err != nil {
		return nil, err
	}

	pairs := s.deriver.BuildMatchupPairs(ctx, rows, week, s.playoffStartWeek)
	upcoming := make([]UpcomingMatchup, 0, len(pairs))
	for _, pair := range pairs {
		if len(pair.Teams) < 2 {
			continue
		}
		upcoming = append(upcoming, UpcomingMatchup{
			ID:    pair.ID,
			Team1: pair.Teams[0].TeamName,
			Team2: pair.Teams[1].TeamName,
		})
	}
	return upcoming, nil
}
