package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/dynastywire/narrative-api/internal/models"
)

// ForecastStore persists issued forecast sets in Postgres, one row per
// (persona, week), replacing on rerun.
type ForecastStore struct {
	pg     PgPool
	logger *zap.SugaredLogger
}

func NewForecastStore(pg PgPool, logger *zap.SugaredLogger) *ForecastStore {
	return &ForecastStore{pg: pg, logger: logger}
}

func (s *ForecastStore) SaveSet(ctx context.Context, set models.ForecastSet) error {
	blob, err := json.Marshal(set.Picks)
	if err != nil {
		return fmt.Errorf("encode forecast set: %w", err)
	}

	_, err = s.pg.Exec(ctx, `
		INSERT INTO forecasts (persona, week, picks, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (persona, week) DO UPDATE SET picks = $3, updated_at = NOW()
	`, set.Persona, set.Week, blob)
	if err != nil {
		return fmt.Errorf("save forecast set: %w", err)
	}
	return nil
}

func (s *ForecastStore) ListWeek(ctx context.Context, week int) ([]models.ForecastSet, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT persona, picks FROM forecasts WHERE week = $1 ORDER BY persona
	`, week)
	if err != nil {
		return nil, fmt.Errorf("list forecasts: %w", err)
	}
	defer rows.Close()

	var sets []models.ForecastSet
	for rows.Next() {
		var persona string
		var blob []byte
		if err := rows.Scan(&persona, &blob); err != nil {
			s.logger.Warnw("Skipping unreadable forecast row", "week", week, "error", err)
			continue
		}
		var picks []models.PredictionRecord
		if err := json.Unmarshal(blob, &picks); err != nil {
			s.logger.Warnw("Skipping corrupt forecast blob", "persona", persona, "week", week, "error", err)
			continue
		}
		sets = append(sets, models.ForecastSet{Persona: persona, Week: week, Picks: picks})
	}
	return sets, rows.Err()
}
