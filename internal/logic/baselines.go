package logic

import (
	"context"
	"fmt"
	"math"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/dynastywire/narrative-api/internal/models"
)

// decayFactor weights each older week's points when computing the
// exponentially decayed mean.
const decayFactor = 0.8

type baselineService struct {
	ch driver.Conn
}

func NewBaselineService(ch driver.Conn) BaselineService {
	return &baselineService{ch: ch}
}

// GetBaselines computes season-to-date scoring baselines for a set of
// players from the ingested player lines. Players with no history are simply
// absent from the result; the simulator falls back to positional defaults.
func (s *baselineService) GetBaselines(ctx context.Context, season int, playerIDs []string) (map[string]*models.PlayerBaseline, error) {
	baselines := make(map[string]*models.PlayerBaseline)
	if len(playerIDs) == 0 {
		return baselines, nil
	}

	rows, err := s.ch.Query(ctx, `
		SELECT player_id, week, max(player_points) as points
		FROM narrative.league_events
		WHERE event_type = 'player_line'
		  AND season = ?
		  AND player_id IN (?)
		GROUP BY player_id, week
		ORDER BY player_id, week ASC
	`, season, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("baseline query failed: %w", err)
	}
	defer rows.Close()

	history := make(map[string][]float64)
	for rows.Next() {
		var playerID string
		var week uint16
		var points float64
		if err := rows.Scan(&playerID, &week, &points); err != nil {
			continue
		}
		history[playerID] = append(history[playerID], points)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("baseline row iteration failed: %w", err)
	}

	for playerID, points := range history {
		baselines[playerID] = computeBaseline(points)
	}
	return baselines, nil
}

// computeBaseline derives {mean, stddev, games, last3, decayed} from a
// player's chronological week points.
func computeBaseline(points []float64) *models.PlayerBaseline {
	n := len(points)
	if n == 0 {
		return nil
	}

	var sum float64
	for _, p := range points {
		sum += p
	}
	mean := sum / float64(n)

	var sq float64
	for _, p := range points {
		d := p - mean
		sq += d * d
	}
	var stddev float64
	if n > 1 {
		stddev = math.Sqrt(sq / float64(n-1))
	}

	var last3 float64
	if n >= 3 {
		last3 = (points[n-1] + points[n-2] + points[n-3]) / 3
	}

	// Newest week carries full weight, each older week decays by the factor.
	var decayedSum, weightSum float64
	weight := 1.0
	for i := n - 1; i >= 0; i-- {
		decayedSum += points[i] * weight
		weightSum += weight
		weight *= decayFactor
	}

	return &models.PlayerBaseline{
		Mean:        mean,
		StdDev:      stddev,
		Games:       n,
		Last3Avg:    last3,
		DecayedMean: decayedSum / weightSum,
	}
}
