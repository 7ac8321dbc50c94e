package logic

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/dynastywire/narrative-api/internal/models"
)

type historyService struct {
	ch driver.Conn
}

func NewHistoryService(ch driver.Conn) HistoryService {
	return &historyService{ch: ch}
}

// FetchWeek reads back every ingested league event for a week
func (s *historyService) FetchWeek(ctx context.Context, season, week int) ([]models.RawLeagueEvent, error) {
	rows, err := s.ch.Query(ctx, `
		SELECT event_type, league_id, roster_id, team_name, slot, points,
		       player_id, player_name, position, player_points,
		       tx_id, tx_kind, parties, assets, pick_count, faab_spend
		FROM narrative.league_events
		WHERE season = ? AND week = ?
		ORDER BY received_at ASC
	`, season, week)
	if err != nil {
		return nil, fmt.Errorf("fetch week %d failed: %w", week, err)
	}
	defer rows.Close()

	var events []models.RawLeagueEvent
	for rows.Next() {
		var (
			ev        models.RawLeagueEvent
			eventType string
			rosterID  int32
			slot      int32
			parties   []int32
			pickCount int32
			faabSpend int32
		)
		if err := rows.Scan(&eventType, &ev.LeagueID, &rosterID, &ev.TeamName, &slot, &ev.Points,
			&ev.PlayerID, &ev.PlayerName, &ev.Position, &ev.PlayerPts,
			&ev.TxID, &ev.TxKind, &parties, &ev.Assets, &pickCount, &faabSpend); err != nil {
			continue
		}
		ev.Type = models.EventType(eventType)
		ev.Season = season
		ev.Week = week
		ev.RosterID = int(rosterID)
		ev.Slot = int(slot)
		ev.PickCount = int(pickCount)
		ev.FAABSpend = int(faabSpend)
		for _, p := range parties {
			ev.Parties = append(ev.Parties, int(p))
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch week %d row iteration failed: %w", week, err)
	}
	return events, nil
}

// LatestWeek returns the most recent week with ingested scores, 0 when empty
func (s *historyService) LatestWeek(ctx context.Context, season int) (int, error) {
	var week uint16
	err := s.ch.QueryRow(ctx, `
		SELECT max(week) FROM narrative.league_events
		WHERE event_type = 'weekly_score' AND season = ?
	`, season).Scan(&week)
	if err != nil {
		return 0, fmt.Errorf("latest week query failed: %w", err)
	}
	return int(week), nil
}
