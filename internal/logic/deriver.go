package logic

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dynastywire/narrative-api/internal/models"
)

// bracketLabels maps (playoff round, schedule slot) to a display label.
// Round 1 is the playoffStartWeek; the table is fixed per league shape.
var bracketLabels = map[int]map[int]string{
	1: {1: "Semifinal", 2: "Semifinal", 3: models.BracketConsolation, 4: models.BracketToiletBowl},
	2: {1: models.BracketChampionship, 2: models.BracketThirdPlace, 3: models.BracketFifthPlace, 4: models.BracketToiletBowl},
	3: {1: models.BracketChampionship, 2: models.BracketThirdPlace, 3: models.BracketFifthPlace, 4: models.BracketToiletBowl},
}

type deriverService struct {
	names  NameResolver
	cfg    ScoringConfig
	logger *zap.SugaredLogger
}

func NewDeriverService(names NameResolver, cfg ScoringConfig, logger *zap.SugaredLogger) DeriverService {
	return &deriverService{names: names, cfg: cfg, logger: logger}
}

// BuildMatchupPairs groups raw score rows by schedule slot and derives
// winner/loser/margin per slot. During the playoff window a bracket label is
// attached from the fixed (round, slot) table. The returned ordering is a
// presentation contract: championship first, 3rd place second, toilet bowl
// last, everything else by descending margin.
func (s *deriverService) BuildMatchupPairs(ctx context.Context, rows []models.RawLeagueEvent, week, playoffStartWeek int) []models.MatchupPair {
	bySlot := make(map[int][]models.TeamScore)
	linesByRoster := make(map[int][]models.PlayerLine)

	for _, row := range rows {
		switch row.Type {
		case models.EventWeeklyScore:
			if row.Slot <= 0 || row.Points < 0 {
				s.logger.Warnw("Skipping malformed score row", "roster_id", row.RosterID, "slot", row.Slot, "points", row.Points)
				continue
			}
			name := row.TeamName
			if name == "" {
				name = s.names.RosterName(ctx, row.RosterID)
			}
			bySlot[row.Slot] = append(bySlot[row.Slot], models.TeamScore{
				RosterID: row.RosterID,
				TeamName: name,
				Points:   row.Points,
			})
		case models.EventPlayerLine:
			if row.RosterID <= 0 {
				s.logger.Warnw("Skipping player line without a roster", "player_id", row.PlayerID)
				continue
			}
			name := row.PlayerName
			if name == "" {
				name = s.names.PlayerName(ctx, row.PlayerID)
			}
			linesByRoster[row.RosterID] = append(linesByRoster[row.RosterID], models.PlayerLine{
				PlayerID: row.PlayerID,
				Name:     name,
				Position: row.Position,
				Points:   row.PlayerPts,
			})
		}
	}

	round := 0
	if playoffStartWeek > 0 && week >= playoffStartWeek {
		round = week - playoffStartWeek + 1
	}

	pairs := make([]models.MatchupPair, 0, len(bySlot))
	for slot, teams := range bySlot {
		if len(teams) < 2 {
			s.logger.Warnw("Slot has fewer than two teams, skipping", "slot", slot, "teams", len(teams))
			continue
		}

		sort.SliceStable(teams, func(i, j int) bool { return teams[i].Points > teams[j].Points })

		pair := models.MatchupPair{
			ID:     uuid.New(),
			Week:   week,
			Slot:   slot,
			Teams:  teams,
			Winner: teams[0].TeamName,
			Loser:  teams[len(teams)-1].TeamName,
			Margin: teams[0].Points - teams[len(teams)-1].Points,
		}
		if round > 0 {
			if labels, ok := bracketLabels[round]; ok {
				pair.BracketLabel = labels[slot]
			}
		}
		attachTopScorers(&pair, linesByRoster)
		pairs = append(pairs, pair)
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		ri, rj := bracketRank(pairs[i].BracketLabel), bracketRank(pairs[j].BracketLabel)
		if ri != rj {
			return ri < rj
		}
		return pairs[i].Margin > pairs[j].Margin
	})

	return pairs
}

// bracketRank orders pairs for presentation. Unlabeled and minor-bracket
// games sit between the 3rd place game and the toilet bowl, sorted by margin.
func bracketRank(label string) int {
	switch label {
	case models.BracketChampionship:
		return 0
	case models.BracketThirdPlace:
		return 1
	case models.BracketToiletBowl:
		return 3
	default:
		return 2
	}
}

// attachTopScorers attributes each roster's player lines to its own side of
// the pair, keeping the top three per side by points.
func attachTopScorers(pair *models.MatchupPair, linesByRoster map[int][]models.PlayerLine) {
	for i := range pair.Teams {
		lines := linesByRoster[pair.Teams[i].RosterID]
		if len(lines) == 0 {
			continue
		}
		sort.SliceStable(lines, func(a, b int) bool { return lines[a].Points > lines[b].Points })
		n := 3
		if n > len(lines) {
			n = len(lines)
		}
		pair.Teams[i].TopScorers = append(pair.Teams[i].TopScorers, lines[:n]...)
	}
}

// ScoreTransactions normalizes raw transactions into scored events. A single
// malformed transaction is skipped with a log line, never aborting the batch.
func (s *deriverService) ScoreTransactions(ctx context.Context, txs []models.RawLeagueEvent) []models.ScoredEvent {
	events := make([]models.ScoredEvent, 0, len(txs))
	for _, tx := range txs {
		if tx.Type != models.EventTransaction {
			continue
		}
		ev, err := s.scoreTransaction(ctx, tx)
		if err != nil {
			s.logger.Warnw("Skipping malformed transaction", "tx_id", tx.TxID, "kind", tx.TxKind, "error", err)
			continue
		}
		events = append(events, ev)
	}
	return events
}

func (s *deriverService) scoreTransaction(ctx context.Context, tx models.RawLeagueEvent) (models.ScoredEvent, error) {
	switch tx.TxKind {
	case models.TxTrade:
		if len(tx.Parties) < 2 {
			return models.ScoredEvent{}, fmt.Errorf("trade %s has %d parties", tx.TxID, len(tx.Parties))
		}
		return s.scoreTrade(ctx, tx), nil
	case models.TxWaiver, models.TxFAAdd:
		if len(tx.Parties) < 1 {
			return models.ScoredEvent{}, fmt.Errorf("%s %s has no acquiring team", tx.TxKind, tx.TxID)
		}
		return s.scoreWaiver(ctx, tx), nil
	default:
		return models.ScoredEvent{}, fmt.Errorf("unknown transaction kind %q", tx.TxKind)
	}
}
