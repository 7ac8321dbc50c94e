package logic

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dynastywire/narrative-api/internal/models"
)

// upsetGap is the last-score gap a pick must contradict to count as an upset
const upsetGap = 20.0

// UpcomingMatchup is a scheduled pairing that has no result yet
type UpcomingMatchup struct {
	ID    uuid.UUID `json:"id"`
	Team1 string    `json:"team1"`
	Team2 string    `json:"team2"`
}

// PickProposal is a text-generation collaborator's pick for one matchup
type PickProposal struct {
	Team1      string
	Team2      string
	Pick       string
	Confidence models.Confidence
	Reason     string
}

// personaProfile tunes the heuristic baseline per persona
type personaProfile struct {
	highGap  float64 // score gap for high confidence
	medGap   float64 // score gap for medium confidence
	hotBonus float64 // entertainer: flat bonus for a >120 last week
	scaled   bool    // analyst: add lastScore/10 instead of the flat bonus
}

var personaProfiles = map[string]personaProfile{
	models.PersonaEntertainer: {highGap: 15, medGap: 5, hotBonus: 5},
	models.PersonaAnalyst:     {highGap: 12, medGap: 4, scaled: true},
}

type forecastService struct {
	gen    TextGenerator // nil means heuristic-only
	logger *zap.SugaredLogger
}

func NewForecastService(gen TextGenerator, logger *zap.SugaredLogger) ForecastService {
	return &forecastService{gen: gen, logger: logger}
}

// GenerateForecasts produces one calibrated pick per upcoming matchup for a
// persona. The external generation path is attempted first when a generator
// is wired; any failure, per matchup or for the whole call, degrades to the
// heuristic baseline for the affected matchups. Calibration always runs,
// regardless of which path produced the raw pick.
func (s *forecastService) GenerateForecasts(ctx context.Context, mem *models.BotMemory, week int, upcoming []UpcomingMatchup, lastScores map[string]float64) models.ForecastSet {
	set := models.ForecastSet{Persona: mem.Persona, Week: week}

	proposals := s.proposePicks(ctx, mem, week, upcoming, lastScores)

	for _, m := range upcoming {
		var rec models.PredictionRecord
		if prop, ok := proposals[m.ID]; ok {
			rec = models.PredictionRecord{
				ID:         uuid.New(),
				Week:       week,
				MatchupID:  m.ID,
				Team1:      m.Team1,
				Team2:      m.Team2,
				Pick:       prop.Pick,
				Confidence: prop.Confidence,
				Reasoning:  prop.Reason,
			}
		} else {
			rec = s.heuristicPick(mem, week, m, lastScores)
		}

		rec.Confidence = CalibrateConfidence(rec.Confidence, mem.Stats)
		rec.Upset = isUpset(rec.Pick, m, lastScores)

		if rec.Upset && rec.Confidence == models.ConfidenceHigh {
			mem.HotTakes = append(mem.HotTakes, models.HotTake{
				Week: week,
				Text: fmt.Sprintf("%s over %s, book it", rec.Pick, otherTeam(rec.Pick, m)),
			})
		}

		set.Picks = append(set.Picks, rec)
		mem.Predictions = append(mem.Predictions, rec)
	}

	return set
}

// proposePicks runs the external generation path and validates each reply.
// Returns only the proposals that pass structural validation, keyed by
// matchup; everything else falls through to the heuristic.
func (s *forecastService) proposePicks(ctx context.Context, mem *models.BotMemory, week int, upcoming []UpcomingMatchup, lastScores map[string]float64) map[uuid.UUID]PickProposal {
	valid := make(map[uuid.UUID]PickProposal)
	if s.gen == nil || len(upcoming) == 0 {
		return valid
	}

	props, err := s.gen.ProposePicks(ctx, mem.Persona, buildContext(mem, week, upcoming, lastScores), upcoming)
	if err != nil {
		s.logger.Warnw("Text generation failed, using heuristic picks", "persona", mem.Persona, "week", week, "error", err)
		return valid
	}

	for _, m := range upcoming {
		for _, p := range props {
			if !matchesPair(p, m) {
				continue
			}
			pick, ok := resolvePick(p.Pick, m)
			if !ok || !validConfidence(p.Confidence) {
				s.logger.Warnw("Proposal failed validation, falling back", "persona", mem.Persona, "pick", p.Pick, "confidence", p.Confidence)
				continue
			}
			p.Pick = pick
			valid[m.ID] = p
			break
		}
	}
	return valid
}

// heuristicPick scores both teams as trust plus a last-week performance
// bonus and picks the higher. Confidence banding comes from the persona's
// gap thresholds.
func (s *forecastService) heuristicPick(mem *models.BotMemory, week int, m UpcomingMatchup, lastScores map[string]float64) models.PredictionRecord {
	profile := personaProfiles[mem.Persona]

	score := func(name string) float64 {
		v := 0.0
		if tm, ok := mem.Teams[name]; ok {
			v = tm.Trust
		}
		last := lastScores[name]
		if profile.scaled {
			v += last / 10
		} else if last > 120 {
			v += profile.hotBonus
		}
		return v
	}

	s1, s2 := score(m.Team1), score(m.Team2)
	pick, reason := m.Team1, fmt.Sprintf("trust edge over %s", m.Team2)
	if s2 > s1 {
		pick, reason = m.Team2, fmt.Sprintf("trust edge over %s", m.Team1)
	}

	gap := math.Abs(s1 - s2)
	conf := models.ConfidenceLow
	switch {
	case gap > profile.highGap:
		conf = models.ConfidenceHigh
	case gap > profile.medGap:
		conf = models.ConfidenceMedium
	}

	return models.PredictionRecord{
		ID:         uuid.New(),
		Week:       week,
		MatchupID:  m.ID,
		Team1:      m.Team1,
		Team2:      m.Team2,
		Pick:       pick,
		Confidence: conf,
		Reasoning:  reason,
	}
}

// CalibrateConfidence shifts a raw confidence by the persona's forecast
// form: a hot hand bumps it one ordinal, a cold one drops it. The ordinal is
// clamped to [0,2] so the result stays in the three bands.
func CalibrateConfidence(raw models.Confidence, stats models.PredictionStats) models.Confidence {
	ord := confidenceOrdinal(raw)

	graded := stats.Correct + stats.Wrong
	if (graded > 0 && stats.WinRate > 0.65) || stats.HotStreak >= 3 {
		ord++
	}
	if (graded > 0 && stats.WinRate < 0.45) || stats.HotStreak <= -3 {
		ord--
	}

	if ord < 0 {
		ord = 0
	}
	if ord > 2 {
		ord = 2
	}
	return ordinalConfidence(ord)
}

func confidenceOrdinal(c models.Confidence) int {
	switch c {
	case models.ConfidenceHigh:
		return 2
	case models.ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

func ordinalConfidence(ord int) models.Confidence {
	switch ord {
	case 2:
		return models.ConfidenceHigh
	case 1:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

func validConfidence(c models.Confidence) bool {
	switch c {
	case models.ConfidenceLow, models.ConfidenceMedium, models.ConfidenceHigh:
		return true
	}
	return false
}

// isUpset reports whether a pick contradicts a >20-point gap in the two
// teams' most recent scores.
func isUpset(pick string, m UpcomingMatchup, lastScores map[string]float64) bool {
	s1, ok1 := lastScores[m.Team1]
	s2, ok2 := lastScores[m.Team2]
	if !ok1 || !ok2 {
		return false
	}
	if math.Abs(s1-s2) <= upsetGap {
		return false
	}
	favorite := m.Team1
	if s2 > s1 {
		favorite = m.Team2
	}
	return pick != favorite
}

func otherTeam(pick string, m UpcomingMatchup) string {
	if pick == m.Team1 {
		return m.Team2
	}
	return m.Team1
}

// matchesPair reports whether a proposal refers to this matchup
func matchesPair(p PickProposal, m UpcomingMatchup) bool {
	if p.Team1 == "" && p.Team2 == "" {
		// Line-format replies only carry the pick; match on that instead.
		_, ok := resolvePick(p.Pick, m)
		return ok
	}
	return (sameTeam(p.Team1, m.Team1) && sameTeam(p.Team2, m.Team2)) ||
		(sameTeam(p.Team1, m.Team2) && sameTeam(p.Team2, m.Team1))
}

// resolvePick maps a possibly-partial team reference onto one of the two
// matchup teams. Substring matching keeps the legacy line contract working.
func resolvePick(pick string, m UpcomingMatchup) (string, bool) {
	if sameTeam(pick, m.Team1) {
		return m.Team1, true
	}
	if sameTeam(pick, m.Team2) {
		return m.Team2, true
	}
	return "", false
}

func sameTeam(ref, team string) bool {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return false
	}
	return strings.Contains(strings.ToLower(team), ref)
}

// buildContext renders the structured context string handed to the text
// generation collaborator.
func buildContext(mem *models.BotMemory, week int, upcoming []UpcomingMatchup, lastScores map[string]float64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "persona=%s week=%d mood=%s\n", mem.Persona, week, mem.SummaryMood)
	for _, m := range upcoming {
		fmt.Fprintf(&sb, "matchup: %s (last %.1f) vs %s (last %.1f)\n",
			m.Team1, lastScores[m.Team1], m.Team2, lastScores[m.Team2])
	}
	for name, tm := range mem.Teams {
		fmt.Fprintf(&sb, "team %s: trust=%.0f frustration=%.0f mood=%s\n", name, tm.Trust, tm.Frustration, tm.Mood)
	}
	return sb.String()
}

// GradeWeek grades every pending pick for the week against the real results
// and folds the outcomes into the persona's prediction stats. Grading is
// idempotent: a record is only counted the first time.
func (s *forecastService) GradeWeek(ctx context.Context, mem *models.BotMemory, results []models.MatchupPair) int {
	winners := make(map[string]models.MatchupPair)
	for _, pair := range results {
		for _, ts := range pair.Teams {
			winners[ts.TeamName] = pair
		}
	}

	graded := 0
	for i := range mem.Predictions {
		rec := &mem.Predictions[i]
		if rec.Graded {
			continue
		}
		pair, ok := winners[rec.Team1]
		if !ok {
			continue
		}
		if pair.Week != rec.Week {
			continue
		}

		rec.Graded = true
		rec.ActualWinner = pair.Winner
		rec.Margin = pair.Margin
		if rec.Pick == pair.Winner {
			rec.Result = models.ResultCorrect
			recordCorrect(&mem.Stats)
		} else {
			rec.Result = models.ResultWrong
			recordWrong(&mem.Stats)
		}
		graded++
	}

	if graded > 0 {
		s.logger.Infow("Graded pending picks", "persona", mem.Persona, "graded", graded,
			"win_rate", mem.Stats.WinRate, "hot_streak", mem.Stats.HotStreak)
	}
	return graded
}

func recordCorrect(st *models.PredictionStats) {
	st.Correct++
	if st.HotStreak >= 0 {
		st.HotStreak++
	} else {
		st.HotStreak = 1
	}
	if st.HotStreak > st.BestStreak {
		st.BestStreak = st.HotStreak
	}
	recomputeWinRate(st)
}

func recordWrong(st *models.PredictionStats) {
	st.Wrong++
	if st.HotStreak <= 0 {
		st.HotStreak--
	} else {
		st.HotStreak = -1
	}
	if st.HotStreak < st.WorstStreak {
		st.WorstStreak = st.HotStreak
	}
	recomputeWinRate(st)
}

func recomputeWinRate(st *models.PredictionStats) {
	if total := st.Correct + st.Wrong; total > 0 {
		st.WinRate = float64(st.Correct) / float64(total)
	} else {
		st.WinRate = 0
	}
}
