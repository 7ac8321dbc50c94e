package logic

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dynastywire/narrative-api/internal/models"
)

// Margin tiers for result adjustments
const (
	blowoutMargin   = 30.0
	nailBiterMargin = 5.0
)

// maxNotableEvents bounds a team's rolling narrative list
const maxNotableEvents = 10

// WeekContext is everything a persona needs to advance its memory one week
type WeekContext struct {
	Week   int
	Pairs  []models.MatchupPair
	Events []models.ScoredEvent
}

type memoryService struct {
	store  MemoryStore
	logger *zap.SugaredLogger
}

func NewMemoryService(store MemoryStore, logger *zap.SugaredLogger) MemoryService {
	return &memoryService{store: store, logger: logger}
}

// AdvanceWeek runs the load-mutate-save cycle for one persona. The caller
// serializes invocations per persona per week.
func (s *memoryService) AdvanceWeek(ctx context.Context, persona string, season int, wc WeekContext) (*models.BotMemory, error) {
	mem, err := s.store.Load(ctx, persona, season)
	if err != nil {
		return nil, fmt.Errorf("load memory for %s: %w", persona, err)
	}
	if mem == nil {
		mem = NewBotMemory(persona, season)
	}

	AdvanceWeek(mem, wc)

	if err := s.store.Save(ctx, mem); err != nil {
		return nil, fmt.Errorf("save memory for %s: %w", persona, err)
	}
	s.logger.Infow("Memory advanced", "persona", persona, "week", wc.Week, "summary_mood", mem.SummaryMood)
	return mem, nil
}

func (s *memoryService) Get(ctx context.Context, persona string, season int) (*models.BotMemory, error) {
	mem, err := s.store.Load(ctx, persona, season)
	if err != nil {
		return nil, err
	}
	if mem == nil {
		mem = NewBotMemory(persona, season)
	}
	return mem, nil
}

// NewBotMemory creates an empty persona memory for a season
func NewBotMemory(persona string, season int) *models.BotMemory {
	return &models.BotMemory{
		Persona:     persona,
		Season:      season,
		SummaryMood: models.SummaryFocused,
		Teams:       make(map[string]*models.TeamMemory),
	}
}

// AdvanceWeek is the pure weekly state-machine step: decay, result deltas,
// event deltas, mood, trajectory, narratives, summary mood. It mutates mem in
// place; all writes clamp at the point of assignment.
func AdvanceWeek(mem *models.BotMemory, wc WeekContext) {
	for _, tm := range mem.Teams {
		decayTeam(tm)
	}

	for _, pair := range wc.Pairs {
		applyResult(mem, pair, wc.Week)
	}

	for _, ev := range wc.Events {
		applyEvent(mem, ev)
	}

	for _, tm := range mem.Teams {
		recomputeMood(tm)
		recomputeTrajectory(tm)
	}

	detectNarratives(mem, wc.Week)
	mem.SummaryMood = summaryMood(mem)
	mem.LastWeekRun = wc.Week
}

func clampTrust(v float64) float64 {
	if v < models.TrustMin {
		return models.TrustMin
	}
	if v > models.TrustMax {
		return models.TrustMax
	}
	return v
}

func clampFrustration(v float64) float64 {
	if v < models.FrustrationMin {
		return models.FrustrationMin
	}
	if v > models.FrustrationMax {
		return models.FrustrationMax
	}
	return v
}

// decayTeam drifts trust one unit toward zero and decays frustration one
// unit toward zero, never below.
func decayTeam(tm *models.TeamMemory) {
	switch {
	case tm.Trust > 0:
		tm.Trust = clampTrust(tm.Trust - 1)
	case tm.Trust < 0:
		tm.Trust = clampTrust(tm.Trust + 1)
	}
	tm.Frustration = clampFrustration(tm.Frustration - 1)
}

// team returns the persona's memory of a team, created lazily on first
// reference. New records are the enhanced generation.
func team(mem *models.BotMemory, name string) *models.TeamMemory {
	if tm, ok := mem.Teams[name]; ok {
		return tm
	}
	tm := &models.TeamMemory{
		Kind:     models.MemoryEnhanced,
		TeamName: name,
		Mood:     models.MoodEnhNeutral,
		Enhanced: &models.EnhancedState{Trajectory: models.TrajectorySteady},
	}
	mem.Teams[name] = tm
	return tm
}

// applyResult applies the margin-tier trust/frustration deltas and the
// enhanced season bookkeeping for one matchup pair.
func applyResult(mem *models.BotMemory, pair models.MatchupPair, week int) {
	winner := team(mem, pair.Winner)
	loser := team(mem, pair.Loser)

	switch {
	case pair.Margin >= blowoutMargin:
		winner.Trust = clampTrust(winner.Trust + 4)
		winner.Frustration = clampFrustration(winner.Frustration - 1)
		loser.Trust = clampTrust(loser.Trust - 1)
		loser.Frustration = clampFrustration(loser.Frustration + 4)
	case pair.Margin <= nailBiterMargin:
		winner.Trust = clampTrust(winner.Trust + 2)
		loser.Frustration = clampFrustration(loser.Frustration + 2)
	default:
		winner.Trust = clampTrust(winner.Trust + 3)
		loser.Frustration = clampFrustration(loser.Frustration + 3)
	}

	var winPts, losePts float64
	for _, ts := range pair.Teams {
		if ts.TeamName == pair.Winner {
			winPts = ts.Points
		}
		if ts.TeamName == pair.Loser {
			losePts = ts.Points
		}
	}

	if enh, ok := winner.AsEnhanced(); ok {
		enh.Record.Wins++
		enh.Record.PointsFor += winPts
		enh.Record.PointsAgainst += losePts
		if enh.WinStreak >= 0 {
			enh.WinStreak++
		} else {
			enh.WinStreak = 1
		}
		addNotable(enh, week, fmt.Sprintf("beat %s by %.1f", pair.Loser, pair.Margin), 1)
	}
	if enh, ok := loser.AsEnhanced(); ok {
		enh.Record.Losses++
		enh.Record.PointsFor += losePts
		enh.Record.PointsAgainst += winPts
		if enh.WinStreak <= 0 {
			enh.WinStreak--
		} else {
			enh.WinStreak = -1
		}
		addNotable(enh, week, fmt.Sprintf("lost to %s by %.1f", pair.Winner, pair.Margin), -1)
	}
}

func addNotable(enh *models.EnhancedState, week int, text string, sentiment int) {
	enh.NotableEvents = append(enh.NotableEvents, models.NotableEvent{Week: week, Text: text, Sentiment: sentiment})
	if len(enh.NotableEvents) > maxNotableEvents {
		enh.NotableEvents = enh.NotableEvents[len(enh.NotableEvents)-maxNotableEvents:]
	}
}

// applyEvent rewards roster activity: big waiver swings add trust to the
// acquiring team, every trade party gets a flat +1 for being active.
func applyEvent(mem *models.BotMemory, ev models.ScoredEvent) {
	switch ev.Type {
	case models.TxWaiver, models.TxFAAdd:
		if ev.Waiver == nil {
			return
		}
		tm := team(mem, ev.Waiver.Team)
		switch {
		case ev.RelevanceScore >= 70:
			tm.Trust = clampTrust(tm.Trust + 2)
		case ev.RelevanceScore >= 40:
			tm.Trust = clampTrust(tm.Trust + 1)
		}
	case models.TxTrade:
		if ev.Trade == nil {
			return
		}
		for _, party := range ev.Trade.Parties {
			tm := team(mem, party)
			tm.Trust = clampTrust(tm.Trust + 1)
		}
	}
}

// recomputeMood applies the enhanced mood rules, falling back to the legacy
// rules for legacy-generation records.
func recomputeMood(tm *models.TeamMemory) {
	enh, ok := tm.AsEnhanced()
	if !ok {
		tm.Mood = legacyMood(tm.Trust, tm.Frustration)
		return
	}
	switch {
	case enh.WinStreak >= 3:
		tm.Mood = models.MoodHot
	case enh.WinStreak <= -3:
		tm.Mood = models.MoodCold
	case tm.Frustration >= 15 && tm.Trust >= 10:
		tm.Mood = models.MoodChaotic
	case tm.Trust-tm.Frustration >= 15:
		tm.Mood = models.MoodDangerous
	default:
		tm.Mood = models.MoodEnhNeutral
	}
}

func legacyMood(trust, frustration float64) string {
	switch {
	case frustration >= 12:
		return models.MoodIrritated
	case trust-frustration >= 10:
		return models.MoodConfident
	case trust-frustration <= -8:
		return models.MoodSuspicious
	default:
		return models.MoodNeutral
	}
}

// recomputeTrajectory needs at least three games played; mixed sentiment in
// the last three notable events reads as volatile.
func recomputeTrajectory(tm *models.TeamMemory) {
	enh, ok := tm.AsEnhanced()
	if !ok {
		return
	}
	if enh.Record.Wins+enh.Record.Losses < 3 {
		enh.Trajectory = models.TrajectorySteady
		return
	}
	switch {
	case enh.WinStreak >= 2:
		enh.Trajectory = models.TrajectoryRising
	case enh.WinStreak <= -2:
		enh.Trajectory = models.TrajectoryFalling
	case mixedSentiment(enh.NotableEvents):
		enh.Trajectory = models.TrajectoryVolatile
	default:
		enh.Trajectory = models.TrajectorySteady
	}
}

func mixedSentiment(events []models.NotableEvent) bool {
	start := len(events) - 3
	if start < 0 {
		start = 0
	}
	var pos, neg bool
	for _, ev := range events[start:] {
		if ev.Sentiment > 0 {
			pos = true
		}
		if ev.Sentiment < 0 {
			neg = true
		}
	}
	return pos && neg
}

// summaryMood aggregates team moods and forecast form into the persona's
// headline mood.
func summaryMood(mem *models.BotMemory) string {
	if graded := mem.Stats.Correct + mem.Stats.Wrong; graded > 0 {
		if mem.Stats.HotStreak >= 5 || mem.Stats.WinRate >= 0.7 {
			return models.SummaryVindicated
		}
	}

	var hotOrDangerous, cold, volatile int
	var trustSum, frustSum float64
	for _, tm := range mem.Teams {
		switch tm.Mood {
		case models.MoodHot, models.MoodDangerous:
			hotOrDangerous++
		case models.MoodCold:
			cold++
		}
		if enh, ok := tm.AsEnhanced(); ok && enh.Trajectory == models.TrajectoryVolatile {
			volatile++
		}
		trustSum += tm.Trust
		frustSum += tm.Frustration
	}

	n := float64(len(mem.Teams))
	var avgTrust, avgFrust float64
	if n > 0 {
		avgTrust = trustSum / n
		avgFrust = frustSum / n
	}

	switch {
	case hotOrDangerous >= 3 || avgTrust > 10:
		return models.SummaryFiredUp
	case cold >= 3 || avgFrust > 15:
		return models.SummaryDeflated
	case volatile >= 3:
		return models.SummaryChaotic
	default:
		return models.SummaryFocused
	}
}
