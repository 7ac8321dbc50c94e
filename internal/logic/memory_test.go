package logic

import (
	"math/rand"
	"testing"

	"github.com/dynastywire/narrative-api/internal/models"
)

func pairFor(week int, winner string, winPts float64, loser string, losePts float64) models.MatchupPair {
	return models.MatchupPair{
		Week: week,
		Slot: 1,
		Teams: []models.TeamScore{
			{TeamName: winner, Points: winPts},
			{TeamName: loser, Points: losePts},
		},
		Winner: winner,
		Loser:  loser,
		Margin: winPts - losePts,
	}
}

func TestAdvanceWeek_BlowoutDeltas(t *testing.T) {
	mem := NewBotMemory(models.PersonaEntertainer, 2025)
	AdvanceWeek(mem, WeekContext{
		Week:  1,
		Pairs: []models.MatchupPair{pairFor(1, "Crushers", 140, "Crushed", 100)},
	})

	winner := mem.Teams["Crushers"]
	loser := mem.Teams["Crushed"]
	if winner.Trust != 4 || winner.Frustration != 0 {
		t.Errorf("winner trust/frustration = %f/%f, want 4/0", winner.Trust, winner.Frustration)
	}
	if loser.Trust != -1 || loser.Frustration != 4 {
		t.Errorf("loser trust/frustration = %f/%f, want -1/4", loser.Trust, loser.Frustration)
	}
}

func TestAdvanceWeek_NailBiterDeltas(t *testing.T) {
	mem := NewBotMemory(models.PersonaAnalyst, 2025)
	AdvanceWeek(mem, WeekContext{
		Week:  1,
		Pairs: []models.MatchupPair{pairFor(1, "Lucky", 100.5, "Unlucky", 97)},
	})

	if got := mem.Teams["Lucky"].Trust; got != 2 {
		t.Errorf("winner trust = %f, want 2", got)
	}
	if got := mem.Teams["Unlucky"].Frustration; got != 2 {
		t.Errorf("loser frustration = %f, want 2", got)
	}
	// No cross deltas in the nail-biter tier.
	if got := mem.Teams["Unlucky"].Trust; got != 0 {
		t.Errorf("loser trust = %f, want 0", got)
	}
}

func TestAdvanceWeek_NormalWinDeltas(t *testing.T) {
	mem := NewBotMemory(models.PersonaAnalyst, 2025)
	AdvanceWeek(mem, WeekContext{
		Week:  1,
		Pairs: []models.MatchupPair{pairFor(1, "Solid", 110, "Soft", 95)},
	})

	if got := mem.Teams["Solid"].Trust; got != 3 {
		t.Errorf("winner trust = %f, want 3", got)
	}
	if got := mem.Teams["Soft"].Frustration; got != 3 {
		t.Errorf("loser frustration = %f, want 3", got)
	}
}

func TestAdvanceWeek_DecayBeforeDeltas(t *testing.T) {
	mem := NewBotMemory(models.PersonaEntertainer, 2025)
	AdvanceWeek(mem, WeekContext{Week: 1, Pairs: []models.MatchupPair{pairFor(1, "A", 140, "B", 100)}})
	// Week 2 with no games for these teams: pure decay.
	AdvanceWeek(mem, WeekContext{Week: 2})

	if got := mem.Teams["A"].Trust; got != 3 {
		t.Errorf("trust after decay = %f, want 3", got)
	}
	if got := mem.Teams["B"].Trust; got != 0 {
		t.Errorf("negative trust should drift toward zero, got %f", got)
	}
	if got := mem.Teams["B"].Frustration; got != 3 {
		t.Errorf("frustration after decay = %f, want 3", got)
	}
}

// Bounds must hold no matter what sequence of weeks is applied.
func TestAdvanceWeek_BoundsInvariant(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	teams := []string{"A", "B", "C", "D"}
	mem := NewBotMemory(models.PersonaEntertainer, 2025)

	for week := 1; week <= 60; week++ {
		var pairs []models.MatchupPair
		perm := r.Perm(len(teams))
		for i := 0; i+1 < len(perm); i += 2 {
			w, l := teams[perm[i]], teams[perm[i+1]]
			margin := r.Float64() * 60
			pairs = append(pairs, pairFor(week, w, 100+margin, l, 100))
		}
		var events []models.ScoredEvent
		if r.Intn(2) == 0 {
			events = append(events, models.ScoredEvent{
				Type:           models.TxWaiver,
				RelevanceScore: r.Float64() * 100,
				Waiver:         &models.WaiverPayload{Team: teams[r.Intn(len(teams))], FAABSpend: 30},
			})
		}
		AdvanceWeek(mem, WeekContext{Week: week, Pairs: pairs, Events: events})

		for name, tm := range mem.Teams {
			if tm.Trust < models.TrustMin || tm.Trust > models.TrustMax {
				t.Fatalf("week %d: %s trust %f out of [%f, %f]", week, name, tm.Trust, models.TrustMin, models.TrustMax)
			}
			if tm.Frustration < models.FrustrationMin || tm.Frustration > models.FrustrationMax {
				t.Fatalf("week %d: %s frustration %f out of [%f, %f]", week, name, tm.Frustration, models.FrustrationMin, models.FrustrationMax)
			}
		}
	}
}

func TestAdvanceWeek_WaiverEventTrust(t *testing.T) {
	tests := []struct {
		score     float64
		wantTrust float64
	}{
		{85, 2},
		{55, 1},
		{30, 0},
	}
	for _, tt := range tests {
		mem := NewBotMemory(models.PersonaAnalyst, 2025)
		AdvanceWeek(mem, WeekContext{
			Week: 1,
			Events: []models.ScoredEvent{{
				Type:           models.TxWaiver,
				RelevanceScore: tt.score,
				Waiver:         &models.WaiverPayload{Team: "Movers", FAABSpend: 20},
			}},
		})
		if got := mem.Teams["Movers"].Trust; got != tt.wantTrust {
			t.Errorf("score %f: trust = %f, want %f", tt.score, got, tt.wantTrust)
		}
	}
}

func TestAdvanceWeek_TradePartiesGetActivityCredit(t *testing.T) {
	mem := NewBotMemory(models.PersonaAnalyst, 2025)
	AdvanceWeek(mem, WeekContext{
		Week: 1,
		Events: []models.ScoredEvent{{
			Type:           models.TxTrade,
			RelevanceScore: 85,
			Trade:          &models.TradePayload{Parties: []string{"Buyers", "Sellers"}},
		}},
	})
	for _, name := range []string{"Buyers", "Sellers"} {
		if got := mem.Teams[name].Trust; got != 1 {
			t.Errorf("%s trust = %f, want 1", name, got)
		}
	}
}

func TestAdvanceWeek_StreakMoodAndTrajectory(t *testing.T) {
	mem := NewBotMemory(models.PersonaEntertainer, 2025)
	for week := 1; week <= 3; week++ {
		AdvanceWeek(mem, WeekContext{
			Week:  week,
			Pairs: []models.MatchupPair{pairFor(week, "Streakers", 115, "Victims", 100)},
		})
	}

	tm := mem.Teams["Streakers"]
	enh, ok := tm.AsEnhanced()
	if !ok {
		t.Fatal("new team records must be the enhanced generation")
	}
	if enh.WinStreak != 3 {
		t.Errorf("win streak = %d, want 3", enh.WinStreak)
	}
	if tm.Mood != models.MoodHot {
		t.Errorf("mood = %s, want hot", tm.Mood)
	}
	if enh.Trajectory != models.TrajectoryRising {
		t.Errorf("trajectory = %s, want rising", enh.Trajectory)
	}
	if enh.Record.Wins != 3 || enh.Record.Losses != 0 {
		t.Errorf("record = %d-%d, want 3-0", enh.Record.Wins, enh.Record.Losses)
	}

	victims := mem.Teams["Victims"]
	vEnh, _ := victims.AsEnhanced()
	if vEnh.WinStreak != -3 {
		t.Errorf("loser streak = %d, want -3", vEnh.WinStreak)
	}
	if victims.Mood != models.MoodCold {
		t.Errorf("loser mood = %s, want cold", victims.Mood)
	}
	if vEnh.Trajectory != models.TrajectoryFalling {
		t.Errorf("loser trajectory = %s, want falling", vEnh.Trajectory)
	}
}

func TestAdvanceWeek_StreakFlipResets(t *testing.T) {
	mem := NewBotMemory(models.PersonaEntertainer, 2025)
	for week := 1; week <= 3; week++ {
		AdvanceWeek(mem, WeekContext{
			Week:  week,
			Pairs: []models.MatchupPair{pairFor(week, "Flip", 115, "Flop", 100)},
		})
	}
	AdvanceWeek(mem, WeekContext{
		Week:  4,
		Pairs: []models.MatchupPair{pairFor(4, "Flop", 110, "Flip", 100)},
	})

	enh, _ := mem.Teams["Flip"].AsEnhanced()
	if enh.WinStreak != -1 {
		t.Errorf("streak after flip = %d, want -1", enh.WinStreak)
	}
	flopEnh, _ := mem.Teams["Flop"].AsEnhanced()
	if flopEnh.WinStreak != 1 {
		t.Errorf("flop streak after first win = %d, want 1", flopEnh.WinStreak)
	}
}

func TestAdvanceWeek_NotableEventsBounded(t *testing.T) {
	mem := NewBotMemory(models.PersonaAnalyst, 2025)
	for week := 1; week <= 20; week++ {
		AdvanceWeek(mem, WeekContext{
			Week:  week,
			Pairs: []models.MatchupPair{pairFor(week, "Busy", 110, "Other", 100)},
		})
	}

	enh, _ := mem.Teams["Busy"].AsEnhanced()
	if len(enh.NotableEvents) != maxNotableEvents {
		t.Errorf("notable events = %d, want capped at %d", len(enh.NotableEvents), maxNotableEvents)
	}
	// Oldest entries are evicted first.
	if enh.NotableEvents[0].Week != 20-maxNotableEvents+1 {
		t.Errorf("oldest kept week = %d, want %d", enh.NotableEvents[0].Week, 20-maxNotableEvents+1)
	}
}

func TestLegacyMoodFallback(t *testing.T) {
	tests := []struct {
		trust, frustration float64
		want               string
	}{
		{20, 2, models.MoodConfident},
		{0, 12, models.MoodIrritated},
		{-10, 0, models.MoodSuspicious},
		{2, 3, models.MoodNeutral},
	}
	for _, tt := range tests {
		tm := &models.TeamMemory{
			Kind:        models.MemoryLegacy,
			Trust:       tt.trust,
			Frustration: tt.frustration,
		}
		recomputeMood(tm)
		if tm.Mood != tt.want {
			t.Errorf("legacy mood(%f, %f) = %s, want %s", tt.trust, tt.frustration, tm.Mood, tt.want)
		}
	}
}

func TestSummaryMood(t *testing.T) {
	t.Run("hot teams fire up the persona", func(t *testing.T) {
		mem := NewBotMemory(models.PersonaEntertainer, 2025)
		for _, name := range []string{"A", "B", "C"} {
			tm := &models.TeamMemory{Kind: models.MemoryEnhanced, TeamName: name, Mood: models.MoodHot,
				Enhanced: &models.EnhancedState{}}
			mem.Teams[name] = tm
		}
		if got := summaryMood(mem); got != models.SummaryFiredUp {
			t.Errorf("summary = %s, want Fired Up", got)
		}
	})

	t.Run("forecast form wins over team moods", func(t *testing.T) {
		mem := NewBotMemory(models.PersonaAnalyst, 2025)
		mem.Stats = models.PredictionStats{Correct: 8, Wrong: 2, WinRate: 0.8, HotStreak: 5}
		if got := summaryMood(mem); got != models.SummaryVindicated {
			t.Errorf("summary = %s, want Vindicated", got)
		}
	})

	t.Run("empty memory stays focused", func(t *testing.T) {
		mem := NewBotMemory(models.PersonaAnalyst, 2025)
		if got := summaryMood(mem); got != models.SummaryFocused {
			t.Errorf("summary = %s, want Focused", got)
		}
	})
}
