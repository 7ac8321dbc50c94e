package logic

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dynastywire/narrative-api/internal/models"
)

const narrativeStreakTrigger = 3

// detectNarratives creates, extends and resolves streak/collapse storylines
// from the current win streaks. An unresolved narrative with the same
// identity key is never duplicated; a narrative resolves the week the team's
// streak flips sign.
func detectNarratives(mem *models.BotMemory, week int) {
	for name, tm := range mem.Teams {
		enh, ok := tm.AsEnhanced()
		if !ok {
			continue
		}

		switch {
		case enh.WinStreak >= narrativeStreakTrigger:
			resolveNarrative(mem, name, models.NarrativeCollapse, week,
				fmt.Sprintf("%s snapped the slide with a win streak", name))
			upsertNarrative(mem, models.Narrative{
				Type:        models.NarrativeStreak,
				Teams:       []string{name},
				Title:       fmt.Sprintf("%s are rolling", name),
				Description: fmt.Sprintf("%d straight wins and counting", enh.WinStreak),
				StartedWeek: week - enh.WinStreak + 1,
			}, week)
		case enh.WinStreak <= -narrativeStreakTrigger:
			resolveNarrative(mem, name, models.NarrativeStreak, week,
				fmt.Sprintf("%s finally dropped one", name))
			upsertNarrative(mem, models.Narrative{
				Type:        models.NarrativeCollapse,
				Teams:       []string{name},
				Title:       fmt.Sprintf("%s are in free fall", name),
				Description: fmt.Sprintf("%d straight losses", -enh.WinStreak),
				StartedWeek: week + enh.WinStreak + 1,
			}, week)
		default:
			// A fresh +1 after a losing run (or -1 after a winning run)
			// closes out whichever storyline was open.
			if enh.WinStreak > 0 {
				resolveNarrative(mem, name, models.NarrativeCollapse, week,
					fmt.Sprintf("%s snapped the slide", name))
			}
			if enh.WinStreak < 0 {
				resolveNarrative(mem, name, models.NarrativeStreak, week,
					fmt.Sprintf("%s's run came to an end", name))
			}
		}
	}
}

// upsertNarrative updates the unresolved narrative with the same identity
// key in place, or creates it when the trigger first fires.
func upsertNarrative(mem *models.BotMemory, n models.Narrative, week int) {
	key := n.IdentityKey()
	for i := range mem.Narratives {
		existing := &mem.Narratives[i]
		if !existing.Resolved && existing.IdentityKey() == key {
			existing.Description = n.Description
			existing.LastUpdated = week
			return
		}
	}
	n.ID = uuid.NewString()
	n.LastUpdated = week
	mem.Narratives = append(mem.Narratives, n)
}

// resolveNarrative closes every unresolved narrative of the given type that
// involves the team.
func resolveNarrative(mem *models.BotMemory, teamName, narrativeType string, week int, resolution string) {
	for i := range mem.Narratives {
		n := &mem.Narratives[i]
		if n.Resolved || n.Type != narrativeType {
			continue
		}
		for _, t := range n.Teams {
			if t == teamName {
				n.Resolved = true
				n.Resolution = resolution
				n.LastUpdated = week
				break
			}
		}
	}
}
