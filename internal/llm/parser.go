package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/dynastywire/narrative-api/internal/logic"
	"github.com/dynastywire/narrative-api/internal/models"
)

// structuredPick is the preferred JSON reply shape, one entry per matchup
type structuredPick struct {
	Team1      string `json:"team1"`
	Team2      string `json:"team2"`
	Pick       string `json:"pick"`
	Confidence string `json:"confidence"`
	Reason     string `json:"reason"`
}

// pickLineRe matches the legacy per-matchup reply line:
// Pick: <team> | Confidence: <high|medium|low> | Reason: <text>
var pickLineRe = regexp.MustCompile(`(?i)Pick:\s*(.+?)\s*\|\s*Confidence:\s*(high|medium|low)\s*\|\s*Reason:\s*(.+)`)

// ParseReply extracts pick proposals from a collaborator reply. JSON is
// tried first (the whole reply or an embedded array), then legacy pick
// lines. Lines that match neither shape are dropped; the caller falls back
// to the heuristic for any matchup left without a proposal.
func ParseReply(reply string) []logic.PickProposal {
	if picks := parseStructured(reply); len(picks) > 0 {
		return picks
	}
	return parseLines(reply)
}

func parseStructured(reply string) []logic.PickProposal {
	raw := strings.TrimSpace(reply)

	// Tolerate prose around an embedded JSON array.
	if !strings.HasPrefix(raw, "[") {
		start := strings.Index(raw, "[")
		end := strings.LastIndex(raw, "]")
		if start == -1 || end <= start {
			return nil
		}
		raw = raw[start : end+1]
	}

	var picks []structuredPick
	if err := json.Unmarshal([]byte(raw), &picks); err != nil {
		return nil
	}

	proposals := make([]logic.PickProposal, 0, len(picks))
	for _, p := range picks {
		if p.Pick == "" {
			continue
		}
		proposals = append(proposals, logic.PickProposal{
			Team1:      p.Team1,
			Team2:      p.Team2,
			Pick:       p.Pick,
			Confidence: models.Confidence(strings.ToLower(strings.TrimSpace(p.Confidence))),
			Reason:     p.Reason,
		})
	}
	return proposals
}

func parseLines(reply string) []logic.PickProposal {
	var proposals []logic.PickProposal
	for _, line := range strings.Split(reply, "\n") {
		m := pickLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		proposals = append(proposals, logic.PickProposal{
			Pick:       strings.TrimSpace(m[1]),
			Confidence: models.Confidence(strings.ToLower(m[2])),
			Reason:     strings.TrimSpace(m[3]),
		})
	}
	return proposals
}
