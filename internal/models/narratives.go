package models

import (
	"sort"
	"strconv"
	"strings"
)

// Narrative types
const (
	NarrativeStreak   = "streak"
	NarrativeCollapse = "collapse"
	NarrativeRivalry  = "rivalry"
)

// Narrative is a tracked storyline: created when a trigger first fires,
// updated in place while the condition persists, resolved when it reverses.
type Narrative struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Teams       []string `json:"teams"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	StartedWeek int      `json:"started_week"`
	LastUpdated int      `json:"last_updated"`
	Resolved    bool     `json:"resolved"`
	Resolution  string   `json:"resolution,omitempty"`
}

// IdentityKey is the dedup key for a narrative: type + sorted teams + start
// week. An unresolved narrative with the same key is never created twice.
func (n *Narrative) IdentityKey() string {
	teams := make([]string, len(n.Teams))
	copy(teams, n.Teams)
	sort.Strings(teams)
	return n.Type + "|" + strings.Join(teams, ",") + "|" + strconv.Itoa(n.StartedWeek)
}
