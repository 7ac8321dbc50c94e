package models

import "github.com/google/uuid"

// PlayerLine is a single player's scoring line inside a matchup side
type PlayerLine struct {
	PlayerID string  `json:"player_id"`
	Name     string  `json:"name"`
	Position string  `json:"position"`
	Points   float64 `json:"points"`
}

// TeamScore is one side of a matchup slot
type TeamScore struct {
	RosterID   int          `json:"roster_id"`
	TeamName   string       `json:"team_name"`
	Points     float64      `json:"points"`
	TopScorers []PlayerLine `json:"top_scorers,omitempty"`
}

// MatchupPair is the canonical result for one scheduling slot in one week.
// Teams are ordered descending by points; Winner/Loser/Margin are derived at
// build time and the pair is never mutated afterwards.
type MatchupPair struct {
	ID           uuid.UUID   `json:"id"`
	Week         int         `json:"week"`
	Slot         int         `json:"slot"`
	Teams        []TeamScore `json:"teams"`
	Winner       string      `json:"winner"`
	Loser        string      `json:"loser"`
	Margin       float64     `json:"margin"` // always >= 0
	BracketLabel string      `json:"bracket_label,omitempty"`
}

// Playoff bracket labels attached by the deriver during the playoff window
const (
	BracketChampionship = "Championship"
	BracketThirdPlace   = "3rd Place Game"
	BracketFifthPlace   = "5th Place Game"
	BracketToiletBowl   = "Toilet Bowl"
	BracketConsolation  = "Consolation"
)
