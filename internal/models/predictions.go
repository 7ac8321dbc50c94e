package models

import "github.com/google/uuid"

// Confidence levels for a forecast pick
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Grading results
const (
	ResultCorrect = "correct"
	ResultWrong   = "wrong"
)

// PredictionRecord is one issued forecast. It is mutated exactly once, when
// graded against the real outcome; Graded guards against double-counting.
type PredictionRecord struct {
	ID           uuid.UUID  `json:"id"`
	Week         int        `json:"week"`
	MatchupID    uuid.UUID  `json:"matchup_id"`
	Team1        string     `json:"team1"`
	Team2        string     `json:"team2"`
	Pick         string     `json:"pick"`
	Confidence   Confidence `json:"confidence"`
	Reasoning    string     `json:"reasoning,omitempty"`
	Upset        bool       `json:"upset"`
	Graded       bool       `json:"graded"`
	Result       string     `json:"result,omitempty"` // correct | wrong
	ActualWinner string     `json:"actual_winner,omitempty"`
	Margin       float64    `json:"margin,omitempty"`
}

// ForecastSet is the output of one persona's forecast pass for one week
type ForecastSet struct {
	Persona string             `json:"persona"`
	Week    int                `json:"week"`
	Picks   []PredictionRecord `json:"picks"`
}
