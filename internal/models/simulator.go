package models

// Game status for a player's pro game
const (
	GamePre  = "pre"
	GameIn   = "in"
	GamePost = "post"
)

// PlayerBaseline is a player's season-to-date scoring profile. Read-only
// input to the simulator; computed by the baselines service from history.
type PlayerBaseline struct {
	Mean        float64 `json:"mean"`
	StdDev      float64 `json:"stddev"`
	Games       int     `json:"games"`
	Last3Avg    float64 `json:"last3_avg"`
	DecayedMean float64 `json:"decayed_mean"`
}

// GameState is the live clock state of one player's pro game
type GameState struct {
	Status       string  `json:"status"` // pre | in | post
	Quarter      int     `json:"quarter"`
	ClockMinutes float64 `json:"clock_minutes"` // minutes remaining in the quarter
	ScoreDiff    int     `json:"score_diff"`    // player's pro team relative to opponent
	Possession   bool    `json:"possession"`
	RedZone      bool    `json:"red_zone"`
}

// SimPlayer is one lineup slot in a simulation request
type SimPlayer struct {
	PlayerID string          `json:"player_id"`
	Name     string          `json:"name"`
	Position string          `json:"position"`
	Points   float64         `json:"points"` // points already banked
	Baseline *PlayerBaseline `json:"baseline,omitempty"`
	Game     *GameState      `json:"game,omitempty"`
}

// SimTeam is one side of a simulated matchup
type SimTeam struct {
	TeamName string      `json:"team_name"`
	Players  []SimPlayer `json:"players" validate:"required,min=1"`
}

// CalibrationBucket maps a fraction-remaining band to a logistic transform
// fitted against historical outcomes.
type CalibrationBucket struct {
	MinFraction float64 `json:"min_fraction"`
	MaxFraction float64 `json:"max_fraction"`
	Slope       float64 `json:"slope"`
	Intercept   float64 `json:"intercept"`
}

// SimRequest asks for a live win probability for one matchup
type SimRequest struct {
	Week        int                 `json:"week" validate:"gte=0"`
	Home        SimTeam             `json:"home" validate:"required"`
	Away        SimTeam             `json:"away" validate:"required"`
	Trials      int                 `json:"trials,omitempty"` // defaults to 1500
	Calibration []CalibrationBucket `json:"calibration,omitempty"`
}

// TeamProbability is one side of the simulator's answer
type TeamProbability struct {
	TeamName    string  `json:"team_name"`
	Probability float64 `json:"probability"`
	CILower     float64 `json:"ci_lower"`
	CIUpper     float64 `json:"ci_upper"`
	Projected   float64 `json:"projected"` // mean simulated final total
}

// SimResult is the simulator's answer. Probabilities of the two sides sum to 1
// and the Wilson interval bounds bracket each probability inside [0, 1].
type SimResult struct {
	Home       TeamProbability `json:"home"`
	Away       TeamProbability `json:"away"`
	Trials     int             `json:"trials"`
	Calibrated bool            `json:"calibrated"`
	FracLeft   float64         `json:"fraction_remaining"` // average across active teams
}
