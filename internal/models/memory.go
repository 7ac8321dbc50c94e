package models

// Bounds enforced on every write to a team memory record
const (
	TrustMin       = -50.0
	TrustMax       = 50.0
	FrustrationMin = 0.0
	FrustrationMax = 50.0
)

// Persona names. The two personas never share memory state.
const (
	PersonaEntertainer = "entertainer"
	PersonaAnalyst     = "analyst"
)

// Legacy moods, a pure function of trust-frustration and frustration magnitude
const (
	MoodNeutral    = "Neutral"
	MoodConfident  = "Confident"
	MoodSuspicious = "Suspicious"
	MoodIrritated  = "Irritated"
)

// Enhanced moods
const (
	MoodHot        = "hot"
	MoodCold       = "cold"
	MoodEnhNeutral = "neutral"
	MoodChaotic    = "chaotic"
	MoodDangerous  = "dangerous"
)

// Trajectory values (enhanced only, requires >= 3 games played)
const (
	TrajectoryRising   = "rising"
	TrajectoryFalling  = "falling"
	TrajectorySteady   = "steady"
	TrajectoryVolatile = "volatile"
)

// Persona-level summary moods
const (
	SummaryVindicated = "Vindicated"
	SummaryFiredUp    = "Fired Up"
	SummaryDeflated   = "Deflated"
	SummaryChaotic    = "Chaotic"
	SummaryFocused    = "Focused"
)

// MemoryKind discriminates the two generations of team memory
type MemoryKind string

const (
	MemoryLegacy   MemoryKind = "legacy"
	MemoryEnhanced MemoryKind = "enhanced"
)

// NotableEvent is one entry in a team's rolling narrative list
type NotableEvent struct {
	Week      int    `json:"week"`
	Text      string `json:"text"`
	Sentiment int    `json:"sentiment"` // -1, 0, +1
}

// SeasonRecord is a team's season-cumulative ledger
type SeasonRecord struct {
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	PointsFor     float64 `json:"points_for"`
	PointsAgainst float64 `json:"points_against"`
}

// EnhancedState holds the fields only the enhanced memory generation tracks
type EnhancedState struct {
	WinStreak     int            `json:"win_streak"` // signed, sign = direction
	Trajectory    string         `json:"trajectory"`
	NotableEvents []NotableEvent `json:"notable_events"`
	Record        SeasonRecord   `json:"record"`
}

// TeamMemory is one persona's memory of one team. Kind is the explicit
// discriminant between the legacy and enhanced generations; callers reach the
// enhanced fields through AsEnhanced rather than probing.
type TeamMemory struct {
	Kind        MemoryKind     `json:"kind"`
	TeamName    string         `json:"team_name"`
	Trust       float64        `json:"trust"`       // [-50, 50]
	Frustration float64        `json:"frustration"` // [0, 50]
	Mood        string         `json:"mood"`
	Enhanced    *EnhancedState `json:"enhanced,omitempty"`
}

// AsEnhanced returns the enhanced state when this record carries one.
func (m *TeamMemory) AsEnhanced() (*EnhancedState, bool) {
	if m.Kind != MemoryEnhanced || m.Enhanced == nil {
		return nil, false
	}
	return m.Enhanced, true
}

// PredictionStats is a persona's cumulative forecast record
type PredictionStats struct {
	Correct     int     `json:"correct"`
	Wrong       int     `json:"wrong"`
	WinRate     float64 `json:"win_rate"`   // Correct/(Correct+Wrong), 0 when ungraded
	HotStreak   int     `json:"hot_streak"` // signed, positive while correct
	BestStreak  int     `json:"best_streak"`
	WorstStreak int     `json:"worst_streak"`
}

// HotTake is an archived bold claim a persona made, kept for callbacks
type HotTake struct {
	Week int    `json:"week"`
	Text string `json:"text"`
}

// BotMemory is the persona-level container, persisted once per persona per
// season and reloaded between generation runs.
type BotMemory struct {
	Persona     string                 `json:"persona"`
	Season      int                    `json:"season"`
	SummaryMood string                 `json:"summary_mood"`
	Teams       map[string]*TeamMemory `json:"teams"`
	Narratives  []Narrative            `json:"narratives"`
	Predictions []PredictionRecord     `json:"predictions"`
	Stats       PredictionStats        `json:"prediction_stats"`
	HotTakes    []HotTake              `json:"hot_takes"`
	LastWeekRun int                    `json:"last_week_run"`
}
