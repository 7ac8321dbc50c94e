package models

// EventType identifies a raw league event from the upstream sync job
type EventType string

const (
	EventWeeklyScore EventType = "weekly_score"
	EventPlayerLine  EventType = "player_line"
	EventTransaction EventType = "transaction"
	EventGameState   EventType = "game_state"
)

// Transaction kinds as the upstream provider reports them
const (
	TxTrade  = "trade"
	TxWaiver = "waiver"
	TxFAAdd  = "fa_add"
)

// RawLeagueEvent is the incoming event from the league sync job. One payload
// carries a weekly score row, a player scoring line, a transaction, or a live
// game-state snapshot, discriminated by Type.
type RawLeagueEvent struct {
	Type     EventType `json:"type" validate:"required"`
	LeagueID string    `json:"league_id" validate:"required"`
	Season   int       `json:"season" validate:"required"`
	Week     int       `json:"week" validate:"gte=0"`

	// weekly_score
	RosterID int     `json:"roster_id,omitempty"`
	TeamName string  `json:"team_name,omitempty"`
	Slot     int     `json:"slot,omitempty"` // schedule slot id from the provider
	Points   float64 `json:"points,omitempty"`

	// player_line
	PlayerID   string  `json:"player_id,omitempty"`
	PlayerName string  `json:"player_name,omitempty"`
	Position   string  `json:"position,omitempty"`
	PlayerPts  float64 `json:"player_points,omitempty"`

	// transaction
	TxID      string   `json:"tx_id,omitempty"`
	TxKind    string   `json:"tx_kind,omitempty"` // trade | waiver | fa_add
	Parties   []int    `json:"parties,omitempty"` // roster ids involved
	Assets    []string `json:"assets,omitempty"`  // player ids / pick labels moved
	PickCount int      `json:"pick_count,omitempty"`
	FAABSpend int      `json:"faab_spend,omitempty"`

	// game_state (live snapshot for a player's pro game)
	GameStatus   string  `json:"game_status,omitempty"` // pre | in | post
	Quarter      int     `json:"quarter,omitempty"`
	ClockMinutes float64 `json:"clock_minutes,omitempty"`
	ScoreDiff    int     `json:"score_diff,omitempty"`
	Possession   bool    `json:"possession,omitempty"`
	RedZone      bool    `json:"red_zone,omitempty"`
}

// TradePayload is the type-specific detail of a scored trade
type TradePayload struct {
	Parties   []string `json:"parties"` // display names
	Assets    []string `json:"assets"`
	PickCount int      `json:"pick_count"`
}

// WaiverPayload is the type-specific detail of a scored waiver claim
type WaiverPayload struct {
	Team      string `json:"team"`
	Player    string `json:"player"`
	FAABSpend int    `json:"faab_spend"`
}

// CoverageLevel buckets how much editorial attention an event deserves
type CoverageLevel string

const (
	CoverageLow      CoverageLevel = "low"
	CoverageModerate CoverageLevel = "moderate"
	CoverageHigh     CoverageLevel = "high"
)

// ScoredEvent is a normalized, ranked transaction. Created once, never mutated.
type ScoredEvent struct {
	Type           string         `json:"type"` // trade | waiver | fa_add
	Week           int            `json:"week"`
	RelevanceScore float64        `json:"relevance_score"` // 0..100
	Coverage       CoverageLevel  `json:"coverage_level"`
	Reasons        []string       `json:"reasons"`
	Trade          *TradePayload  `json:"trade,omitempty"`
	Waiver         *WaiverPayload `json:"waiver,omitempty"`
}
