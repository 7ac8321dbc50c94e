package logic

import (
	"context"
	"fmt"

	"github.com/dynastywire/narrative-api/internal/models"
)

// TradeWeights are the relative weights of the six trade features. The
// weighted sum is divided by the total weight, so only the ratios matter.
type TradeWeights struct {
	RoleImpact   float64
	Scarcity     float64
	PointsImpact float64
	CapitalPaid  float64
	NeedFit      float64
	TagShift     float64
}

func (w TradeWeights) total() float64 {
	return w.RoleImpact + w.Scarcity + w.PointsImpact + w.CapitalPaid + w.NeedFit + w.TagShift
}

// CoverageThresholds band a 0-100 relevance score into coverage levels
type CoverageThresholds struct {
	LowMax      float64
	ModerateMax float64
}

// ScoringConfig drives transaction relevance scoring
type ScoringConfig struct {
	Trade            TradeWeights
	BlockbusterFloor float64 // trades moving >= 6 assets or >= 2 picks never score below this
	LateralCap       float64 // trades moving <= 2 assets and 0 picks never score above this
	Coverage         CoverageThresholds
}

// DefaultScoringConfig mirrors the editorial tuning the site shipped with.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Trade: TradeWeights{
			RoleImpact:   0.25,
			Scarcity:     0.15,
			PointsImpact: 0.20,
			CapitalPaid:  0.15,
			NeedFit:      0.15,
			TagShift:     0.10,
		},
		BlockbusterFloor: 85,
		LateralCap:       45,
		Coverage:         CoverageThresholds{LowMax: 40, ModerateMax: 70},
	}
}

// CoverageFor bands a relevance score: low if <= LowMax, moderate if
// <= ModerateMax, else high.
func CoverageFor(score float64, t CoverageThresholds) models.CoverageLevel {
	switch {
	case score <= t.LowMax:
		return models.CoverageLow
	case score <= t.ModerateMax:
		return models.CoverageModerate
	default:
		return models.CoverageHigh
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// scoreTrade builds the six clamped [0,1] features from the trade payload,
// combines them through the configured weights, scales to 0-100 and applies
// the blockbuster floor / lateral cap adjustments.
func (s *deriverService) scoreTrade(ctx context.Context, tx models.RawLeagueEvent) models.ScoredEvent {
	assets := len(tx.Assets)
	picks := tx.PickCount

	roleImpact := clamp01(float64(assets) / 6.0)
	scarcity := clamp01(float64(picks) / 3.0)
	pointsImpact := clamp01(float64(assets+picks) / 8.0)
	capitalPaid := clamp01(float64(picks)/2.0 + float64(assets)/10.0)
	needFit := clamp01(float64(len(tx.Parties)) / 4.0)
	tagShift := clamp01(float64(picks) / 4.0)

	w := s.cfg.Trade
	score := (roleImpact*w.RoleImpact +
		scarcity*w.Scarcity +
		pointsImpact*w.PointsImpact +
		capitalPaid*w.CapitalPaid +
		needFit*w.NeedFit +
		tagShift*w.TagShift) / w.total() * 100

	var reasons []string
	if assets >= 6 || picks >= 2 {
		if score < s.cfg.BlockbusterFloor {
			score = s.cfg.BlockbusterFloor
		}
		reasons = append(reasons, fmt.Sprintf("blockbuster: %d assets and %d picks moved", assets, picks))
	} else if assets <= 2 && picks == 0 {
		if score > s.cfg.LateralCap {
			score = s.cfg.LateralCap
		}
		reasons = append(reasons, "lateral move: small package, no draft capital")
	} else {
		reasons = append(reasons, fmt.Sprintf("%d assets and %d picks moved", assets, picks))
	}

	parties := make([]string, 0, len(tx.Parties))
	for _, rid := range tx.Parties {
		parties = append(parties, s.names.RosterName(ctx, rid))
	}

	return models.ScoredEvent{
		Type:           models.TxTrade,
		Week:           tx.Week,
		RelevanceScore: score,
		Coverage:       CoverageFor(score, s.cfg.Coverage),
		Reasons:        reasons,
		Trade: &models.TradePayload{
			Parties:   parties,
			Assets:    tx.Assets,
			PickCount: picks,
		},
	}
}

// faabTier maps a FAAB spend to a 0-1 feature
func faabTier(spend int) float64 {
	switch {
	case spend >= 40:
		return 1.0
	case spend >= 25:
		return 0.8
	case spend >= 15:
		return 0.6
	case spend >= 5:
		return 0.4
	case spend > 0:
		return 0.25
	default:
		return 0.1
	}
}

// scoreWaiver blends the FAAB tier with neutral 0.5 placeholders for the
// features the waiver model does not yet observe.
func (s *deriverService) scoreWaiver(ctx context.Context, tx models.RawLeagueEvent) models.ScoredEvent {
	spend := faabTier(tx.FAABSpend)

	// FAAB spend is the only observed signal; the remaining weight goes to
	// neutral placeholders so the scale matches trades.
	const spendWeight = 0.6
	score := (spend*spendWeight + 0.5*(1-spendWeight)) * 100

	team := s.names.RosterName(ctx, tx.Parties[0])
	player := ""
	if len(tx.Assets) > 0 {
		player = s.names.PlayerName(ctx, tx.Assets[0])
	}

	reasons := []string{fmt.Sprintf("%s spent %d FAAB", team, tx.FAABSpend)}

	kind := tx.TxKind
	return models.ScoredEvent{
		Type:           kind,
		Week:           tx.Week,
		RelevanceScore: score,
		Coverage:       CoverageFor(score, s.cfg.Coverage),
		Reasons:        reasons,
		Waiver: &models.WaiverPayload{
			Team:      team,
			Player:    player,
			FAABSpend: tx.FAABSpend,
		},
	}
}
