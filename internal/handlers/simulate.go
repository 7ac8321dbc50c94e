package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dynastywire/narrative-api/internal/models"
)

// Simulate handles POST /api/v1/simulate
// @Summary Live Win Probability
// @Description Monte Carlo win probability for an in-progress or upcoming matchup
// @Tags Simulator
// @Accept json
// @Produce json
// @Param body body models.SimRequest true "Matchup state"
// @Success 200 {object} models.SimResult
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /simulate [post]
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var req models.SimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid simulation request")
		return
	}

	ctx := r.Context()
	h.fillBaselines(ctx, &req)
	h.fillGameStates(ctx, &req)

	currentWeek, err := h.history.LatestWeek(ctx, h.season)
	if err != nil {
		// Fall back to the requested week: missing game state then reads as
		// "not yet started", which is the safe default.
		h.logger.Warnw("Latest week lookup failed, using request week", "error", err)
		currentWeek = req.Week
	}

	result, err := h.simulator.Simulate(ctx, &req, currentWeek)
	if err != nil {
		h.logger.Errorw("Simulation failed", "week", req.Week, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Simulation failed")
		return
	}

	h.jsonResponse(w, http.StatusOK, result)
}

// fillBaselines fetches computed baselines for players the request left
// blank. Players with no history stay nil and fall back to positional
// defaults inside the simulator.
func (h *Handler) fillBaselines(ctx context.Context, req *models.SimRequest) {
	var missing []string
	for _, team := range []*models.SimTeam{&req.Home, &req.Away} {
		for i := range team.Players {
			if team.Players[i].Baseline == nil && team.Players[i].PlayerID != "" {
				missing = append(missing, team.Players[i].PlayerID)
			}
		}
	}
	if len(missing) == 0 {
		return
	}

	baselines, err := h.baselines.GetBaselines(ctx, h.season, missing)
	if err != nil {
		h.logger.Warnw("Baseline lookup failed, using positional defaults", "players", len(missing), "error", err)
		return
	}

	for _, team := range []*models.SimTeam{&req.Home, &req.Away} {
		for i := range team.Players {
			p := &team.Players[i]
			if p.Baseline == nil {
				p.Baseline = baselines[p.PlayerID]
			}
		}
	}
}

// fillGameStates loads live game-state snapshots from Redis for players the
// request left blank.
func (h *Handler) fillGameStates(ctx context.Context, req *models.SimRequest) {
	key := gameStateKey(req.Week)
	for _, team := range []*models.SimTeam{&req.Home, &req.Away} {
		for i := range team.Players {
			p := &team.Players[i]
			if p.Game != nil || p.PlayerID == "" {
				continue
			}
			data, err := h.redis.HGet(ctx, key, p.PlayerID).Bytes()
			if err != nil {
				continue
			}
			var gs models.GameState
			if json.Unmarshal(data, &gs) == nil {
				p.Game = &gs
			}
		}
	}
}

func gameStateKey(week int) string {
	return "league:game_state:" + strconv.Itoa(week)
}
