package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// GetMatchups handles GET /api/v1/matchups/{week}
// @Summary Weekly Matchup Pairs
// @Description Derived matchup pairs for a week, championship first
// @Tags Matchups
// @Produce json
// @Param week path int true "Week"
// @Success 200 {array} models.MatchupPair
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /matchups/{week} [get]
func (h *Handler) GetMatchups(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil || week < 0 {
		h.errorResponse(w, http.StatusBadRequest, "Invalid week")
		return
	}

	rows, err := h.history.FetchWeek(r.Context(), h.season, week)
	if err != nil {
		h.logger.Errorw("Failed to fetch week events", "week", week, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to fetch matchups")
		return
	}

	pairs := h.deriver.BuildMatchupPairs(r.Context(), rows, week, h.playoffs)
	h.jsonResponse(w, http.StatusOK, pairs)
}

// GetEvents handles GET /api/v1/events/{week}
// @Summary Weekly Scored Events
// @Description Transactions normalized and ranked by relevance
// @Tags Events
// @Produce json
// @Param week path int true "Week"
// @Success 200 {array} models.ScoredEvent
// @Router /events/{week} [get]
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil || week < 0 {
		h.errorResponse(w, http.StatusBadRequest, "Invalid week")
		return
	}

	rows, err := h.history.FetchWeek(r.Context(), h.season, week)
	if err != nil {
		h.logger.Errorw("Failed to fetch week events", "week", week, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to fetch events")
		return
	}

	events := h.deriver.ScoreTransactions(r.Context(), rows)
	h.jsonResponse(w, http.StatusOK, events)
}
