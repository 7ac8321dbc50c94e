package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dynastywire/narrative-api/internal/models"
)

// RunCycle handles POST /api/v1/cycle/{week}
// @Summary Run Weekly Cycle
// @Description Grades pending picks, advances persona memory, issues forecasts
// @Tags Cycle
// @Produce json
// @Param week path int true "Week"
// @Success 200 {object} logic.CycleReport
// @Failure 500 {object} map[string]string "Internal Error"
// @Router /cycle/{week} [post]
func (h *Handler) RunCycle(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil || week < 0 {
		h.errorResponse(w, http.StatusBadRequest, "Invalid week")
		return
	}

	report, err := h.cycle.RunWeek(r.Context(), week)
	if err != nil {
		h.logger.Errorw("Weekly cycle failed", "week", week, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Cycle failed")
		return
	}

	h.jsonResponse(w, http.StatusOK, report)
}

// GetForecasts handles GET /api/v1/forecasts/{week}
// @Summary Weekly Forecasts
// @Tags Forecasts
// @Produce json
// @Param week path int true "Week"
// @Success 200 {array} models.ForecastSet
// @Router /forecasts/{week} [get]
func (h *Handler) GetForecasts(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil || week < 0 {
		h.errorResponse(w, http.StatusBadRequest, "Invalid week")
		return
	}

	sets, err := h.forecasts.ListWeek(r.Context(), week)
	if err != nil {
		h.logger.Errorw("Failed to list forecasts", "week", week, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to list forecasts")
		return
	}
	if sets == nil {
		sets = []models.ForecastSet{}
	}
	h.jsonResponse(w, http.StatusOK, sets)
}

// GetMemory handles GET /api/v1/memory/{persona}
// @Summary Persona Memory
// @Description Current team memories, narratives and forecast record
// @Tags Memory
// @Produce json
// @Param persona path string true "Persona" Enums(entertainer, analyst)
// @Success 200 {object} models.BotMemory
// @Failure 404 {object} map[string]string "Unknown persona"
// @Router /memory/{persona} [get]
func (h *Handler) GetMemory(w http.ResponseWriter, r *http.Request) {
	persona := chi.URLParam(r, "persona")
	if persona != models.PersonaEntertainer && persona != models.PersonaAnalyst {
		h.errorResponse(w, http.StatusNotFound, "Unknown persona")
		return
	}

	mem, err := h.memory.Get(r.Context(), persona, h.season)
	if err != nil {
		h.logger.Errorw("Failed to load persona memory", "persona", persona, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load memory")
		return
	}

	h.jsonResponse(w, http.StatusOK, mem)
}
