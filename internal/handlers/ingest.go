package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/dynastywire/narrative-api/internal/models"
)

// IngestEvents handles POST /api/v1/ingest/events
// @Summary Ingest League Events
// @Description Accepts newline-separated JSON league events from the sync job
// @Tags Ingestion
// @Accept json
// @Produce json
// @Param body body []models.RawLeagueEvent true "Events"
// @Success 202 {object} map[string]string "Accepted"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /ingest/events [post]
func (h *Handler) IngestEvents(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	defer r.Body.Close()

	processed := 0
	for i, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var event models.RawLeagueEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			h.logger.Warnw("Failed to unmarshal event in batch", "lineNum", i, "error", err)
			continue
		}

		if err := h.validator.Struct(&event); err != nil {
			h.logger.Warnw("Validation failed for event", "lineNum", i, "type", event.Type, "error", err)
			continue
		}

		if !h.pool.Enqueue(&event) {
			h.logger.Warn("Ingest queue full, dropping remaining events in batch")
			break
		}
		processed++
	}

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "accepted",
		"processed": processed,
	})
}
