// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// StatusProvider reports engine status. Satisfied by *recommend.Engine.
type StatusProvider interface {
	Status() recommend.Status
}

// Handler serves the operational endpoints.
type Handler struct {
	engine    StatusProvider
	startTime time.Time
	logger    zerolog.Logger
}

// NewHandler creates a Handler over engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(engine StatusProvider, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:    engine,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthLive reports that the process is alive, regardless of snapshot state.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &APIResponse{
		Status: "success",
		Data: map[string]any{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
	})
}

// HealthReady returns 200 once a snapshot is serving and 503 before.
// A failed rebuild that left an older snapshot in place is still ready.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Status()

	code := http.StatusOK
	status := "ready"
	if !st.Ready {
		code = http.StatusServiceUnavailable
		status = "not_ready"
	}

	data := map[string]any{
		"ready":       st.Ready,
		"is_building": st.IsBuilding,
		"uptime":      time.Since(h.startTime).Seconds(),
	}
	if st.LastError != "" {
		data["last_error"] = st.LastError
	}

	respondJSON(w, r, code, &APIResponse{Status: status, Data: data})
}

// Status returns the full engine status document.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &APIResponse{
		Status: "success",
		Data:   h.engine.Status(),
	})
}

// NotFound answers unknown routes with the JSON envelope.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
}

// MethodNotAllowed answers known routes called with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}
