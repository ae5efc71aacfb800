package handler

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/actuallystonmai/health-advisor/internal/service"
)

var features = []string{
	"Personalized Health Analysis",
	"AI-Powered Recommendations (Gemini 2.5)",
	"Trend Analysis",
	"Color and Volume Anomaly Detection",
	"Emergency Detection",
}

// Endpoints lists the public routes, reported on unknown paths.
var Endpoints = []string{
	"GET /",
	"POST /api/health-advice",
	"POST /api/quick-advice",
}

// GET /
func (h *Handler) Banner(w http.ResponseWriter, r *http.Request) {
	current, state := h.service.ModelStatus()
	if current == "" {
		current = "not initialized"
	}

	writeJSON(w, http.StatusOK, BannerResponse{
		Message:      "Health Advisor AI API is running!",
		Status:       "healthy",
		Timestamp:    timestamp(),
		Version:      service.Version,
		CurrentModel: current,
		ModelState:   state.String(),
		Features:     features,
	})
}

// GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// NotFound answers unmatched routes and methods.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, NotFoundResponse{
		Success:            false,
		Error:              "Endpoint not found",
		AvailableEndpoints: Endpoints,
		Timestamp:          timestamp(),
	})
}

// Recoverer turns a panic into the JSON server error response.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			hlog.FromRequest(r).Error().
				Interface("panic", rec).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("unhandled panic")

			writeJSON(w, http.StatusInternalServerError, ErrorResponse{
				Success:   false,
				Error:     "Server error occurred",
				Message:   fmt.Sprint(rec),
				Timestamp: timestamp(),
			})
		}()
		next.ServeHTTP(w, r)
	})
}
