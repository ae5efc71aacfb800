package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/actuallystonmai/health-advisor/internal/domain"
)

const (
	msgInvalidType     = "Please provide valid Bristol type (1-7)"
	msgMissingType     = "Please provide Bristol type"
	msgInvalidBody     = "Request body must be valid JSON"
	msgMissingKey      = "API Key not configured"
	msgTooManyRequests = "Too many requests, please try again later"
	msgQuickFailed     = "Cannot generate quick advice"
	msgInternal        = "An unexpected error occurred"
)

// POST /api/health-advice
func (h *Handler) HealthAdvice(w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)

	// Decode and normalize the payload
	var req adviceRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logger.Debug().Err(err).Msg("invalid health advice body")
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	obs, err := req.observation()
	if err != nil {
		if errors.Is(err, errMissingType) || errors.Is(err, domain.ErrInvalidBristolType) {
			writeError(w, http.StatusBadRequest, msgInvalidType)
			return
		}
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.service.GetHealthAdvice(r.Context(), obs)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidBristolType):
			writeError(w, http.StatusBadRequest, msgInvalidType)
		case errors.Is(err, domain.ErrMissingCredential):
			logger.Error().Msg("health advice requested without an AI credential")
			writeError(w, http.StatusInternalServerError, msgMissingKey)
		case errors.Is(err, domain.ErrRateLimited):
			writeJSON(w, http.StatusTooManyRequests, RateLimitResponse{
				Success:    false,
				Error:      msgTooManyRequests,
				RetryAfter: 60,
			})
		default:
			logger.Error().Err(err).Msg("health advice failed")
			writeError(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	logger.Info().
		Int("bristol_type", int(obs.Type)).
		Str("model", result.Model).
		Str("source", result.Source).
		Bool("cache_hit", result.CacheHit).
		Int64("response_ms", result.ResponseTime).
		Msg("health advice served")

	writeJSON(w, http.StatusOK, AdviceResponse{
		Success:      true,
		Advice:       result.Advice,
		Model:        result.Model,
		Timestamp:    timestamp(),
		Confidence:   result.Confidence,
		ResponseTime: result.ResponseTime,
		Note:         result.Note,
		Trend:        result.Trend,
		CacheHit:     result.CacheHit,
	})
}

// POST /api/quick-advice
func (h *Handler) QuickAdvice(w http.ResponseWriter, r *http.Request) {
	var req quickRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgMissingType)
		return
	}

	raw, ok := req.BristolType.integer()
	if !ok || raw == 0 {
		writeError(w, http.StatusBadRequest, msgMissingType)
		return
	}

	quick, err := h.service.QuickAdvice(domain.BristolType(raw))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidBristolType) {
			writeError(w, http.StatusBadRequest, msgInvalidType)
			return
		}
		hlog.FromRequest(r).Error().Err(err).Msg("quick advice failed")
		writeError(w, http.StatusInternalServerError, msgQuickFailed)
		return
	}

	writeJSON(w, http.StatusOK, QuickAdviceResponse{
		Success:   true,
		Advice:    quick,
		Type:      "quick",
		Timestamp: timestamp(),
	})
}
