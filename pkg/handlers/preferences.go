package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/innofeed-labs/innofeed-engine/pkg/services"
)

// SetPreferencesRequest is the body of POST /set-preferences/{user_id}.
type SetPreferencesRequest struct {
	DomainIDs []int64 `json:"domain_ids"`
}

// PreferenceHandler handles domain preference and catalog requests.
type PreferenceHandler struct {
	preferences services.PreferenceService
	logger      *zap.Logger
}

// NewPreferenceHandler creates a new PreferenceHandler.
func NewPreferenceHandler(preferences services.PreferenceService, logger *zap.Logger) *PreferenceHandler {
	return &PreferenceHandler{preferences: preferences, logger: logger.Named("preference_handler")}
}

// RegisterRoutes registers the preference handler's routes on the given mux.
func (h *PreferenceHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /set-preferences/{user_id}", h.SetPreferences)
	mux.HandleFunc("GET /domains", h.ListDomains)
}

// SetPreferences handles POST /set-preferences/{user_id} requests. The
// submitted set fully replaces whatever the user had before.
func (h *PreferenceHandler) SetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("user_id"), 10, 64)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid user ID")
		return
	}

	var req SetPreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.preferences.Set(r.Context(), userID, req.DomainIDs); err != nil {
		h.logger.Error("Failed to set preferences",
			zap.Int64("user_id", userID),
			zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to set preferences")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Preferences updated successfully",
	}); err != nil {
		h.logger.Error("Failed to encode preferences response", zap.Error(err))
	}
}

// ListDomains handles GET /domains requests with the domain catalog.
func (h *PreferenceHandler) ListDomains(w http.ResponseWriter, r *http.Request) {
	domains, err := h.preferences.ListDomains(r.Context())
	if err != nil {
		h.logger.Error("Failed to list domains", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to list domains")
		return
	}

	if err := WriteJSON(w, http.StatusOK, domains); err != nil {
		h.logger.Error("Failed to encode domains response", zap.Error(err))
	}
}
