package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/innofeed-labs/innofeed-engine/pkg/services"
)

// FeedHandler handles personalized feed requests.
type FeedHandler struct {
	feed   services.FeedService
	logger *zap.Logger
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(feed services.FeedService, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{feed: feed, logger: logger.Named("feed_handler")}
}

// RegisterRoutes registers the feed handler's routes on the given mux.
func (h *FeedHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /feed/{user_id}", h.GetFeed)
}

// GetFeed handles GET /feed/{user_id} requests.
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("user_id"), 10, 64)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid user ID")
		return
	}

	feed, err := h.feed.GetFeed(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to build feed",
			zap.Int64("user_id", userID),
			zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to build feed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, feed); err != nil {
		h.logger.Error("Failed to encode feed response", zap.Error(err))
	}
}
