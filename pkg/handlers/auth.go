package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/innofeed-labs/innofeed-engine/pkg/apperrors"
	"github.com/innofeed-labs/innofeed-engine/pkg/services"
)

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is the body returned on successful registration.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body returned on successful login.
type LoginResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
	Name    string `json:"name"`
}

// AuthHandler handles registration and login requests.
type AuthHandler struct {
	auth   services.AuthService
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger.Named("auth_handler")}
}

// RegisterRoutes registers the auth handler's routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /register", h.Register)
	mux.HandleFunc("POST /login", h.Login)
}

// Register handles POST /register requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Email and password are required")
		return
	}

	userID, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailTaken) {
			_ = ErrorResponse(w, http.StatusBadRequest, "email_taken", "Email already registered")
			return
		}
		h.logger.Error("Failed to register user", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to register user")
		return
	}

	if err := WriteJSON(w, http.StatusOK, RegisterResponse{
		Message: "User registered successfully",
		UserID:  userID,
	}); err != nil {
		h.logger.Error("Failed to encode register response", zap.Error(err))
	}
}

// Login handles POST /login requests. The returned name falls back to
// the local part of the email when the account has none stored.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			_ = ErrorResponse(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
			return
		}
		h.logger.Error("Failed to log in user", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to log in")
		return
	}

	name := user.Name
	if name == "" {
		name = strings.SplitN(user.Email, "@", 2)[0]
	}

	if err := WriteJSON(w, http.StatusOK, LoginResponse{
		Message: "Login successful",
		UserID:  user.ID,
		Name:    name,
	}); err != nil {
		h.logger.Error("Failed to encode login response", zap.Error(err))
	}
}
