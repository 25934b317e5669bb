package handler

import (
	"context"
	"net/http"

	"restaurant-pos/internal/middleware"
	"restaurant-pos/internal/model"
	"restaurant-pos/internal/session"

	"github.com/rs/zerolog"
)

// SessionManager is the part of session.Manager the HTTP layer drives.
type SessionManager interface {
	SignIn(ctx context.Context, creds model.Credentials) (*session.Session, error)
	SignOut(ctx context.Context, token string) error
	CreateStaff(ctx context.Context, creds model.Credentials) (*model.User, error)
}

// AuthHandler handles sign-in, sign-out and staff account requests.
type AuthHandler struct {
	sessions SessionManager
	logger   zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(sessions SessionManager, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		logger:   logger.With().Str("handler", "auth").Logger(),
	}
}

// SignIn handles POST /api/auth/signin requests.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if !decodeJSON(w, r, &creds, h.logger) {
		return
	}

	s, err := h.sessions.SignIn(r.Context(), creds)
	if err != nil {
		writeServiceError(w, err, "failed to sign in", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, s)
}

// SignOut handles POST /api/auth/signout requests.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(r.Context(), middleware.BearerToken(r)); err != nil {
		writeServiceError(w, err, "failed to sign out", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /api/auth/session requests.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeServiceError(w, model.ErrUnauthenticated, "", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, s)
}

// CreateStaff handles POST /api/staff requests.
func (h *AuthHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if !decodeJSON(w, r, &creds, h.logger) {
		return
	}

	user, err := h.sessions.CreateStaff(r.Context(), creds)
	if err != nil {
		writeServiceError(w, err, "failed to create staff account", h.logger)
		return
	}

	h.logger.Info().Str("user_id", user.ID.String()).Msg("staff account created")
	writeJSON(w, http.StatusCreated, user)
}
