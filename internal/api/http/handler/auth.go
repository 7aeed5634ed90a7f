package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/tmorozova/daylist-server/internal/logger"
	"github.com/tmorozova/daylist-server/internal/model"
	"github.com/tmorozova/daylist-server/internal/token"
)

// SessionCookieName is the cookie carrying the session token for browser
// clients. API clients may send the same token as a bearer header instead.
const SessionCookieName = "session_token"

// AuthService defines signup, login and logout operations.
type AuthService interface {
	Register(ctx context.Context, username, password string) (model.User, string, error)
	Login(ctx context.Context, username, password string) (model.User, string, error)
	Logout(ctx context.Context, sessionToken string) error
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Success  bool   `json:"success"`
	Username string `json:"username"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// Signup registers a new user and logs it in.
func (h *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, sessionToken, err := h.authService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Debug("Auth handler: signup failed",
			"username", req.Username,
			"error", err.Error())
		respondError(w, err)
		return
	}

	setSessionCookie(w, sessionToken)
	respondJSON(w, http.StatusCreated, authResponse{Success: true, Username: user.Username})
}

// Login verifies credentials and starts a session.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, sessionToken, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Debug("Auth handler: login failed",
			"username", req.Username,
			"error", err.Error())
		respondError(w, err)
		return
	}

	setSessionCookie(w, sessionToken)
	respondJSON(w, http.StatusOK, authResponse{Success: true, Username: user.Username})
}

// Logout ends the caller's session. Succeeds whether or not a valid session
// was presented.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionToken := TokenFromRequest(r); sessionToken != "" {
		if err := h.authService.Logout(r.Context(), sessionToken); err != nil {
			h.logger.Error("Auth handler: logout failed",
				"error", err.Error())
			respondError(w, err)
			return
		}
	}

	clearSessionCookie(w)
	respondJSON(w, http.StatusOK, successResponse{Success: true})
}

// TokenFromRequest extracts the session token from the Authorization header
// or, failing that, the session cookie.
func TokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func setSessionCookie(w http.ResponseWriter, sessionToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionToken,
		Path:     "/",
		MaxAge:   int(token.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
