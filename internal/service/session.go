package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tmorozova/daylist-server/internal/logger"
	"github.com/tmorozova/daylist-server/internal/model"
	"github.com/tmorozova/daylist-server/internal/token"
)

// Session provides high-level operations for issuing, resolving, and
// revoking login sessions. It composes the TokenManager and SessionStore:
// the token proves identity cryptographically, the stored row makes logout
// effective before the token expires.
type Session struct {
	manager model.TokenManager
	store   model.SessionStore
	logger  *logger.Logger
}

func NewSession(manager model.TokenManager, store model.SessionStore, logger *logger.Logger) *Session {
	return &Session{manager: manager, store: store, logger: logger}
}

// Issue starts a session for the user and returns its opaque token. A user
// who is already logged in elsewhere simply gets another session.
func (s *Session) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	sessionID := uuid.New()

	tokenString, err := s.manager.GenerateSessionToken(userID, sessionID)
	if err != nil {
		return "", fmt.Errorf("issue session token: %w", err)
	}

	now := time.Now()
	session := model.Session{
		ID:        sessionID,
		UserID:    userID,
		TokenHash: hashToken(tokenString),
		IssuedAt:  now,
		ExpiresAt: now.Add(token.SessionTTL),
		RevokedAt: nil,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, session); err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}

	return tokenString, nil
}

// Resolve maps a presented token to the user it authenticates. Every
// failure mode collapses to ErrUnauthenticated.
func (s *Session) Resolve(ctx context.Context, presentedToken string) (uuid.UUID, error) {
	userID, sessionID, err := s.manager.ParseSessionToken(presentedToken)
	if err != nil {
		return uuid.Nil, model.ErrUnauthenticated
	}

	session, err := s.store.GetByID(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("Session service: failed to get session",
				"session_id", sessionID,
				"error", err.Error())
		}
		return uuid.Nil, model.ErrUnauthenticated
	}

	if session.UserID != userID {
		return uuid.Nil, model.ErrUnauthenticated
	}

	if err := validateSession(session, hashToken(presentedToken), time.Now()); err != nil {
		return uuid.Nil, model.ErrUnauthenticated
	}

	return session.UserID, nil
}

// Revoke ends the session behind the token. Unparseable tokens and already
// ended sessions are not errors, so logout stays idempotent.
func (s *Session) Revoke(ctx context.Context, presentedToken string) error {
	_, sessionID, err := s.manager.ParseSessionToken(presentedToken)
	if err != nil {
		return nil
	}
	if err := s.store.Revoke(ctx, sessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func hashToken(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}

func validateSession(session model.Session, presentedHash []byte, now time.Time) error {
	if session.RevokedAt != nil {
		return model.ErrUnauthenticated
	}
	if now.After(session.ExpiresAt) {
		return model.ErrUnauthenticated
	}
	if subtle.ConstantTimeCompare(session.TokenHash, presentedHash) != 1 {
		return model.ErrUnauthenticated
	}
	return nil
}
