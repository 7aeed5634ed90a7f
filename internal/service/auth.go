package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tmorozova/daylist-server/internal/logger"
	"github.com/tmorozova/daylist-server/internal/model"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

// dummyHash is a valid bcrypt hash compared against when the username does
// not exist, so a failed login costs the same either way.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Auth handles signup, login and logout.
type Auth struct {
	userStore model.UserStore
	hasher    model.PasswordHasher
	sessions  *Session
	logger    *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	sessionStore model.SessionStore,
	hasher model.PasswordHasher,
	tokenManager model.TokenManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore: userStore,
		hasher:    hasher,
		sessions:  NewSession(tokenManager, sessionStore, logger),
		logger:    logger,
	}
}

// Register creates a user and immediately starts a session for it. The
// username must be unique; the storage-level constraint settles concurrent
// signups of the same name.
func (a *Auth) Register(ctx context.Context, username, password string) (model.User, string, error) {
	username = strings.TrimSpace(username)

	if username == "" || password == "" {
		return model.User{}, "", model.NewValidationError("Username and password are required")
	}
	if len(username) < minUsernameLen {
		return model.User{}, "", model.NewValidationError("Username must be at least 3 characters")
	}
	if len(password) < minPasswordLen {
		return model.User{}, "", model.NewValidationError("Password must be at least 6 characters")
	}

	existing, err := a.userStore.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by username",
			"username", username,
			"error", err.Error())
		return model.User{}, "", fmt.Errorf("failed to get user by username: %w", err)
	}
	if existing.ID != uuid.Nil {
		a.logger.Info("Auth service: user already exists",
			"username", username)
		return model.User{}, "", model.ErrDuplicateUsername
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	user, err = a.userStore.Create(ctx, user)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateUsername) {
			return model.User{}, "", model.ErrDuplicateUsername
		}
		a.logger.Error("Auth service: failed to create user",
			"username", username,
			"error", err.Error())
		return model.User{}, "", fmt.Errorf("failed to create user: %w", err)
	}

	sessionToken, err := a.sessions.Issue(ctx, user.ID)
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to issue session: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"username", username,
		"user_id", user.ID)

	return user, sessionToken, nil
}

// Login verifies the credentials and starts a session. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, username, password string) (model.User, string, error) {
	username = strings.TrimSpace(username)

	if username == "" || password == "" {
		return model.User{}, "", model.NewValidationError("Username and password are required")
	}

	user, err := a.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.hasher.Verify(dummyHash, password)
			return model.User{}, "", model.ErrAuthenticationFailed
		}
		a.logger.Error("Auth service: failed to get user by username",
			"username", username,
			"error", err.Error())
		return model.User{}, "", fmt.Errorf("failed to get user by username: %w", err)
	}

	if !a.hasher.Verify(user.PasswordHash, password) {
		return model.User{}, "", model.ErrAuthenticationFailed
	}

	sessionToken, err := a.sessions.Issue(ctx, user.ID)
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to issue session: %w", err)
	}

	a.logger.Info("Auth service: user logged in",
		"username", username,
		"user_id", user.ID)

	return user, sessionToken, nil
}

// Logout ends the session behind the token. Idempotent.
func (a *Auth) Logout(ctx context.Context, sessionToken string) error {
	return a.sessions.Revoke(ctx, sessionToken)
}
