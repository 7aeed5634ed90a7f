package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tmorozova/daylist-server/internal/model"
	"github.com/tmorozova/daylist-server/internal/testutil"
	"github.com/tmorozova/daylist-server/internal/token"
)

// MockSessionStore mocks the SessionStore interface
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, session model.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) GetByID(ctx context.Context, id uuid.UUID) (model.Session, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *MockSessionStore) Revoke(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestSessionService_IssueAndResolve(t *testing.T) {
	userID := uuid.New()
	manager := token.NewJWT("testsecret")

	store := &MockSessionStore{}
	var stored model.Session
	store.On("Create", mock.Anything, mock.MatchedBy(func(s model.Session) bool {
		return s.UserID == userID && len(s.TokenHash) > 0 && s.ExpiresAt.After(s.IssuedAt)
	})).Run(func(args mock.Arguments) {
		stored = args.Get(1).(model.Session)
	}).Return(nil)

	service := NewSession(manager, store, testutil.MakeNoopLogger())

	tokenString, err := service.Issue(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	store.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)

	resolved, err := service.Resolve(context.Background(), tokenString)
	require.NoError(t, err)
	assert.Equal(t, userID, resolved)

	store.AssertExpectations(t)
}

func TestSessionService_Resolve_Failures(t *testing.T) {
	userID := uuid.New()
	manager := token.NewJWT("testsecret")

	issue := func(store *MockSessionStore) (string, model.Session) {
		var stored model.Session
		store.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			stored = args.Get(1).(model.Session)
		}).Return(nil).Once()

		service := NewSession(manager, store, testutil.MakeNoopLogger())
		tokenString, err := service.Issue(context.Background(), userID)
		require.NoError(t, err)
		return tokenString, stored
	}

	t.Run("garbage token", func(t *testing.T) {
		store := &MockSessionStore{}
		service := NewSession(manager, store, testutil.MakeNoopLogger())

		_, err := service.Resolve(context.Background(), "not-a-token")

		assert.ErrorIs(t, err, model.ErrUnauthenticated)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		otherManager := token.NewJWT("othersecret")
		otherToken, err := otherManager.GenerateSessionToken(userID, uuid.New())
		require.NoError(t, err)

		store := &MockSessionStore{}
		service := NewSession(manager, store, testutil.MakeNoopLogger())

		_, err = service.Resolve(context.Background(), otherToken)

		assert.ErrorIs(t, err, model.ErrUnauthenticated)
	})

	t.Run("session row missing", func(t *testing.T) {
		store := &MockSessionStore{}
		tokenString, stored := issue(store)
		store.On("GetByID", mock.Anything, stored.ID).Return(model.Session{}, model.ErrNotFound)

		service := NewSession(manager, store, testutil.MakeNoopLogger())

		_, err := service.Resolve(context.Background(), tokenString)

		assert.ErrorIs(t, err, model.ErrUnauthenticated)
	})

	t.Run("revoked session", func(t *testing.T) {
		store := &MockSessionStore{}
		tokenString, stored := issue(store)
		now := time.Now()
		stored.RevokedAt = &now
		store.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)

		service := NewSession(manager, store, testutil.MakeNoopLogger())

		_, err := service.Resolve(context.Background(), tokenString)

		assert.ErrorIs(t, err, model.ErrUnauthenticated)
	})

	t.Run("expired session row", func(t *testing.T) {
		store := &MockSessionStore{}
		tokenString, stored := issue(store)
		stored.ExpiresAt = time.Now().Add(-time.Hour)
		store.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)

		service := NewSession(manager, store, testutil.MakeNoopLogger())

		_, err := service.Resolve(context.Background(), tokenString)

		assert.ErrorIs(t, err, model.ErrUnauthenticated)
	})

	t.Run("token hash mismatch", func(t *testing.T) {
		store := &MockSessionStore{}
		tokenString, stored := issue(store)
		stored.TokenHash = []byte("something else")
		store.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)

		service := NewSession(manager, store, testutil.MakeNoopLogger())

		_, err := service.Resolve(context.Background(), tokenString)

		assert.ErrorIs(t, err, model.ErrUnauthenticated)
	})
}

func TestSessionService_Revoke(t *testing.T) {
	userID := uuid.New()
	manager := token.NewJWT("testsecret")

	t.Run("valid token revokes its session", func(t *testing.T) {
		sessionID := uuid.New()
		tokenString, err := manager.GenerateSessionToken(userID, sessionID)
		require.NoError(t, err)

		store := &MockSessionStore{}
		store.On("Revoke", mock.Anything, sessionID).Return(nil)

		service := NewSession(manager, store, testutil.MakeNoopLogger())

		require.NoError(t, service.Revoke(context.Background(), tokenString))
		store.AssertExpectations(t)
	})

	t.Run("garbage token is a no-op", func(t *testing.T) {
		store := &MockSessionStore{}
		service := NewSession(manager, store, testutil.MakeNoopLogger())

		assert.NoError(t, service.Revoke(context.Background(), "not-a-token"))
		store.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
	})

	t.Run("store error surfaces", func(t *testing.T) {
		sessionID := uuid.New()
		tokenString, err := manager.GenerateSessionToken(userID, sessionID)
		require.NoError(t, err)

		store := &MockSessionStore{}
		store.On("Revoke", mock.Anything, sessionID).Return(errors.New("database error"))

		service := NewSession(manager, store, testutil.MakeNoopLogger())

		assert.Error(t, service.Revoke(context.Background(), tokenString))
	})
}
