package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tmorozova/daylist-server/internal/model"
	"github.com/tmorozova/daylist-server/internal/testutil"
)

// MockAuthService mocks the handler.AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password string) (model.User, string, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(model.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (model.User, string, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(model.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, sessionToken string) error {
	args := m.Called(ctx, sessionToken)
	return args.Error(0)
}

// MockTaskService mocks the handler.TaskService interface
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) List(ctx context.Context, userID uuid.UUID, date string) ([]model.Task, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskService) Add(ctx context.Context, userID uuid.UUID, text, date string) (model.Task, error) {
	args := m.Called(ctx, userID, text, date)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, userID uuid.UUID, id int64, params model.UpdateTaskParams) (model.Task, error) {
	args := m.Called(ctx, userID, id, params)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskService) Reorder(ctx context.Context, userID uuid.UUID, ids []int64) error {
	args := m.Called(ctx, userID, ids)
	return args.Error(0)
}

func (m *MockTaskService) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockSessionResolver mocks the middleware.SessionResolver interface
type MockSessionResolver struct {
	mock.Mock
}

func (m *MockSessionResolver) Resolve(ctx context.Context, sessionToken string) (uuid.UUID, error) {
	args := m.Called(ctx, sessionToken)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockPinger mocks the Pinger interface
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type routerMocks struct {
	auth     *MockAuthService
	tasks    *MockTaskService
	sessions *MockSessionResolver
	db       *MockPinger
}

func newTestRouter() (http.Handler, routerMocks) {
	mocks := routerMocks{
		auth:     &MockAuthService{},
		tasks:    &MockTaskService{},
		sessions: &MockSessionResolver{},
		db:       &MockPinger{},
	}
	h := New(mocks.auth, mocks.tasks, mocks.sessions, mocks.db, testutil.MakeNoopLogger()).Register()
	return h, mocks
}

func TestRouter_AuthRoutes(t *testing.T) {
	t.Run("signup", func(t *testing.T) {
		h, mocks := newTestRouter()
		mocks.auth.On("Register", mock.Anything, "tanya", "s3cret1").
			Return(model.User{ID: uuid.New(), Username: "tanya"}, "session-token", nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"username":"tanya","password":"s3cret1"}`))
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"success":true,"username":"tanya"}`, rec.Body.String())
	})

	t.Run("login", func(t *testing.T) {
		h, mocks := newTestRouter()
		mocks.auth.On("Login", mock.Anything, "tanya", "s3cret1").
			Return(model.User{ID: uuid.New(), Username: "tanya"}, "session-token", nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"tanya","password":"s3cret1"}`))
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("logout", func(t *testing.T) {
		h, mocks := newTestRouter()
		mocks.auth.On("Logout", mock.Anything, "session-token").Return(nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.Header.Set("Authorization", "Bearer session-token")
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	})
}

func TestRouter_TaskRoutesGuarded(t *testing.T) {
	routes := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/todos"},
		{http.MethodPost, "/api/todos"},
		{http.MethodPost, "/api/todos/reorder"},
		{http.MethodPut, "/api/todos/5"},
		{http.MethodDelete, "/api/todos/5"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.target, func(t *testing.T) {
			h, mocks := newTestRouter()

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(route.method, route.target, nil))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			mocks.tasks.AssertExpectations(t)
		})
	}
}

func TestRouter_TaskRouteWithSession(t *testing.T) {
	h, mocks := newTestRouter()
	userID := uuid.New()

	mocks.sessions.On("Resolve", mock.Anything, "session-token").Return(userID, nil)
	mocks.tasks.On("List", mock.Anything, userID, "").Return([]model.Task{}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	req.Header.Set("Authorization", "Bearer session-token")
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	mocks.tasks.AssertExpectations(t)
}

func TestRouter_Health(t *testing.T) {
	t.Run("database reachable", func(t *testing.T) {
		h, mocks := newTestRouter()
		mocks.db.On("Ping", mock.Anything).Return(nil)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("database unreachable", func(t *testing.T) {
		h, mocks := newTestRouter()
		mocks.db.On("Ping", mock.Anything).Return(errors.New("connection refused"))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
