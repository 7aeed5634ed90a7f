package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmorozova/daylist-server/internal/api/http/handler"
	"github.com/tmorozova/daylist-server/internal/api/http/middleware"
	"github.com/tmorozova/daylist-server/internal/logger"
)

// Pinger reports storage reachability for health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router registers the HTTP routes for authentication and task management.
// Login and signup stay outside the session guard; the whole /api/todos
// subtree runs behind it.
type Router struct {
	authHandler  *handler.Auth
	taskHandler  *handler.Task
	authenticate *middleware.Authenticate
	logging      *middleware.Logging
	db           Pinger
	logger       *logger.Logger
}

// New creates a Router from the application services.
func New(
	authService handler.AuthService,
	taskService handler.TaskService,
	sessions middleware.SessionResolver,
	db Pinger,
	logger *logger.Logger,
) *Router {
	return &Router{
		authHandler:  handler.NewAuth(authService, logger),
		taskHandler:  handler.NewTask(taskService, logger),
		authenticate: middleware.NewAuthenticate(sessions, logger),
		logging:      middleware.NewLogging(logger),
		db:           db,
		logger:       logger,
	}
}

// Register builds the route tree.
func (rt *Router) Register() http.Handler {
	mux := chi.NewRouter()
	mux.Use(rt.logging.Handle)

	mux.Post("/signup", rt.authHandler.Signup)
	mux.Post("/login", rt.authHandler.Login)
	mux.Post("/logout", rt.authHandler.Logout)
	mux.Get("/health", rt.health)

	mux.Route("/api/todos", func(r chi.Router) {
		r.Use(rt.authenticate.Handle)
		r.Get("/", rt.taskHandler.List)
		r.Post("/", rt.taskHandler.Add)
		r.Post("/reorder", rt.taskHandler.Reorder)
		r.Put("/{id}", rt.taskHandler.Update)
		r.Delete("/{id}", rt.taskHandler.Delete)
	})

	return mux
}

func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	if err := rt.db.Ping(r.Context()); err != nil {
		rt.logger.Error("health check failed", "error", err.Error())
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}
