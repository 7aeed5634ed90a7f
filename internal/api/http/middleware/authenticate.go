package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/tmorozova/daylist-server/internal/api/http/handler"
	"github.com/tmorozova/daylist-server/internal/logger"
	"github.com/tmorozova/daylist-server/internal/model"
)

// SessionResolver resolves user IDs from session tokens.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionToken string) (uuid.UUID, error)
}

// Authenticate validates session tokens and injects the user ID into the
// request context. It guards every task endpoint.
type Authenticate struct {
	sessions SessionResolver
	logger   *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(sessions SessionResolver, logger *logger.Logger) *Authenticate {
	return &Authenticate{sessions: sessions, logger: logger}
}

// Handle rejects requests without a resolvable session with a generic 401.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionToken := handler.TokenFromRequest(r)
		if sessionToken == "" {
			unauthorized(w)
			return
		}

		userID, err := m.sessions.Resolve(r.Context(), sessionToken)
		if err != nil {
			m.logger.Debug("Authenticate middleware: session rejected",
				"path", r.URL.Path,
				"error", err.Error())
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(model.SetUserIDToContext(r.Context(), userID)))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Authentication required"})
}
