package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/BarnaTB/employee-leave-system/internal/logger"
	"github.com/BarnaTB/employee-leave-system/internal/session"
)

// unexported, collision-proof context key
type sessionContextKeyType struct{}

var sessionKey = sessionContextKeyType{}

// SessionFromContext extracts the authenticated session from context.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*session.Session)
	return s, ok && s != nil
}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

type AuthMiddleware struct {
	Store session.Store
	now   func() time.Time
}

func NewAuthMiddleware(store session.Store) *AuthMiddleware {
	return &AuthMiddleware{Store: store, now: time.Now}
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Read session cookie
		sessionID, ok := session.ReadCookie(r)
		if !ok {
			unauthorized(w, "no session")
			return
		}

		// 2. Load session
		sess, err := a.Store.Get(r.Context(), sessionID)
		if err != nil {
			logger.Error("session lookup failed", map[string]any{
				"error": err.Error(),
			})
			unauthorized(w, "session unavailable")
			return
		}
		if sess == nil {
			unauthorized(w, "session not found")
			return
		}

		// 3. Enforce session expiry even if the store has not evicted it yet
		if sess.Expired(a.now()) {
			_ = a.Store.Delete(r.Context(), sessionID)
			unauthorized(w, "session expired")
			return
		}

		// 4. Continue with the session attached
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "Authentication failed",
		"message": message,
	})
}
