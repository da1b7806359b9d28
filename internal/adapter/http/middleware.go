package adapthttp

import (
	"context"
	"net/http"
	"time"

	"rockbuster/internal/domain"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext extracts the resolved user from the request
// context. The guards are the only writers; the identity is never
// held in shared state.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userContextKey).(*domain.User)
	return u, ok
}

// requireAuthenticated resolves the request's session and either
// continues with the user in context or redirects to the login page.
func (s *Server) requireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.sessions.Resolve(r.Context(), sessionToken(r))
		if err != nil {
			s.log.Error("session resolve failed", "err", err)
			setFlash(w, flashError, "Oops, something went wrong")
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}
		if user == nil {
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAnonymous continues only for requests with no live session;
// an authenticated request is sent to the landing page. A resolve
// fault is logged and treated as anonymous so the login page stays
// reachable when the session store is down.
func (s *Server) requireAnonymous(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.sessions.Resolve(r.Context(), sessionToken(r))
		if err != nil {
			s.log.Error("session resolve failed", "err", err)
		}
		if user != nil {
			http.Redirect(w, r, landingPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs one line per request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}
