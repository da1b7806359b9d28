// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"rockbuster/internal/app"
	"rockbuster/internal/searchlog"
)

const (
	loginPath   = "/auth/login"
	landingPath = "/"
)

// Server is the driving HTTP adapter that routes requests to
// application services.
type Server struct {
	auth     *app.AuthService
	sessions *app.SessionManager
	catalog  *app.CatalogService
	searches *searchlog.Logger
	render   *Renderer
	webDir   string
	log      *slog.Logger
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, sessions *app.SessionManager, catalog *app.CatalogService,
	searches *searchlog.Logger, render *Renderer, webDir string, log *slog.Logger) *Server {
	return &Server{
		auth:     auth,
		sessions: sessions,
		catalog:  catalog,
		searches: searches,
		render:   render,
		webDir:   webDir,
		log:      log,
	}
}

// Handler returns the root http.Handler for the application. Routes
// without a guard are public; everything else goes through
// requireAuthenticated or requireAnonymous.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	mux.Handle("/public/", http.StripPrefix("/public/",
		http.FileServer(http.Dir(filepath.Join(s.webDir, "public")))))

	// Raw catalog dumps, public as in the original deployment.
	mux.HandleFunc("/movies/mongo.json", s.handleMovieDump)
	mux.HandleFunc("/movies/postgres.json", s.handleFilmDump)

	mux.Handle("/movies/mongo/", s.requireAuthenticated(http.HandlerFunc(s.handleMovieDetails)))
	mux.Handle("/movies/postgres/", s.requireAuthenticated(http.HandlerFunc(s.handleFilmDetails)))
	mux.Handle("/search/mongo", s.requireAuthenticated(http.HandlerFunc(s.handleMovieSearch)))
	mux.Handle("/search/postgres", s.requireAuthenticated(http.HandlerFunc(s.handleFilmSearch)))

	mux.Handle("/auth/login", s.requireAnonymous(http.HandlerFunc(s.handleLogin)))
	mux.Handle("/auth/register", s.requireAnonymous(http.HandlerFunc(s.handleRegister)))
	mux.Handle("/auth/account", s.requireAuthenticated(http.HandlerFunc(s.handleAccount)))
	mux.Handle("/auth/logout", s.requireAuthenticated(http.HandlerFunc(s.handleLogout)))

	mux.Handle("/", s.requireAuthenticated(http.HandlerFunc(s.handleHome)))

	return s.loggingMiddleware(mux)
}
