package adapthttp

import (
	"net/http"
	"strconv"
	"strings"

	"rockbuster/internal/domain"
)

type homeData struct {
	Movies []domain.Movie
	Films  []domain.Film
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	movies, err := s.catalog.BrowseMovies(r.Context())
	if err != nil {
		s.log.Error("home: movie catalog failed", "err", err)
		s.renderUnavailable(w, r)
		return
	}
	films, err := s.catalog.BrowseFilms(r.Context())
	if err != nil {
		s.log.Error("home: film catalog failed", "err", err)
		s.renderUnavailable(w, r)
		return
	}
	if len(movies) == 0 || len(films) == 0 {
		s.renderBadGateway(w, r)
		return
	}

	s.render.Render(w, http.StatusOK, "home.html",
		s.page(w, r, "Home", homeData{Movies: movies, Films: films}))
}

func (s *Server) handleMovieSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("search"))
	if query == "" {
		http.Redirect(w, r, landingPath, http.StatusFound)
		return
	}

	movies, err := s.catalog.SearchMovies(r.Context(), query)
	if err != nil {
		s.log.Error("mongo search failed", "query", query, "err", err)
		s.renderUnavailable(w, r)
		return
	}

	if user, ok := UserFromContext(r.Context()); ok {
		s.searches.Record(user, query, http.StatusOK)
	}
	s.render.Render(w, http.StatusOK, "search_mongo.html",
		s.page(w, r, "Mongo Search", movies))
}

func (s *Server) handleFilmSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("search"))
	if query == "" {
		http.Redirect(w, r, landingPath, http.StatusFound)
		return
	}

	films, err := s.catalog.SearchFilms(r.Context(), query)
	if err != nil {
		s.log.Error("postgres search failed", "query", query, "err", err)
		s.renderUnavailable(w, r)
		return
	}

	if user, ok := UserFromContext(r.Context()); ok {
		s.searches.Record(user, query, http.StatusOK)
	}
	s.render.Render(w, http.StatusOK, "search_postgres.html",
		s.page(w, r, "Postgres Search", films))
}

func (s *Server) handleMovieDetails(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/movies/mongo/")
	movie, err := s.catalog.MovieDetails(r.Context(), id)
	if err != nil {
		s.log.Error("movie details failed", "id", id, "err", err)
		s.renderUnavailable(w, r)
		return
	}
	if movie == nil {
		s.renderBadGateway(w, r)
		return
	}
	s.render.Render(w, http.StatusOK, "movie_mongo.html",
		s.page(w, r, "Movie Details", movie))
}

func (s *Server) handleFilmDetails(w http.ResponseWriter, r *http.Request) {
	fid, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/movies/postgres/"))
	if err != nil {
		s.renderBadGateway(w, r)
		return
	}

	film, err := s.catalog.FilmDetails(r.Context(), fid)
	if err != nil {
		s.log.Error("film details failed", "fid", fid, "err", err)
		s.renderUnavailable(w, r)
		return
	}
	if film == nil {
		s.renderBadGateway(w, r)
		return
	}
	s.render.Render(w, http.StatusOK, "movie_postgres.html",
		s.page(w, r, "Movie Details", film))
}

func (s *Server) handleMovieDump(w http.ResponseWriter, r *http.Request) {
	movies, err := s.catalog.BrowseMovies(r.Context())
	if err != nil {
		s.log.Error("movie dump failed", "err", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": "catalog unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

func (s *Server) handleFilmDump(w http.ResponseWriter, r *http.Request) {
	films, err := s.catalog.BrowseFilms(r.Context())
	if err != nil {
		s.log.Error("film dump failed", "err", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": "catalog unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, films)
}
