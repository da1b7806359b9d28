package app

import (
	"context"
	"fmt"
	"strings"

	"rockbuster/internal/domain"
)

// Listing caps carried over from the original deployment.
const (
	homeMovieLimit   = 50
	homeFilmLimit    = 53
	movieSearchLimit = 54
	filmSearchLimit  = 38
)

// CatalogService exposes read-only browse and search over the two
// movie catalogs.
type CatalogService struct {
	movies domain.MovieRepository
	films  domain.FilmRepository
}

// NewCatalogService creates a CatalogService over both catalogs.
func NewCatalogService(movies domain.MovieRepository, films domain.FilmRepository) *CatalogService {
	return &CatalogService{movies: movies, films: films}
}

// BrowseMovies returns a random sample from the document catalog.
func (s *CatalogService) BrowseMovies(ctx context.Context) ([]domain.Movie, error) {
	movies, err := s.movies.Sample(ctx, homeMovieLimit)
	if err != nil {
		return nil, fmt.Errorf("browse movies: %w", err)
	}
	return movies, nil
}

// BrowseFilms returns a random sample from the relational catalog.
func (s *CatalogService) BrowseFilms(ctx context.Context) ([]domain.Film, error) {
	films, err := s.films.Random(ctx, homeFilmLimit)
	if err != nil {
		return nil, fmt.Errorf("browse films: %w", err)
	}
	return films, nil
}

// MovieDetails looks up one document-catalog entry by id. An unknown
// or malformed id yields (nil, nil).
func (s *CatalogService) MovieDetails(ctx context.Context, id string) (*domain.Movie, error) {
	movie, err := s.movies.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("movie details %q: %w", id, err)
	}
	return movie, nil
}

// FilmDetails looks up one relational-catalog row by fid.
func (s *CatalogService) FilmDetails(ctx context.Context, fid int) (*domain.Film, error) {
	film, err := s.films.GetByID(ctx, fid)
	if err != nil {
		return nil, fmt.Errorf("film details %d: %w", fid, err)
	}
	return film, nil
}

// SearchMovies runs a free-text title search over the document
// catalog.
func (s *CatalogService) SearchMovies(ctx context.Context, query string) ([]domain.Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	movies, err := s.movies.SearchByTitle(ctx, query, movieSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search movies %q: %w", query, err)
	}
	return movies, nil
}

// SearchFilms runs a free-text title search over the relational
// catalog.
func (s *CatalogService) SearchFilms(ctx context.Context, query string) ([]domain.Film, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	films, err := s.films.SearchByTitle(ctx, query, filmSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search films %q: %w", query, err)
	}
	return films, nil
}
