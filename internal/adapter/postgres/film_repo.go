package postgres

import (
	"context"
	"database/sql"

	"rockbuster/internal/domain"
)

const filmColumns = "fid, title, description, category, price, length, rating, actors, release_year"

// Random returns up to limit films in random order.
func (d *DB) Random(ctx context.Context, limit int) ([]domain.Film, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT fid, title, release_year FROM film_list ORDER BY random() LIMIT $1",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var films []domain.Film
	for rows.Next() {
		var f domain.Film
		var year sql.NullInt64
		if err := rows.Scan(&f.FID, &f.Title, &year); err != nil {
			return nil, err
		}
		f.ReleaseYear = int(year.Int64)
		films = append(films, f)
	}
	return films, rows.Err()
}

// GetByID retrieves one film by fid. Absence is (nil, nil).
func (d *DB) GetByID(ctx context.Context, fid int) (*domain.Film, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+filmColumns+" FROM film_list WHERE fid = $1",
		fid,
	)
	f, err := scanFilm(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// SearchByTitle matches titles containing query, case-insensitively.
func (d *DB) SearchByTitle(ctx context.Context, query string, limit int) ([]domain.Film, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+filmColumns+" FROM film_list WHERE title ILIKE $1 LIMIT $2",
		"%"+query+"%", limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var films []domain.Film
	for rows.Next() {
		f, err := scanFilm(rows)
		if err != nil {
			return nil, err
		}
		films = append(films, *f)
	}
	return films, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFilm(r rowScanner) (*domain.Film, error) {
	var f domain.Film
	var desc, category, rating, actors sql.NullString
	var price sql.NullFloat64
	var length, year sql.NullInt64
	if err := r.Scan(&f.FID, &f.Title, &desc, &category, &price, &length, &rating, &actors, &year); err != nil {
		return nil, err
	}
	f.Description = desc.String
	f.Category = category.String
	f.Price = price.Float64
	f.Length = int(length.Int64)
	f.Rating = rating.String
	f.Actors = actors.String
	f.ReleaseYear = int(year.Int64)
	return &f, nil
}

var _ domain.FilmRepository = (*DB)(nil)
