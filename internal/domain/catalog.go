package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Movie is a document-catalog entry (the mflix movies collection).
type Movie struct {
	ID      bson.ObjectID `bson:"_id"`
	Title   string        `bson:"title"`
	Year    int32         `bson:"year,omitempty"`
	Rated   string        `bson:"rated,omitempty"`
	Runtime int32         `bson:"runtime,omitempty"`
	Plot    string        `bson:"plot,omitempty"`
	Genres  []string      `bson:"genres,omitempty"`
	Cast    []string      `bson:"cast,omitempty"`
	Poster  string        `bson:"poster,omitempty"`
}

// Film is a relational-catalog row (the sakila film_list view).
type Film struct {
	FID         int
	Title       string
	Description string
	Category    string
	Price       float64
	Length      int
	Rating      string
	Actors      string
	ReleaseYear int
}

// MovieRepository defines the read-only port for the document catalog.
// GetByID returns (nil, nil) for an unknown or malformed id.
type MovieRepository interface {
	Sample(ctx context.Context, limit int) ([]Movie, error)
	GetByID(ctx context.Context, id string) (*Movie, error)
	SearchByTitle(ctx context.Context, query string, limit int) ([]Movie, error)
}

// FilmRepository defines the read-only port for the relational catalog.
// GetByID returns (nil, nil) for an unknown id.
type FilmRepository interface {
	Random(ctx context.Context, limit int) ([]Film, error)
	GetByID(ctx context.Context, fid int) (*Film, error)
	SearchByTitle(ctx context.Context, query string, limit int) ([]Film, error)
}
