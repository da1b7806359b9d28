package mongo

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"rockbuster/internal/domain"
)

// Sample returns up to limit random movies.
func (d *MovieRepo) Sample(ctx context.Context, limit int) ([]domain.Movie, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: limit}}}},
	}
	cur, err := d.movies.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	var movies []domain.Movie
	if err := cur.All(ctx, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// GetByID retrieves one movie by the hex form of its object id.
func (d *MovieRepo) GetByID(ctx context.Context, id string) (*domain.Movie, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var movie domain.Movie
	err = d.movies.FindOne(ctx, bson.M{"_id": oid}).Decode(&movie)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// SearchByTitle matches titles containing query, case-insensitively.
func (d *MovieRepo) SearchByTitle(ctx context.Context, query string, limit int) ([]domain.Movie, error) {
	filter := bson.M{"title": bson.M{
		"$regex":   regexp.QuoteMeta(query),
		"$options": "i",
	}}
	cur, err := d.movies.Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	var movies []domain.Movie
	if err := cur.All(ctx, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

var _ domain.MovieRepository = (*MovieRepo)(nil)
