// Package mongo implements the credential store and the document
// movie catalog on MongoDB.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DB wraps a Mongo client and the collections this application uses.
type DB struct {
	client *mongo.Client
	users  *mongo.Collection
	movies *mongo.Collection
}

// Open connects to MongoDB, pings, and ensures the unique email index
// on the users collection. The index is what makes registration's
// check-then-insert safe under concurrency.
func Open(ctx context.Context, uri, dbName string) (*DB, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(dbName)
	d := &DB{
		client: client,
		users:  db.Collection("users"),
		movies: db.Collection("movies"),
	}

	_, err = d.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ensure email index: %w", err)
	}
	return d, nil
}

// Close disconnects the underlying client.
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// MovieRepo is the movie-catalog view of DB. It exists as a distinct
// receiver type because domain.MovieRepository and
// domain.UserRepository both declare GetByID with different
// signatures, which one type cannot satisfy.
type MovieRepo DB

// Movies returns the movie-catalog view of the database.
func (d *DB) Movies() *MovieRepo { return (*MovieRepo)(d) }
