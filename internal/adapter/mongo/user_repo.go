package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"rockbuster/internal/domain"
)

// userDoc is the wire shape of a user record. The hashed credential
// lives in the "password" field for compatibility with the existing
// collection.
type userDoc struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Name      string        `bson:"name"`
	Email     string        `bson:"email"`
	Password  string        `bson:"password"`
	CreatedAt time.Time     `bson:"created_at,omitempty"`
}

func (u userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           u.ID.Hex(),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.Password,
		CreatedAt:    u.CreatedAt,
	}
}

// GetByEmail retrieves a user by email. Absence is (nil, nil).
func (d *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc userDoc
	err := d.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// GetByID retrieves a user by the hex form of its object id. A
// malformed id resolves to (nil, nil) the same as an unknown one.
func (d *DB) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc userDoc
	err = d.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// Create inserts a new user. A unique-index violation on email maps
// to domain.ErrDuplicateEmail.
func (d *DB) Create(ctx context.Context, name, email, passwordHash string) (*domain.User, error) {
	doc := userDoc{
		ID:        bson.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  passwordHash,
		CreatedAt: time.Now(),
	}
	if _, err := d.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// DeleteByEmail removes the user with the given email and returns how
// many records were deleted.
func (d *DB) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	res, err := d.users.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

var _ domain.UserRepository = (*DB)(nil)
