package adminstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tradepost/tradepost/internal/app/system/normalize"
	"github.com/tradepost/tradepost/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("admins")}
}

// ErrDuplicateUsername is returned when attempting to create an admin
// with a username that already exists.
var ErrDuplicateUsername = errors.New("an admin with this username already exists")

// GetByID loads an admin by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	var a models.Admin
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByUsername looks up an admin by case-insensitive username.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var a models.Admin
	if err := s.c.FindOne(ctx, bson.M{"username": normalize.Username(username)}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new admin with an already-hashed password.
func (s *Store) Create(ctx context.Context, username, passwordHash string) (models.Admin, error) {
	a := models.Admin{
		ID:           primitive.NewObjectID(),
		Username:     normalize.Username(username),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Admin{}, ErrDuplicateUsername
		}
		return models.Admin{}, err
	}
	return a, nil
}
