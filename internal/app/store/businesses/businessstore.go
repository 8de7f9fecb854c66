package businessstore

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
	return &Store{c: db.Collection("businesses")}
}

var (
	// ErrAlreadyRegistered is returned when the email, registration
	// number, or tax ID is already taken by another business.
	ErrAlreadyRegistered = errors.New("a business with this email, registration number, or tax ID already exists")

	errMissingFields  = errors.New("name, email, description, industry, size, phone, registration number, and tax ID are required")
	errMissingAddress = errors.New("street, city, state, country, and postal code are required")
	errBadSize        = errors.New(`size must be one of "1-10"|"11-50"|"51-200"|"201-500"|"500+"`)
)

// IsValidation reports whether err came from registration validation
// rather than the database, so handlers can answer 400 instead of 500.
func IsValidation(err error) bool {
	return err == errMissingFields || err == errMissingAddress || err == errBadSize
}

func validate(b models.Business) error {
	if b.Name == "" || b.Email == "" || b.Description == "" || b.Industry == "" ||
		b.Size == "" || b.Phone == "" || b.RegistrationNumber == "" || b.TaxID == "" {
		return errMissingFields
	}
	a := b.Address
	if a.Street == "" || a.City == "" || a.State == "" || a.Country == "" || a.PostalCode == "" {
		return errMissingAddress
	}
	if !models.ValidBusinessSize(b.Size) {
		return errBadSize
	}
	return nil
}

// Create validates and inserts a new business owned by the given user.
// Uniqueness spans email, registration number, and tax ID.
func (s *Store) Create(ctx context.Context, b models.Business, owner primitive.ObjectID) (models.Business, error) {
	b.Email = normalize.Email(b.Email)
	b.Name = normalize.Name(b.Name)

	if err := validate(b); err != nil {
		return models.Business{}, err
	}

	// The unique index only covers email; registration number and tax
	// ID are checked here so all three report the same way.
	err := s.c.FindOne(ctx, bson.M{"$or": []bson.M{
		{"email": b.Email},
		{"registration_number": b.RegistrationNumber},
		{"tax_id": b.TaxID},
	}}).Err()
	if err == nil {
		return models.Business{}, ErrAlreadyRegistered
	}
	if err != mongo.ErrNoDocuments {
		return models.Business{}, err
	}

	b.ID = primitive.NewObjectID()
	b.Owner = owner
	b.IsVerified = false
	// The owner starts as the sole employee.
	b.Employees = []primitive.ObjectID{owner}

	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, b); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Business{}, ErrAlreadyRegistered
		}
		return models.Business{}, err
	}
	return b, nil
}

// GetByID loads a business by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Business, error) {
	var b models.Business
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByOwner returns the business owned by the given user. Returns
// mongo.ErrNoDocuments if the user has not registered one.
func (s *Store) GetByOwner(ctx context.Context, owner primitive.ObjectID) (*models.Business, error) {
	var b models.Business
	if err := s.c.FindOne(ctx, bson.M{"owner": owner}).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// SetLogo records the hosted logo URL for a business.
func (s *Store) SetLogo(ctx context.Context, id primitive.ObjectID, logoURL string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"logo":       logoURL,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a business. Used to compensate when the owner's user
// record cannot be updated after registration.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
