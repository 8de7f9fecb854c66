package userstore

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
	return &Store{c: db.Collection("users")}
}

// ErrDuplicateEmail is returned when attempting to create a user with an
// email that already exists.
var ErrDuplicateEmail = errors.New("a user with this email already exists")

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user record, typically on first OAuth sign-in.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.Email = normalize.Email(u.Email)
	if u.Businesses == nil {
		u.Businesses = []primitive.ObjectID{}
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// ProfileUpdate holds the profile fields a user may change. Nil fields
// are left untouched. Email and provider identity are immutable.
type ProfileUpdate struct {
	Name        *string
	Image       *string
	Company     *string
	Position    *string
	Phone       *string
	Address     *string
	Bio         *string
	SocialLinks *models.SocialLinks
}

// UpdateProfile applies a partial profile update and returns the fresh
// document.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) (*models.User, error) {
	set := bson.M{"updated_at": time.Now()}

	if upd.Name != nil {
		set["name"] = normalize.Name(*upd.Name)
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}
	if upd.Company != nil {
		set["company"] = *upd.Company
	}
	if upd.Position != nil {
		set["position"] = *upd.Position
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.Address != nil {
		set["address"] = *upd.Address
	}
	if upd.Bio != nil {
		set["bio"] = *upd.Bio
	}
	if upd.SocialLinks != nil {
		set["social_links"] = *upd.SocialLinks
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return s.GetByID(ctx, id)
}

// AttachBusiness marks the user as a business owner and records the
// business in their list. Used after a successful business registration.
func (s *Store) AttachBusiness(ctx context.Context, userID, businessID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{
			"business_role": models.BusinessRoleOwner,
			"updated_at":    time.Now(),
		},
		"$addToSet": bson.M{"businesses": businessID},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
