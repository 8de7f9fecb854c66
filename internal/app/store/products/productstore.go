package productstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tradepost/tradepost/internal/app/system/paging"
	"github.com/tradepost/tradepost/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("products")}
}

var (
	errBadType   = errors.New(`type must be "product"|"service"`)
	errBadStatus = errors.New(`status must be "active"|"inactive"`)
)

// IsValidation reports whether err came from listing validation rather
// than the database, so handlers can answer 400 instead of 500.
func IsValidation(err error) bool {
	return err == errBadType || err == errBadStatus
}

// ListFilter narrows the public listing feed. Zero values mean "no
// constraint" for that dimension.
type ListFilter struct {
	Type     string
	Category string
	Search   string
	City     string
	State    string

	// ExcludeSeller hides the requesting user's own listings from the
	// feed so sellers browse other people's inventory.
	ExcludeSeller *primitive.ObjectID

	Page  int
	Limit int
}

// query builds the Mongo filter. The feed only ever shows active listings.
func (f ListFilter) query() bson.M {
	q := bson.M{"status": models.ListingStatusActive}

	if f.ExcludeSeller != nil {
		q["seller"] = bson.M{"$ne": *f.ExcludeSeller}
	}
	if f.Type != "" {
		q["type"] = f.Type
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Search != "" {
		q["$text"] = bson.M{"$search": f.Search}
	}
	if f.City != "" {
		q["location.city"] = bson.M{"$regex": f.City, "$options": "i"}
	}
	if f.State != "" {
		q["location.state"] = bson.M{"$regex": f.State, "$options": "i"}
	}
	return q
}

// List returns one page of the public feed, newest first, along with
// pagination metadata computed from the total match count.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Product, paging.Meta, error) {
	if f.Page < 1 {
		f.Page = paging.DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = paging.DefaultLimit
	}

	q := f.query()

	total, err := s.c.CountDocuments(ctx, q)
	if err != nil {
		return nil, paging.Meta{}, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, paging.Meta{}, err
	}
	defer cur.Close(ctx)

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, paging.Meta{}, err
	}

	return products, paging.NewMeta(total, f.Page, f.Limit), nil
}

// ListBySeller returns all of one seller's listings regardless of
// status, newest first.
func (s *Store) ListBySeller(ctx context.Context, seller primitive.ObjectID) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"seller": seller}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID loads a listing by ObjectID. Returns mongo.ErrNoDocuments if
// not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new listing after validating its enums. The seller
// is always the authenticated user; callers cannot spoof it.
func (s *Store) Create(ctx context.Context, p models.Product, seller primitive.ObjectID) (models.Product, error) {
	p.ID = primitive.NewObjectID()
	p.Seller = seller
	if p.Status == "" {
		p.Status = models.ListingStatusActive
	}

	if !models.ValidListingType(p.Type) {
		return models.Product{}, errBadType
	}
	if !models.ValidListingStatus(p.Status) {
		return models.Product{}, errBadStatus
	}

	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Specifications == nil {
		p.Specifications = []models.Specification{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Update holds the fields a seller may change on a listing. Nil fields
// are left untouched.
type Update struct {
	Name                   *string
	Type                   *string
	Description            *string
	Category               *string
	Images                 *[]string
	Specifications         *[]models.Specification
	Status                 *string
	CustomizationAvailable *bool
	Tags                   *[]string
	Location               *models.Location
}

// UpdateOwned applies a partial update to a listing, but only if the
// given seller owns it. Returns the matched count so callers can
// distinguish "not found" from "not yours".
func (s *Store) UpdateOwned(ctx context.Context, id, seller primitive.ObjectID, upd Update) (int64, error) {
	set := bson.M{"updated_at": time.Now()}

	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Type != nil {
		if !models.ValidListingType(*upd.Type) {
			return 0, errBadType
		}
		set["type"] = *upd.Type
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Images != nil {
		set["images"] = *upd.Images
	}
	if upd.Specifications != nil {
		set["specifications"] = *upd.Specifications
	}
	if upd.Status != nil {
		if !models.ValidListingStatus(*upd.Status) {
			return 0, errBadStatus
		}
		set["status"] = *upd.Status
	}
	if upd.CustomizationAvailable != nil {
		set["customization_available"] = *upd.CustomizationAvailable
	}
	if upd.Tags != nil {
		set["tags"] = *upd.Tags
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "seller": seller}, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// DeleteOwned removes a listing if the given seller owns it. Returns
// the number of documents deleted (0 or 1).
func (s *Store) DeleteOwned(ctx context.Context, id, seller primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "seller": seller})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
