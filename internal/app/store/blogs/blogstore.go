package blogstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tradepost/tradepost/internal/app/system/htmlsanitize"
	"github.com/tradepost/tradepost/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("blogs")}
}

var (
	errTitleTooShort   = fmt.Errorf("title must be at least %d characters", models.BlogMinTitleLen)
	errContentTooShort = fmt.Errorf("content must be at least %d characters", models.BlogMinContentLen)
	errBadParentCat    = errors.New("parent category is not one of the recognized sections")
)

// IsValidation reports whether err came from post validation rather than
// the database, so handlers can answer 400 instead of 500.
func IsValidation(err error) bool {
	return err == errTitleTooShort || err == errContentTooShort || err == errBadParentCat
}

// validate checks the invariants shared by create and full update.
func validate(b models.Blog) error {
	if len(b.Title) < models.BlogMinTitleLen {
		return errTitleTooShort
	}
	if len(b.Content) < models.BlogMinContentLen {
		return errContentTooShort
	}
	if !models.ValidParentCategory(b.ParentCategory) {
		return errBadParentCat
	}
	return nil
}

// Create inserts a new post after validating and sanitizing its content.
func (s *Store) Create(ctx context.Context, b models.Blog) (models.Blog, error) {
	b.ID = primitive.NewObjectID()
	b.Content = htmlsanitize.Sanitize(b.Content)

	if err := validate(b); err != nil {
		return models.Blog{}, err
	}

	if b.Tags == nil {
		b.Tags = []string{}
	}

	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, b); err != nil {
		return models.Blog{}, err
	}
	return b, nil
}

// List returns the newest posts first, optionally limited.
func (s *Store) List(ctx context.Context, limit int) ([]models.Blog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	blogs := []models.Blog{}
	if err := cur.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// ListByParentCategory returns the newest posts in one section.
func (s *Store) ListByParentCategory(ctx context.Context, parentCategory string, limit int) ([]models.Blog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.c.Find(ctx, bson.M{"parent_category": parentCategory}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	blogs := []models.Blog{}
	if err := cur.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// GetByID loads a post by ObjectID. Returns mongo.ErrNoDocuments if
// not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	var b models.Blog
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Update holds the fields an admin may change on a post. Nil fields are
// left untouched.
type Update struct {
	Title          *string
	Content        *string
	ParentCategory *string
	Category       *string
	Tags           *[]string
	Published      *bool
	Author         *string
	BannerImage    *string
}

// Update applies a partial update and returns the matched count so
// callers can distinguish "not found".
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (int64, error) {
	set := bson.M{"updated_at": time.Now()}

	if upd.Title != nil {
		if len(*upd.Title) < models.BlogMinTitleLen {
			return 0, errTitleTooShort
		}
		set["title"] = *upd.Title
	}
	if upd.Content != nil {
		clean := htmlsanitize.Sanitize(*upd.Content)
		if len(clean) < models.BlogMinContentLen {
			return 0, errContentTooShort
		}
		set["content"] = clean
	}
	if upd.ParentCategory != nil {
		if !models.ValidParentCategory(*upd.ParentCategory) {
			return 0, errBadParentCat
		}
		set["parent_category"] = *upd.ParentCategory
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Tags != nil {
		set["tags"] = *upd.Tags
	}
	if upd.Published != nil {
		set["published"] = *upd.Published
	}
	if upd.Author != nil {
		set["author"] = *upd.Author
	}
	if upd.BannerImage != nil {
		set["banner_image"] = *upd.BannerImage
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Delete removes a post. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
