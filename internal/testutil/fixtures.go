package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tradepost/tradepost/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given name and email.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Provider:  "google",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateAdmin creates a test admin with the given username and a
// pre-hashed password.
func (f *Fixtures) CreateAdmin(ctx context.Context, username, passwordHash string) models.Admin {
	f.t.Helper()

	admin := models.Admin{
		ID:           primitive.NewObjectID(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := f.db.Collection("admins").InsertOne(ctx, admin); err != nil {
		f.t.Fatalf("failed to create test admin: %v", err)
	}
	return admin
}

// CreateBlog creates a published test blog post in the given parent category.
func (f *Fixtures) CreateBlog(ctx context.Context, title, parentCategory string) models.Blog {
	f.t.Helper()

	now := time.Now().UTC()
	blog := models.Blog{
		ID:             primitive.NewObjectID(),
		Title:          title,
		Content:        "<p>Body content long enough to pass validation.</p>",
		ParentCategory: parentCategory,
		Category:       "general",
		Published:      true,
		Author:         "Test Author",
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := f.db.Collection("blogs").InsertOne(ctx, blog); err != nil {
		f.t.Fatalf("failed to create test blog: %v", err)
	}
	return blog
}

// CreateListing creates an active test listing owned by the given seller.
func (f *Fixtures) CreateListing(ctx context.Context, name string, seller primitive.ObjectID) models.Product {
	f.t.Helper()
	return f.CreateListingWith(ctx, models.Product{Name: name, Seller: seller})
}

// CreateListingWith creates a test listing from a partially filled
// Product, defaulting type to "product" and status to "active".
func (f *Fixtures) CreateListingWith(ctx context.Context, p models.Product) models.Product {
	f.t.Helper()

	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	if p.Type == "" {
		p.Type = models.ListingTypeProduct
	}
	if p.Status == "" {
		p.Status = models.ListingStatusActive
	}
	if p.Description == "" {
		p.Description = "A test listing description."
	}
	if p.Category == "" {
		p.Category = "general"
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if _, err := f.db.Collection("products").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test listing: %v", err)
	}
	return p
}

// CreateBusiness creates a test business owned by the given user.
func (f *Fixtures) CreateBusiness(ctx context.Context, name, email string, owner primitive.ObjectID) models.Business {
	f.t.Helper()

	now := time.Now().UTC()
	biz := models.Business{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Email:    email,
		Industry: "Testing",
		Size:     "1-10",
		Address: models.Address{
			Street:     "1 Test St",
			City:       "Testville",
			State:      "TS",
			Country:    "Testland",
			PostalCode: "00000",
		},
		Owner:              owner,
		RegistrationNumber: "REG-" + primitive.NewObjectID().Hex(),
		TaxID:              "TAX-" + primitive.NewObjectID().Hex(),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if _, err := f.db.Collection("businesses").InsertOne(ctx, biz); err != nil {
		f.t.Fatalf("failed to create test business: %v", err)
	}
	return biz
}
