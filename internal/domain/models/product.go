// internal/domain/models/product.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Specification is a free-form name/value pair on a listing.
type Specification struct {
	Name  string `bson:"name" json:"name"`
	Value string `bson:"value" json:"value"`
}

// Location is the coarse geographic placement of a listing. Filters on
// city and state are case-insensitive substring matches.
type Location struct {
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
}

// Product is a marketplace listing: a physical product or a service
// offered by a seller. Only active listings appear in the general feed.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Type        string             `bson:"type" json:"type"` // product | service
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`

	Images         []string        `bson:"images" json:"images"`
	Specifications []Specification `bson:"specifications" json:"specifications"`

	Seller primitive.ObjectID `bson:"seller" json:"seller"`
	Status string             `bson:"status" json:"status"` // active | inactive

	CustomizationAvailable bool     `bson:"customization_available" json:"customizationAvailable"`
	Tags                   []string `bson:"tags" json:"tags"`
	Location               Location `bson:"location" json:"location"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

const (
	ListingTypeProduct = "product"
	ListingTypeService = "service"

	ListingStatusActive   = "active"
	ListingStatusInactive = "inactive"
)

// ValidListingType reports whether t is "product" or "service".
func ValidListingType(t string) bool {
	return t == ListingTypeProduct || t == ListingTypeService
}

// ValidListingStatus reports whether s is "active" or "inactive".
func ValidListingStatus(s string) bool {
	return s == ListingStatusActive || s == ListingStatusInactive
}
