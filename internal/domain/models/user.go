// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SocialLinks holds a user's optional social profile URLs.
type SocialLinks struct {
	LinkedIn string `bson:"linkedin" json:"linkedin"`
	Twitter  string `bson:"twitter" json:"twitter"`
	GitHub   string `bson:"github" json:"github"`
}

// User is a marketplace end user. Users are created on first OAuth
// sign-in and identified by email; they are never hard-deleted.
//
// BusinessRole is "" until the user registers or joins a business.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Image    string             `bson:"image,omitempty" json:"image,omitempty"`
	Company  string             `bson:"company" json:"company"`
	Position string             `bson:"position" json:"position"`
	Phone    string             `bson:"phone" json:"phone"`
	Address  string             `bson:"address" json:"address"`
	Bio      string             `bson:"bio" json:"bio"`

	SocialLinks SocialLinks `bson:"social_links" json:"socialLinks"`

	// OAuth identity
	Provider   string `bson:"provider" json:"provider"`
	ProviderID string `bson:"provider_id" json:"-"`

	BusinessRole string               `bson:"business_role,omitempty" json:"businessRole,omitempty"` // owner | admin | employee
	Businesses   []primitive.ObjectID `bson:"businesses,omitempty" json:"businesses,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Valid business roles. An empty role means the user has no business
// affiliation yet.
const (
	BusinessRoleOwner    = "owner"
	BusinessRoleAdmin    = "admin"
	BusinessRoleEmployee = "employee"
)

// ValidBusinessRole reports whether role is one of the allowed business
// roles (or empty).
func ValidBusinessRole(role string) bool {
	switch role {
	case "", BusinessRoleOwner, BusinessRoleAdmin, BusinessRoleEmployee:
		return true
	}
	return false
}
