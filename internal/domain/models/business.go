// internal/domain/models/business.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is a structured postal address. Every field is required when
// registering a business.
type Address struct {
	Street     string `bson:"street" json:"street"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	Country    string `bson:"country" json:"country"`
	PostalCode string `bson:"postal_code" json:"postalCode"`
}

// BusinessSocialLinks holds a business's optional social profile URLs.
type BusinessSocialLinks struct {
	LinkedIn  string `bson:"linkedin" json:"linkedin"`
	Twitter   string `bson:"twitter" json:"twitter"`
	Facebook  string `bson:"facebook" json:"facebook"`
	Instagram string `bson:"instagram" json:"instagram"`
}

// DayHours is the open/close pair for one weekday.
type DayHours struct {
	Open  string `bson:"open,omitempty" json:"open,omitempty"`
	Close string `bson:"close,omitempty" json:"close,omitempty"`
}

// BusinessHours holds per-weekday opening hours.
type BusinessHours struct {
	Monday    DayHours `bson:"monday,omitempty" json:"monday,omitempty"`
	Tuesday   DayHours `bson:"tuesday,omitempty" json:"tuesday,omitempty"`
	Wednesday DayHours `bson:"wednesday,omitempty" json:"wednesday,omitempty"`
	Thursday  DayHours `bson:"thursday,omitempty" json:"thursday,omitempty"`
	Friday    DayHours `bson:"friday,omitempty" json:"friday,omitempty"`
	Saturday  DayHours `bson:"saturday,omitempty" json:"saturday,omitempty"`
	Sunday    DayHours `bson:"sunday,omitempty" json:"sunday,omitempty"`
}

// Business is an organization owned by exactly one User. Employees are
// User references; the owner is always also listed as an employee.
// Email, registration number, and tax ID are unique across businesses.
type Business struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Logo        string             `bson:"logo,omitempty" json:"logo,omitempty"`
	Description string             `bson:"description" json:"description"`
	Industry    string             `bson:"industry" json:"industry"`
	Size        string             `bson:"size" json:"size"`
	Website     string             `bson:"website,omitempty" json:"website,omitempty"`
	Phone       string             `bson:"phone" json:"phone"`

	Address       Address             `bson:"address" json:"address"`
	SocialLinks   BusinessSocialLinks `bson:"social_links" json:"socialLinks"`
	BusinessHours BusinessHours       `bson:"business_hours,omitempty" json:"businessHours,omitempty"`

	Owner     primitive.ObjectID   `bson:"owner" json:"owner"`
	Employees []primitive.ObjectID `bson:"employees" json:"employees"`

	IsVerified         bool   `bson:"is_verified" json:"isVerified"`
	RegistrationNumber string `bson:"registration_number" json:"registrationNumber"`
	TaxID              string `bson:"tax_id" json:"taxId"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// BusinessSizes lists the accepted company size brackets.
var BusinessSizes = []string{"1-10", "11-50", "51-200", "201-500", "500+"}

// ValidBusinessSize reports whether s is one of the accepted brackets.
func ValidBusinessSize(s string) bool {
	for _, v := range BusinessSizes {
		if s == v {
			return true
		}
	}
	return false
}
