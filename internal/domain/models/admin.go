// internal/domain/models/admin.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin is the administrative identity for the blog-management surface.
// It is entirely separate from User: an admin token grants no access to
// user routes and vice versa.
type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// Credential length floors, enforced before hashing.
const (
	AdminMinUsernameLen = 4
	AdminMinPasswordLen = 6
)
