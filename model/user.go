// Package model defines the entity kinds the backend stores and their
// schema descriptors.
package model

import (
	"errors"
	"strings"

	"github.com/jacentio/lattice/store"
)

// User is an account document in the users collection.
type User struct {
	store.Base `bson:",inline"`

	Email          string `bson:"email" json:"email"`
	HashedPassword string `bson:"hashed_password" json:"-"`
	IsActive       bool   `bson:"is_active" json:"is_active"`
	IsSuperuser    bool   `bson:"is_superuser" json:"is_superuser"`
	FullName       string `bson:"full_name,omitempty" json:"full_name,omitempty"`
}

// CanonicalEmail trims surrounding whitespace and lower-cases an email so
// the unique index compares canonical forms. Idempotent.
func CanonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeEmail is the pre-persist hook applying CanonicalEmail.
func NormalizeEmail(u *User) error {
	u.Email = CanonicalEmail(u.Email)
	if u.Email == "" {
		return errors.New("email must not be empty")
	}
	return nil
}

// UserSchema describes the users collection.
var UserSchema = store.Schema[User]{
	Collection: "users",
	Indexes: []store.Index{
		{Keys: []store.Key{{Field: "email", Order: store.Ascending}}, Unique: true},
	},
	Durability: store.Durability{Majority: true, Journaled: true},
	Hooks:      []store.Hook[User]{NormalizeEmail},
}

// Users is the mapper for the users collection.
var Users = store.NewMapper[User, *User](UserSchema)
