package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Identity is the principal attached to a session.
type Identity struct {
	ID     int64   `bson:"_id" json:"id"`
	Name   string  `bson:"name" json:"name"`
	Email  string  `bson:"email" json:"email"`
	Avatar *string `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// Credentials are checked by the authenticator, not the binding: the mock
// login accepts any non-empty address.
type Credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password"`
}

// User is a registered account in the identity directory.
type User struct {
	Identity
	Password  string    `bson:"password,omitempty" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate))
	return err == nil
}
