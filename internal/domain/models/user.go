// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles stored on User.Role.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is a registered dentist or the administrator.
//
// NOTE:
//   - Password is empty for accounts created through Google sign-up.
//   - A user can sign in only once an admin has set Activated.
type User struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	FirstName     string               `bson:"firstName" json:"firstName"`
	LastName      string               `bson:"lastName" json:"lastName"`
	Email         string               `bson:"email" json:"email"`
	Phone         string               `bson:"phone,omitempty" json:"phone,omitempty"`
	Specialty     string               `bson:"specialty,omitempty" json:"specialty,omitempty"`
	NeedFinancing bool                 `bson:"needFinancing" json:"needFinancing"`
	NPI           string               `bson:"npi,omitempty" json:"npi,omitempty"`
	Password      string               `bson:"password,omitempty" json:"-"`
	Activated     bool                 `bson:"activated" json:"activated"`
	Role          string               `bson:"role" json:"role"`
	Likes         []primitive.ObjectID `bson:"likes" json:"likes"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Account is the view of a user returned to the user themself.
type Account struct {
	ID            primitive.ObjectID `json:"id"`
	FirstName     string             `json:"firstName"`
	LastName      string             `json:"lastName"`
	Email         string             `json:"email"`
	NPI           string             `json:"npi"`
	Activated     bool               `json:"activated"`
	Role          string             `json:"role"`
	Phone         string             `json:"phone,omitempty"`
	Specialty     string             `json:"specialty,omitempty"`
	NeedFinancing bool               `json:"needFinancing"`
	HasPassword   bool               `json:"hasPassword"`
}

// Account builds the self view of u.
func (u User) Account() Account {
	return Account{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Email:         u.Email,
		NPI:           u.NPI,
		Activated:     u.Activated,
		Role:          u.Role,
		Phone:         u.Phone,
		Specialty:     u.Specialty,
		NeedFinancing: u.NeedFinancing,
		HasPassword:   u.Password != "",
	}
}
