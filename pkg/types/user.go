package types

import (
	"strings"
	"time"
)

// Authentication providers recorded on a User.
const (
	AuthEmail  = "email"
	AuthGoogle = "google"
)

// User is one account record in users.json. Email is unique after
// NormalizeEmail; Password holds a hash and is empty for google-only accounts.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Password     string    `json:"password,omitempty"`
	GoogleID     string    `json:"googleId,omitempty"`
	AuthProvider string    `json:"authProvider"`
	FullName     string    `json:"fullName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Public returns a copy of the user without the password hash.
func (u User) Public() User {
	u.Password = ""
	return u
}

// HasPassword reports whether the account can sign in with email and password.
func (u User) HasPassword() bool {
	return u.Password != ""
}

// NormalizeEmail trims and lower-cases an email address. Uniqueness of
// users.json is defined on this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
