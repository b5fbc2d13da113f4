package models

import "time"

// Roles assignable to a user account. Role gates admin-only operations such
// as purging action logs; everything else in the system is governed by the
// creator/recipient/contact relations, not by role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account entity used for authentication and authorization.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	UserID int64 `json:"id"`

	// Username is the unique display/login name, 2–80 characters after
	// trimming. Uniqueness is enforced by the database.
	Username string `json:"username"`

	// Email is the unique, lowercase-normalized e-mail address.
	Email string `json:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// Never serialized.
	PasswordHash string `json:"-"`

	// Role is either RoleUser or RoleAdmin.
	Role string `json:"role"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Credentials is the payload accepted by the register and login endpoints.
// The password travels only inside this type and is hashed before any
// persistence.
type Credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserRef is a minimal public reference to a user, used inside note views,
// assignable-user listings and history records.
type UserRef struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
}
