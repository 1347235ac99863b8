package models

import "time"

// UserProfile defines a platform user based on the 'user_profiles' table
type UserProfile struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	FullName  string    `json:"full_name" db:"full_name"`
	Role      RoleType  `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// OwnerIdentifiers returns the identity-bearing fields of the record.
func (u *UserProfile) OwnerIdentifiers() []string {
	return []string{u.ID}
}

// DeclaredOwner returns the identity this record claims to be authored by.
func (u *UserProfile) DeclaredOwner() string {
	return u.ID
}

// RefreshToken stores an issued refresh token for a user session
type RefreshToken struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
