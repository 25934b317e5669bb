package model

import (
	"time"

	"github.com/google/uuid"
)

// SettingsID is the primary key of the singleton settings row.
const SettingsID = 1

// DefaultTableCount is used when no settings row exists.
const DefaultTableCount = 10

// Settings holds restaurant-wide configuration.
type Settings struct {
	ID         int `json:"id" db:"id"`
	TableCount int `json:"table_count" db:"table_count"`
}

// Role is a coarse permission level.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// Profile maps an identity to its role.
type Profile struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Role Role      `json:"role" db:"role"`
}

// User is a local identity.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Credentials is the sign-in / sign-up payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
