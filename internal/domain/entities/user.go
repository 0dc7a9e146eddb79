package entities

import "time"

// User roles. Storekeepers own exactly one bodega.
const (
	RoleClient      = "CLIENT"
	RoleStorekeeper = "BODEGUERO"
	RoleAdmin       = "ADMIN"
)

// User represents a registered person, identified by their national ID (DNI).
type User struct {
	ID           string    `json:"id" db:"id"`
	DNI          string    `json:"dni" db:"dni"`
	FullName     string    `json:"full_name" db:"full_name"`
	Email        string    `json:"email,omitempty" db:"email"`
	PhoneNumber  string    `json:"phone_number" db:"phone_number"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	IsVerified   bool      `json:"is_verified" db:"is_verified"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
