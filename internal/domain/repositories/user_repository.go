package repositories

import (
	"context"

	"github.com/keaype/bodega-backend/internal/domain/entities"
)

// UserRepository manages user accounts.
type UserRepository interface {
	// GetByID retrieves a user, or a not-found error
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByDNI retrieves a user by national ID, or a not-found error
	GetByDNI(ctx context.Context, dni string) (*entities.User, error)

	// Create inserts a new user
	Create(ctx context.Context, user *entities.User) error

	// UpdateContact updates email and phone number
	UpdateContact(ctx context.Context, userID, email, phoneNumber string) error
}
