package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/keaype/bodega-backend/internal/domain/entities"
	"github.com/keaype/bodega-backend/internal/domain/repositories"
	"github.com/keaype/bodega-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/keaype/bodega-backend/pkg/errors"
)

// UserAdapter implements UserRepository
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var userColumns = []interface{}{
	"id", "dni", "full_name", "email", "phone_number", "password_hash",
	"role", "is_verified", "created_at",
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return a.getByField(ctx, "id", id)
}

// GetByDNI retrieves a user by national ID
func (a *UserAdapter) GetByDNI(ctx context.Context, dni string) (*entities.User, error) {
	return a.getByField(ctx, "dni", dni)
}

// Create inserts a new user, generating an ID when absent
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	record := goqu.Record{
		"id":            user.ID,
		"dni":           user.DNI,
		"full_name":     user.FullName,
		"email":         sql.NullString{String: user.Email, Valid: user.Email != ""},
		"phone_number":  user.PhoneNumber,
		"password_hash": user.PasswordHash,
		"role":          user.Role,
		"is_verified":   user.IsVerified,
		"created_at":    user.CreatedAt,
	}

	query, args, err := a.db.Insert("users").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create user", err)
	}
	return nil
}

// UpdateContact updates email and phone number
func (a *UserAdapter) UpdateContact(ctx context.Context, userID, email, phoneNumber string) error {
	query, args, err := a.db.Update("users").
		Set(goqu.Record{
			"email":        sql.NullString{String: email, Valid: email != ""},
			"phone_number": phoneNumber,
		}).
		Where(goqu.Ex{"id": userID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update contact", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("user %s not found", userID))
	}
	return nil
}

func (a *UserAdapter) getByField(ctx context.Context, field, value string) (*entities.User, error) {
	query, args, err := a.db.Select(userColumns...).
		From("users").
		Where(goqu.Ex{field: value}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	user := &entities.User{}
	var email sql.NullString

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.DNI,
		&user.FullName,
		&email,
		&user.PhoneNumber,
		&user.PasswordHash,
		&user.Role,
		&user.IsVerified,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with %s %s not found", field, value))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}

	user.Email = email.String
	return user, nil
}
