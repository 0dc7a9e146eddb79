package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/keaype/bodega-backend/internal/domain/entities"
	"github.com/keaype/bodega-backend/internal/domain/repositories"
	"github.com/keaype/bodega-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/keaype/bodega-backend/pkg/errors"
)

// StoreAdapter implements StoreRepository
type StoreAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewStoreAdapter creates a new store adapter
func NewStoreAdapter(client *postgres.Client) repositories.StoreRepository {
	return &StoreAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var storeColumns = []interface{}{
	"id", "owner_id", "name", "address", "latitude", "longitude",
	"manual_override", "rating", "photo_url", "created_at", "updated_at",
}

// GetByID retrieves a store by ID
func (a *StoreAdapter) GetByID(ctx context.Context, id string) (*entities.Store, error) {
	return a.getByField(ctx, "id", id)
}

// GetByOwner retrieves the store owned by a user
func (a *StoreAdapter) GetByOwner(ctx context.Context, ownerID string) (*entities.Store, error) {
	return a.getByField(ctx, "owner_id", ownerID)
}

// GetSchedules returns the weekly opening windows of a store
func (a *StoreAdapter) GetSchedules(ctx context.Context, storeID string) ([]entities.StoreSchedule, error) {
	query, args, err := a.db.Select("id", "bodega_id", "day_of_week", "open_time", "close_time").
		From("bodega_schedules").
		Where(goqu.Ex{"bodega_id": storeID}).
		Order(goqu.I("day_of_week").Asc(), goqu.I("open_time").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get schedules", err)
	}
	defer rows.Close()

	var schedules []entities.StoreSchedule
	for rows.Next() {
		var schedule entities.StoreSchedule
		err := rows.Scan(
			&schedule.ID,
			&schedule.StoreID,
			&schedule.DayOfWeek,
			&schedule.OpenTime,
			&schedule.CloseTime,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan schedule", err)
		}
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read schedules", err)
	}
	return schedules, nil
}

// SetManualOverride sets the open/closed override; nil restores
// schedule-driven state
func (a *StoreAdapter) SetManualOverride(ctx context.Context, storeID string, override *string) error {
	var value sql.NullString
	if override != nil {
		value = sql.NullString{String: *override, Valid: true}
	}

	query, args, err := a.db.Update("bodegas").
		Set(goqu.Record{
			"manual_override": value,
			"updated_at":      time.Now().UTC(),
		}).
		Where(goqu.Ex{"id": storeID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to set manual override", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("store %s not found", storeID))
	}
	return nil
}

// UpdateProfile updates the store's display fields
func (a *StoreAdapter) UpdateProfile(ctx context.Context, storeID, name, photoURL string) error {
	record := goqu.Record{"updated_at": time.Now().UTC()}
	if name != "" {
		record["name"] = name
	}
	if photoURL != "" {
		record["photo_url"] = photoURL
	}

	query, args, err := a.db.Update("bodegas").
		Set(record).
		Where(goqu.Ex{"id": storeID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update store profile", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("store %s not found", storeID))
	}
	return nil
}

func (a *StoreAdapter) getByField(ctx context.Context, field, value string) (*entities.Store, error) {
	query, args, err := a.db.Select(storeColumns...).
		From("bodegas").
		Where(goqu.Ex{field: value}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	store := &entities.Store{}
	var address, override, photoURL sql.NullString

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&store.ID,
		&store.OwnerID,
		&store.Name,
		&address,
		&store.Location.Latitude,
		&store.Location.Longitude,
		&override,
		&store.Rating,
		&photoURL,
		&store.CreatedAt,
		&store.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("store with %s %s not found", field, value))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get store", err)
	}

	store.Address = address.String
	store.PhotoURL = photoURL.String
	if override.Valid {
		value := override.String
		store.ManualOverride = &value
	}
	return store, nil
}
