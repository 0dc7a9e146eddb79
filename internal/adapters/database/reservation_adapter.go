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

// ReservationAdapter implements ReservationRepository
type ReservationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReservationAdapter creates a new reservation adapter
func NewReservationAdapter(client *postgres.Client) repositories.ReservationRepository {
	return &ReservationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a reservation with its items in one transaction.
func (a *ReservationAdapter) Create(ctx context.Context, reservation *entities.Reservation) error {
	if reservation.ID == "" {
		reservation.ID = uuid.New().String()
	}
	if reservation.Status == "" {
		reservation.Status = entities.ReservationPending
	}
	if reservation.CreatedAt.IsZero() {
		reservation.CreatedAt = time.Now().UTC()
	}

	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	query, args, err := a.db.Insert("reservations").
		Rows(goqu.Record{
			"id":           reservation.ID,
			"user_id":      reservation.UserID,
			"bodega_id":    reservation.StoreID,
			"total_amount": reservation.TotalAmount,
			"status":       reservation.Status,
			"qr_code_data": reservation.QRCodeData,
			"created_at":   reservation.CreatedAt,
		}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create reservation", err)
	}

	for i := range reservation.Items {
		item := &reservation.Items[i]
		item.ReservationID = reservation.ID

		query, args, err := a.db.Insert("reservation_items").
			Rows(goqu.Record{
				"reservation_id": item.ReservationID,
				"product_name":   item.ProductName,
				"quantity":       item.Quantity,
				"unit_price":     item.UnitPrice,
				"total_price":    item.TotalPrice,
			}).
			Returning("id").
			ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build item insert query", err)
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&item.ID); err != nil {
			return apperrors.NewInternalError("failed to create reservation item", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit reservation", err)
	}
	return nil
}

// GetByID retrieves a reservation with its items
func (a *ReservationAdapter) GetByID(ctx context.Context, id string) (*entities.Reservation, error) {
	query, args, err := a.db.Select("id", "user_id", "bodega_id", "total_amount", "status", "qr_code_data", "created_at").
		From("reservations").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	reservation := &entities.Reservation{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&reservation.ID,
		&reservation.UserID,
		&reservation.StoreID,
		&reservation.TotalAmount,
		&reservation.Status,
		&reservation.QRCodeData,
		&reservation.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("reservation %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get reservation", err)
	}

	items, err := a.listItems(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	reservation.Items = items[id]
	return reservation, nil
}

// ListByStore returns a store's reservations newest first, items and client
// names included.
func (a *ReservationAdapter) ListByStore(ctx context.Context, storeID string) ([]entities.Reservation, error) {
	query, args, err := a.db.From(goqu.T("reservations").As("r")).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("r.user_id").Eq(goqu.I("u.id")))).
		Where(goqu.Ex{"r.bodega_id": storeID}).
		Select(
			"r.id", "r.user_id", "r.bodega_id", "r.total_amount", "r.status",
			"r.qr_code_data", "r.created_at", "u.full_name",
		).
		Order(goqu.I("r.created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reservations", err)
	}
	defer rows.Close()

	var reservations []entities.Reservation
	var ids []string
	for rows.Next() {
		var reservation entities.Reservation
		err := rows.Scan(
			&reservation.ID,
			&reservation.UserID,
			&reservation.StoreID,
			&reservation.TotalAmount,
			&reservation.Status,
			&reservation.QRCodeData,
			&reservation.CreatedAt,
			&reservation.ClientName,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan reservation", err)
		}
		reservations = append(reservations, reservation)
		ids = append(ids, reservation.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read reservations", err)
	}

	if len(ids) == 0 {
		return reservations, nil
	}

	items, err := a.listItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range reservations {
		reservations[i].Items = items[reservations[i].ID]
	}
	return reservations, nil
}

// UpdateStatus transitions a reservation's status
func (a *ReservationAdapter) UpdateStatus(ctx context.Context, id, status string) error {
	query, args, err := a.db.Update("reservations").
		Set(goqu.Record{"status": status}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update reservation status", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("reservation %s not found", id))
	}
	return nil
}

func (a *ReservationAdapter) listItems(ctx context.Context, reservationIDs []string) (map[string][]entities.ReservationItem, error) {
	query, args, err := a.db.Select("id", "reservation_id", "product_name", "quantity", "unit_price", "total_price").
		From("reservation_items").
		Where(goqu.Ex{"reservation_id": reservationIDs}).
		Order(goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reservation items", err)
	}
	defer rows.Close()

	items := make(map[string][]entities.ReservationItem)
	for rows.Next() {
		var item entities.ReservationItem
		err := rows.Scan(
			&item.ID,
			&item.ReservationID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan reservation item", err)
		}
		items[item.ReservationID] = append(items[item.ReservationID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read reservation items", err)
	}
	return items, nil
}
