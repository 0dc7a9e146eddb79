package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/keaype/bodega-backend/internal/domain/entities"
	"github.com/keaype/bodega-backend/internal/domain/providers"
	"github.com/keaype/bodega-backend/internal/domain/repositories"
	apperrors "github.com/keaype/bodega-backend/pkg/errors"
)

// ReservationService creates pick-up reservations and keeps the storekeeper
// informed. Notification delivery is best effort and never fails the
// reservation.
type ReservationService struct {
	reservations repositories.ReservationRepository
	users        repositories.UserRepository
	stores       repositories.StoreRepository
	notifier     providers.NotificationSender
}

// NewReservationService creates a new reservation service
func NewReservationService(
	reservations repositories.ReservationRepository,
	users repositories.UserRepository,
	stores repositories.StoreRepository,
	notifier providers.NotificationSender,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		users:        users,
		stores:       stores,
		notifier:     notifier,
	}
}

// ReservationItemParams is one requested line.
type ReservationItemParams struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// CreateReservationParams are the inputs for a new reservation.
type CreateReservationParams struct {
	UserID  string                  `json:"user_id"`
	StoreID string                  `json:"bodega_id"`
	Items   []ReservationItemParams `json:"items"`
}

// Create validates the client and store, persists the reservation with its
// items, and notifies the storekeeper.
func (s *ReservationService) Create(ctx context.Context, params CreateReservationParams) (*entities.Reservation, error) {
	if len(params.Items) == 0 {
		return nil, apperrors.NewValidationError("reservation needs at least one item")
	}

	user, err := s.users.GetByID(ctx, params.UserID)
	if err != nil {
		return nil, err
	}
	store, err := s.stores.GetByID(ctx, params.StoreID)
	if err != nil {
		return nil, err
	}

	reservation := &entities.Reservation{
		ID:      uuid.New().String(),
		UserID:  user.ID,
		StoreID: store.ID,
		Status:  entities.ReservationPending,
	}
	for _, item := range params.Items {
		if item.Quantity < 1 {
			return nil, apperrors.NewValidationError("item quantity must be at least 1")
		}
		lineTotal := float64(item.Quantity) * item.UnitPrice
		reservation.TotalAmount += lineTotal
		reservation.Items = append(reservation.Items, entities.ReservationItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  lineTotal,
		})
	}

	// The QR payload embeds the ID, so it is set before the row is written.
	reservation.QRCodeData = fmt.Sprintf("RES|%s|%.2f", reservation.ID, reservation.TotalAmount)

	if err := s.reservations.Create(ctx, reservation); err != nil {
		return nil, err
	}

	s.notifyStorekeeper(ctx, user, store, reservation)
	return reservation, nil
}

// GetByID returns one reservation with its items.
func (s *ReservationService) GetByID(ctx context.Context, id string) (*entities.Reservation, error) {
	return s.reservations.GetByID(ctx, id)
}

// ListForStorekeeper returns the reservations of the storekeeper's bodega,
// newest first.
func (s *ReservationService) ListForStorekeeper(ctx context.Context, ownerID string) ([]entities.Reservation, error) {
	store, err := s.stores.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	reservations, err := s.reservations.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	if reservations == nil {
		reservations = []entities.Reservation{}
	}
	return reservations, nil
}

// UpdateStatus settles a reservation as PAID, CREDIT, or CANCELLED.
func (s *ReservationService) UpdateStatus(ctx context.Context, id, status string) error {
	if !entities.IsValidReservationStatus(status) {
		return apperrors.NewValidationError("invalid reservation status")
	}
	return s.reservations.UpdateStatus(ctx, id, status)
}

func (s *ReservationService) notifyStorekeeper(ctx context.Context, client *entities.User, store *entities.Store, reservation *entities.Reservation) {
	owner, err := s.users.GetByID(ctx, store.OwnerID)
	if err != nil || owner.PhoneNumber == "" {
		log.Warn().Str("bodega_id", store.ID).Msg("storekeeper unreachable, skipping reservation notification")
		return
	}

	summaries := make([]string, 0, len(reservation.Items))
	for _, item := range reservation.Items {
		summaries = append(summaries, fmt.Sprintf("%dx %s", item.Quantity, item.ProductName))
	}

	body := fmt.Sprintf("[NUEVO PEDIDO] %s ha reservado: %s. Total: S/%.2f",
		shortClientName(client.FullName), strings.Join(summaries, ", "), reservation.TotalAmount)

	if err := s.notifier.SendText(ctx, owner.PhoneNumber, body); err != nil {
		log.Warn().Err(err).Str("bodega_id", store.ID).Msg("failed to notify storekeeper")
	}
}

// shortClientName renders "Juan Perez Quispe" as "Juan P.", enough for the
// storekeeper to recognize the neighbor without exposing the full name.
func shortClientName(fullName string) string {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "Cliente"
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return fmt.Sprintf("%s %c.", parts[0], []rune(parts[1])[0])
}
