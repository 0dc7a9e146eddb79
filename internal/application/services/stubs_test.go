package services

import (
	"context"
	"fmt"

	"github.com/keaype/bodega-backend/internal/domain/entities"
	"github.com/keaype/bodega-backend/internal/domain/providers"
	"github.com/keaype/bodega-backend/internal/domain/repositories"
	apperrors "github.com/keaype/bodega-backend/pkg/errors"
)

type stubUsers struct {
	byID           map[string]*entities.User
	contactUpdates int
}

func newStubUsers(users ...*entities.User) *stubUsers {
	s := &stubUsers{byID: make(map[string]*entities.User)}
	for _, user := range users {
		s.byID[user.ID] = user
	}
	return s
}

func (s *stubUsers) GetByID(_ context.Context, id string) (*entities.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (s *stubUsers) GetByDNI(_ context.Context, dni string) (*entities.User, error) {
	for _, user := range s.byID {
		if user.DNI == dni {
			return user, nil
		}
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (s *stubUsers) Create(_ context.Context, user *entities.User) error {
	if user.ID == "" {
		user.ID = "user-" + user.DNI
	}
	s.byID[user.ID] = user
	return nil
}

func (s *stubUsers) UpdateContact(_ context.Context, userID, email, phoneNumber string) error {
	user, ok := s.byID[userID]
	if !ok {
		return apperrors.NewNotFoundError("user not found")
	}
	user.Email = email
	user.PhoneNumber = phoneNumber
	s.contactUpdates++
	return nil
}

type stubStores struct {
	store       *entities.Store
	schedules   []entities.StoreSchedule
	overrides   []*string
	profileName string
}

func (s *stubStores) GetByID(_ context.Context, id string) (*entities.Store, error) {
	if s.store != nil && s.store.ID == id {
		return s.store, nil
	}
	return nil, apperrors.NewNotFoundError("store not found")
}

func (s *stubStores) GetByOwner(_ context.Context, ownerID string) (*entities.Store, error) {
	if s.store != nil && s.store.OwnerID == ownerID {
		return s.store, nil
	}
	return nil, apperrors.NewNotFoundError("store not found")
}

func (s *stubStores) GetSchedules(_ context.Context, _ string) ([]entities.StoreSchedule, error) {
	return s.schedules, nil
}

func (s *stubStores) SetManualOverride(_ context.Context, _ string, override *string) error {
	s.overrides = append(s.overrides, override)
	return nil
}

func (s *stubStores) UpdateProfile(_ context.Context, _, name, _ string) error {
	s.profileName = name
	return nil
}

type stubInventory struct {
	rows  map[int]*entities.StoreOffer
	lines []repositories.InventoryLine
}

func newStubInventory() *stubInventory {
	return &stubInventory{rows: make(map[int]*entities.StoreOffer)}
}

func (s *stubInventory) ListByStore(_ context.Context, _ string) ([]repositories.InventoryLine, error) {
	return s.lines, nil
}

func (s *stubInventory) Get(_ context.Context, _ string, productID int) (*entities.StoreOffer, error) {
	if offer, ok := s.rows[productID]; ok {
		return offer, nil
	}
	return nil, apperrors.NewNotFoundError("not in inventory")
}

func (s *stubInventory) Create(_ context.Context, offer *entities.StoreOffer) error {
	if _, ok := s.rows[offer.ProductID]; ok {
		return apperrors.NewConflictError("already in inventory")
	}
	s.rows[offer.ProductID] = offer
	return nil
}

func (s *stubInventory) Update(_ context.Context, offer *entities.StoreOffer) error {
	if _, ok := s.rows[offer.ProductID]; !ok {
		return apperrors.NewNotFoundError("not in inventory")
	}
	s.rows[offer.ProductID] = offer
	return nil
}

type stubMasterCatalog struct {
	products    map[string]*entities.CatalogProduct
	nextID      int
	suggestions []entities.CatalogProduct
}

func newStubMasterCatalog() *stubMasterCatalog {
	return &stubMasterCatalog{products: make(map[string]*entities.CatalogProduct), nextID: 1}
}

func masterKey(name, category string) string {
	return name + "|" + category
}

func (s *stubMasterCatalog) SearchCandidates(context.Context, repositories.CandidateSearchParams) ([]entities.Candidate, error) {
	return nil, nil
}

func (s *stubMasterCatalog) GetProductByID(_ context.Context, id int) (*entities.CatalogProduct, error) {
	for _, product := range s.products {
		if product.ID == id {
			return product, nil
		}
	}
	return nil, apperrors.NewNotFoundError("product not found")
}

func (s *stubMasterCatalog) FindProductByNameCategory(_ context.Context, name, category string) (*entities.CatalogProduct, error) {
	if product, ok := s.products[masterKey(name, category)]; ok {
		return product, nil
	}
	return nil, apperrors.NewNotFoundError("product not found")
}

func (s *stubMasterCatalog) CreateProduct(_ context.Context, product *entities.CatalogProduct) error {
	product.ID = s.nextID
	s.nextID++
	s.products[masterKey(product.Name, product.Category)] = product
	return nil
}

func (s *stubMasterCatalog) SuggestProducts(_ context.Context, _ string, _ int) ([]entities.CatalogProduct, error) {
	return s.suggestions, nil
}

type stubIndex struct {
	indexed     []int
	suggestions []entities.CatalogProduct
	err         error
}

func (s *stubIndex) InitSchema(context.Context) error { return nil }

func (s *stubIndex) Index(_ context.Context, product *entities.CatalogProduct) error {
	s.indexed = append(s.indexed, product.ID)
	return nil
}

func (s *stubIndex) Suggest(_ context.Context, _ string, _ int) ([]entities.CatalogProduct, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.suggestions, nil
}

func (s *stubIndex) Delete(context.Context, int) error { return nil }

type stubReservations struct {
	created []*entities.Reservation
	status  map[string]string
}

func newStubReservations() *stubReservations {
	return &stubReservations{status: make(map[string]string)}
}

func (s *stubReservations) Create(_ context.Context, reservation *entities.Reservation) error {
	if reservation.ID == "" {
		reservation.ID = fmt.Sprintf("res-%04d", len(s.created)+1)
	}
	s.created = append(s.created, reservation)
	return nil
}

func (s *stubReservations) GetByID(_ context.Context, id string) (*entities.Reservation, error) {
	for _, reservation := range s.created {
		if reservation.ID == id {
			return reservation, nil
		}
	}
	return nil, apperrors.NewNotFoundError("reservation not found")
}

func (s *stubReservations) ListByStore(_ context.Context, storeID string) ([]entities.Reservation, error) {
	var reservations []entities.Reservation
	for i := len(s.created) - 1; i >= 0; i-- {
		if s.created[i].StoreID == storeID {
			reservations = append(reservations, *s.created[i])
		}
	}
	return reservations, nil
}

func (s *stubReservations) UpdateStatus(_ context.Context, id, status string) error {
	s.status[id] = status
	return nil
}

type stubNotifier struct {
	to     []string
	bodies []string
	err    error
}

func (s *stubNotifier) SendText(_ context.Context, toPhoneNumber, body string) error {
	if s.err != nil {
		return s.err
	}
	s.to = append(s.to, toPhoneNumber)
	s.bodies = append(s.bodies, body)
	return nil
}

type stubIdentity struct {
	person *providers.Person
	err    error
}

func (s *stubIdentity) LookupDNI(_ context.Context, dni string) (*providers.Person, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.person != nil {
		return s.person, nil
	}
	return nil, apperrors.NewNotFoundError("dni not found")
}
