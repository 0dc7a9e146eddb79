package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/keaype/bodega-backend/internal/adapters/providers/identity"
	"github.com/keaype/bodega-backend/internal/domain/entities"
	"github.com/keaype/bodega-backend/internal/domain/providers"
	"github.com/keaype/bodega-backend/internal/domain/repositories"
	apperrors "github.com/keaype/bodega-backend/pkg/errors"
)

// AuthService handles DNI-based onboarding and login. The flow is two-step:
// consult the DNI first (does this neighbor already have an account, and if
// not, who does the registry say they are), then register or log in.
type AuthService struct {
	users    repositories.UserRepository
	registry providers.IdentityProvider
}

// NewAuthService creates a new auth service
func NewAuthService(users repositories.UserRepository, registry providers.IdentityProvider) *AuthService {
	return &AuthService{
		users:    users,
		registry: registry,
	}
}

// ConsultDNIResult is the outcome of the pre-registration lookup. For
// existing accounts the stored name comes back as-is; for unknown DNIs the
// registry name is masked so the client can confirm identity without the
// API leaking personal data.
type ConsultDNIResult struct {
	Exists     bool   `json:"exists"`
	MaskedName string `json:"masked_name"`
	Message    string `json:"message"`
}

// ConsultDNI checks whether a DNI already has an account and resolves the
// holder's (masked) name otherwise.
func (s *AuthService) ConsultDNI(ctx context.Context, dni string) (*ConsultDNIResult, error) {
	if len(dni) != 8 {
		return nil, apperrors.NewValidationError("dni must be exactly 8 digits")
	}

	user, err := s.users.GetByDNI(ctx, dni)
	if err == nil {
		return &ConsultDNIResult{
			Exists:     true,
			MaskedName: user.FullName,
			Message:    "Usuario ya registrado",
		}, nil
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}

	person, err := s.registry.LookupDNI(ctx, dni)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, err
		}
		// Registry outages must not block onboarding.
		log.Warn().Err(err).Msg("identity registry lookup failed, onboarding without verification")
		return &ConsultDNIResult{
			Exists:     false,
			MaskedName: "VECINO NUEVO",
			Message:    "¿Eres tú?",
		}, nil
	}

	return &ConsultDNIResult{
		Exists:     false,
		MaskedName: identity.ObfuscateName(person.FullName),
		Message:    "¿Eres tú?",
	}, nil
}

// RegisterParams are the inputs for account creation.
type RegisterParams struct {
	DNI         string
	Password    string
	PhoneNumber string
	Role        string
}

// Register creates an account for a DNI that passed consultation.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (*entities.User, error) {
	if len(params.DNI) != 8 {
		return nil, apperrors.NewValidationError("dni must be exactly 8 digits")
	}
	if params.Password == "" {
		return nil, apperrors.NewValidationError("password is required")
	}

	role := params.Role
	if role == "" {
		role = entities.RoleClient
	}
	if role != entities.RoleClient && role != entities.RoleStorekeeper {
		return nil, apperrors.NewValidationError("role must be CLIENT or BODEGUERO")
	}

	if _, err := s.users.GetByDNI(ctx, params.DNI); err == nil {
		return nil, apperrors.NewConflictError("dni already registered")
	} else if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}

	fullName := "Usuario " + params.DNI
	verified := false
	if person, err := s.registry.LookupDNI(ctx, params.DNI); err == nil {
		fullName = person.FullName
		verified = true
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	user := &entities.User{
		DNI:          params.DNI,
		FullName:     fullName,
		PhoneNumber:  params.PhoneNumber,
		PasswordHash: string(hash),
		Role:         role,
		IsVerified:   verified,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login validates DNI + password and returns the account.
func (s *AuthService) Login(ctx context.Context, dni, password string) (*entities.User, error) {
	user, err := s.users.GetByDNI(ctx, dni)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewNotFoundError("usuario no encontrado")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.NewUnauthorizedError("contraseña incorrecta")
	}
	return user, nil
}
