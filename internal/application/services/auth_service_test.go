package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/keaype/bodega-backend/internal/domain/entities"
	"github.com/keaype/bodega-backend/internal/domain/providers"
	apperrors "github.com/keaype/bodega-backend/pkg/errors"
)

func TestConsultDNIExistingUserReturnsStoredName(t *testing.T) {
	users := newStubUsers(&entities.User{ID: "user-1", DNI: "11111111", FullName: "Juan Perez", Role: entities.RoleClient})
	service := NewAuthService(users, &stubIdentity{})

	result, err := service.ConsultDNI(context.Background(), "11111111")
	require.NoError(t, err)
	assert.True(t, result.Exists)
	assert.Equal(t, "Juan Perez", result.MaskedName, "known accounts get their stored name back unmasked")
	assert.Equal(t, "Usuario ya registrado", result.Message)
}

func TestConsultDNIUnknownUserMasksRegistryName(t *testing.T) {
	users := newStubUsers()
	registry := &stubIdentity{person: &providers.Person{DNI: "44444444", FullName: "MARIA QUISPE"}}
	service := NewAuthService(users, registry)

	result, err := service.ConsultDNI(context.Background(), "44444444")
	require.NoError(t, err)
	assert.False(t, result.Exists)
	assert.Equal(t, "MA*** QU****", result.MaskedName)
	assert.Equal(t, "¿Eres tú?", result.Message)
}

func TestConsultDNIRegistryOutageDoesNotBlock(t *testing.T) {
	users := newStubUsers()
	registry := &stubIdentity{err: apperrors.NewUnavailableError("registry down", nil)}
	service := NewAuthService(users, registry)

	result, err := service.ConsultDNI(context.Background(), "44444444")
	require.NoError(t, err, "a registry outage must not block onboarding")
	assert.False(t, result.Exists)
	assert.Equal(t, "VECINO NUEVO", result.MaskedName)
}

func TestConsultDNIValidatesLength(t *testing.T) {
	service := NewAuthService(newStubUsers(), &stubIdentity{})

	_, err := service.ConsultDNI(context.Background(), "123")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestRegisterVerifiesAgainstRegistry(t *testing.T) {
	users := newStubUsers()
	registry := &stubIdentity{person: &providers.Person{DNI: "44444444", FullName: "MARIA QUISPE"}}
	service := NewAuthService(users, registry)

	user, err := service.Register(context.Background(), RegisterParams{
		DNI:         "44444444",
		Password:    "secreto123",
		PhoneNumber: "+51999888777",
	})
	require.NoError(t, err)

	assert.Equal(t, "MARIA QUISPE", user.FullName)
	assert.True(t, user.IsVerified)
	assert.Equal(t, entities.RoleClient, user.Role, "role defaults to CLIENT")
	assert.NotEqual(t, "secreto123", user.PasswordHash, "the password is never stored in the clear")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secreto123")))
}

func TestRegisterWithoutRegistryStaysUnverified(t *testing.T) {
	service := NewAuthService(newStubUsers(), &stubIdentity{err: errors.New("registry down")})

	user, err := service.Register(context.Background(), RegisterParams{
		DNI: "44444444", Password: "secreto123", Role: entities.RoleStorekeeper,
	})
	require.NoError(t, err)
	assert.False(t, user.IsVerified)
	assert.Equal(t, "Usuario 44444444", user.FullName)
	assert.Equal(t, entities.RoleStorekeeper, user.Role)
}

func TestRegisterConflictsOnExistingDNI(t *testing.T) {
	users := newStubUsers(&entities.User{ID: "user-1", DNI: "11111111", FullName: "Juan Perez"})
	service := NewAuthService(users, &stubIdentity{})

	_, err := service.Register(context.Background(), RegisterParams{DNI: "11111111", Password: "x"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	service := NewAuthService(newStubUsers(), &stubIdentity{})

	_, err := service.Register(context.Background(), RegisterParams{
		DNI: "44444444", Password: "x", Role: "SUPERVISOR",
	})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestLoginChecksPassword(t *testing.T) {
	service := NewAuthService(newStubUsers(), &stubIdentity{err: errors.New("registry down")})

	registered, err := service.Register(context.Background(), RegisterParams{
		DNI: "44444444", Password: "secreto123",
	})
	require.NoError(t, err)

	user, err := service.Login(context.Background(), "44444444", "secreto123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = service.Login(context.Background(), "44444444", "otracosa")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))

	_, err = service.Login(context.Background(), "99999999", "secreto123")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
