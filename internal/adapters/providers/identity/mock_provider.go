package identity

import (
	"context"
	"fmt"

	"github.com/keaype/bodega-backend/internal/domain/providers"
	apperrors "github.com/keaype/bodega-backend/pkg/errors"
)

// MockProvider is a deterministic stand-in for local development without a
// registry token. Any well-formed DNI resolves to a synthetic neighbor.
type MockProvider struct{}

// NewMockProvider creates a new mock identity provider
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// LookupDNI resolves any 8-digit DNI to a synthetic person.
func (p *MockProvider) LookupDNI(_ context.Context, dni string) (*providers.Person, error) {
	if len(dni) != 8 {
		return nil, apperrors.NewValidationError("dni must be exactly 8 digits")
	}
	return &providers.Person{
		DNI:                dni,
		FullName:           fmt.Sprintf("VECINO %s", dni),
		VerificationSource: "MOCK",
	}, nil
}
