package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/keaype/bodega-backend/internal/domain/providers"
	"github.com/keaype/bodega-backend/pkg/config"
	apperrors "github.com/keaype/bodega-backend/pkg/errors"
)

const defaultBaseURL = "https://apiperu.dev/api/dni"

// APIPeruProvider resolves DNIs against the apiperu.dev registry mirror. A
// circuit breaker guards the upstream: once it trips, lookups fail fast
// until the cool-down elapses.
type APIPeruProvider struct {
	baseURL    string
	token      string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewAPIPeruProvider creates a new apiperu.dev identity provider
func NewAPIPeruProvider(cfg *config.ReniecConfig) (*APIPeruProvider, error) {
	if cfg == nil || cfg.Token == "" {
		return nil, fmt.Errorf("reniec api token is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "apiperu-dni",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &APIPeruProvider{
		baseURL:    baseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		breaker:    breaker,
	}, nil
}

type dniResponse struct {
	Success bool `json:"success"`
	Data    *struct {
		Nombres         string `json:"nombres"`
		ApellidoPaterno string `json:"apellido_paterno"`
		ApellidoMaterno string `json:"apellido_materno"`
	} `json:"data"`
}

// LookupDNI resolves an 8-digit DNI to a person record.
func (p *APIPeruProvider) LookupDNI(ctx context.Context, dni string) (*providers.Person, error) {
	if len(dni) != 8 {
		return nil, apperrors.NewValidationError("dni must be exactly 8 digits")
	}

	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.lookup(ctx, dni)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, apperrors.NewUnavailableError("identity registry temporarily unavailable", err)
	}
	if err != nil {
		return nil, err
	}
	return result.(*providers.Person), nil
}

func (p *APIPeruProvider) lookup(ctx context.Context, dni string) (*providers.Person, error) {
	url := fmt.Sprintf("%s/%s?api_token=%s", p.baseURL, dni, p.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build registry request", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to reach identity registry", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewExternalError(fmt.Sprintf("identity registry returned status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperrors.NewExternalError("failed to read registry response", err)
	}

	var parsed dniResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperrors.NewExternalError("failed to decode registry response", err)
	}
	if !parsed.Success || parsed.Data == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("dni %s not found in registry", dni))
	}

	fullName := strings.TrimSpace(fmt.Sprintf("%s %s %s",
		parsed.Data.Nombres, parsed.Data.ApellidoPaterno, parsed.Data.ApellidoMaterno))

	return &providers.Person{
		DNI:                dni,
		FullName:           fullName,
		VerificationSource: "APIPERU_DEV",
	}, nil
}

// ObfuscateName masks every word of a name after its first two letters:
// "JOSE PEREZ" becomes "JO** PE***".
func ObfuscateName(fullName string) string {
	if fullName == "" {
		return ""
	}

	parts := strings.Fields(fullName)
	masked := make([]string, 0, len(parts))
	for _, part := range parts {
		runes := []rune(part)
		if len(runes) > 2 {
			masked = append(masked, string(runes[:2])+strings.Repeat("*", len(runes)-2))
		} else {
			masked = append(masked, part)
		}
	}
	return strings.Join(masked, " ")
}
