package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense"

	"github.com/keaype/bodega-backend/pkg/config"
	"github.com/keaype/bodega-backend/pkg/retry"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	// Test connection with retry
	err := retry.Do(context.Background(), retry.DefaultConfig(), func(attempt int) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, healthErr := client.Health(ctx, 2*time.Second); healthErr != nil {
			log.Warn().Int("attempt", attempt+1).Err(healthErr).Msg("Typesense connection attempt failed")
			return healthErr
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	log.Info().Msg("Successfully connected to Typesense")
	return &Client{client: client}, nil
}

// NewClientFromTypesense wraps an existing typesense client, used by tests
func NewClientFromTypesense(client *typesense.Client) *Client {
	return &Client{client: client}
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}
