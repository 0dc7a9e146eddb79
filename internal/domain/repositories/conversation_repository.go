package repositories

import (
	"context"

	"github.com/keaype/bodega-backend/internal/domain/entities"
)

// ConversationRepository persists per-user conversation state: the current
// structured intent list plus the append-only transcript. States are
// created on first use and retained indefinitely.
type ConversationRepository interface {
	// Get returns the state for a user, or a not-found error when the user
	// has never searched
	Get(ctx context.Context, userID string) (*entities.ConversationState, error)

	// SaveIntentList overwrites the user's intent list, creating the state
	// row when absent
	SaveIntentList(ctx context.Context, userID string, items []entities.ShoppingIntentItem) error

	// AppendMessages appends transcript entries in order
	AppendMessages(ctx context.Context, userID string, messages []entities.ChatMessage) error
}
