package providers

import (
	"context"

	"github.com/keaype/bodega-backend/internal/domain/entities"
)

// IntentInterpreter turns a raw utterance plus the prior structured intent
// list into the new intent list. The returned list is ground truth: the
// engine persists it verbatim, without diffing or merging. An empty list
// signals pure conversation with no actionable shopping intent.
//
// Implementations handle their own transient-failure recovery (model
// rotation); an error from this interface is terminal for the call and the
// caller falls back to the prior state unchanged.
type IntentInterpreter interface {
	InterpretIntent(ctx context.Context, utterance string, prior []entities.ShoppingIntentItem, history []entities.ChatMessage) ([]entities.ShoppingIntentItem, error)
}

// ResponseComposer renders the outcome of a search turn as a short
// natural-language reply. Terminal failure is absorbed by the caller with a
// fixed generic reply; it must never fail the overall request.
type ResponseComposer interface {
	ComposeReply(ctx context.Context, utterance, outcomeSummary string) (string, error)
}
