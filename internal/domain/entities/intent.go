package entities

import "time"

// Transcript roles.
const (
	RoleTurnUser      = "user"
	RoleTurnAssistant = "assistant"
)

// ShoppingIntentItem is one distinct product need extracted from the
// conversation. MustContain tokens gate a match, MustNotContain tokens
// disqualify it, PreferredAttributes only add score.
type ShoppingIntentItem struct {
	ProductName         string   `json:"product_name"`
	Quantity            int      `json:"quantity,omitempty"`
	MustContain         []string `json:"must_contain,omitempty"`
	MustNotContain      []string `json:"must_not_contain,omitempty"`
	PreferredAttributes []string `json:"preferred_attributes,omitempty"`
}

// EffectiveQuantity returns the requested quantity, defaulting to 1.
func (i *ShoppingIntentItem) EffectiveQuantity() int {
	if i.Quantity < 1 {
		return 1
	}
	return i.Quantity
}

// IsDegenerate reports whether a must_contain token also appears in
// must_not_contain. Such an item can never be satisfied and scores no
// matches instead of failing the request.
func (i *ShoppingIntentItem) IsDegenerate() bool {
	if len(i.MustContain) == 0 || len(i.MustNotContain) == 0 {
		return false
	}
	banned := make(map[string]struct{}, len(i.MustNotContain))
	for _, token := range i.MustNotContain {
		banned[token] = struct{}{}
	}
	for _, token := range i.MustContain {
		if _, ok := banned[token]; ok {
			return true
		}
	}
	return false
}

// ChatMessage is one transcript entry. The transcript is append-only; the
// structured intent list, not the transcript, is the state the interpreter
// mutates, though a few recent turns accompany it as context.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationState is the per-user memory of the shopping conversation:
// the current structured intent list plus the raw transcript. At most one
// active state exists per user and it is retained indefinitely.
type ConversationState struct {
	UserID     string               `json:"user_id"`
	IntentList []ShoppingIntentItem `json:"intent_list"`
	Transcript []ChatMessage        `json:"transcript"`
	UpdatedAt  time.Time            `json:"updated_at"`
}
