package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/keaype/bodega-backend/internal/domain/entities"
	"github.com/keaype/bodega-backend/internal/domain/repositories"
	"github.com/keaype/bodega-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/keaype/bodega-backend/pkg/errors"
)

// ConversationAdapter implements ConversationRepository. The intent list
// lives as JSONB on conversation_states; the transcript is an append-only
// conversation_messages table.
type ConversationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewConversationAdapter creates a new conversation adapter
func NewConversationAdapter(client *postgres.Client) repositories.ConversationRepository {
	return &ConversationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Get returns the state for a user, transcript included, oldest message
// first.
func (a *ConversationAdapter) Get(ctx context.Context, userID string) (*entities.ConversationState, error) {
	query, args, err := a.db.Select("user_id", "intent_list", "updated_at").
		From("conversation_states").
		Where(goqu.Ex{"user_id": userID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	state := &entities.ConversationState{}
	var intentList []byte

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&state.UserID,
		&intentList,
		&state.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no conversation state for user %s", userID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get conversation state", err)
	}

	if len(intentList) > 0 {
		if err := json.Unmarshal(intentList, &state.IntentList); err != nil {
			return nil, apperrors.NewInternalError("failed to decode intent list", err)
		}
	}

	messages, err := a.listMessages(ctx, userID)
	if err != nil {
		return nil, err
	}
	state.Transcript = messages
	return state, nil
}

// SaveIntentList overwrites the user's intent list, creating the state row
// on first use.
func (a *ConversationAdapter) SaveIntentList(ctx context.Context, userID string, items []entities.ShoppingIntentItem) error {
	if items == nil {
		items = []entities.ShoppingIntentItem{}
	}
	encoded, err := json.Marshal(items)
	if err != nil {
		return apperrors.NewInternalError("failed to encode intent list", err)
	}

	now := time.Now().UTC()
	query, args, err := a.db.Insert("conversation_states").
		Rows(goqu.Record{
			"user_id":     userID,
			"intent_list": encoded,
			"updated_at":  now,
		}).
		OnConflict(goqu.DoUpdate("user_id", goqu.Record{
			"intent_list": encoded,
			"updated_at":  now,
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to save intent list", err)
	}
	return nil
}

// AppendMessages appends transcript entries in order.
func (a *ConversationAdapter) AppendMessages(ctx context.Context, userID string, messages []entities.ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}

	records := make([]interface{}, 0, len(messages))
	for _, message := range messages {
		timestamp := message.Timestamp
		if timestamp.IsZero() {
			timestamp = time.Now().UTC()
		}
		records = append(records, goqu.Record{
			"user_id":    userID,
			"role":       message.Role,
			"content":    message.Content,
			"created_at": timestamp,
		})
	}

	query, args, err := a.db.Insert("conversation_messages").
		Rows(records...).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to append messages", err)
	}
	return nil
}

func (a *ConversationAdapter) listMessages(ctx context.Context, userID string) ([]entities.ChatMessage, error) {
	query, args, err := a.db.Select("role", "content", "created_at").
		From("conversation_messages").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("created_at").Asc(), goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list messages", err)
	}
	defer rows.Close()

	var messages []entities.ChatMessage
	for rows.Next() {
		var message entities.ChatMessage
		if err := rows.Scan(&message.Role, &message.Content, &message.Timestamp); err != nil {
			return nil, apperrors.NewInternalError("failed to scan message", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read messages", err)
	}
	return messages, nil
}
