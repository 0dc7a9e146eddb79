package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/keaype/bodega-backend/internal/domain/providers"
	"github.com/keaype/bodega-backend/pkg/config"
)

// WhatsAppCloudSender sends messages via the WhatsApp Cloud API
type WhatsAppCloudSender struct {
	accessToken   string
	phoneNumberID string
	httpClient    *http.Client
	baseURL       string
}

// Ensure WhatsAppCloudSender implements NotificationSender
var _ providers.NotificationSender = (*WhatsAppCloudSender)(nil)

// NewWhatsAppCloudSender creates a new WhatsApp sender
func NewWhatsAppCloudSender(cfg *config.WhatsAppConfig) (*WhatsAppCloudSender, error) {
	if cfg == nil || cfg.AccessToken == "" || cfg.PhoneNumberID == "" {
		return nil, fmt.Errorf("whatsapp access token and phone number id must be set")
	}

	return &WhatsAppCloudSender{
		accessToken:   cfg.AccessToken,
		phoneNumberID: cfg.PhoneNumberID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: "https://graph.facebook.com/v18.0",
	}, nil
}

// whatsAppTextMessage represents a text message payload
type whatsAppTextMessage struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		PreviewURL bool   `json:"preview_url"`
		Body       string `json:"body"`
	} `json:"text"`
}

// SendText sends a plain text message to a phone number in E.164 format.
func (w *WhatsAppCloudSender) SendText(ctx context.Context, toPhoneNumber, body string) error {
	message := whatsAppTextMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               toPhoneNumber,
		Type:             "text",
	}
	message.Text.Body = body

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode whatsapp message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", w.baseURL, w.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build whatsapp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+w.accessToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send whatsapp message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("whatsapp api returned status %d: %s", resp.StatusCode, string(responseBody))
	}
	return nil
}
