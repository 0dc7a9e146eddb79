package notifications

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/keaype/bodega-backend/internal/domain/providers"
)

// LogSender writes notifications to the application log instead of a real
// channel. Used in development and whenever WhatsApp credentials are absent.
type LogSender struct{}

// Ensure LogSender implements NotificationSender
var _ providers.NotificationSender = (*LogSender)(nil)

// NewLogSender creates a new log-only sender
func NewLogSender() *LogSender {
	return &LogSender{}
}

// SendText logs the message instead of delivering it.
func (s *LogSender) SendText(_ context.Context, toPhoneNumber, body string) error {
	log.Info().
		Str("to", toPhoneNumber).
		Str("body", body).
		Msg("notification (log only)")
	return nil
}
