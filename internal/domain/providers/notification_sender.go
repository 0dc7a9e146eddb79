package providers

import "context"

// NotificationSender delivers short text notifications to storekeepers
// (new reservation alerts). Delivery is best effort: a failed send is
// logged, never surfaced to the reserving client.
type NotificationSender interface {
	SendText(ctx context.Context, toPhoneNumber, body string) error
}
