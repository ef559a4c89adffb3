package ports

import "context"

// Notifier delivers a text message to a phone number. Delivery is best
// effort: callers log failures and never roll back state because of them.
type Notifier interface {
	Send(ctx context.Context, phoneNumber, message string) error
}
