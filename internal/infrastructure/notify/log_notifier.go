package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/madinti/madinti-api/internal/core/domain"
)

// LogNotifier writes messages to the log instead of sending them. It prints
// the OTP in clear and is meant for local development only.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "sms").Logger()}
}

func (n *LogNotifier) Send(_ context.Context, phone, body string) error {
	n.log.Info().
		Str("to", domain.MaskPhone(phone)).
		Str("body", body).
		Msg("sms (not sent)")
	return nil
}
