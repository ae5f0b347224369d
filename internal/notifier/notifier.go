// Package notifier delivers password reset links to users out of band.
//
// The raw reset token is only ever part of the event payload. It is never
// written to logs nor returned to HTTP clients.
package notifier

import (
	"context"
	"errors"

	"github.com/seguikro/cotisations/internal/config"
	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/models"
)

var (
	ErrPublishingEvent = errors.New("error publishing notification event")
	ErrEncodingEvent   = errors.New("error encoding notification event")
)

// New returns a Kafka backed notifier when brokers are configured and a
// log-only notifier otherwise.
func New(cfg config.Notifier, log *logger.Logger) Notifier {
	if !cfg.Enabled() {
		log.Warn().Msg("no kafka brokers configured, password reset links will not be delivered")
		return NewLogNotifier(log)
	}
	return NewKafkaNotifier(cfg, log)
}

// LogNotifier records that a reset was requested without the link.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyPasswordReset(_ context.Context, event models.PasswordResetEvent) error {
	n.log.Info().
		Str("user_id", event.UserID).
		Time("expires_at", event.ExpiresAt).
		Msg("password reset requested, no delivery channel configured")
	return nil
}

func (n *LogNotifier) Close() error {
	return nil
}
