package notifier

import (
	"context"

	"github.com/seguikro/cotisations/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/notifier_mock.go -package=mock

// Notifier publishes account notifications.
type Notifier interface {
	NotifyPasswordReset(ctx context.Context, event models.PasswordResetEvent) error
	Close() error
}
