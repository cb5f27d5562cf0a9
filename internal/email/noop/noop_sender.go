package noop

import (
	"context"

	"go.uber.org/zap"

	"jwtauth/internal/port"
)

type noopSender struct {
	log *zap.Logger
}

// NewNoopSender creates a no-op EmailSender that only logs what it would send.
func NewNoopSender(log *zap.Logger) port.EmailSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &noopSender{log: log}
}

func (s *noopSender) SendWelcomeEmail(_ context.Context, toEmail, toName string) error {
	s.log.Info("[NOOP EMAIL] welcome email",
		zap.String("to", toEmail),
		zap.String("name", toName),
	)
	return nil
}
