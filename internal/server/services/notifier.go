package services

import (
	"context"

	"github.com/dmitrijs2005/matrimo/internal/logging"
)

// Notifier delivers password-reset codes to the account owner.
type Notifier interface {
	SendResetCode(ctx context.Context, email, code string) error
}

// LogNotifier writes reset codes to the log. There is no mail transport.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(l logging.Logger) *LogNotifier {
	return &LogNotifier{logger: l.With("module", "notifier")}
}

func (n *LogNotifier) SendResetCode(ctx context.Context, email, code string) error {
	n.logger.Info(ctx, "password reset code issued", "email", email, "code", code)
	return nil
}
