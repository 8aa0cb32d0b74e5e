// Package passwordresets stores pending password-reset codes, at most one
// per email.
package passwordresets

import (
	"context"

	"github.com/dmitrijs2005/matrimo/internal/server/models"
)

type Repository interface {
	// Save inserts or replaces the pending reset for reset.Email.
	Save(ctx context.Context, reset *models.PasswordReset) error
	// Find returns common.ErrorNotFound when no reset is pending for email.
	Find(ctx context.Context, email string) (*models.PasswordReset, error)
	// RecordAttempt bumps the failed-attempt counter and returns its new value.
	RecordAttempt(ctx context.Context, email string) (int, error)
	MarkVerified(ctx context.Context, email string) error
	Delete(ctx context.Context, email string) error
}
