// Package users declares the account repository and its PostgreSQL and
// in-memory implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/matrimo/internal/server/models"
)

// Repository stores accounts. Emails are unique and compared as stored;
// callers normalize them first.
type Repository interface {
	// Create inserts user and fills in ID and CreatedAt. A taken email yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByEmail returns common.ErrorNotFound when no account matches.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// UpdatePassword replaces the stored salt and verifier.
	UpdatePassword(ctx context.Context, id string, salt, verifier []byte) error
}
