package client

import (
	"context"

	"github.com/dmitrijs2005/matrimo/internal/client/models"
)

// Client is the auth collaborator the session talks to.
type Client interface {
	Close() error
	Login(ctx context.Context, email string, password []byte) (*models.AuthData, error)
	Register(ctx context.Context, reg *models.Registration) error
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) error
	VerifyResetOTP(ctx context.Context, email string, otp string) error
	ResetPassword(ctx context.Context, email string, otp string, newPassword []byte) error
	Ping(ctx context.Context) error

	// SetTokens installs a token pair, e.g. one restored from local storage.
	// Empty strings drop the current pair.
	SetTokens(accessToken, refreshToken string)
	Tokens() (accessToken, refreshToken string)
	// OnTokensRefreshed registers fn to be called after a transparent refresh.
	OnTokensRefreshed(fn func(accessToken, refreshToken string))
}
