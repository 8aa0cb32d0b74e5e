package session

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/matrimo/internal/client/client"
	"github.com/dmitrijs2005/matrimo/internal/client/models"
)

// User-facing messages for failures the server did not describe.
const (
	MsgGeneric     = "Something went wrong. Please try again."
	MsgUnavailable = "Unable to reach the server. Check your connection and try again."
)

// Destination is where the UI should go after startup.
type Destination string

const (
	DestinationHome       Destination = "home"
	DestinationOnboarding Destination = "onboarding"
)

// Result is the outcome of an operation. Error is empty on success and on
// cancellation.
type Result struct {
	Success  bool
	Error    string
	Canceled bool
}

// Failure wraps a caller-side validation error in a Result.
func Failure(err error) Result {
	if err == nil {
		return Result{Error: MsgGeneric}
	}
	return Result{Error: err.Error()}
}

func succeeded() Result {
	return Result{Success: true}
}

func canceled() Result {
	return Result{Canceled: true}
}

// message turns a collaborator error into text for the user.
func message(err error) string {
	var remote *client.RemoteError
	switch {
	case errors.As(err, &remote) && remote.Message != "":
		return remote.Message
	case errors.Is(err, client.ErrUnavailable):
		return MsgUnavailable
	default:
		return MsgGeneric
	}
}

// State is a point-in-time view of the session.
type State struct {
	User      *models.User
	IsLoading bool
}

// IsAuthenticated reports whether a user is present.
func (s State) IsAuthenticated() bool {
	return s.User != nil
}

// Store persists the session between runs.
type Store interface {
	SaveSession(ctx context.Context, accessToken, refreshToken string, user *models.User) error
	SaveTokens(ctx context.Context, accessToken, refreshToken string) error
	SaveUserInfo(ctx context.Context, user *models.User) error
	GetStoreToken(ctx context.Context) (string, error)
	GetRefreshToken(ctx context.Context) (string, error)
	GetUserInfo(ctx context.Context) (*models.User, error)
	ClearAllData(ctx context.Context) error
}
