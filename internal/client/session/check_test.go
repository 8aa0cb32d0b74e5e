package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/matrimo/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jwtExpiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}

func TestCheckAuthStatus_NoSession(t *testing.T) {
	m, c, s := newTestManager(t)
	require.True(t, m.IsLoading())

	dest := m.CheckAuthStatus(context.Background())
	assert.Equal(t, DestinationOnboarding, dest)
	assert.False(t, m.IsAuthenticated())
	assert.False(t, m.IsLoading())
	assert.Equal(t, 0, s.clears)

	a, _ := c.Tokens()
	assert.Empty(t, a)
}

func TestCheckAuthStatus_RestoresValidSession(t *testing.T) {
	m, c, s := newTestManager(t)
	access := jwtExpiringAt(t, time.Now().Add(time.Hour))
	require.NoError(t, s.SaveSession(context.Background(), access, "opaque-refresh", asha()))

	dest := m.CheckAuthStatus(context.Background())
	assert.Equal(t, DestinationHome, dest)
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, asha(), m.User())
	assert.False(t, m.IsLoading())

	a, r := c.Tokens()
	assert.Equal(t, access, a)
	assert.Equal(t, "opaque-refresh", r)
}

func TestCheckAuthStatus_ExpiredAccessWithLiveRefresh(t *testing.T) {
	m, _, s := newTestManager(t)
	access := jwtExpiringAt(t, time.Now().Add(-time.Minute))
	refresh := jwtExpiringAt(t, time.Now().Add(24*time.Hour))
	require.NoError(t, s.SaveSession(context.Background(), access, refresh, asha()))

	assert.Equal(t, DestinationHome, m.CheckAuthStatus(context.Background()))
	assert.True(t, m.IsAuthenticated())
}

func TestCheckAuthStatus_UnusableSessionIsWiped(t *testing.T) {
	past := time.Now().Add(-time.Minute)

	tests := []struct {
		name    string
		access  func(t *testing.T) string
		refresh func(t *testing.T) string
		user    *models.User
	}{
		{
			name:    "both tokens expired",
			access:  func(t *testing.T) string { return jwtExpiringAt(t, past) },
			refresh: func(t *testing.T) string { return jwtExpiringAt(t, past) },
			user:    asha(),
		},
		{
			name:    "expired access and no refresh",
			access:  func(t *testing.T) string { return jwtExpiringAt(t, past) },
			refresh: func(*testing.T) string { return "" },
			user:    asha(),
		},
		{
			name:    "token without user",
			access:  func(*testing.T) string { return "opaque" },
			refresh: func(*testing.T) string { return "r" },
		},
		{
			name:    "user without token",
			access:  func(*testing.T) string { return "" },
			refresh: func(*testing.T) string { return "" },
			user:    asha(),
		},
		{
			name:    "user without id",
			access:  func(*testing.T) string { return "opaque" },
			refresh: func(*testing.T) string { return "" },
			user:    &models.User{Email: "asha@example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, c, s := newTestManager(t)
			s.accessToken, s.refreshToken, s.user = tt.access(t), tt.refresh(t), tt.user

			assert.Equal(t, DestinationOnboarding, m.CheckAuthStatus(context.Background()))
			assert.False(t, m.IsAuthenticated())
			assert.False(t, m.IsLoading())
			assert.True(t, s.empty())
			assert.Equal(t, 1, s.clears)

			a, _ := c.Tokens()
			assert.Empty(t, a)
		})
	}
}

func TestCheckAuthStatus_StoreErrorMeansOnboarding(t *testing.T) {
	m, _, s := newTestManager(t)
	s.accessToken, s.user = "a", asha()
	s.readErr = errors.New("stored session was sealed with a different secret")

	assert.Equal(t, DestinationOnboarding, m.CheckAuthStatus(context.Background()))
	assert.False(t, m.IsAuthenticated())
	assert.False(t, m.IsLoading())
	assert.Equal(t, 1, s.clears)
}

func TestCheckAuthStatus_CancelledStillEndsStartup(t *testing.T) {
	m, _, s := newTestManager(t)
	s.accessToken, s.refreshToken, s.user = "a", "r", asha()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, DestinationOnboarding, m.CheckAuthStatus(ctx))
	assert.False(t, m.IsAuthenticated())
	assert.False(t, m.IsLoading())
	assert.False(t, s.empty())
}

func TestCheckAuthStatus_LoadingFlipsOnce(t *testing.T) {
	m, _, _ := newTestManager(t)

	updates, stop := m.Subscribe()
	defer stop()

	first := <-updates
	assert.True(t, first.IsLoading)

	m.CheckAuthStatus(context.Background())
	last := drain(updates)
	assert.False(t, last.IsLoading)

	m.CheckAuthStatus(context.Background())
	assert.False(t, drain(updates).IsLoading)
	assert.False(t, m.IsLoading())
}

// drain returns the most recent value buffered on ch.
func drain(ch <-chan State) State {
	s := <-ch
	for {
		select {
		case next, ok := <-ch:
			if !ok {
				return s
			}
			s = next
		default:
			return s
		}
	}
}
