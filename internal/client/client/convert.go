package client

import (
	"sync"

	"github.com/dmitrijs2005/matrimo/internal/client/models"
	"github.com/dmitrijs2005/matrimo/internal/wire"
)

func userFromWire(u wire.User) *models.User {
	return &models.User{
		ID:              u.ID,
		Email:           u.Email,
		FullName:        u.FullName,
		Phone:           u.Phone,
		IsVerified:      u.IsVerified,
		ProfileComplete: u.ProfileComplete,
	}
}

func registrationToWire(r *models.Registration) wire.RegisterRequest {
	return wire.RegisterRequest{
		FullName:    r.FullName,
		Email:       r.Email,
		Phone:       r.Phone,
		Password:    string(r.Password),
		Gender:      r.Gender,
		DateOfBirth: r.DateOfBirth,
		ProfileFor:  string(r.ProfileFor),
	}
}

// tokenStore is the token pair shared by both transports.
type tokenStore struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	onRefresh    func(accessToken, refreshToken string)
}

func (t *tokenStore) SetTokens(accessToken, refreshToken string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.accessToken = accessToken
	t.refreshToken = refreshToken
}

func (t *tokenStore) Tokens() (string, string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.accessToken, t.refreshToken
}

func (t *tokenStore) OnTokensRefreshed(fn func(accessToken, refreshToken string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRefresh = fn
}

// refreshed stores a rotated pair and notifies the hook outside the lock.
func (t *tokenStore) refreshed(accessToken, refreshToken string) {
	t.mu.Lock()
	t.accessToken = accessToken
	t.refreshToken = refreshToken
	hook := t.onRefresh
	t.mu.Unlock()

	if hook != nil {
		hook(accessToken, refreshToken)
	}
}
