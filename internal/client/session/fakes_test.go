package session

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/matrimo/internal/client/models"
	"github.com/dmitrijs2005/matrimo/internal/logging"
)

type fakeClient struct {
	mu sync.Mutex

	accessToken  string
	refreshToken string
	onRefresh    func(string, string)

	loginFn   func(ctx context.Context, email string, password []byte) (*models.AuthData, error)
	logoutErr error
	onLogout  func()
	err       error // returned by Register and the password-reset calls

	logoutCalls int
	lastReg     *models.Registration
	lastEmail   string
	lastOTP     string
	lastNewPass []byte
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) Login(ctx context.Context, email string, password []byte) (*models.AuthData, error) {
	f.mu.Lock()
	fn := f.loginFn
	f.mu.Unlock()

	if fn == nil {
		return nil, nil
	}
	data, err := fn(ctx, email, password)
	if err == nil && data != nil {
		f.SetTokens(data.AccessToken, data.RefreshToken)
	}
	return data, err
}

func (f *fakeClient) Register(_ context.Context, reg *models.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastReg = reg
	return f.err
}

func (f *fakeClient) Logout(context.Context) error {
	f.mu.Lock()
	f.logoutCalls++
	hook, err := f.onLogout, f.logoutErr
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return err
}

func (f *fakeClient) ForgotPassword(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastEmail = email
	return f.err
}

func (f *fakeClient) VerifyResetOTP(_ context.Context, email string, otp string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastEmail, f.lastOTP = email, otp
	return f.err
}

func (f *fakeClient) ResetPassword(_ context.Context, email string, otp string, newPassword []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastEmail, f.lastOTP, f.lastNewPass = email, otp, newPassword
	return f.err
}

func (f *fakeClient) Ping(context.Context) error { return nil }

func (f *fakeClient) SetTokens(accessToken, refreshToken string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accessToken, f.refreshToken = accessToken, refreshToken
}

func (f *fakeClient) Tokens() (string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accessToken, f.refreshToken
}

func (f *fakeClient) OnTokensRefreshed(fn func(string, string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onRefresh = fn
}

func (f *fakeClient) setLogin(fn func(ctx context.Context, email string, password []byte) (*models.AuthData, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginFn = fn
}

// memStore is an in-memory Store with injectable failures.
type memStore struct {
	mu sync.Mutex

	accessToken  string
	refreshToken string
	user         *models.User

	saveErr  error
	readErr  error
	clearErr error

	clears int
}

func (s *memStore) SaveSession(_ context.Context, accessToken, refreshToken string, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.accessToken, s.refreshToken, s.user = accessToken, refreshToken, user.Clone()
	return nil
}

func (s *memStore) SaveTokens(_ context.Context, accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.accessToken, s.refreshToken = accessToken, refreshToken
	return nil
}

func (s *memStore) SaveUserInfo(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.user = user.Clone()
	return nil
}

func (s *memStore) GetStoreToken(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.readErr
}

func (s *memStore) GetRefreshToken(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshToken, s.readErr
}

func (s *memStore) GetUserInfo(context.Context) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Clone(), s.readErr
}

func (s *memStore) ClearAllData(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	if s.clearErr != nil {
		return s.clearErr
	}
	s.accessToken, s.refreshToken, s.user = "", "", nil
	return nil
}

func (s *memStore) empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken == "" && s.refreshToken == "" && s.user == nil
}

func (s *memStore) snapshot() (string, string, *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken, s.user.Clone()
}

func newTestManager(t *testing.T) (*Manager, *fakeClient, *memStore) {
	t.Helper()
	c := &fakeClient{}
	s := &memStore{}
	m := New(c, s, logging.NewNopLogger())
	t.Cleanup(m.Close)
	return m, c, s
}

// started returns a Manager whose startup check has already finished.
func started(t *testing.T) (*Manager, *fakeClient, *memStore) {
	t.Helper()
	m, c, s := newTestManager(t)
	m.CheckAuthStatus(context.Background())
	return m, c, s
}

func asha() *models.User {
	return &models.User{
		ID:              "u-1",
		Email:           "asha@example.com",
		FullName:        "Asha Rao",
		Phone:           "+911234567890",
		IsVerified:      true,
		ProfileComplete: false,
	}
}

func loginOK(user *models.User) func(context.Context, string, []byte) (*models.AuthData, error) {
	return func(context.Context, string, []byte) (*models.AuthData, error) {
		return &models.AuthData{AccessToken: "access", RefreshToken: "refresh", User: user.Clone()}, nil
	}
}
