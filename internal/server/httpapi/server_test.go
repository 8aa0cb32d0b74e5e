package httpapi

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/matrimo/internal/client/client"
	clientmodels "github.com/dmitrijs2005/matrimo/internal/client/models"
	"github.com/dmitrijs2005/matrimo/internal/logging"
	"github.com/dmitrijs2005/matrimo/internal/server/config"
	"github.com/dmitrijs2005/matrimo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/matrimo/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp/fasthttputil"
)

func newUsers(cfg *config.Config) *services.UserService {
	return services.NewUserService(nil, repomanager.NewInMemoryRepositoryManager(), cfg,
		services.NewLogNotifier(logging.NewNopLogger()), logging.NewNopLogger())
}

func startServer(t *testing.T, cfg *config.Config) *client.HTTPClient {
	t.Helper()
	return serveUsers(t, cfg, newUsers(cfg))
}

func serveUsers(t *testing.T, cfg *config.Config, users UserService) *client.HTTPClient {
	t.Helper()

	srv := NewHTTPServer("", logging.NewNopLogger(), users, cfg.SecretKey)

	ln := fasthttputil.NewInmemoryListener()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(6 * time.Second):
			t.Error("server did not stop")
		}
	})

	c := client.NewHTTPClient("http://matrimo.test",
		client.WithDial(func(string) (net.Conn, error) { return ln.Dial() }),
		client.WithRequestTimeout(2*time.Second),
	)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func serverConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return cfg
}

func registration() *clientmodels.Registration {
	return &clientmodels.Registration{
		FullName:   "Asha Rao",
		Email:      "asha@example.com",
		Phone:      "+911234567890",
		Password:   []byte("Passw0rd!"),
		ProfileFor: clientmodels.ProfileForDaughter,
	}
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	srv := NewHTTPServer("", logging.NewNopLogger(), &fakeUsers{}, "secret")
	ln := fasthttputil.NewInmemoryListener()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(6 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	srv := NewHTTPServer("127.0.0.1:99999", logging.NewNopLogger(), &fakeUsers{}, "secret")
	require.Error(t, srv.Run(context.Background()))
}

func TestEndToEnd_SessionLifecycle(t *testing.T) {
	c := startServer(t, serverConfig())
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Register(ctx, registration()))

	err := c.Register(ctx, registration())
	require.ErrorIs(t, err, client.ErrRejected)
	assert.Equal(t, "An account with this email already exists", err.Error())

	_, err = c.Login(ctx, "asha@example.com", []byte("not-it-at-all"))
	require.ErrorIs(t, err, client.ErrUnauthorized)

	data, err := c.Login(ctx, "asha@example.com", []byte("Passw0rd!"))
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", data.User.Email)

	require.NoError(t, c.Logout(ctx))
}

func TestEndToEnd_ExpiredAccessTokenIsRefreshed(t *testing.T) {
	cfg := serverConfig()
	cfg.AccessTokenValidityDuration = -time.Minute
	c := startServer(t, cfg)
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, registration()))
	_, err := c.Login(ctx, "asha@example.com", []byte("Passw0rd!"))
	require.NoError(t, err)
	_, before := c.Tokens()

	var hooked int
	c.OnTokensRefreshed(func(string, string) { hooked++ })

	// Every issued access token is already expired, so the retry fails too.
	err = c.Logout(ctx)
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, "token expired", err.Error())

	_, after := c.Tokens()
	assert.Equal(t, 1, hooked)
	assert.NotEqual(t, before, after)
}

func TestEndToEnd_LogoutAfterRefreshRevokesRotatedToken(t *testing.T) {
	cfg := serverConfig()
	cfg.AccessTokenValidityDuration = 2 * time.Second
	users := newUsers(cfg)
	c := serveUsers(t, cfg, users)
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, registration()))
	_, err := c.Login(ctx, "asha@example.com", []byte("Passw0rd!"))
	require.NoError(t, err)
	_, original := c.Tokens()

	time.Sleep(3100 * time.Millisecond)

	require.NoError(t, c.Logout(ctx))

	_, rotated := c.Tokens()
	require.NotEqual(t, original, rotated)

	_, err = users.RefreshToken(ctx, rotated)
	require.ErrorIs(t, err, services.ErrSessionExpired)
}
