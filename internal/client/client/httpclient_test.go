package client

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/matrimo/internal/client/models"
	"github.com/dmitrijs2005/matrimo/internal/common"
	"github.com/dmitrijs2005/matrimo/internal/wire"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

type fakeREST struct {
	mu      sync.Mutex
	routes  map[string]fasthttp.RequestHandler
	hits    map[string]int
	bearers map[string][]string
	bodies  map[string][]byte
}

func (f *fakeREST) handle(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())

	f.mu.Lock()
	f.hits[path]++
	f.bearers[path] = append(f.bearers[path], string(ctx.Request.Header.Peek(common.AuthorizationHeaderName)))
	f.bodies[path] = append([]byte(nil), ctx.PostBody()...)
	h := f.routes[path]
	f.mu.Unlock()

	if h == nil {
		writeEnvelope(ctx, fasthttp.StatusOK, wire.Envelope{Success: true})
		return
	}
	h(ctx)
}

func (f *fakeREST) on(path string, h fasthttp.RequestHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[path] = h
}

func (f *fakeREST) hitCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeREST) bearer(path string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.bearers[path]...)
}

func (f *fakeREST) body(path string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[path]
}

func writeEnvelope(ctx *fasthttp.RequestCtx, code int, env wire.Envelope) {
	b, _ := json.Marshal(env)
	ctx.SetStatusCode(code)
	ctx.SetContentType("application/json")
	ctx.SetBody(b)
}

func ok(t *testing.T, data any) fasthttp.RequestHandler {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return func(ctx *fasthttp.RequestCtx) {
		writeEnvelope(ctx, fasthttp.StatusOK, wire.Envelope{Success: true, Data: raw})
	}
}

func failure(code int, msg string) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		writeEnvelope(ctx, code, wire.Envelope{Error: msg})
	}
}

func startREST(t *testing.T) (*fakeREST, *HTTPClient) {
	t.Helper()

	f := &fakeREST{
		routes:  map[string]fasthttp.RequestHandler{},
		hits:    map[string]int{},
		bearers: map[string][]string{},
		bodies:  map[string][]byte{},
	}

	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: f.handle}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() {
		_ = srv.Shutdown()
		_ = ln.Close()
	})

	c := NewHTTPClient("http://matrimo.test/",
		WithDial(func(string) (net.Conn, error) { return ln.Dial() }),
		WithRequestTimeout(2*time.Second),
	)
	t.Cleanup(func() { _ = c.Close() })
	return f, c
}

func TestHTTP_Login(t *testing.T) {
	f, c := startREST(t)
	f.on(wire.PathLogin, ok(t, wire.LoginResponse{
		AccessToken:  "A",
		RefreshToken: "R",
		User:         wire.User{ID: "u1", Email: "a@b.co", ProfileComplete: true},
	}))

	data, err := c.Login(context.Background(), "a@b.co", []byte("pw"))
	require.NoError(t, err)
	require.Equal(t, &models.User{ID: "u1", Email: "a@b.co", ProfileComplete: true}, data.User)

	a, r := c.Tokens()
	require.Equal(t, "A", a)
	require.Equal(t, "R", r)

	var in wire.LoginRequest
	require.NoError(t, json.Unmarshal(f.body(wire.PathLogin), &in))
	require.Equal(t, wire.LoginRequest{Email: "a@b.co", Password: "pw"}, in)
}

func TestHTTP_StatusMapping(t *testing.T) {
	f, c := startREST(t)
	ctx := context.Background()

	f.on(wire.PathLogin, failure(fasthttp.StatusUnauthorized, "Invalid email or password"))
	_, err := c.Login(ctx, "a@b.co", []byte("pw"))
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Equal(t, "Invalid email or password", err.Error())

	f.on(wire.PathRegister, failure(fasthttp.StatusConflict, "Email already registered"))
	err = c.Register(ctx, &models.Registration{Email: "a@b.co"})
	require.ErrorIs(t, err, ErrRejected)
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	require.Equal(t, "Email already registered", remote.Message)

	f.on(wire.PathForgotPassword, failure(fasthttp.StatusBadGateway, "upstream"))
	require.ErrorIs(t, c.ForgotPassword(ctx, "a@b.co"), ErrUnavailable)

	f.on(wire.PathVerifyOTP, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		ctx.SetBodyString("not json")
	})
	err = c.VerifyResetOTP(ctx, "a@b.co", "123456")
	require.ErrorIs(t, err, ErrRejected)
}

func TestHTTP_UnsuccessfulEnvelopeWith200(t *testing.T) {
	f, c := startREST(t)
	f.on(wire.PathResetPassword, failure(fasthttp.StatusOK, "Code not verified"))

	err := c.ResetPassword(context.Background(), "a@b.co", "123456", []byte("N3w-pass"))
	require.ErrorIs(t, err, ErrRejected)
	require.Equal(t, "Code not verified", err.Error())
}

func TestHTTP_LogoutRefreshesExpiredToken(t *testing.T) {
	f, c := startREST(t)
	c.SetTokens("A1", "R1")

	var refreshed []string
	c.OnTokensRefreshed(func(a, r string) { refreshed = append(refreshed, a, r) })

	var mu sync.Mutex
	first := true
	f.on(wire.PathLogout, func(ctx *fasthttp.RequestCtx) {
		mu.Lock()
		defer mu.Unlock()
		if first {
			first = false
			failure(fasthttp.StatusUnauthorized, common.ErrTokenExpired.Error())(ctx)
			return
		}
		writeEnvelope(ctx, fasthttp.StatusOK, wire.Envelope{Success: true})
	})
	f.on(wire.PathRefreshToken, ok(t, wire.TokenPair{AccessToken: "A2", RefreshToken: "R2"}))

	require.NoError(t, c.Logout(context.Background()))
	require.Equal(t, 2, f.hitCount(wire.PathLogout))
	require.Equal(t, []string{common.BearerPrefix + "A1", common.BearerPrefix + "A2"}, f.bearer(wire.PathLogout))
	require.Equal(t, []string{"A2", "R2"}, refreshed)

	var in wire.LogoutRequest
	require.NoError(t, json.Unmarshal(f.body(wire.PathLogout), &in))
	require.Equal(t, "R2", in.RefreshToken)
}

func TestHTTP_ExpiredWithoutRefreshToken(t *testing.T) {
	f, c := startREST(t)
	c.SetTokens("A1", "")
	f.on(wire.PathLogout, failure(fasthttp.StatusUnauthorized, common.ErrTokenExpired.Error()))

	err := c.Logout(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Equal(t, 1, f.hitCount(wire.PathLogout))
	require.Equal(t, 0, f.hitCount(wire.PathRefreshToken))
}

func TestHTTP_Ping(t *testing.T) {
	f, c := startREST(t)

	f.on(wire.PathHealth, ok(t, wire.PingResponse{Status: wire.StatusOK}))
	require.NoError(t, c.Ping(context.Background()))

	f.on(wire.PathHealth, ok(t, wire.PingResponse{Status: "DOWN"}))
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestHTTP_ContextCancelled(t *testing.T) {
	f, c := startREST(t)

	release := make(chan struct{})
	f.on(wire.PathForgotPassword, func(ctx *fasthttp.RequestCtx) {
		<-release
		writeEnvelope(ctx, fasthttp.StatusOK, wire.Envelope{Success: true})
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := c.ForgotPassword(ctx, "a@b.co")
	require.ErrorIs(t, err, context.Canceled)
}

func TestHTTP_TransportFailure(t *testing.T) {
	c := NewHTTPClient("http://matrimo.test",
		WithDial(func(string) (net.Conn, error) { return nil, errors.New("connection refused") }),
	)
	defer c.Close()

	err := c.ForgotPassword(context.Background(), "a@b.co")
	require.ErrorIs(t, err, ErrUnavailable)
}
