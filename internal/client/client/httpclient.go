package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/matrimo/internal/client/models"
	"github.com/dmitrijs2005/matrimo/internal/common"
	"github.com/dmitrijs2005/matrimo/internal/wire"
	"github.com/valyala/fasthttp"
)

// HTTPClient implements Client over the REST routes in package wire.
type HTTPClient struct {
	tokenStore

	baseURL string
	timeout time.Duration
	hc      *fasthttp.Client
}

type HTTPOption func(*HTTPClient)

// WithDial replaces the TCP dialer, e.g. with an in-memory listener.
func WithDial(dial fasthttp.DialFunc) HTTPOption {
	return func(c *HTTPClient) {
		c.hc.Dial = dial
	}
}

// WithRequestTimeout caps every request; the context deadline wins when earlier.
func WithRequestTimeout(d time.Duration) HTTPOption {
	return func(c *HTTPClient) {
		c.timeout = d
	}
}

func NewHTTPClient(baseURL string, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 10 * time.Second,
		hc: &fasthttp.Client{
			Name:                "matrimo-client",
			MaxIdleConnDuration: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do sends one request and decodes the envelope into out.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, accessToken string, out any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	release := func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	if accessToken != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+accessToken)
	}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			release()
			return err
		}
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(b)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	done := make(chan error, 1)
	go func() {
		done <- c.hc.DoDeadline(req, resp, deadline)
	}()

	select {
	case <-ctx.Done():
		// the request is still in flight; it owns req/resp until it returns
		go func() {
			<-done
			release()
		}()
		return ctx.Err()
	case err := <-done:
		defer release()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return decodeEnvelope(resp.StatusCode(), resp.Body(), out)
	}
}

func decodeEnvelope(code int, body []byte, out any) error {
	if code >= fasthttp.StatusInternalServerError {
		return ErrUnavailable
	}

	var env wire.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if code >= fasthttp.StatusBadRequest {
			return &RemoteError{Message: fasthttp.StatusMessage(code), Err: statusSentinel(code)}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if code >= fasthttp.StatusBadRequest || !env.Success {
		return &RemoteError{Message: env.Error, Err: statusSentinel(code)}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

func statusSentinel(code int) error {
	if code == fasthttp.StatusUnauthorized || code == fasthttp.StatusForbidden {
		return ErrUnauthorized
	}
	return ErrRejected
}

// authorized runs a request with the access token and rotates the pair once
// when the server reports the token expired.
func (c *HTTPClient) authorized(ctx context.Context, path string, body any, out any) error {
	accessToken, refreshToken := c.Tokens()
	err := c.do(ctx, fasthttp.MethodPost, path, body, accessToken, out)

	var remote *RemoteError
	if !errors.As(err, &remote) || !errors.Is(err, ErrUnauthorized) || remote.Message != common.ErrTokenExpired.Error() {
		return err
	}
	if refreshToken == "" {
		return err
	}

	var pair wire.TokenPair
	if refreshErr := c.do(ctx, fasthttp.MethodPost, wire.PathRefreshToken, wire.RefreshTokenRequest{RefreshToken: refreshToken}, "", &pair); refreshErr != nil {
		return refreshErr
	}
	c.refreshed(pair.AccessToken, pair.RefreshToken)

	if path == wire.PathLogout {
		body = wire.LogoutRequest{RefreshToken: pair.RefreshToken}
	}
	return c.do(ctx, fasthttp.MethodPost, path, body, pair.AccessToken, out)
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (*models.AuthData, error) {
	var resp wire.LoginResponse
	req := wire.LoginRequest{Email: email, Password: string(password)}
	if err := c.do(ctx, fasthttp.MethodPost, wire.PathLogin, req, "", &resp); err != nil {
		return nil, err
	}

	c.SetTokens(resp.AccessToken, resp.RefreshToken)

	return &models.AuthData{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         userFromWire(resp.User),
	}, nil
}

func (c *HTTPClient) Register(ctx context.Context, reg *models.Registration) error {
	return c.do(ctx, fasthttp.MethodPost, wire.PathRegister, registrationToWire(reg), "", nil)
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	_, refreshToken := c.Tokens()
	return c.authorized(ctx, wire.PathLogout, wire.LogoutRequest{RefreshToken: refreshToken}, nil)
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, fasthttp.MethodPost, wire.PathForgotPassword, wire.ForgotPasswordRequest{Email: email}, "", nil)
}

func (c *HTTPClient) VerifyResetOTP(ctx context.Context, email string, otp string) error {
	return c.do(ctx, fasthttp.MethodPost, wire.PathVerifyOTP, wire.VerifyOTPRequest{Email: email, OTP: otp}, "", nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, email string, otp string, newPassword []byte) error {
	req := wire.ResetPasswordRequest{Email: email, OTP: otp, NewPassword: string(newPassword)}
	return c.do(ctx, fasthttp.MethodPost, wire.PathResetPassword, req, "", nil)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var resp wire.PingResponse
	if err := c.do(ctx, fasthttp.MethodGet, wire.PathHealth, nil, "", &resp); err != nil {
		return err
	}
	if resp.Status != wire.StatusOK {
		return ErrUnavailable
	}
	return nil
}

func (c *HTTPClient) Close() error {
	c.hc.CloseIdleConnections()
	return nil
}
