// Package httpapi serves the auth API as JSON over HTTP using fasthttp.
// Every response body is a wire.Envelope.
package httpapi

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/matrimo/internal/logging"
	"github.com/dmitrijs2005/matrimo/internal/server/models"
	"github.com/dmitrijs2005/matrimo/internal/server/services"
	"github.com/dmitrijs2005/matrimo/internal/wire"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

const (
	defaultRequestTimeout = 10 * time.Second
	shutdownTimeout       = 5 * time.Second
)

// UserService is the account logic behind the handlers.
type UserService interface {
	Register(ctx context.Context, reg services.Registration) (*models.User, error)
	Login(ctx context.Context, email string, password []byte) (*services.Session, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, userID, refreshToken string) error
	ForgotPassword(ctx context.Context, email string) error
	VerifyResetOTP(ctx context.Context, email, otp string) error
	ResetPassword(ctx context.Context, email, otp string, newPassword []byte) error
}

type HTTPServer struct {
	address        string
	users          UserService
	logger         logging.Logger
	jwtSecret      []byte
	requestTimeout time.Duration
	baseCtx        context.Context
}

func NewHTTPServer(a string, l logging.Logger, us UserService, secretKey string) *HTTPServer {
	return &HTTPServer{
		address:        a,
		users:          us,
		logger:         l.With("module", "http_server"),
		jwtSecret:      []byte(secretKey),
		requestTimeout: defaultRequestTimeout,
		baseCtx:        context.Background(),
	}
}

// Handler returns the routed request handler.
func (s *HTTPServer) Handler() fasthttp.RequestHandler {
	r := router.New()

	r.GET(wire.PathHealth, s.health)

	r.POST(wire.PathLogin, s.login)
	r.POST(wire.PathRegister, s.register)
	r.POST(wire.PathRefreshToken, s.refreshToken)
	r.POST(wire.PathForgotPassword, s.forgotPassword)
	r.POST(wire.PathVerifyOTP, s.verifyOTP)
	r.POST(wire.PathResetPassword, s.resetPassword)

	r.POST(wire.PathLogout, s.bearerAuth(s.logout))

	r.NotFound = func(ctx *fasthttp.RequestCtx) {
		respondFailure(ctx, fasthttp.StatusNotFound, "not found")
	}
	r.MethodNotAllowed = func(ctx *fasthttp.RequestCtx) {
		respondFailure(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
	}

	return s.accessLog(r.Handler)
}

func (s *HTTPServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve handles connections from ln until ctx is done. In-flight requests
// get shutdownTimeout to finish.
func (s *HTTPServer) Serve(ctx context.Context, ln net.Listener) error {
	s.baseCtx = ctx

	srv := &fasthttp.Server{
		Handler:      s.Handler(),
		Name:         "matrimo-server",
		ReadTimeout:  s.requestTimeout,
		WriteTimeout: s.requestTimeout,
		IdleTimeout:  time.Minute,
	}

	stopped := make(chan struct{})
	defer close(stopped)

	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
				s.logger.Warn(ctx, "HTTP shutdown", "error", err)
			}
		case <-stopped:
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", ln.Addr().String())

	return srv.Serve(ln)
}

// requestContext derives a per-request context carrying the request
// deadline; it is canceled when the server stops.
func (s *HTTPServer) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(s.baseCtx, s.requestTimeout)
}
