package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/matrimo/internal/logging"
	"github.com/dmitrijs2005/matrimo/internal/server/models"
	"github.com/dmitrijs2005/matrimo/internal/server/services"
	"github.com/dmitrijs2005/matrimo/internal/wire"
	"google.golang.org/grpc"
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

type GRPCServer struct {
	address   string
	users     UserService
	logger    logging.Logger
	jwtSecret []byte
}

var _ wire.AuthServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, us UserService, secretKey string) (*GRPCServer, error) {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		jwtSecret: []byte(secretKey),
	}, nil
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve handles connections from lis until ctx is done, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	wire.RegisterAuthServer(srv, s)

	stopped := make(chan struct{})
	defer close(stopped)

	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping gRPC server...")
			srv.GracefulStop()
		case <-stopped:
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
