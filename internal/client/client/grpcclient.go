package client

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/matrimo/internal/client/models"
	"github.com/dmitrijs2005/matrimo/internal/common"
	"github.com/dmitrijs2005/matrimo/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// GRPCClient implements Client over the wire.ServiceName gRPC service.
type GRPCClient struct {
	tokenStore

	endpointURL string
	dialOptions []grpc.DialOption
	conn        *grpc.ClientConn
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the current access token and, when the
// server reports it expired, rotates the pair once and retries the call.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	accessToken, refreshToken := s.Tokens()
	err := invoker(withAccessToken(ctx, accessToken), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	if st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refreshToken == "" || method == wire.FullMethod(wire.MethodRefreshToken) {
		return err
	}

	in, convErr := wire.ToStruct(wire.RefreshTokenRequest{RefreshToken: refreshToken})
	if convErr != nil {
		return err
	}
	out := new(structpb.Struct)
	if refreshErr := invoker(withAccessToken(ctx, ""), wire.FullMethod(wire.MethodRefreshToken), in, out, cc, opts...); refreshErr != nil {
		return refreshErr
	}

	var pair wire.TokenPair
	if convErr := wire.FromStruct(out, &pair); convErr != nil {
		return convErr
	}
	s.refreshed(pair.AccessToken, pair.RefreshToken)

	// The refresh consumed the token a Logout request carries.
	if method == wire.FullMethod(wire.MethodLogout) {
		logoutReq, convErr := wire.ToStruct(wire.LogoutRequest{RefreshToken: pair.RefreshToken})
		if convErr != nil {
			return convErr
		}
		req = logoutReq
	}

	return invoker(withAccessToken(ctx, pair.AccessToken), method, req, reply, cc, opts...)
}

// NewGRPCClient connects lazily to endpointURL. Extra dial options are
// appended after the defaults (insecure transport, token interceptor).
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, dialOptions: opts}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, s.dialOptions...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	return nil
}

func (s *GRPCClient) invoke(ctx context.Context, method string, req any, resp any) error {
	in, err := wire.ToStruct(req)
	if err != nil {
		return err
	}

	out := new(structpb.Struct)
	if err := s.conn.Invoke(ctx, wire.FullMethod(method), in, out); err != nil {
		return s.mapError(err)
	}

	if resp == nil {
		return nil
	}
	return wire.FromStruct(out, resp)
}

func (s *GRPCClient) Login(ctx context.Context, email string, password []byte) (*models.AuthData, error) {
	var resp wire.LoginResponse
	if err := s.invoke(ctx, wire.MethodLogin, wire.LoginRequest{Email: email, Password: string(password)}, &resp); err != nil {
		return nil, err
	}

	s.SetTokens(resp.AccessToken, resp.RefreshToken)

	return &models.AuthData{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         userFromWire(resp.User),
	}, nil
}

func (s *GRPCClient) Register(ctx context.Context, reg *models.Registration) error {
	return s.invoke(ctx, wire.MethodRegister, registrationToWire(reg), nil)
}

// Logout asks the server to revoke the current refresh token.
func (s *GRPCClient) Logout(ctx context.Context) error {
	_, refreshToken := s.Tokens()
	return s.invoke(ctx, wire.MethodLogout, wire.LogoutRequest{RefreshToken: refreshToken}, nil)
}

func (s *GRPCClient) ForgotPassword(ctx context.Context, email string) error {
	return s.invoke(ctx, wire.MethodForgotPassword, wire.ForgotPasswordRequest{Email: email}, nil)
}

func (s *GRPCClient) VerifyResetOTP(ctx context.Context, email string, otp string) error {
	return s.invoke(ctx, wire.MethodVerifyResetOTP, wire.VerifyOTPRequest{Email: email, OTP: otp}, nil)
}

func (s *GRPCClient) ResetPassword(ctx context.Context, email string, otp string, newPassword []byte) error {
	req := wire.ResetPasswordRequest{Email: email, OTP: otp, NewPassword: string(newPassword)}
	return s.invoke(ctx, wire.MethodResetPassword, req, nil)
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var resp wire.PingResponse
	if err := s.invoke(ctx, wire.MethodPing, nil, &resp); err != nil {
		return err
	}
	if resp.Status != wire.StatusOK {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return &RemoteError{Message: st.Message(), Err: ErrUnauthorized}
	case codes.InvalidArgument, codes.AlreadyExists, codes.NotFound, codes.FailedPrecondition:
		return &RemoteError{Message: st.Message(), Err: ErrRejected}
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.Canceled:
		return context.Canceled
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
