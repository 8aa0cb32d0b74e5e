package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/matrimo/internal/common"
	"github.com/dmitrijs2005/matrimo/internal/server/models"
	"github.com/dmitrijs2005/matrimo/internal/server/services"
	"github.com/dmitrijs2005/matrimo/internal/wire"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// toStatus maps a service error onto a gRPC status. Messages of
// *services.Error are passed through; anything unexpected becomes Internal
// with a fixed message.
func toStatus(err error) error {
	msg := err.Error()
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		msg = svcErr.Message
	}

	switch {
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrInvalidOTP):
		return status.Error(codes.InvalidArgument, msg)
	case errors.Is(err, common.ErrOTPNotVerified):
		return status.Error(codes.FailedPrecondition, msg)
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, msg)
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, msg)
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, msg)
	}
	return status.Error(codes.Internal, common.ErrorInternal.Error())
}

func decode(req *structpb.Struct, v any) error {
	if err := wire.FromStruct(req, v); err != nil {
		return status.Error(codes.InvalidArgument, "malformed request")
	}
	return nil
}

func encode(v any) (*structpb.Struct, error) {
	out, err := wire.ToStruct(v)
	if err != nil {
		return nil, status.Error(codes.Internal, common.ErrorInternal.Error())
	}
	return out, nil
}

func toWireUser(u *models.User) wire.User {
	return wire.User{
		ID:              u.ID,
		Email:           u.Email,
		FullName:        u.FullName,
		Phone:           u.Phone,
		IsVerified:      u.IsVerified,
		ProfileComplete: u.ProfileComplete,
	}
}

func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	var in wire.RegisterRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Registration request")

	user, err := s.users.Register(ctx, services.Registration{
		FullName:    in.FullName,
		Email:       in.Email,
		Phone:       in.Phone,
		Password:    []byte(in.Password),
		Gender:      in.Gender,
		DateOfBirth: in.DateOfBirth,
		ProfileFor:  in.ProfileFor,
	})
	if err != nil {
		s.logger.Warn(ctx, "registration failed", "error", err)
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return encode(wire.RegisterResponse{UserID: user.ID})
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	var in wire.LoginRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	session, err := s.users.Login(ctx, in.Email, []byte(in.Password))
	if err != nil {
		return nil, toStatus(err)
	}

	return encode(wire.LoginResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		User:         toWireUser(session.User),
	})
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	var in wire.RefreshTokenRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	pair, err := s.users.RefreshToken(ctx, in.RefreshToken)
	if err != nil {
		return nil, toStatus(err)
	}

	return encode(wire.TokenPair{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *GRPCServer) Logout(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok {
		return nil, status.Error(codes.Internal, "user id missing in context")
	}

	var in wire.LogoutRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	if err := s.users.Logout(ctx, userID, in.RefreshToken); err != nil {
		return nil, toStatus(err)
	}

	return encode(nil)
}

func (s *GRPCServer) ForgotPassword(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	var in wire.ForgotPasswordRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	if err := s.users.ForgotPassword(ctx, in.Email); err != nil {
		return nil, toStatus(err)
	}

	return encode(nil)
}

func (s *GRPCServer) VerifyResetOTP(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	var in wire.VerifyOTPRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	if err := s.users.VerifyResetOTP(ctx, in.Email, in.OTP); err != nil {
		return nil, toStatus(err)
	}

	return encode(nil)
}

func (s *GRPCServer) ResetPassword(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	var in wire.ResetPasswordRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	if err := s.users.ResetPassword(ctx, in.Email, in.OTP, []byte(in.NewPassword)); err != nil {
		return nil, toStatus(err)
	}

	return encode(nil)
}

func (s *GRPCServer) Ping(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	return encode(wire.PingResponse{Status: wire.StatusOK})

}
