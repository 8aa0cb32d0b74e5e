package httpapi

import (
	"encoding/json"

	"github.com/dmitrijs2005/matrimo/internal/server/models"
	"github.com/dmitrijs2005/matrimo/internal/server/services"
	"github.com/dmitrijs2005/matrimo/internal/wire"
	"github.com/valyala/fasthttp"
)

// decode reads the JSON body into v and answers 400 when it cannot.
func decode(ctx *fasthttp.RequestCtx, v any) bool {
	if err := json.Unmarshal(ctx.PostBody(), v); err != nil {
		respondFailure(ctx, fasthttp.StatusBadRequest, "malformed request")
		return false
	}
	return true
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

func (s *HTTPServer) health(ctx *fasthttp.RequestCtx) {
	respondSuccess(ctx, wire.PingResponse{Status: wire.StatusOK})
}

func (s *HTTPServer) register(ctx *fasthttp.RequestCtx) {
	var req wire.RegisterRequest
	if !decode(ctx, &req) {
		return
	}

	stdCtx, cancel := s.requestContext()
	defer cancel()

	user, err := s.users.Register(stdCtx, services.Registration{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		Password:    []byte(req.Password),
		Gender:      req.Gender,
		DateOfBirth: req.DateOfBirth,
		ProfileFor:  req.ProfileFor,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	s.logger.Info(stdCtx, "Registered", "user_id", user.ID)
	respondSuccess(ctx, wire.RegisterResponse{UserID: user.ID})
}

func (s *HTTPServer) login(ctx *fasthttp.RequestCtx) {
	var req wire.LoginRequest
	if !decode(ctx, &req) {
		return
	}

	stdCtx, cancel := s.requestContext()
	defer cancel()

	session, err := s.users.Login(stdCtx, req.Email, []byte(req.Password))
	if err != nil {
		respondError(ctx, err)
		return
	}

	respondSuccess(ctx, wire.LoginResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		User:         toWireUser(session.User),
	})
}

func (s *HTTPServer) refreshToken(ctx *fasthttp.RequestCtx) {
	var req wire.RefreshTokenRequest
	if !decode(ctx, &req) {
		return
	}

	stdCtx, cancel := s.requestContext()
	defer cancel()

	pair, err := s.users.RefreshToken(stdCtx, req.RefreshToken)
	if err != nil {
		respondError(ctx, err)
		return
	}

	respondSuccess(ctx, wire.TokenPair{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *HTTPServer) logout(ctx *fasthttp.RequestCtx) {
	userID, _ := ctx.UserValue(userIDValue).(string)

	var req wire.LogoutRequest
	if len(ctx.PostBody()) > 0 && !decode(ctx, &req) {
		return
	}

	stdCtx, cancel := s.requestContext()
	defer cancel()

	if err := s.users.Logout(stdCtx, userID, req.RefreshToken); err != nil {
		respondError(ctx, err)
		return
	}

	respondSuccess(ctx, nil)
}

func (s *HTTPServer) forgotPassword(ctx *fasthttp.RequestCtx) {
	var req wire.ForgotPasswordRequest
	if !decode(ctx, &req) {
		return
	}

	stdCtx, cancel := s.requestContext()
	defer cancel()

	if err := s.users.ForgotPassword(stdCtx, req.Email); err != nil {
		respondError(ctx, err)
		return
	}

	respondSuccess(ctx, nil)
}

func (s *HTTPServer) verifyOTP(ctx *fasthttp.RequestCtx) {
	var req wire.VerifyOTPRequest
	if !decode(ctx, &req) {
		return
	}

	stdCtx, cancel := s.requestContext()
	defer cancel()

	if err := s.users.VerifyResetOTP(stdCtx, req.Email, req.OTP); err != nil {
		respondError(ctx, err)
		return
	}

	respondSuccess(ctx, nil)
}

func (s *HTTPServer) resetPassword(ctx *fasthttp.RequestCtx) {
	var req wire.ResetPasswordRequest
	if !decode(ctx, &req) {
		return
	}

	stdCtx, cancel := s.requestContext()
	defer cancel()

	if err := s.users.ResetPassword(stdCtx, req.Email, req.OTP, []byte(req.NewPassword)); err != nil {
		respondError(ctx, err)
		return
	}

	respondSuccess(ctx, nil)
}
