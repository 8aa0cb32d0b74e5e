package wire

import "encoding/json"

// User is the account view returned by the auth service.
type User struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	FullName        string `json:"fullName"`
	Phone           string `json:"phone"`
	IsVerified      bool   `json:"isVerified"`
	ProfileComplete bool   `json:"profileComplete"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

type RegisterRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Password    string `json:"password"`
	Gender      string `json:"gender,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	ProfileFor  string `json:"profileFor,omitempty"`
}

type RegisterResponse struct {
	UserID string `json:"userId"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

type PingResponse struct {
	Status string `json:"status"`
}

// StatusOK is the Ping status of a healthy service.
const StatusOK = "OK"

// Envelope wraps every REST response body.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// REST routes.
const (
	PathLogin          = "/api/v1/auth/login"
	PathRegister       = "/api/v1/auth/register"
	PathLogout         = "/api/v1/auth/logout"
	PathRefreshToken   = "/api/v1/auth/refresh"
	PathForgotPassword = "/api/v1/auth/forgot-password"
	PathVerifyOTP      = "/api/v1/auth/verify-otp"
	PathResetPassword  = "/api/v1/auth/reset-password"
	PathHealth         = "/api/v1/health"
)
