// Package services contains server-side business logic. UserService handles
// registration, login, token refresh and logout, and the password-reset
// flow (request code, verify code, set new password).
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrijs2005/matrimo/internal/common"
	"github.com/dmitrijs2005/matrimo/internal/cryptox"
	"github.com/dmitrijs2005/matrimo/internal/dbx"
	"github.com/dmitrijs2005/matrimo/internal/logging"
	"github.com/dmitrijs2005/matrimo/internal/server/auth"
	"github.com/dmitrijs2005/matrimo/internal/server/config"
	"github.com/dmitrijs2005/matrimo/internal/server/models"
	"github.com/dmitrijs2005/matrimo/internal/server/repositories/repomanager"
)

const (
	saltSize          = 16
	otpLength         = 6
	maxOTPAttempts    = 5
	minPasswordLength = 8
)

var profileForValues = map[string]bool{
	"self": true, "son": true, "daughter": true, "sibling": true, "relative": true, "friend": true,
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Session is the result of a successful login.
type Session struct {
	TokenPair
	User *models.User
}

// Registration is the sign-up form as received from a client.
type Registration struct {
	FullName    string
	Email       string
	Phone       string
	Password    []byte
	Gender      string
	DateOfBirth string
	ProfileFor  string
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	notifier                     Notifier
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	resetCodeValidityDuration    time.Duration
	now                          func() time.Time
}

// NewUserService builds the service. db may be nil when m keeps data in
// memory; writes then run without a transaction.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, n Notifier, l logging.Logger) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		notifier:                     n,
		logger:                       l.With("module", "user_service"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		resetCodeValidityDuration:    cfg.ResetCodeValidityDuration,
		now:                          time.Now,
	}
}

// handle returns the DBTX repositories are built on outside a transaction.
func (s *UserService) handle() dbx.DBTX {
	if s.db == nil {
		return nil
	}
	return s.db
}

func (s *UserService) withTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return dbx.WithTx(ctx, s.db, nil, fn)
}

func internal(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", common.ErrorInternal, op, err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkPassword(password []byte) error {
	if len([]rune(string(password))) < minPasswordLength {
		return invalid(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	return nil
}

func (r *Registration) validate() error {
	switch {
	case strings.TrimSpace(r.FullName) == "":
		return invalid("Full name is required")
	case !emailPattern.MatchString(r.Email):
		return invalid("Please enter a valid email address")
	case r.ProfileFor != "" && !profileForValues[r.ProfileFor]:
		return invalid("Choose who the profile is for")
	}
	return checkPassword(r.Password)
}

func makeVerifier(password, salt []byte) []byte {
	return cryptox.MakeVerifier(cryptox.DeriveKey(password, salt))
}

func hashCode(code string) []byte {
	return cryptox.MakeVerifier([]byte(code))
}

// Register creates an account. The new user still has to log in.
func (s *UserService) Register(ctx context.Context, reg Registration) (*models.User, error) {
	reg.Email = normalizeEmail(reg.Email)
	if err := reg.validate(); err != nil {
		return nil, err
	}

	profileFor := reg.ProfileFor
	if profileFor == "" {
		profileFor = "self"
	}

	salt := common.GenerateRandByteArray(saltSize)
	user := &models.User{
		Email:       reg.Email,
		FullName:    strings.TrimSpace(reg.FullName),
		Phone:       strings.TrimSpace(reg.Phone),
		Gender:      reg.Gender,
		DateOfBirth: reg.DateOfBirth,
		ProfileFor:  profileFor,
		Salt:        salt,
		Verifier:    makeVerifier(reg.Password, salt),
	}
	user.ProfileComplete = user.FullName != "" && user.Phone != ""

	created, err := s.repomanager.Users(s.handle()).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, internal("create user", err)
	}
	return created, nil
}

// Login checks the password and issues a token pair.
func (s *UserService) Login(ctx context.Context, email string, password []byte) (*Session, error) {
	user, err := s.repomanager.Users(s.handle()).GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, internal("find user", err)
	}

	if subtle.ConstantTimeCompare(user.Verifier, makeVerifier(password, user.Salt)) != 1 {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.generateTokenPair(ctx, user.ID, s.handle())
	if err != nil {
		return nil, err
	}
	return &Session{TokenPair: *pair, User: user}, nil
}

// RefreshToken rotates a refresh token: the old one is deleted and a new
// pair is issued in the same transaction.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.handle())

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, internal("find refresh token", err)
	}
	if !token.Expires.After(s.now()) {
		if err := repo.Delete(ctx, refreshToken); err != nil {
			s.logger.Warn(ctx, "dropping expired refresh token", "error", err)
		}
		return nil, ErrSessionExpired
	}

	var pair *TokenPair
	err = s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return internal("delete refresh token", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes refreshToken if it belongs to userID. Unknown tokens are
// ignored.
func (s *UserService) Logout(ctx context.Context, userID, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	repo := s.repomanager.RefreshTokens(s.handle())
	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return internal("find refresh token", err)
	}
	if token.UserID != userID {
		s.logger.Warn(ctx, "logout with a foreign refresh token", "user_id", userID)
		return nil
	}

	if err := repo.Delete(ctx, refreshToken); err != nil {
		return internal("delete refresh token", err)
	}
	return nil
}

// ForgotPassword issues a reset code for email. Unknown emails succeed
// silently so the endpoint does not reveal which accounts exist.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if !emailPattern.MatchString(email) {
		return invalid("Please enter a valid email address")
	}

	user, err := s.repomanager.Users(s.handle()).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Debug(ctx, "reset requested for unknown email")
			return nil
		}
		return internal("find user", err)
	}

	code, err := common.MakeRandDigits(otpLength)
	if err != nil {
		return internal("generate code", err)
	}

	reset := &models.PasswordReset{
		UserID:   user.ID,
		Email:    email,
		CodeHash: hashCode(code),
		Expires:  s.now().Add(s.resetCodeValidityDuration),
	}
	if err := s.repomanager.PasswordResets(s.handle()).Save(ctx, reset); err != nil {
		return internal("save reset", err)
	}

	if err := s.notifier.SendResetCode(ctx, email, code); err != nil {
		return internal("send code", err)
	}
	return nil
}

// checkCode loads the pending reset for email and matches otp against it.
// Wrong guesses are counted; the reset is dropped once it expires or runs
// out of attempts.
func (s *UserService) checkCode(ctx context.Context, email, otp string) (*models.PasswordReset, error) {
	if len(otp) != otpLength {
		return nil, ErrInvalidOTP
	}

	repo := s.repomanager.PasswordResets(s.handle())
	reset, err := repo.Find(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, internal("find reset", err)
	}

	if !reset.Expires.After(s.now()) || reset.Attempts >= maxOTPAttempts {
		if err := repo.Delete(ctx, email); err != nil {
			return nil, internal("delete reset", err)
		}
		return nil, ErrInvalidOTP
	}

	if subtle.ConstantTimeCompare(reset.CodeHash, hashCode(otp)) != 1 {
		n, err := repo.RecordAttempt(ctx, email)
		if err != nil {
			return nil, internal("record attempt", err)
		}
		if n >= maxOTPAttempts {
			if err := repo.Delete(ctx, email); err != nil {
				return nil, internal("delete reset", err)
			}
		}
		return nil, ErrInvalidOTP
	}

	return reset, nil
}

func (s *UserService) VerifyResetOTP(ctx context.Context, email, otp string) error {
	email = normalizeEmail(email)
	if _, err := s.checkCode(ctx, email, otp); err != nil {
		return err
	}
	if err := s.repomanager.PasswordResets(s.handle()).MarkVerified(ctx, email); err != nil {
		return internal("mark verified", err)
	}
	return nil
}

// ResetPassword sets a new password once the code has been verified. All
// refresh tokens of the account are revoked.
func (s *UserService) ResetPassword(ctx context.Context, email, otp string, newPassword []byte) error {
	email = normalizeEmail(email)
	if err := checkPassword(newPassword); err != nil {
		return err
	}

	reset, err := s.checkCode(ctx, email, otp)
	if err != nil {
		return err
	}
	if !reset.Verified {
		return ErrOTPNotVerified
	}

	salt := common.GenerateRandByteArray(saltSize)
	verifier := makeVerifier(newPassword, salt)

	return s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdatePassword(ctx, reset.UserID, salt, verifier); err != nil {
			return internal("update password", err)
		}
		if err := s.repomanager.PasswordResets(tx).Delete(ctx, email); err != nil {
			return internal("delete reset", err)
		}
		if err := s.repomanager.RefreshTokens(tx).DeleteByUser(ctx, reset.UserID); err != nil {
			return internal("revoke sessions", err)
		}
		return nil
	})
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, internal("sign access token", err)
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, internal("generate refresh token", err)
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, userID, refresh, s.now().Add(s.refreshTokenValidityDuration)); err != nil {
		return nil, internal("store refresh token", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
