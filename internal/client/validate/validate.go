// Package validate holds the input checks the console runs before calling
// the session. Each function returns an error whose text is shown to the user.
package validate

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/matrimo/internal/client/models"
)

var (
	ErrEmailRequired    = errors.New("Email is required")
	ErrEmailInvalid     = errors.New("Please enter a valid email address")
	ErrPasswordRequired = errors.New("Password is required")
	ErrPasswordWeak     = errors.New("Password must be at least 8 characters and contain a letter and a digit")
	ErrPasswordMismatch = errors.New("Passwords do not match")
	ErrNameRequired     = errors.New("Full name is required")
	ErrPhoneInvalid     = errors.New("Please enter a valid phone number")
	ErrOTPInvalid       = errors.New("Enter the 6-digit code")
	ErrProfileFor       = errors.New("Choose who the profile is for")
)

const (
	MinPasswordLength = 8
	OTPLength         = 6
)

// local@domain.tld, no whitespace, a single @.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,18}[0-9]$`)

func Email(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}

// Credentials is the login check: a well-formed email and a non-empty password.
func Credentials(email string, password []byte) error {
	if err := Email(email); err != nil {
		return err
	}
	if len(password) == 0 {
		return ErrPasswordRequired
	}
	return nil
}

// NewPassword checks a password being set, on registration or reset.
func NewPassword(password, confirm []byte) error {
	if len(password) == 0 {
		return ErrPasswordRequired
	}
	var letter, digit bool
	for _, r := range string(password) {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if len([]rune(string(password))) < MinPasswordLength || !letter || !digit {
		return ErrPasswordWeak
	}
	if confirm != nil && string(password) != string(confirm) {
		return ErrPasswordMismatch
	}
	return nil
}

func OTP(otp string) error {
	if len(otp) != OTPLength {
		return ErrOTPInvalid
	}
	for _, r := range otp {
		if r < '0' || r > '9' {
			return ErrOTPInvalid
		}
	}
	return nil
}

func Phone(phone string) error {
	if !phonePattern.MatchString(strings.TrimSpace(phone)) {
		return ErrPhoneInvalid
	}
	return nil
}

// Registration checks every field of a sign-up form.
func Registration(reg models.Registration, confirm []byte) error {
	if strings.TrimSpace(reg.FullName) == "" {
		return ErrNameRequired
	}
	if err := Email(reg.Email); err != nil {
		return err
	}
	if err := Phone(reg.Phone); err != nil {
		return err
	}
	if reg.ProfileFor != "" && !reg.ProfileFor.Valid() {
		return ErrProfileFor
	}
	return NewPassword(reg.Password, confirm)
}
