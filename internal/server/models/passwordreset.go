package models

import "time"

// PasswordReset is a pending one-time code for one account. CodeHash is the
// SHA-256 of the code; Verified flips once the code has been confirmed.
type PasswordReset struct {
	UserID    string
	Email     string
	CodeHash  []byte
	Expires   time.Time
	Attempts  int
	Verified  bool
	CreatedAt time.Time
}
