// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. Salt and Verifier hold the Argon2id
// password verifier; the password itself is never stored.
type User struct {
	ID              string
	Email           string
	FullName        string
	Phone           string
	Gender          string
	DateOfBirth     string
	ProfileFor      string
	Salt            []byte
	Verifier        []byte
	IsVerified      bool
	ProfileComplete bool
	CreatedAt       time.Time
}
