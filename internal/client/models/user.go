// Package models defines the client-side account types shared by the
// session, the transports and the console.
package models

// User is the authenticated account as the client sees it. A non-nil *User
// held by the session means the session is authenticated.
type User struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	FullName        string `json:"fullName"`
	Phone           string `json:"phone"`
	IsVerified      bool   `json:"isVerified"`
	ProfileComplete bool   `json:"profileComplete"`
}

// Clone returns a copy of u; nil stays nil.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// UserPatch carries a partial update. Nil fields are left untouched.
type UserPatch struct {
	Email           *string `json:"email,omitempty"`
	FullName        *string `json:"fullName,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	IsVerified      *bool   `json:"isVerified,omitempty"`
	ProfileComplete *bool   `json:"profileComplete,omitempty"`
}

// Empty reports whether the patch sets no field.
func (p UserPatch) Empty() bool {
	return p.Email == nil && p.FullName == nil && p.Phone == nil &&
		p.IsVerified == nil && p.ProfileComplete == nil
}

// Apply returns a copy of u with the patch merged in. The identity is never changed.
func (p UserPatch) Apply(u User) User {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.IsVerified != nil {
		u.IsVerified = *p.IsVerified
	}
	if p.ProfileComplete != nil {
		u.ProfileComplete = *p.ProfileComplete
	}
	return u
}

// ProfileFor says on whose behalf a matrimony profile is created.
type ProfileFor string

const (
	ProfileForSelf     ProfileFor = "self"
	ProfileForSon      ProfileFor = "son"
	ProfileForDaughter ProfileFor = "daughter"
	ProfileForSibling  ProfileFor = "sibling"
	ProfileForRelative ProfileFor = "relative"
	ProfileForFriend   ProfileFor = "friend"
)

// Valid reports whether p is one of the known values.
func (p ProfileFor) Valid() bool {
	switch p {
	case ProfileForSelf, ProfileForSon, ProfileForDaughter,
		ProfileForSibling, ProfileForRelative, ProfileForFriend:
		return true
	}
	return false
}

// Registration is the sign-up payload sent to the auth service.
type Registration struct {
	FullName    string     `json:"fullName"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Password    []byte     `json:"-"`
	Gender      string     `json:"gender,omitempty"`
	DateOfBirth string     `json:"dateOfBirth,omitempty"`
	ProfileFor  ProfileFor `json:"profileFor,omitempty"`
}

// AuthData is the payload of a successful login.
type AuthData struct {
	AccessToken  string
	RefreshToken string
	User         *User
}
