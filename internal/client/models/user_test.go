package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestUserPatch_Apply_OnlySetFieldsChange(t *testing.T) {
	u := User{ID: "u1", Email: "a@b.co", FullName: "Old", Phone: "+911", IsVerified: true}

	got := UserPatch{FullName: ptr("X")}.Apply(u)

	want := u
	want.FullName = "X"
	assert.Empty(t, cmp.Diff(want, got))
}

func TestUserPatch_Apply_AllFields(t *testing.T) {
	u := User{ID: "u1"}
	p := UserPatch{
		Email:           ptr("n@b.co"),
		FullName:        ptr("New"),
		Phone:           ptr("+44"),
		IsVerified:      ptr(true),
		ProfileComplete: ptr(true),
	}

	got := p.Apply(u)

	assert.Empty(t, cmp.Diff(User{
		ID: "u1", Email: "n@b.co", FullName: "New", Phone: "+44", IsVerified: true, ProfileComplete: true,
	}, got))
}

func TestUserPatch_Apply_FalseOverwritesTrue(t *testing.T) {
	got := UserPatch{IsVerified: ptr(false)}.Apply(User{IsVerified: true})
	assert.False(t, got.IsVerified)
}

func TestUserPatch_Empty(t *testing.T) {
	assert.True(t, UserPatch{}.Empty())
	assert.False(t, UserPatch{Phone: ptr("")}.Empty())
}

func TestUser_Clone(t *testing.T) {
	var nilUser *User
	assert.Nil(t, nilUser.Clone())

	u := &User{ID: "u1", FullName: "A"}
	c := u.Clone()
	c.FullName = "B"
	assert.Equal(t, "A", u.FullName)
}

func TestProfileFor_Valid(t *testing.T) {
	assert.True(t, ProfileForDaughter.Valid())
	assert.False(t, ProfileFor("cousin").Valid())
	assert.False(t, ProfileFor("").Valid())
}
