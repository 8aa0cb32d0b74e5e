package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	secret := []byte("device-secret")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(secret, salt)
	key2 := DeriveKey(secret, salt)

	require.Len(t, key1, KeySize)
	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	secret := []byte("device-secret")

	key1 := DeriveKey(secret, []byte("salt-1"))
	key2 := DeriveKey(secret, []byte("salt-2"))

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different salts, got same")
	}
}

func TestMakeVerifier(t *testing.T) {
	v := MakeVerifier([]byte("key"))
	assert.Len(t, v, 32)
	assert.Equal(t, v, MakeVerifier([]byte("key")))
	assert.NotEqual(t, v, MakeVerifier([]byte("other")))
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("s"), []byte("salt"))

	sealed, err := Seal([]byte("access-token"), key)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "access-token")

	plain, err := Open(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, "access-token", string(plain))
}

func TestSeal_FreshNoncePerCall(t *testing.T) {
	key := DeriveKey([]byte("s"), []byte("salt"))

	a, err := Seal([]byte("same"), key)
	require.NoError(t, err)
	b, err := Seal([]byte("same"), key)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestOpen_WrongKeyFails(t *testing.T) {
	key := DeriveKey([]byte("s"), []byte("salt"))
	other := DeriveKey([]byte("x"), []byte("salt"))

	sealed, err := Seal([]byte("secret"), key)
	require.NoError(t, err)

	_, err = Open(sealed, other)
	require.Error(t, err)
}

func TestOpen_Malformed(t *testing.T) {
	key := DeriveKey([]byte("s"), []byte("salt"))

	_, err := Open([]byte{1, 2, 3}, key)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestSeal_BadKeyLength(t *testing.T) {
	_, err := Seal([]byte("x"), []byte("short"))
	require.Error(t, err)
}

func TestSealJSON_OpenJSON(t *testing.T) {
	type profile struct {
		ID       string `json:"id"`
		FullName string `json:"full_name"`
	}
	key := DeriveKey([]byte("s"), []byte("salt"))

	sealed, err := SealJSON(profile{ID: "u1", FullName: "Asha Rao"}, key)
	require.NoError(t, err)

	var got profile
	require.NoError(t, OpenJSON(sealed, key, &got))
	assert.Equal(t, profile{ID: "u1", FullName: "Asha Rao"}, got)
}
