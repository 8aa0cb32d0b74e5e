package session

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/matrimo/internal/client/client"
	"github.com/dmitrijs2005/matrimo/internal/client/storage"
	"github.com/dmitrijs2005/matrimo/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	db, err := client.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	store := storage.New(db, []byte("device-secret"))

	c := &fakeClient{}
	c.setLogin(loginOK(asha()))
	first := New(c, store, logging.NewNopLogger())
	first.CheckAuthStatus(ctx)
	require.True(t, first.Login(ctx, "asha@example.com", []byte("pw")).Success)
	first.Close()

	c2 := &fakeClient{}
	second := New(c2, store, logging.NewNopLogger())
	defer second.Close()

	assert.Equal(t, DestinationHome, second.CheckAuthStatus(ctx))
	assert.Equal(t, asha(), second.User())
	a, r := c2.Tokens()
	assert.Equal(t, "access", a)
	assert.Equal(t, "refresh", r)

	require.True(t, second.Logout(ctx).Success)

	tok, err := store.GetStoreToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
	u, err := store.GetUserInfo(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)

	third := New(&fakeClient{}, store, logging.NewNopLogger())
	defer third.Close()
	assert.Equal(t, DestinationOnboarding, third.CheckAuthStatus(ctx))
}
