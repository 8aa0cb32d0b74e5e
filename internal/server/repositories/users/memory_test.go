package users

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/matrimo/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	created, err := r.Create(ctx, newUser())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = r.Create(ctx, newUser())
	require.ErrorIs(t, err, common.ErrorAlreadyExists)

	got, err := r.GetUserByEmail(ctx, "kavya@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	got.Verifier[0] = 'X'
	again, err := r.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("verifier"), again.Verifier, "stored user must not alias returned copies")

	require.NoError(t, r.UpdatePassword(ctx, created.ID, []byte("s2"), []byte("v2")))
	again, err = r.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), again.Verifier)

	_, err = r.GetUserByEmail(ctx, "ghost@example.com")
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.ErrorIs(t, r.UpdatePassword(ctx, "ghost", nil, nil), common.ErrorNotFound)
}
