package repository_test

import (
	"context"
	"testing"

	"go-inventory-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyRepo_ReserveOnce(t *testing.T) {
	repo := repository.NewIdempotencyRepo(setupDB(t))
	ctx := context.Background()
	user := uuid.New()

	reserved, err := repo.Reserve(ctx, user, "till-1")
	require.NoError(t, err)
	assert.True(t, reserved)

	reserved, err = repo.Reserve(ctx, user, "till-1")
	require.NoError(t, err)
	assert.False(t, reserved)

	// keys are scoped per user
	reserved, err = repo.Reserve(ctx, uuid.New(), "till-1")
	require.NoError(t, err)
	assert.True(t, reserved)

	require.NoError(t, repo.Release(ctx, user, "till-1"))
	reserved, err = repo.Reserve(ctx, user, "till-1")
	require.NoError(t, err)
	assert.True(t, reserved)
}
