package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestRedisTokenStore(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	store := NewRedisTokenStore(client)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "token-1", time.Minute))
	revoked, err = store.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := client.TTL(ctx, revokedKeyPrefix+"token-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	// already expired tokens are not stored
	require.NoError(t, store.Revoke(ctx, "token-2", -time.Second))
	revoked, err = store.IsRevoked(ctx, "token-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
