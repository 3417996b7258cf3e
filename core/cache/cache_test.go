package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetAndTake(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.SetOAuthState(ctx, "state-1", time.Minute))

	ok, err := c.TakeOAuthState(ctx, "state-1")
	require.NoError(t, err)
	assert.True(t, ok)

	// One-time use: the second take fails.
	ok, err = c.TakeOAuthState(ctx, "state-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_UnknownState(t *testing.T) {
	c := NewMemoryCache()

	ok, err := c.TakeOAuthState(context.Background(), "never-set")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_ExpiredState(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.SetOAuthState(ctx, "state-1", -time.Second))

	ok, err := c.TakeOAuthState(ctx, "state-1")
	require.NoError(t, err)
	assert.False(t, ok)
}
