package bucket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locreg/pkg/requestcontext"
)

func at(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}

var noon = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestMemoryStore_Allow(t *testing.T) {
	store := NewMemory(0)
	const key = "write:account:a"

	for i := range 3 {
		result, err := store.Allow(at(noon.Add(time.Duration(i)*time.Second)), key, 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, 3, result.Limit)
		assert.Equal(t, 2-i, result.Remaining)
	}

	denied, err := store.Allow(at(noon.Add(10*time.Second)), key, 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, denied.Allowed)
	assert.Equal(t, 50, denied.RetryAfter)
	assert.Equal(t, noon.Add(time.Minute), denied.ResetAt)

	next, err := store.Allow(at(noon.Add(time.Minute)), key, 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, next.Allowed, "a new window starts on the boundary")
	assert.Equal(t, 2, next.Remaining)

	other, err := store.Allow(at(noon), "write:account:b", 3, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, other.Remaining, "keys are independent")
}

func TestMemoryStore_AllowN(t *testing.T) {
	store := NewMemory(0)
	ctx := at(noon)

	result, err := store.AllowN(ctx, "k", 4, 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 1, result.Remaining)

	result, err = store.AllowN(ctx, "k", 2, 5, time.Minute)
	require.NoError(t, err)
	assert.False(t, result.Allowed, "cost above the remaining budget is denied")
	assert.Equal(t, 4, store.Count(ctx, "k", time.Minute), "denied hits are not counted")
}

func TestMemoryStore_Reset(t *testing.T) {
	store := NewMemory(0)
	ctx := at(noon)

	_, err := store.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Reset(ctx, "k"))
	assert.Zero(t, store.Count(ctx, "k", time.Minute))

	result, err := store.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestMemoryStore_EvictsLeastRecentKey(t *testing.T) {
	store := NewMemory(2)
	ctx := at(noon)

	for _, key := range []string{"a", "b", "c"} {
		_, err := store.Allow(ctx, key, 1, time.Minute)
		require.NoError(t, err)
	}

	result, err := store.Allow(ctx, "a", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, result.Allowed, "evicted key starts over")
	assert.Equal(t, 1, store.Count(ctx, "c", time.Minute))
}

func TestMemoryStore_RejectsInvalidArguments(t *testing.T) {
	store := NewMemory(0)
	ctx := context.Background()

	for name, call := range map[string]func() error{
		"empty key":   func() error { _, err := store.AllowN(ctx, "", 1, 1, time.Minute); return err },
		"zero cost":   func() error { _, err := store.AllowN(ctx, "k", 0, 1, time.Minute); return err },
		"zero limit":  func() error { _, err := store.AllowN(ctx, "k", 1, 0, time.Minute); return err },
		"zero window": func() error { _, err := store.AllowN(ctx, "k", 1, 1, 0); return err },
	} {
		assert.Error(t, call(), name)
	}
}
