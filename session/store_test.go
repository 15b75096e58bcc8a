package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client), mr
}

func TestLoad_MissingCartIsEmpty(t *testing.T) {
	store, _ := setupTestStore(t)

	cart, err := store.Load(context.Background(), "sess-1")

	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.NotNil(t, cart.Lines)
}

func TestSaveLoad_Roundtrip(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	added := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	cart := NewCart()
	cart.Lines[7] = CartLine{Quantity: 2, AddedAt: added}

	require.NoError(t, store.Save(ctx, "sess-1", cart))

	got, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Lines[7].Quantity)
	assert.True(t, got.Lines[7].AddedAt.Equal(added))

	ttl := mr.TTL("cart:sess-1")
	assert.Equal(t, TTLCart, ttl)
}

func TestLoad_UnknownVersionDiscarded(t *testing.T) {
	store, mr := setupTestStore(t)

	mr.Set("cart:sess-1", `{"version":99,"lines":{"7":{"quantity":2}}}`)

	cart, err := store.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestClear_RemovesCart(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	cart := NewCart()
	cart.Lines[1] = CartLine{Quantity: 1, AddedAt: time.Now()}
	require.NoError(t, store.Save(ctx, "sess-1", cart))

	require.NoError(t, store.Clear(ctx, "sess-1"))
	assert.False(t, mr.Exists("cart:sess-1"))
}
