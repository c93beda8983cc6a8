package sqlite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func openTestStore(t *testing.T, path string) *KVStore {
	t.Helper()

	store, err := Open(context.Background(), path,
		noop.NewTracerProvider().Tracer("test"),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.NoError(t, err)
	return store
}

func TestKVStore_RoundTrip(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "store.db"))
	defer store.Close()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "adg_users")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "adg_users", `[]`))
	require.NoError(t, store.Set(ctx, "adg_users", `[{"email":"a@b.c"}]`))

	value, ok, err := store.Get(ctx, "adg_users")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"email":"a@b.c"}]`, value)

	require.NoError(t, store.Remove(ctx, "adg_users"))
	require.NoError(t, store.Remove(ctx, "adg_users"))

	_, ok, err = store.Get(ctx, "adg_users")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKVStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	ctx := context.Background()

	first := openTestStore(t, path)
	require.NoError(t, first.Set(ctx, "adg_cart", `[{"productId":"h1","quantity":2}]`))
	require.NoError(t, first.Close())

	second := openTestStore(t, path)
	defer second.Close()

	value, ok, err := second.Get(ctx, "adg_cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"productId":"h1","quantity":2}]`, value)
}

func TestKVStore_ClosedHandleFails(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, store.Close())

	_, _, err := store.Get(context.Background(), "k")
	assert.Error(t, err)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "  ", noop.NewTracerProvider().Tracer("test"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorContains(t, err, "storage path is required")
}
