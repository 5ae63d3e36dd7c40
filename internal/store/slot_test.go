package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]SlotBackend {
	t.Helper()

	fileSlots, err := NewFileSlots(filepath.Join(t.TempDir(), "slots"))
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return map[string]SlotBackend{
		"sqlite": openTestStore(t).Slots(),
		"file":   fileSlots,
		"memory": NewMemorySlots(),
		"redis":  NewRedisSlotsFromClient(rdb, "test"),
	}
}

func TestSlotBackends(t *testing.T) {
	ctx := context.Background()

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := b.Read(ctx, "records")
			assert.True(t, errors.Is(err, ErrSlotEmpty), "empty read: %v", err)

			require.NoError(t, b.Write(ctx, "records", []byte(`["a"]`)))
			got, err := b.Read(ctx, "records")
			require.NoError(t, err)
			assert.Equal(t, `["a"]`, string(got))

			require.NoError(t, b.Write(ctx, "records", []byte(`["b","a"]`)))
			got, err = b.Read(ctx, "records")
			require.NoError(t, err)
			assert.Equal(t, `["b","a"]`, string(got))

			require.NoError(t, b.Delete(ctx, "records"))
			_, err = b.Read(ctx, "records")
			assert.True(t, errors.Is(err, ErrSlotEmpty))

			// Deleting a missing slot is not an error.
			require.NoError(t, b.Delete(ctx, "records"))
		})
	}
}

func TestRedisSlotsKeyPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	b := NewRedisSlotsFromClient(rdb, "")
	require.NoError(t, b.Write(context.Background(), DefaultSlot, []byte(`[]`)))

	v, err := mr.Get("strokerisk:" + DefaultSlot)
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)
}

func TestNewRedisSlotsPingFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisSlots(context.Background(), RedisConfig{Address: addr})
	assert.Error(t, err)
}

func TestFileSlotsRejectsPathNames(t *testing.T) {
	b, err := NewFileSlots(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../x", "a/b", ".."} {
		assert.Error(t, b.Write(context.Background(), name, []byte("x")), "slot %q", name)
	}
}

func TestWriteFileAtomicLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	require.NoError(t, WriteFileAtomic(path, []byte("one"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("two"), 0o644))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))
}
