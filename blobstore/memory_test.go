package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutOpen(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, "ntuple.hfs", []byte("hello world")))

	b, err := store.Open(ctx, "ntuple.hfs")
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, int64(11), b.Size())

	data, err := ReadAll(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), data)
}

func TestMemoryStore_OpenMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Open(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Create(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	w, err := store.Create(ctx, "out")
	require.NoError(t, err)

	_, err = w.Write([]byte("part1 "))
	require.NoError(t, err)
	_, err = w.Write([]byte("part2"))
	require.NoError(t, err)

	// Not visible until Close.
	_, err = store.Open(ctx, "out")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	b, err := store.Open(ctx, "out")
	require.NoError(t, err)
	defer b.Close()

	data, err := ReadAll(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, []byte("part1 part2"), data)
}

func TestMemoryStore_AbortDiscards(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, "snap", []byte("good")))

	w, err := store.Create(ctx, "snap")
	require.NoError(t, err)
	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)
	require.NoError(t, w.Abort())
	require.NoError(t, w.Close()) // after Abort, Close publishes nothing

	b, err := store.Open(ctx, "snap")
	require.NoError(t, err)
	defer b.Close()

	data, err := ReadAll(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, []byte("good"), data)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, "a", []byte("x")))
	require.NoError(t, store.Delete(ctx, "a"))

	_, err := store.Open(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_List(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, "run1/a.hfs", []byte("x")))
	require.NoError(t, store.Put(ctx, "run1/b.hfs", []byte("y")))
	require.NoError(t, store.Put(ctx, "run2/c.hfs", []byte("z")))

	names, err := store.List(ctx, "run1/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"run1/a.hfs", "run1/b.hfs"}, names)
}

func TestMemoryBlob_ReadAt(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, "a", []byte("0123456789")))

	b, err := store.Open(ctx, "a")
	require.NoError(t, err)
	defer b.Close()

	buf := make([]byte, 4)
	n, err := b.ReadAt(ctx, buf, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte("3456"), buf)

	// Read crossing the end yields a short count and EOF.
	n, err = b.ReadAt(ctx, buf, 8)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.EOF)
}
