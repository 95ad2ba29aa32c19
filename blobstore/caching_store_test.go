package blobstore

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/hupe1980/hepdf/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore wraps MemoryStore and counts backend reads.
type countingStore struct {
	*MemoryStore
	reads atomic.Int64
}

func (s *countingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.MemoryStore.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &countingBlob{Blob: b, reads: &s.reads}, nil
}

type countingBlob struct {
	Blob
	reads *atomic.Int64
}

func (b *countingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	b.reads.Add(1)
	return b.Blob.ReadAt(ctx, p, off)
}

func newCachingFixture(t *testing.T, data []byte, blockSize int64) (*countingStore, *CachingStore) {
	t.Helper()

	inner := &countingStore{MemoryStore: NewMemoryStore()}
	require.NoError(t, inner.Put(context.Background(), "blob", data))

	return inner, NewCachingStore(inner, cache.NewLRU(1<<20), blockSize)
}

func TestCachingStore_ReadThrough(t *testing.T) {
	ctx := context.Background()
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i)
	}

	inner, store := newCachingFixture(t, data, 256)

	b, err := store.Open(ctx, "blob")
	require.NoError(t, err)
	defer b.Close()

	got, err := ReadAll(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	firstReads := inner.reads.Load()
	assert.Positive(t, firstReads)

	// Second full read is served from cache.
	got, err = ReadAll(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, firstReads, inner.reads.Load())
}

func TestCachingStore_PartialReads(t *testing.T) {
	ctx := context.Background()
	data := []byte("0123456789abcdefghij")

	_, store := newCachingFixture(t, data, 4)

	b, err := store.Open(ctx, "blob")
	require.NoError(t, err)
	defer b.Close()

	buf := make([]byte, 6)
	n, err := b.ReadAt(ctx, buf, 7)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, []byte("789abc"), buf)

	assert.Equal(t, len(data), int(b.Size()))
}

func TestCachingStore_InvalidateOnPut(t *testing.T) {
	ctx := context.Background()
	inner, store := newCachingFixture(t, []byte("old data"), 4)

	b, err := store.Open(ctx, "blob")
	require.NoError(t, err)
	_, err = ReadAll(ctx, b)
	require.NoError(t, err)
	require.NoError(t, b.Close())

	require.NoError(t, store.Put(ctx, "blob", []byte("new data")))
	_ = inner

	b, err = store.Open(ctx, "blob")
	require.NoError(t, err)
	defer b.Close()

	got, err := ReadAll(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, []byte("new data"), got)
}

func TestCachingStore_ConcurrentReads(t *testing.T) {
	ctx := context.Background()
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i * 31)
	}

	_, store := newCachingFixture(t, data, 128)

	b, err := store.Open(ctx, "blob")
	require.NoError(t, err)
	defer b.Close()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(off int64) {
			defer wg.Done()
			buf := make([]byte, 512)
			n, err := b.ReadAt(ctx, buf, off)
			assert.NoError(t, err)
			assert.Equal(t, 512, n)
			assert.Equal(t, data[off:off+512], buf)
		}(int64(g * 512))
	}
	wg.Wait()
}
