package blobstore

import (
	"context"
	"errors"
	"io"

	"github.com/hupe1980/hepdf/cache"
	"golang.org/x/sync/errgroup"
)

// CachingStore wraps a BlobStore and adds block-level read caching.
// Useful in front of remote stores (S3, MinIO) when snapshot sections are
// read repeatedly, e.g. across analysis reruns.
type CachingStore struct {
	inner     BlobStore
	cache     cache.BlockCache
	blockSize int64
}

// NewCachingStore creates a new CachingStore.
// blockSize defaults to 256KB if <= 0.
func NewCachingStore(inner BlobStore, blockCache cache.BlockCache, blockSize int64) *CachingStore {
	if blockSize <= 0 {
		blockSize = 256 << 10
	}
	return &CachingStore{
		inner:     inner,
		cache:     blockCache,
		blockSize: blockSize,
	}
}

// Open opens a blob whose reads go through the block cache.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &cachingBlob{
		inner:     b,
		cache:     s.cache,
		name:      name,
		blockSize: s.blockSize,
	}, nil
}

// Create passes through; blobs are immutable so writes are never cached.
func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	return s.inner.Create(ctx, name)
}

// Put invalidates cached blocks for the name and writes through.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.cache.Invalidate(func(key cache.Key) bool {
		return key.Path == name
	})
	return s.inner.Put(ctx, name, data)
}

// Delete invalidates cached blocks for the name and deletes through.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.cache.Invalidate(func(key cache.Key) bool {
		return key.Path == name
	})
	return s.inner.Delete(ctx, name)
}

// List passes through.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// cachingBlob serves reads from the block cache, fetching missing runs of
// blocks from the inner blob in parallel.
type cachingBlob struct {
	inner     Blob
	cache     cache.BlockCache
	name      string
	blockSize int64
}

func (b *cachingBlob) Size() int64 {
	return b.inner.Size()
}

func (b *cachingBlob) Close() error {
	return b.inner.Close()
}

func (b *cachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	size := b.Size()
	if off >= size {
		return 0, io.EOF
	}

	startBlock := off / b.blockSize
	endBlock := (off + int64(len(p)) - 1) / b.blockSize

	if err := b.fillCache(ctx, startBlock, endBlock); err != nil {
		return 0, err
	}

	totalRead := 0
	for blk := startBlock; blk <= endBlock; blk++ {
		data, err := b.fetchBlock(ctx, blk)
		if err != nil {
			return totalRead, err
		}

		blkStart := blk * b.blockSize
		intersectStart := max(blkStart, off)
		intersectEnd := min(blkStart+int64(len(data)), off+int64(len(p)))
		if intersectEnd <= intersectStart {
			break
		}

		n := copy(p[intersectStart-off:intersectEnd-off], data[intersectStart-blkStart:])
		totalRead += n
	}

	if int64(totalRead) < int64(len(p)) && off+int64(totalRead) >= size {
		return totalRead, io.EOF
	}
	return totalRead, nil
}

// fillCache fetches contiguous runs of missing blocks in parallel, one
// backend request per run.
func (b *cachingBlob) fillCache(ctx context.Context, startBlock, endBlock int64) error {
	type run struct{ start, count int64 }
	var missing []run

	current := run{start: -1}
	for blk := startBlock; blk <= endBlock; blk++ {
		key := cache.Key{Path: b.name, Block: uint64(blk)}
		if _, ok := b.cache.Get(ctx, key); ok {
			if current.start != -1 {
				missing = append(missing, current)
				current = run{start: -1}
			}
			continue
		}
		if current.start == -1 {
			current = run{start: blk, count: 1}
		} else {
			current.count++
		}
	}
	if current.start != -1 {
		missing = append(missing, current)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(16) // avoid FD exhaustion / backend rate limits

	size := b.Size()
	for _, r := range missing {
		g.Go(func() error {
			byteStart := r.start * b.blockSize
			if byteStart >= size {
				return nil
			}
			byteLen := min(r.count*b.blockSize, size-byteStart)

			buf := make([]byte, byteLen)
			n, err := b.inner.ReadAt(gctx, buf, byteStart)
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}

			for i := int64(0); i < r.count; i++ {
				lo := i * b.blockSize
				if lo >= int64(n) {
					break
				}
				hi := min(lo+b.blockSize, int64(n))

				// Copy so the large fetch buffer is not pinned by the cache.
				block := make([]byte, hi-lo)
				copy(block, buf[lo:hi])
				b.cache.Set(gctx, cache.Key{Path: b.name, Block: uint64(r.start + i)}, block)
			}
			return nil
		})
	}
	return g.Wait()
}

func (b *cachingBlob) fetchBlock(ctx context.Context, blk int64) ([]byte, error) {
	key := cache.Key{Path: b.name, Block: uint64(blk)}
	if data, ok := b.cache.Get(ctx, key); ok {
		return data, nil
	}

	buf := make([]byte, b.blockSize)
	n, err := b.inner.ReadAt(ctx, buf, blk*b.blockSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	data := buf[:n]
	if n > 0 {
		b.cache.Set(ctx, key, data)
	}
	return data, nil
}
