// Package cache provides block caching for remote snapshot reads.
package cache

import "context"

// Key identifies one block of one blob.
// Blobs are immutable, so path + block index is stable across processes.
type Key struct {
	// Path is the blob name within its store.
	Path string
	// Block is a logical block index within the blob.
	Block uint64
}

// BlockCache is a byte-oriented cache for immutable blocks.
// Returned slices must be treated as read-only.
// Implementations must be safe for concurrent use.
type BlockCache interface {
	// Get returns a cached block. ok=false if missing.
	Get(ctx context.Context, key Key) (b []byte, ok bool)

	// Set caches a block. Implementations may copy or retain; caller must
	// treat b as immutable.
	Set(ctx context.Context, key Key, b []byte)

	// Invalidate drops all entries matching the predicate.
	Invalidate(match func(Key) bool)
}
