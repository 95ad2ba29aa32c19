// Package blobstore provides storage abstraction for immutable event-frame
// snapshots.
//
// BlobStore is the interface for reading and writing snapshot blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem with mmap reads and atomic-rename writes
//   - MemoryStore: in-memory store for tests
//   - CachingStore: block-level read caching decorator for remote stores
//   - s3.Store: Amazon S3 with range reads and managed uploads
//   - minio.Store: MinIO and other S3-compatible endpoints
package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// ErrWriteAborted is the cause an in-flight upload observes when its
// WritableBlob is aborted.
var ErrWriteAborted = errors.New("blobstore: write aborted")

// BlobStore is an abstraction for accessing immutable snapshot blobs.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)

	// Create creates a new blob for streaming writes.
	// The blob becomes visible when the returned handle is closed.
	Create(ctx context.Context, name string) (WritableBlob, error)

	// Put writes a blob atomically.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes a blob.
	Delete(ctx context.Context, name string) error

	// List returns all blob names with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a snapshot blob.
type Blob interface {
	// ReadAt reads len(p) bytes starting at offset off.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)

	// Size returns the size of the blob in bytes.
	Size() int64

	io.Closer
}

// WritableBlob is a streaming write handle. Exactly one of Close or Abort
// must be called: Close publishes the blob, Abort discards it without
// touching any existing blob of the same name.
type WritableBlob interface {
	io.Writer
	io.Closer

	// Sync flushes buffered data to stable storage where supported.
	Sync() error

	// Abort discards everything written; the blob never becomes visible.
	Abort() error
}

// ReadAll reads the full contents of a blob.
func ReadAll(ctx context.Context, b Blob) ([]byte, error) {
	data := make([]byte, b.Size())
	if len(data) == 0 {
		return data, nil
	}
	n, err := b.ReadAt(ctx, data, 0)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return data[:n], nil
}
