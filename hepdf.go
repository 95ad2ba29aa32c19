package hepdf

import (
	"context"

	"github.com/hupe1980/hepdf/blobstore"
	"github.com/hupe1980/hepdf/codec"
	"github.com/hupe1980/hepdf/frame"
	"github.com/hupe1980/hepdf/resource"
)

// SnapshotOptions configures Save and Open.
type SnapshotOptions struct {
	// Codec serializes the snapshot schema. Default: codec.Default (JSON).
	Codec codec.Codec

	// Controller bounds snapshot concurrency and IO throughput.
	// Nil means unbounded.
	Controller *resource.Controller

	// Logger traces snapshot operations. Nil disables tracing.
	Logger *Logger

	// FrameOptions are applied to frames returned by Open.
	FrameOptions []frame.Option
}

func applySnapshotOptions(optFns []func(*SnapshotOptions)) *SnapshotOptions {
	opts := &SnapshotOptions{
		Codec: codec.Default,
	}
	for _, fn := range optFns {
		fn(opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	return opts
}

// WithCodec sets the schema codec for a snapshot operation.
func WithCodec(c codec.Codec) func(*SnapshotOptions) {
	return func(o *SnapshotOptions) { o.Codec = c }
}

// WithController sets the resource controller for a snapshot operation.
func WithController(rc *resource.Controller) func(*SnapshotOptions) {
	return func(o *SnapshotOptions) { o.Controller = rc }
}

// WithLogger sets the logger for a snapshot operation.
func WithLogger(l *Logger) func(*SnapshotOptions) {
	return func(o *SnapshotOptions) { o.Logger = l }
}

// WithFrameOptions sets options applied to frames returned by Open.
func WithFrameOptions(frameOpts ...frame.Option) func(*SnapshotOptions) {
	return func(o *SnapshotOptions) { o.FrameOptions = frameOpts }
}

// Save serializes the frame into a snapshot blob in the store.
// The blob becomes visible atomically when the write completes.
func Save(ctx context.Context, store blobstore.BlobStore, name string, f *frame.EventFrame, optFns ...func(*SnapshotOptions)) error {
	opts := applySnapshotOptions(optFns)

	if err := opts.Controller.AcquireSnapshotJob(ctx); err != nil {
		return wrapSnapshotErr("save", name, err)
	}
	defer opts.Controller.ReleaseSnapshotJob()

	w, err := store.Create(ctx, name)
	if err != nil {
		return wrapSnapshotErr("save", name, err)
	}

	limited := resource.NewRateLimitedWriter(ctx, w, opts.Controller)
	if err := f.Save(limited, opts.Codec); err != nil {
		// A partial snapshot must never replace a previously published one.
		_ = w.Abort()
		return wrapSnapshotErr("save", name, err)
	}

	if err := w.Close(); err != nil {
		return wrapSnapshotErr("save", name, err)
	}

	if opts.Logger != nil {
		opts.Logger.InfoContext(ctx, "snapshot saved",
			"name", name,
			"events", f.NumEntries(),
			"columns", len(f.ColumnNames()),
		)
	}
	return nil
}

// Open loads a frame snapshot from the store.
// Returns ErrSnapshotNotFound if the blob does not exist.
func Open(ctx context.Context, store blobstore.BlobStore, name string, optFns ...func(*SnapshotOptions)) (*frame.EventFrame, error) {
	opts := applySnapshotOptions(optFns)

	if err := opts.Controller.AcquireSnapshotJob(ctx); err != nil {
		return nil, wrapSnapshotErr("open", name, err)
	}
	defer opts.Controller.ReleaseSnapshotJob()

	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, wrapSnapshotErr("open", name, err)
	}
	defer b.Close()

	if err := opts.Controller.AcquireIO(ctx, int(b.Size())); err != nil {
		return nil, wrapSnapshotErr("open", name, err)
	}

	data, err := blobstore.ReadAll(ctx, b)
	if err != nil {
		return nil, wrapSnapshotErr("open", name, err)
	}

	f, err := frame.Load(data, opts.FrameOptions...)
	if err != nil {
		return nil, wrapSnapshotErr("open", name, err)
	}

	if opts.Logger != nil {
		opts.Logger.InfoContext(ctx, "snapshot loaded",
			"name", name,
			"events", f.NumEntries(),
			"columns", len(f.ColumnNames()),
		)
	}
	return f, nil
}
