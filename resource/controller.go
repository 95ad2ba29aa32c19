// Package resource bounds the memory and IO footprint of frame operations.
//
// Analysis jobs often share worker nodes. The Controller lets a process cap
// the memory held by materialized columns, the number of concurrent
// snapshot jobs, and the snapshot IO throughput, so one job cannot starve
// its neighbors.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for column memory.
	// If 0, usage is tracked but not enforced.
	MemoryLimitBytes int64

	// MaxSnapshotJobs is the maximum number of concurrent snapshot
	// save/load jobs. If 0, defaults to 1.
	MaxSnapshotJobs int64

	// IOLimitBytesPerSec is the maximum snapshot IO throughput.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages process-wide resources for frame operations.
// A nil *Controller is valid and enforces nothing.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	snapSem *semaphore.Weighted

	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxSnapshotJobs <= 0 {
		cfg.MaxSnapshotJobs = 1
	}

	c := &Controller{
		cfg:     cfg,
		snapSem: semaphore.NewWeighted(cfg.MaxSnapshotJobs),
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// AcquireMemory reserves memory for column storage.
// If a hard limit is configured and usage would exceed it, this blocks
// until memory is released or ctx is canceled.
func (c *Controller) AcquireMemory(ctx context.Context, bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if err := c.memSem.Acquire(ctx, bytes); err != nil {
			return err
		}
	}

	c.memUsed.Add(bytes)
	return nil
}

// TryAcquireMemory reserves memory without blocking.
// Returns false if the limit would be exceeded.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil || bytes <= 0 {
		return true
	}

	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		return false
	}

	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current reserved memory in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// AcquireSnapshotJob reserves a snapshot job slot.
// Blocks if all slots are busy.
func (c *Controller) AcquireSnapshotJob(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.snapSem.Acquire(ctx, 1)
}

// TryAcquireSnapshotJob reserves a snapshot job slot without blocking.
func (c *Controller) TryAcquireSnapshotJob() bool {
	if c == nil {
		return true
	}
	return c.snapSem.TryAcquire(1)
}

// ReleaseSnapshotJob releases a snapshot job slot.
func (c *Controller) ReleaseSnapshotJob() {
	if c == nil {
		return
	}
	c.snapSem.Release(1)
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
// Requests larger than one second of budget are charged in burst-sized
// slices, so they throttle instead of exceeding the limiter's capacity.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}

	burst := c.ioLimiter.Burst()
	for bytes > 0 {
		n := min(bytes, burst)
		if err := c.ioLimiter.WaitN(ctx, n); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}
