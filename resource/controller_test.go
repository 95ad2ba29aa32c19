package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	err := c.AcquireMemory(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), c.MemoryUsage())

	err = c.AcquireMemory(context.Background(), 40)
	require.NoError(t, err)
	assert.Equal(t, int64(90), c.MemoryUsage())

	ok := c.TryAcquireMemory(20)
	assert.False(t, ok)
	assert.Equal(t, int64(90), c.MemoryUsage())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err = c.AcquireMemory(ctx, 20)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	err = c.AcquireMemory(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, int64(60), c.MemoryUsage())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 0})

	err := c.AcquireMemory(context.Background(), 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
}

func TestController_SnapshotJobs(t *testing.T) {
	c := NewController(Config{MaxSnapshotJobs: 2})

	require.NoError(t, c.AcquireSnapshotJob(context.Background()))
	require.NoError(t, c.AcquireSnapshotJob(context.Background()))

	assert.False(t, c.TryAcquireSnapshotJob())

	c.ReleaseSnapshotJob()

	assert.True(t, c.TryAcquireSnapshotJob())
}

func TestController_Nil(t *testing.T) {
	var c *Controller

	require.NoError(t, c.AcquireMemory(context.Background(), 100))
	assert.True(t, c.TryAcquireMemory(100))
	c.ReleaseMemory(100)
	assert.Equal(t, int64(0), c.MemoryUsage())

	require.NoError(t, c.AcquireSnapshotJob(context.Background()))
	assert.True(t, c.TryAcquireSnapshotJob())
	c.ReleaseSnapshotJob()

	require.NoError(t, c.AcquireIO(context.Background(), 1<<20))
}

func TestController_IOLimit(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1000})

	// Burst capacity covers the first request.
	require.NoError(t, c.AcquireIO(context.Background(), 1000))

	// The next request exceeds what the window allows in time.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := c.AcquireIO(ctx, 1000)
	assert.Error(t, err)
}

func TestController_IOLimit_LargerThanBurst(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 4 << 20})

	// A request above one second of budget throttles instead of failing.
	start := time.Now()
	require.NoError(t, c.AcquireIO(context.Background(), 5<<20))
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}
