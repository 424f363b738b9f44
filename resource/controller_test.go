package resource

import (
	"bytes"
	"context"
	"io"
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

	// Over the limit: non-blocking acquire fails.
	ok := c.TryAcquireMemory(20)
	assert.False(t, ok)
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Blocking acquire times out.
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
	c := NewController(Config{})

	err := c.AcquireMemory(context.Background(), 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
}

func TestController_NilSafe(t *testing.T) {
	var c *Controller

	assert.True(t, c.TryAcquireMemory(10))
	c.ReleaseMemory(10)
	assert.NoError(t, c.AcquireMemory(context.Background(), 10))
	assert.NoError(t, c.AcquireIO(context.Background(), 10))
}

func TestRateLimitedWriter(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	var buf bytes.Buffer
	w := NewRateLimitedWriter(context.Background(), &buf, c)

	n, err := w.Write([]byte("snapshot bytes"))
	require.NoError(t, err)
	assert.Equal(t, 14, n)
	assert.Equal(t, "snapshot bytes", buf.String())
}

func TestRateLimitedReader(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	r := NewRateLimitedReader(context.Background(), bytes.NewReader([]byte("payload")), c)

	p := make([]byte, 7)
	n, err := r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(p[:n]))
}

func TestRateLimitedWriter_LargerThanBurst(t *testing.T) {
	// A single Write above one second's budget must be split into
	// burst-sized chunks rather than overflow the limiter.
	c := NewController(Config{IOLimitBytesPerSec: 64 << 10})

	payload := bytes.Repeat([]byte("x"), 80<<10)

	var buf bytes.Buffer
	w := NewRateLimitedWriter(context.Background(), &buf, c)

	n, err := w.Write(payload)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)
	assert.Equal(t, len(payload), buf.Len())
}

func TestRateLimitedReader_LargerThanBurst(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 64 << 10})

	payload := bytes.Repeat([]byte("y"), 80<<10)

	r := NewRateLimitedReader(context.Background(), bytes.NewReader(payload), c)

	got := make([]byte, len(payload))
	n, err := io.ReadFull(r, got)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)
	assert.Equal(t, payload, got)
}
