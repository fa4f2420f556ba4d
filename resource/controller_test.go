package resource

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerMemory(t *testing.T) {
	t.Run("within budget", func(t *testing.T) {
		c := NewController(Config{MemoryLimitBytes: 1024})

		assert.True(t, c.TryAcquireMemory(512))
		assert.Equal(t, int64(512), c.MemoryUsage())

		c.ReleaseMemory(512)
		assert.Equal(t, int64(0), c.MemoryUsage())
	})

	t.Run("over budget fails fast", func(t *testing.T) {
		c := NewController(Config{MemoryLimitBytes: 1024})

		assert.True(t, c.TryAcquireMemory(1024))
		assert.False(t, c.TryAcquireMemory(1))

		c.ReleaseMemory(1024)
		assert.True(t, c.TryAcquireMemory(1))
	})

	t.Run("no limit only tracks", func(t *testing.T) {
		c := NewController(Config{})

		assert.True(t, c.TryAcquireMemory(1<<40))
		assert.Equal(t, int64(1<<40), c.MemoryUsage())
	})

	t.Run("nil controller is unbudgeted", func(t *testing.T) {
		var c *Controller

		assert.True(t, c.TryAcquireMemory(1<<40))
		c.ReleaseMemory(1 << 40)
		assert.Equal(t, int64(0), c.MemoryUsage())
		assert.Equal(t, 1, c.MaxWorkers())
	})
}

func TestControllerWorkers(t *testing.T) {
	c := NewController(Config{MaxWorkers: 2})
	ctx := context.Background()

	assert.Equal(t, 2, c.MaxWorkers())

	require.NoError(t, c.AcquireWorker(ctx))
	require.NoError(t, c.AcquireWorker(ctx))

	// Third slot is only available after a release.
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, c.AcquireWorker(cancelled))

	c.ReleaseWorker()
	require.NoError(t, c.AcquireWorker(ctx))

	c.ReleaseWorker()
	c.ReleaseWorker()
}

func TestRateLimitedWriter(t *testing.T) {
	t.Run("unlimited passes through", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewRateLimitedWriter(context.Background(), &buf, nil)

		n, err := w.Write([]byte("hello"))
		require.NoError(t, err)
		assert.Equal(t, 5, n)
		assert.Equal(t, "hello", buf.String())
	})

	t.Run("limited still writes everything", func(t *testing.T) {
		c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

		var buf bytes.Buffer
		w := NewRateLimitedWriter(context.Background(), &buf, c)

		payload := bytes.Repeat([]byte("x"), 4096)
		n, err := w.Write(payload)
		require.NoError(t, err)
		assert.Equal(t, len(payload), n)
		assert.Equal(t, payload, buf.Bytes())
	})
}
