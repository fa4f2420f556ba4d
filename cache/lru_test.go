package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/rhythmgo/resource"
)

func TestLRU(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})
	c := NewLRU(50, rc)

	v := func(n int) []byte { return make([]byte, n) }

	c.Set("a", v(20))
	assert.Equal(t, int64(20), c.Size())
	assert.Equal(t, int64(20), rc.MemoryUsage())

	c.Set("b", v(20))
	assert.Equal(t, int64(40), c.Size())
	assert.Equal(t, int64(40), rc.MemoryUsage())

	// 60 bytes exceeds the 50 byte capacity, so "a" gets evicted.
	c.Set("c", v(20))
	assert.Equal(t, int64(40), c.Size())
	assert.Equal(t, int64(40), rc.MemoryUsage())

	_, ok := c.Get("a")
	assert.False(t, ok, "a should be evicted")

	_, ok = c.Get("b")
	assert.True(t, ok, "b should be present")

	_, ok = c.Get("c")
	assert.True(t, ok, "c should be present")
}

func TestLRU_GlobalLimit(t *testing.T) {
	// Global budget is tighter than the cache capacity. When the
	// controller denies an acquire, the entry is simply not cached.
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 30})
	c := NewLRU(100, rc)

	c.Set("a", make([]byte, 20))
	assert.Equal(t, int64(20), c.Size())

	c.Set("b", make([]byte, 20))
	assert.Equal(t, int64(20), c.Size())

	_, ok := c.Get("b")
	assert.False(t, ok)
}

func TestLRU_Update(t *testing.T) {
	c := NewLRU(100, nil)

	c.Set("a", make([]byte, 20))
	c.Set("a", make([]byte, 40))
	assert.Equal(t, int64(40), c.Size())

	c.Set("a", make([]byte, 10))
	assert.Equal(t, int64(10), c.Size())
}

func TestLRU_UpdateDenied(t *testing.T) {
	// A grow that the global budget rejects must drop the entry rather
	// than keep serving the old bytes.
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 30})
	c := NewLRU(100, rc)

	c.Set("a", make([]byte, 10))
	rc.TryAcquireMemory(20) // exhaust the budget

	c.Set("a", make([]byte, 25))

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, int64(0), c.Size())
	assert.Equal(t, int64(20), rc.MemoryUsage(), "only the outside reservation remains")
}

func TestLRU_Oversized(t *testing.T) {
	c := NewLRU(10, nil)

	c.Set("big", make([]byte, 11))
	assert.Equal(t, int64(0), c.Size())

	_, ok := c.Get("big")
	assert.False(t, ok)
}

func TestLRU_Invalidate(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})
	c := NewLRU(100, rc)

	c.Set("a", make([]byte, 20))
	c.Invalidate("a")

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, int64(0), c.Size())
	assert.Equal(t, int64(0), rc.MemoryUsage())

	// Invalidating a missing key is a no-op.
	c.Invalidate("a")
}

func TestLRU_Purge(t *testing.T) {
	c := NewLRU(100, nil)
	c.Set("a", make([]byte, 20))
	c.Set("b", make([]byte, 20))

	c.Purge()
	assert.Equal(t, int64(0), c.Size())
}

func TestLRU_Stats(t *testing.T) {
	c := NewLRU(100, nil)
	c.Set("a", make([]byte, 1))

	c.Get("a")
	c.Get("a")
	c.Get("missing")

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
}
