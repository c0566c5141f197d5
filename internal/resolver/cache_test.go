package resolver_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mrz1836/recforge/internal/resolver"
)

func TestCache_PutGet(t *testing.T) {
	c := resolver.NewCache(4)
	_, ok := c.Get("k")
	assert.False(t, ok)

	c.Put("k", 2)
	idx, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	c.Put("k", 3)
	idx, _ = c.Get("k")
	assert.Equal(t, 3, idx)
	assert.Equal(t, 1, c.Len())
}

func TestCache_InvalidateOnlyWhenStale(t *testing.T) {
	c := resolver.NewCache(4)
	c.Put("k", 1)

	assert.False(t, c.Invalidate("k", 0), "a fresher winner must survive")
	_, ok := c.Get("k")
	assert.True(t, ok)

	assert.True(t, c.Invalidate("k", 1))
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.False(t, c.Invalidate("missing", 0))
}

func TestCache_Bounded(t *testing.T) {
	c := resolver.NewCache(2)
	c.Put("a", 0)
	c.Put("b", 0)
	c.Get("a")
	c.Put("c", 0)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("b")
	assert.False(t, ok, "least recently used entry is evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestCache_DefaultSize(t *testing.T) {
	c := resolver.NewCache(0)
	for i := range 100 {
		c.Put(string(rune('a'+i%26))+string(rune('0'+i/26)), i)
	}
	assert.Equal(t, 100, c.Len())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := resolver.NewCache(8)
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				key := string(rune('a' + (i+j)%4))
				c.Put(key, j)
				c.Get(key)
				c.Invalidate(key, j)
			}
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 4)
}
