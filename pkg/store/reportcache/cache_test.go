package reportcache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetSet(t *testing.T) {
	c := New(time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", 42)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestCache_TTLExpiry(t *testing.T) {
	c := New(5 * time.Minute)
	clock := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	c.Set("a", "report")

	clock = clock.Add(4 * time.Minute)
	_, ok := c.Get("a")
	assert.True(t, ok)

	clock = clock.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestCache_InvalidateMatching(t *testing.T) {
	c := New(time.Minute)
	c.Set("report:workspace|workspace:5|client:7|", 1)
	c.Set("report:workspace|workspace:5|client:8|", 2)
	c.Set("report:workspace|workspace:6|client:7|", 3)

	removed := c.InvalidateMatching("workspace:5|")
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, c.Size())

	removed = c.InvalidateMatching("client:7|")
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, c.Size())
}

func TestCache_InvalidateMatching_TokensAreExact(t *testing.T) {
	c := New(time.Minute)
	c.Set("workspace:5|", 1)
	c.Set("workspace:55|", 2)

	removed := c.InvalidateMatching("workspace:5|")
	assert.Equal(t, 1, removed)
	_, ok := c.Get("workspace:55|")
	assert.True(t, ok)
}

func TestCache_CleanExpired(t *testing.T) {
	c := New(time.Minute)
	clock := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	c.Set("old", 1)
	clock = clock.Add(30 * time.Second)
	c.Set("fresh", 2)
	clock = clock.Add(45 * time.Second)

	assert.Equal(t, 1, c.CleanExpired())
	assert.Equal(t, 1, c.Size())
}

func TestCache_Purge(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()
	assert.Equal(t, 0, c.Size())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("workspace:%d|run:%d", n%4, j)
				c.Set(key, j)
				c.Get(key)
				if j%10 == 0 {
					c.InvalidateMatching(fmt.Sprintf("workspace:%d|", n%4))
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestNop(t *testing.T) {
	var c Nop
	c.Set("a", 1)
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.InvalidateMatching("a"))
}
