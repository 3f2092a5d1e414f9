package mapbox

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingGeocoder struct {
	calls int
	city  string
}

func (m *countingGeocoder) ReverseCity(_ context.Context, _, _ float64) (string, error) {
	m.calls++
	return m.city, nil
}

// --- CachedGeocoder tests ---

func TestCachedGeocoder_CacheHit(t *testing.T) {
	inner := &countingGeocoder{city: "Mumbai"}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	c1, err := cached.ReverseCity(context.Background(), 19.076, 72.8777)
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", c1)

	c2, err := cached.ReverseCity(context.Background(), 19.076, 72.8777)
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", c2)

	assert.Equal(t, 1, inner.calls, "should only call inner once")
}

func TestCachedGeocoder_DifferentCoordinatesMiss(t *testing.T) {
	inner := &countingGeocoder{city: "Somewhere"}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, _ = cached.ReverseCity(context.Background(), 19.076, 72.8777)
	_, _ = cached.ReverseCity(context.Background(), 28.7041, 77.1025)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_EmptyResultNotCached(t *testing.T) {
	inner := &countingGeocoder{city: ""}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, _ = cached.ReverseCity(context.Background(), 19.076, 72.8777)
	_, _ = cached.ReverseCity(context.Background(), 19.076, 72.8777)

	assert.Equal(t, 2, inner.calls, "empty results must be retried")
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", "A")
	c.put("b", "B")

	city, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", city)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", "A")
	c.put("b", "B")
	c.put("c", "C") // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	city, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, "B", city)

	city, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, "C", city)
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", "A")
	c.put("b", "B")

	// Access "a" to promote it
	c.get("a")

	// Insert "c", evicting "b" (LRU), not "a"
	c.put("c", "C")

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", "A1")
	c.put("a", "A2")

	city, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", city)
}
