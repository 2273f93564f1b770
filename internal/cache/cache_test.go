package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryGetSet(t *testing.T) {
	c := NewMemory()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("answer", 42, time.Minute)
	got, ok := c.Get("answer")
	assert.True(t, ok)
	assert.Equal(t, 42, got)

	c.Set("answer", "overwritten", time.Minute)
	got, _ = c.Get("answer")
	assert.Equal(t, "overwritten", got)
}

func TestMemoryExpiry(t *testing.T) {
	c := NewMemory()

	c.Set("short", "lived", time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("short")
	assert.False(t, ok)

	// The expired entry is dropped, not just hidden.
	c.mu.Lock()
	_, present := c.items["short"]
	c.mu.Unlock()
	assert.False(t, present)
}

func TestMemoryDeleteMany(t *testing.T) {
	c := NewMemory()

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Set("c", 3, time.Minute)

	c.DeleteMany("a", "c", "never-existed")

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("c")
	assert.False(t, ok)
	got, ok := c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, got)
}
