package kv

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_GetSet(t *testing.T) {
	s := New[string, int]()

	s.Set("standup", 3)
	val, ok := s.Get("standup")
	assert.True(t, ok)
	assert.Equal(t, 3, val)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestStore_Delete(t *testing.T) {
	s := New[string, string]()
	s.Set("key", "value")

	s.Delete("key")

	_, ok := s.Get("key")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestStore_Update(t *testing.T) {
	s := New[string, int]()
	incr := func(cur int, _ bool) int { return cur + 1 }

	assert.Equal(t, 1, s.Update("a", incr))
	assert.Equal(t, 2, s.Update("a", incr))

	var sawExisting bool
	s.Update("a", func(cur int, ok bool) int {
		sawExisting = ok
		return cur
	})
	assert.True(t, sawExisting)
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	s := New[string, int]()
	s.Set("a", 1)

	snap := s.Snapshot()
	snap["a"] = 99
	snap["b"] = 2

	val, _ := s.Get("a")
	assert.Equal(t, 1, val)
	assert.Equal(t, 1, s.Len())
}

func TestStore_ConcurrentUpdate(t *testing.T) {
	s := New[string, int]()
	var wg sync.WaitGroup

	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update("n", func(cur int, _ bool) int { return cur + 1 })
		}()
	}

	wg.Wait()

	val, _ := s.Get("n")
	assert.Equal(t, 100, val)
}
