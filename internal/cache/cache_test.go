package cache

import (
	"path/filepath"
	"sync"
	"testing"
)

func TestPutGet(t *testing.T) {
	c := NewSizeCache()

	if _, ok := c.Get("/a/b"); ok {
		t.Error("empty cache should miss")
	}

	c.Put("/a/b", 1234)
	size, ok := c.Get("/a/b")
	if !ok || size != 1234 {
		t.Errorf("Get(/a/b) = (%d, %v), expected (1234, true)", size, ok)
	}
}

func TestPutIdempotent(t *testing.T) {
	c := NewSizeCache()

	c.Put("/a", 10)
	c.Put("/a", 10)

	size, ok := c.Get("/a")
	if !ok || size != 10 {
		t.Errorf("Get(/a) = (%d, %v), expected (10, true)", size, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", c.Len())
	}
}

func TestInvalidateAncestors(t *testing.T) {
	c := NewSizeCache()
	c.Put("/a", 300)
	c.Put("/a/b", 200)
	c.Put("/a/b/c", 100)
	c.Put("/a/other", 50)

	c.Invalidate("/a/b/c")

	if _, ok := c.Get("/a/b/c"); ok {
		t.Error("/a/b/c should be invalidated")
	}
	if _, ok := c.Get("/a/b"); ok {
		t.Error("ancestor /a/b should be invalidated")
	}
	if _, ok := c.Get("/a"); ok {
		t.Error("ancestor /a should be invalidated")
	}
	if _, ok := c.Get("/a/other"); !ok {
		t.Error("sibling /a/other should survive")
	}
}

func TestInvalidateSubtree(t *testing.T) {
	c := NewSizeCache()
	c.Put("/a", 300)
	c.Put("/a/b", 200)
	c.Put("/a/b/c", 100)
	c.Put("/ab", 40) // prefix-similar sibling must survive

	c.InvalidateSubtree("/a/b")

	if _, ok := c.Get("/a/b"); ok {
		t.Error("/a/b should be invalidated")
	}
	if _, ok := c.Get("/a/b/c"); ok {
		t.Error("descendant /a/b/c should be invalidated")
	}
	if _, ok := c.Get("/a"); !ok {
		t.Error("parent /a should survive InvalidateSubtree")
	}
	if _, ok := c.Get("/ab"); !ok {
		t.Error("/ab is not under /a/b and should survive")
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := NewSizeCache()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			path := filepath.Join("/root", string(rune('a'+n)))
			for j := 0; j < 100; j++ {
				c.Put(path, int64(j))
				c.Get(path)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() != 8 {
		t.Errorf("Len() = %d, expected 8", c.Len())
	}
}

func TestSeedPreservesEntries(t *testing.T) {
	c := NewSizeCache()
	c.Seed([]Entry{
		{Path: "/x", Size: 5},
		{Path: "/y", Size: 6},
	})

	if size, ok := c.Get("/x"); !ok || size != 5 {
		t.Errorf("Get(/x) = (%d, %v), expected (5, true)", size, ok)
	}
	if size, ok := c.Get("/y"); !ok || size != 6 {
		t.Errorf("Get(/y) = (%d, %v), expected (6, true)", size, ok)
	}
}
