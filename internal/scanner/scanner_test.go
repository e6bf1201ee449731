package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lumipallolabs/burrow/internal/cache"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestScanRankedEntries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), 100)
	writeFile(t, filepath.Join(dir, "b.txt"), 300)
	if err := os.Mkdir(filepath.Join(dir, "c"), 0755); err != nil {
		t.Fatal(err)
	}

	s := New(Config{}, cache.NewSizeCache())
	result, err := s.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(result.Entries) != 3 {
		t.Fatalf("got %d entries, expected 3", len(result.Entries))
	}

	want := []struct {
		name string
		size int64
	}{
		{"b.txt", 300},
		{"a.txt", 100},
		{"c", 0},
	}
	for i, w := range want {
		e := result.Entries[i]
		if e.Name != w.name || e.Size != w.size {
			t.Errorf("entries[%d] = %s(%d), expected %s(%d)", i, e.Name, e.Size, w.name, w.size)
		}
		if !e.SizeKnown {
			t.Errorf("entries[%d].SizeKnown = false", i)
		}
	}

	if result.TotalBytes != 400 {
		t.Errorf("TotalBytes = %d, expected 400", result.TotalBytes)
	}
	if result.ErrorCount != 0 {
		t.Errorf("ErrorCount = %d, expected 0", result.ErrorCount)
	}
}

func TestScanAggregatesSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	nested := filepath.Join(sub, "nested")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(sub, "one"), 10)
	writeFile(t, filepath.Join(nested, "two"), 20)

	s := New(Config{}, cache.NewSizeCache())
	result, err := s.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(result.Entries) != 1 {
		t.Fatalf("got %d entries, expected 1", len(result.Entries))
	}
	if result.Entries[0].Size != 30 {
		t.Errorf("sub size = %d, expected 30", result.Entries[0].Size)
	}
	if result.TotalBytes != 30 {
		t.Errorf("TotalBytes = %d, expected 30", result.TotalBytes)
	}
}

func TestScanUsesCache(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(sub, "data"), 50)

	c := cache.NewSizeCache()
	// Pretend a prior scan computed a different value; the cached
	// aggregate must win over a fresh walk.
	c.Put(sub, 9999)

	s := New(Config{}, c)
	result, err := s.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if result.Entries[0].Size != 9999 {
		t.Errorf("sub size = %d, expected cached 9999", result.Entries[0].Size)
	}
}

func TestScanPopulatesCache(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(sub, "data"), 50)

	c := cache.NewSizeCache()
	s := New(Config{}, c)
	if _, err := s.Scan(context.Background(), dir); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	size, ok := c.Get(sub)
	if !ok || size != 50 {
		t.Errorf("cache.Get(sub) = (%d, %v), expected (50, true)", size, ok)
	}
}

func TestScanSymlinkCycle(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(sub, "data"), 10)
	if err := os.Symlink(sub, filepath.Join(sub, "loop")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	s := New(Config{}, cache.NewSizeCache())
	result, err := s.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	// Terminates and reports the loop
	if result.ErrorCount < 1 {
		t.Errorf("ErrorCount = %d, expected >= 1 for a symlink cycle", result.ErrorCount)
	}
}

func TestScanSymlinkCycleThroughAncestor(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(sub, "data"), 10)
	// The link escapes its own subtree and points back at the scanned root
	if err := os.Symlink(dir, filepath.Join(sub, "up")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	s := New(Config{}, cache.NewSizeCache())
	result, err := s.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if result.ErrorCount < 1 {
		t.Errorf("ErrorCount = %d, expected >= 1 for a cycle through an ancestor", result.ErrorCount)
	}
}

func TestScanSymlinkToRootIsLoop(t *testing.T) {
	dir := t.TempDir()
	if err := os.Symlink(dir, filepath.Join(dir, "self")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	s := New(Config{}, cache.NewSizeCache())
	result, err := s.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if result.ErrorCount < 1 {
		t.Errorf("ErrorCount = %d, expected >= 1", result.ErrorCount)
	}
}

func TestScanSymlinkNotResolved(t *testing.T) {
	dir := t.TempDir()
	big := filepath.Join(dir, "big")
	if err := os.Mkdir(big, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(big, "payload"), 10000)
	if err := os.Symlink(big, filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	s := New(Config{}, cache.NewSizeCache())
	result, err := s.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	for _, e := range result.Entries {
		if e.Name == "link" && e.Size >= 10000 {
			t.Errorf("symlink sized as its target (%d bytes); should be its own lstat size", e.Size)
		}
	}
}

func TestScanCancellation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "f"), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(Config{}, cache.NewSizeCache())
	if _, err := s.Scan(ctx, dir); err == nil {
		t.Error("Scan with cancelled context should return an error")
	}
}

func TestScanMissingDir(t *testing.T) {
	s := New(Config{}, cache.NewSizeCache())
	if _, err := s.Scan(context.Background(), filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Scan of a missing directory should fail")
	}
}

func TestScanLargeFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "big1"), 4096)
	writeFile(t, filepath.Join(dir, "big2"), 8192)
	writeFile(t, filepath.Join(dir, "small"), 10)

	s := New(Config{LargeFileThreshold: 1024, LargeFileLimit: 10}, cache.NewSizeCache())
	result, err := s.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(result.LargeFiles) != 2 {
		t.Fatalf("got %d large files, expected 2", len(result.LargeFiles))
	}
	if result.LargeFiles[0].Size < result.LargeFiles[1].Size {
		t.Error("large files should be sorted largest first")
	}
}
