package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lumipallolabs/burrow/internal/config"
	"github.com/lumipallolabs/burrow/internal/remover"
)

func testConfig(t *testing.T, root string) config.Config {
	t.Helper()
	// Keep stats and snapshots inside the test sandbox
	t.Setenv("HOME", t.TempDir())

	cfg := config.Default()
	cfg.Root = root
	cfg.NoCache = true
	cfg.NoWatch = true
	return cfg
}

func waitScanCompleted(t *testing.T, c *Controller, gen int) ScanCompletedEvent {
	t.Helper()
	deadline := time.After(10 * time.Second)
	for {
		select {
		case ev := <-c.Events():
			if done, ok := ev.(ScanCompletedEvent); ok && done.Gen == gen {
				return done
			}
		case <-deadline:
			t.Fatal("timed out waiting for scan completion")
		}
	}
}

func waitDeleteCompleted(t *testing.T, c *Controller) DeleteCompletedEvent {
	t.Helper()
	deadline := time.After(10 * time.Second)
	for {
		select {
		case ev := <-c.Events():
			if done, ok := ev.(DeleteCompletedEvent); ok {
				return done
			}
		case <-deadline:
			t.Fatal("timed out waiting for delete completion")
		}
	}
}

func TestControllerRejectsBadRoot(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "missing"))
	if _, err := NewController(cfg); err == nil {
		t.Error("NewController should fail for a missing root")
	}

	file := filepath.Join(t.TempDir(), "plain")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.Root = file
	if _, err := NewController(cfg); err == nil {
		t.Error("NewController should fail for a non-directory root")
	}
}

func TestControllerScanEndToEnd(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), make([]byte, 100), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.txt"), make([]byte, 300), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "c"), 0755); err != nil {
		t.Fatal(err)
	}

	c, err := NewController(testConfig(t, dir))
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	defer c.Close()

	gen := c.StartScan(c.Root())
	done := waitScanCompleted(t, c, gen)

	if done.Err != nil {
		t.Fatalf("scan failed: %v", done.Err)
	}
	result := done.Result
	if result.TotalBytes != 400 {
		t.Errorf("TotalBytes = %d, expected 400", result.TotalBytes)
	}

	want := []string{"b.txt", "a.txt", "c"}
	for i, name := range want {
		if result.Entries[i].Name != name {
			t.Errorf("entries[%d] = %s, expected %s", i, result.Entries[i].Name, name)
		}
	}
}

func TestControllerDeleteEndToEnd(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), make([]byte, 100), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, make([]byte, 300), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := NewController(testConfig(t, dir))
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	defer c.Close()

	gen := c.StartScan(c.Root())
	waitScanCompleted(t, c, gen)

	c.StartDelete([]string{filepath.Join(c.Root(), "b.txt")})
	done := waitDeleteCompleted(t, c)

	if done.Freed != 300 {
		t.Errorf("Freed = %d, expected 300", done.Freed)
	}
	if len(done.Outcomes) != 1 || done.Outcomes[0].Status != remover.StatusRemoved {
		t.Fatalf("outcomes = %+v, expected one removed", done.Outcomes)
	}
	if _, err := os.Lstat(target); !os.IsNotExist(err) {
		t.Error("b.txt should be gone from disk")
	}
}

func TestControllerDeleteInvalidatesCache(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "data"), make([]byte, 64), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := NewController(testConfig(t, dir))
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	defer c.Close()

	gen := c.StartScan(c.Root())
	waitScanCompleted(t, c, gen)

	cachedSub := filepath.Join(c.Root(), "sub")
	if _, ok := c.CachedSize(cachedSub); !ok {
		t.Fatal("scan should have cached the subdirectory size")
	}

	c.StartDelete([]string{cachedSub})
	waitDeleteCompleted(t, c)

	if _, ok := c.CachedSize(cachedSub); ok {
		t.Error("deleted subtree must be dropped from the cache")
	}
}

func TestControllerProtectedNeverRemoved(t *testing.T) {
	dir := t.TempDir()
	precious := filepath.Join(dir, "precious")
	if err := os.Mkdir(precious, 0755); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(t, dir)
	cfg.Protected = []string{precious}

	c, err := NewController(cfg)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	defer c.Close()

	c.StartDelete([]string{filepath.Join(c.Root(), "precious")})
	done := waitDeleteCompleted(t, c)

	if done.Outcomes[0].Status != remover.StatusSkippedProtected {
		t.Errorf("status = %s, expected skipped-protected", done.Outcomes[0].Status)
	}
	if _, err := os.Stat(precious); err != nil {
		t.Error("protected directory must still exist")
	}
}

func TestControllerRescanAfterNavigatingAway(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	if err := os.WriteFile(filepath.Join(dirA, "data"), make([]byte, 64), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := NewController(testConfig(t, dirA))
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	defer c.Close()

	// A → B cancels A's walk; the immediate return to A must get a fresh
	// walk, not the cancelled one's error
	c.StartScan(c.Root())
	c.StartScan(dirB)
	gen := c.StartScan(c.Root())

	done := waitScanCompleted(t, c, gen)
	if done.Err != nil {
		t.Fatalf("rescan after navigating away failed: %v", done.Err)
	}
	if done.Result.TotalBytes != 64 {
		t.Errorf("TotalBytes = %d, expected 64", done.Result.TotalBytes)
	}
}

func TestControllerGenerationsIncrease(t *testing.T) {
	dir := t.TempDir()

	c, err := NewController(testConfig(t, dir))
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	defer c.Close()

	g1 := c.StartScan(c.Root())
	g2 := c.StartScan(c.Root())
	if g2 <= g1 {
		t.Errorf("generations must increase: %d then %d", g1, g2)
	}

	// Both complete; the UI keeps only the latest generation
	waitScanCompleted(t, c, g2)
}
