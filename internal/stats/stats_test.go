package stats

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	m := NewManagerAt(filepath.Join(t.TempDir(), "stats.json"))

	if err := m.Load(); err != nil {
		t.Fatalf("Load with no file: %v", err)
	}
	if m.FreedLifetime() != 0 {
		t.Errorf("FreedLifetime = %d, expected 0", m.FreedLifetime())
	}
}

func TestAddFreedPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")

	m := NewManagerAt(path)
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}
	m.AddFreed(1000)
	m.AddFreed(500)
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reloaded := NewManagerAt(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	if reloaded.FreedLifetime() != 1500 {
		t.Errorf("FreedLifetime = %d, expected 1500", reloaded.FreedLifetime())
	}
}

func TestDefaultRootRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")

	m := NewManagerAt(path)
	m.SetDefaultRoot("/home/user")
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}

	reloaded := NewManagerAt(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	if reloaded.DefaultRoot() != "/home/user" {
		t.Errorf("DefaultRoot = %s, expected /home/user", reloaded.DefaultRoot())
	}
}
