package safety

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProtectedSystemPaths(t *testing.T) {
	policy, err := NewPolicy("/", nil)
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}

	protected := []string{
		"/",
		"/etc",
		"/etc/passwd",
		"/usr/lib",
		"/System/Library",
	}

	for _, path := range protected {
		if !policy.IsProtected(path) {
			t.Errorf("IsProtected(%s) = false, expected true", path)
		}
	}
}

func TestOutsideRootIsProtected(t *testing.T) {
	root := t.TempDir()
	other := t.TempDir()

	policy, err := NewPolicy(root, nil)
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}

	if !policy.IsProtected(other) {
		t.Error("path outside root should be protected")
	}

	inside := filepath.Join(root, "project")
	if err := os.Mkdir(inside, 0755); err != nil {
		t.Fatal(err)
	}
	if policy.IsProtected(inside) {
		t.Errorf("IsProtected(%s) = true, expected false", inside)
	}
}

func TestRootItselfIsProtected(t *testing.T) {
	root := t.TempDir()
	policy, err := NewPolicy(root, nil)
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}

	if !policy.IsProtected(root) {
		t.Error("the configured root itself should be protected")
	}
}

func TestSymlinkEscapeIsProtected(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	link := filepath.Join(root, "escape")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	policy, err := NewPolicy(root, nil)
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}

	// The link resolves outside the root, so it must be protected even
	// though its lexical path is inside.
	if !policy.IsProtected(link) {
		t.Error("symlink escaping the root should be protected")
	}
}

func TestTrashNamesProtected(t *testing.T) {
	root := t.TempDir()
	trash := filepath.Join(root, ".Trash")
	if err := os.Mkdir(trash, 0755); err != nil {
		t.Fatal(err)
	}

	policy, err := NewPolicy(root, nil)
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}

	if !policy.IsProtected(trash) {
		t.Error(".Trash should be protected")
	}
}

func TestExtraPrefixes(t *testing.T) {
	root := t.TempDir()
	keep := filepath.Join(root, "keep")
	if err := os.Mkdir(keep, 0755); err != nil {
		t.Fatal(err)
	}

	policy, err := NewPolicy(root, []string{keep})
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}

	if !policy.IsProtected(keep) {
		t.Error("extra prefix should be protected")
	}
	if !policy.IsProtected(filepath.Join(keep, "nested")) {
		t.Error("children of extra prefixes should be protected")
	}
}

func TestExtraPrefixWithSymlinkComponent(t *testing.T) {
	root := t.TempDir()
	keep := filepath.Join(root, "keep")
	if err := os.Mkdir(keep, 0755); err != nil {
		t.Fatal(err)
	}
	alias := filepath.Join(root, "alias")
	if err := os.Symlink(keep, alias); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	// The prefix is registered through the alias; candidates arrive in
	// canonical form and must still match.
	policy, err := NewPolicy(root, []string{alias})
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}

	if !policy.IsProtected(keep) {
		t.Error("canonical target of an aliased prefix should be protected")
	}
	if !policy.IsProtected(filepath.Join(keep, "nested")) {
		t.Error("children under the canonical target should be protected")
	}
}

func TestVanishedPathStillClassified(t *testing.T) {
	root := t.TempDir()
	policy, err := NewPolicy(root, nil)
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}

	// Never existed; the predicate must stay total and classify it
	// relative to the root.
	gone := filepath.Join(root, "never", "existed")
	if policy.IsProtected(gone) {
		t.Errorf("IsProtected(%s) = true, expected false", gone)
	}
}
