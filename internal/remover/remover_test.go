package remover

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

type stubSafety struct {
	protected map[string]bool
}

func (s stubSafety) IsProtected(path string) bool {
	return s.protected[path]
}

func allow() stubSafety {
	return stubSafety{protected: map[string]bool{}}
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDeleteFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "b.txt")
	writeFile(t, target, 300)

	e := New(allow())
	outcomes, freed := e.Delete(context.Background(), []string{target}, nil)

	if len(outcomes) != 1 || outcomes[0].Status != StatusRemoved {
		t.Fatalf("outcome = %+v, expected removed", outcomes)
	}
	if freed != 300 {
		t.Errorf("freed = %d, expected 300", freed)
	}
	if _, err := os.Lstat(target); !os.IsNotExist(err) {
		t.Error("file should be gone")
	}
}

func TestDeleteDirectoryRecursive(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "junk")
	nested := filepath.Join(target, "deep")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(target, "one"), 100)
	writeFile(t, filepath.Join(nested, "two"), 200)

	e := New(allow())
	outcomes, freed := e.Delete(context.Background(), []string{target}, nil)

	if outcomes[0].Status != StatusRemoved {
		t.Fatalf("status = %s, expected removed", outcomes[0].Status)
	}
	if freed != 300 {
		t.Errorf("freed = %d, expected 300", freed)
	}
	if _, err := os.Lstat(target); !os.IsNotExist(err) {
		t.Error("directory should be gone")
	}
}

func TestDeleteProtectedSkipped(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "precious")
	writeFile(t, target, 50)

	e := New(stubSafety{protected: map[string]bool{target: true}})
	outcomes, freed := e.Delete(context.Background(), []string{target}, nil)

	if outcomes[0].Status != StatusSkippedProtected {
		t.Fatalf("status = %s, expected skipped-protected", outcomes[0].Status)
	}
	if freed != 0 {
		t.Errorf("freed = %d, expected 0", freed)
	}
	if _, err := os.Lstat(target); err != nil {
		t.Error("protected file must still exist")
	}
}

func TestDeleteVanishedPath(t *testing.T) {
	e := New(allow())
	gone := filepath.Join(t.TempDir(), "gone")

	outcomes, freed := e.Delete(context.Background(), []string{gone}, nil)

	if outcomes[0].Status != StatusRemoved {
		t.Errorf("status = %s, expected removed for an already-gone path", outcomes[0].Status)
	}
	if freed != 0 {
		t.Errorf("freed = %d, expected 0", freed)
	}
}

func TestDeleteCancelledSkipsRemaining(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	writeFile(t, a, 10)
	writeFile(t, b, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New(allow())
	outcomes, freed := e.Delete(ctx, []string{a, b}, nil)

	for _, o := range outcomes {
		if o.Status != StatusSkipped {
			t.Errorf("%s: status = %s, expected skipped", o.Path, o.Status)
		}
	}
	if freed != 0 {
		t.Errorf("freed = %d, expected 0", freed)
	}
}

func TestDeleteMultipleOutcomesSorted(t *testing.T) {
	dir := t.TempDir()
	b := filepath.Join(dir, "b")
	a := filepath.Join(dir, "a")
	writeFile(t, a, 1)
	writeFile(t, b, 2)

	e := New(allow())
	outcomes, freed := e.Delete(context.Background(), []string{b, a}, nil)

	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, expected 2", len(outcomes))
	}
	// Deterministic order regardless of input order
	if outcomes[0].Path != a || outcomes[1].Path != b {
		t.Errorf("outcomes out of order: %s, %s", outcomes[0].Path, outcomes[1].Path)
	}
	if freed != 3 {
		t.Errorf("freed = %d, expected 3", freed)
	}
}

func TestDeleteProgressCallback(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	writeFile(t, a, 1)

	var calls int
	e := New(allow())
	e.Delete(context.Background(), []string{a}, func(done, total int, path string) {
		calls++
		if done != 1 || total != 1 || path != a {
			t.Errorf("progress(%d, %d, %s) unexpected", done, total, path)
		}
	})
	if calls != 1 {
		t.Errorf("progress called %d times, expected 1", calls)
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusRemoved, "removed"},
		{StatusSkippedProtected, "skipped-protected"},
		{StatusSkipped, "skipped"},
		{StatusFailed, "failed"},
		{StatusPartial, "partial"},
	}
	for _, test := range tests {
		if got := test.status.String(); got != test.want {
			t.Errorf("%d.String() = %s, expected %s", int(test.status), got, test.want)
		}
	}
}
