package target

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"sdtrack/internal/testsupport"
)

func TestClearRemovesEverything(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "sd")
	testsupport.WriteTree(t, dir, map[string]string{
		"0001.MP3":         "old",
		"9999.H":           "old header",
		"nested/deep/file": "x",
	})

	result, err := Clear(dir, filepath.Join(base, "music"), nil)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(result.Removed) != 3 {
		t.Fatalf("expected 3 removed entries, got %v", result.Removed)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty target, found %d entries", len(entries))
	}
}

func TestClearCreatesMissingTarget(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if _, err := Clear(dir, "", nil); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := CheckWritable(dir); err != nil {
		t.Fatalf("CheckWritable: %v", err)
	}
}

func TestClearRefusesUnsafeTargets(t *testing.T) {
	base := t.TempDir()
	source := filepath.Join(base, "music")
	if err := os.MkdirAll(source, 0o755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(base, "file")
	testsupport.WriteFile(t, file, 1)
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", home)

	cases := map[string]string{
		"root":          string(filepath.Separator),
		"home":          home,
		"same":          source,
		"inside source": filepath.Join(source, "out"),
		"parent":        base,
		"regular file":  file,
	}
	for name, dir := range cases {
		_, err := Clear(dir, source, nil)
		if !errors.Is(err, ErrUnsafeTarget) {
			t.Fatalf("%s: expected ErrUnsafeTarget, got %v", name, err)
		}
	}
	if _, err := os.Stat(file); err != nil {
		t.Fatalf("regular file should survive: %v", err)
	}
}

func TestCheckOverlap(t *testing.T) {
	base := t.TempDir()
	source := filepath.Join(base, "music")
	if err := os.MkdirAll(source, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(base, "link")
	if err := os.Symlink(source, link); err != nil {
		t.Fatal(err)
	}

	for name, dir := range map[string]string{
		"same":             source,
		"inside missing":   filepath.Join(source, "new", "card"),
		"through symlink":  link,
		"symlinked inside": filepath.Join(link, "card"),
		"parent":           base,
	} {
		if err := CheckOverlap(dir, source); !errors.Is(err, ErrUnsafeTarget) {
			t.Fatalf("%s: expected ErrUnsafeTarget, got %v", name, err)
		}
	}

	if err := CheckOverlap(filepath.Join(base, "sd"), source); err != nil {
		t.Fatalf("sibling target: %v", err)
	}
	if err := CheckOverlap(base, ""); err != nil {
		t.Fatalf("empty source: %v", err)
	}
}

func TestWithin(t *testing.T) {
	cases := []struct {
		path, base string
		want       bool
	}{
		{"/a/b", "/a", true},
		{"/a", "/a", true},
		{"/ab", "/a", false},
		{"/a/..b", "/a", true},
		{"/b", "/a", false},
	}
	for _, tc := range cases {
		if got := within(tc.path, tc.base); got != tc.want {
			t.Fatalf("within(%q, %q) = %v, want %v", tc.path, tc.base, got, tc.want)
		}
	}
}

func TestCheckWritableErrors(t *testing.T) {
	dir := t.TempDir()
	if err := CheckWritable(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
	file := filepath.Join(dir, "f")
	testsupport.WriteFile(t, file, 1)
	if err := CheckWritable(file); err == nil {
		t.Fatal("expected error for regular file")
	}
}

func TestLockIsExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "sdtrack.lock")
	first, err := AcquireLock(path)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	if _, err := AcquireLock(path); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	second, err := AcquireLock(path)
	if err != nil {
		t.Fatalf("AcquireLock after release: %v", err)
	}
	_ = second.Release()
	var nilLock *Lock
	if err := nilLock.Release(); err != nil {
		t.Fatalf("nil Release: %v", err)
	}
}
