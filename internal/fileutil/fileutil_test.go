package fileutil

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFileDefaultBuffer(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mp3")
	dst := filepath.Join(dir, "dst.mp3")

	content := []byte("hello world")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFileBuffer(src, dst, 0); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestCopyFileBufferSmallChunks(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.wav")
	dst := filepath.Join(dir, "dst.wav")

	content := bytes.Repeat([]byte{0x00, 0x7f, 0xff, 0x10, 0x42}, 10_000)
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("stale contents that are longer than nothing"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFileBuffer(src, dst, 7); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("content mismatch: got %d bytes, want %d", len(got), len(content))
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFileBuffer(filepath.Join(dir, "missing.mp3"), filepath.Join(dir, "out.mp3"), 0)
	if err == nil {
		t.Fatal("expected error for missing source")
	}
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestWriteFileAtomicReplaces(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	if _, err := WriteFileAtomic(dir, "9999.H", []byte("first")); err != nil {
		t.Fatal(err)
	}
	path, err := WriteFileAtomic(dir, "9999.H", []byte("second"))
	if err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Fatalf("unexpected contents %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the final file, found %d entries", len(entries))
	}
}

func TestCopyFileRefusesCopyOntoItself(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "0001.MP3")
	content := []byte("precious audio bytes")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "alias.mp3")
	if err := os.Symlink(src, link); err != nil {
		t.Fatal(err)
	}

	for _, dst := range []string{src, link} {
		err := CopyFileBuffer(src, dst, 0)
		if !errors.Is(err, ErrSameFile) {
			t.Fatalf("copy onto %s: expected ErrSameFile, got %v", dst, err)
		}
	}

	got, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("source modified: %q", got)
	}
}
