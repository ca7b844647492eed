// Package fileutil holds the small file-copy and write helpers shared by the
// indexer and the reference writer.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultBufferSize is the chunk size used when callers pass a non-positive size.
const DefaultBufferSize = 64 * 1024

// ErrSameFile is returned when the copy destination is the source itself.
var ErrSameFile = errors.New("source and destination are the same file")

// CopyFileBuffer streams src to dst through a buffer of bufSize bytes,
// truncating dst if it exists. A failed copy leaves dst in place. dst must
// not resolve to src; truncating it would erase the source before reading.
func CopyFileBuffer(src, dst string, bufSize int) error {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if dstInfo, err := os.Stat(dst); err == nil {
		srcInfo, err := in.Stat()
		if err != nil {
			return err
		}
		if os.SameFile(srcInfo, dstInfo) {
			return fmt.Errorf("copy %s: %w", src, ErrSameFile)
		}
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.CopyBuffer(out, in, make([]byte, bufSize)); err != nil {
		return err
	}
	return out.Close()
}

// WriteFileAtomic writes data to dir/name via a temp file in the same directory
// followed by a rename, creating dir when needed.
func WriteFileAtomic(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %q: %w", dir, err)
	}
	target := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return "", err
	}
	if err := os.Rename(tmpPath, target); err != nil {
		cleanup()
		return "", err
	}
	return target, nil
}
