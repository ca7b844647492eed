package indexer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sdtrack/internal/fileutil"
)

// MaxIndex is the largest index that fits the four-digit slot name.
const MaxIndex = 9999

// Copier places a source file on the target under its numbered name and
// returns the written path.
type Copier interface {
	Copy(src, targetDir string, index int) (string, error)
}

// FileCopier copies bytes to targetDir/NNNN.EXT, creating targetDir when it
// is missing. Previously copied files are never rolled back.
type FileCopier struct {
	// BufferSize is the copy chunk size; zero selects fileutil.DefaultBufferSize.
	BufferSize int
}

// Copy implements Copier.
func (c FileCopier) Copy(src, targetDir string, index int) (string, error) {
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", &CopyError{Source: src, Err: fmt.Errorf("create target directory: %w", err)}
	}
	dst := filepath.Join(targetDir, TargetName(index, Extension(src)))
	if err := fileutil.CopyFileBuffer(src, dst, c.BufferSize); err != nil {
		return "", &CopyError{Source: src, Target: dst, Err: err}
	}
	return dst, nil
}

// PlanCopier computes target paths without touching the filesystem. It backs
// dry runs.
type PlanCopier struct{}

// Copy implements Copier.
func (PlanCopier) Copy(src, targetDir string, index int) (string, error) {
	return filepath.Join(targetDir, TargetName(index, Extension(src))), nil
}

// TargetName returns the four-digit, zero-padded slot name for index with the
// extension upper-cased, e.g. 0007.MP3.
func TargetName(index int, ext string) string {
	return fmt.Sprintf("%04d.%s", index, strings.ToUpper(ext))
}

// Extension returns the text after the last dot of name, or "" when there is none.
func Extension(name string) string {
	base := filepath.Base(name)
	dot := strings.LastIndexByte(base, '.')
	if dot < 0 {
		return ""
	}
	return base[dot+1:]
}

// Eligible reports whether name carries a wav or mp3 extension, ignoring case.
func Eligible(name string) bool {
	ext := Extension(name)
	return strings.EqualFold(ext, "wav") || strings.EqualFold(ext, "mp3")
}
