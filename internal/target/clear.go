package target

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sdtrack/internal/logging"
)

// ErrUnsafeTarget is returned when Clear refuses to empty a location.
var ErrUnsafeTarget = errors.New("unsafe target")

// ClearResult lists the entries removed from the target.
type ClearResult struct {
	Removed []string
}

// Clear removes every entry inside dir, creating dir when it does not exist.
// source is the tree about to be copied; a target equal to it, inside it, or
// containing it is refused. The first removal failure aborts the clear.
func Clear(dir, source string, logger *slog.Logger) (ClearResult, error) {
	result := ClearResult{}
	logger = logging.NewComponentLogger(logger, "target")

	dir, err := filepath.Abs(strings.TrimSpace(dir))
	if err != nil {
		return result, fmt.Errorf("resolve target: %w", err)
	}
	if err := checkSafe(dir, source); err != nil {
		return result, err
	}

	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return result, fmt.Errorf("create target %s: %w", dir, err)
		}
		return result, nil
	case err != nil:
		return result, fmt.Errorf("stat target %s: %w", dir, err)
	case !info.IsDir():
		return result, fmt.Errorf("%w: %s should be a directory", ErrUnsafeTarget, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return result, fmt.Errorf("read target %s: %w", dir, err)
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			logger.Error("failed to clear target entry",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldEventType, "target_clear_failed"),
				logging.String(logging.FieldErrorHint, "check that the card is writable and not mounted read-only"),
			)
			return result, fmt.Errorf("clear target %s: %w", path, err)
		}
		result.Removed = append(result.Removed, path)
	}
	logger.Info("cleared target",
		logging.String("target", dir),
		logging.Int("removed", len(result.Removed)),
		logging.String(logging.FieldEventType, "target_cleared"),
	)
	return result, nil
}

func checkSafe(dir, source string) error {
	if filepath.Dir(dir) == dir {
		return fmt.Errorf("%w: refusing to clear filesystem root %s", ErrUnsafeTarget, dir)
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		if absHome, err := filepath.Abs(home); err == nil && absHome == dir {
			return fmt.Errorf("%w: refusing to clear home directory %s", ErrUnsafeTarget, dir)
		}
	}
	return CheckOverlap(dir, source)
}

// CheckOverlap fails with ErrUnsafeTarget when dir equals source, lies inside
// it, or contains it. Existing paths are compared after resolving symlinks.
// An empty source always passes.
func CheckOverlap(dir, source string) error {
	if strings.TrimSpace(source) == "" {
		return nil
	}
	dst, err := resolve(dir)
	if err != nil {
		return fmt.Errorf("resolve target: %w", err)
	}
	src, err := resolve(source)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}
	if within(src, dst) || within(dst, src) {
		return fmt.Errorf("%w: target %s overlaps source %s", ErrUnsafeTarget, dst, src)
	}
	return nil
}

// resolve returns the absolute path with symlinks evaluated on its longest
// existing ancestor, so targets that do not exist yet still compare correctly.
func resolve(path string) (string, error) {
	abs, err := filepath.Abs(strings.TrimSpace(path))
	if err != nil {
		return "", err
	}
	var missing []string
	for current := abs; ; current = filepath.Dir(current) {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			return filepath.Join(append([]string{resolved}, missing...)...), nil
		}
		if !errors.Is(err, os.ErrNotExist) || filepath.Dir(current) == current {
			return abs, nil
		}
		missing = append([]string{filepath.Base(current)}, missing...)
	}
}

// within reports whether path equals base or lies below it.
func within(path, base string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
