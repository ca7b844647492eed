package indexer

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"sdtrack/internal/logging"
	"sdtrack/internal/naming"
	"sdtrack/internal/reference"
)

// State holds the counters threaded through one traversal. NextIndex is
// pre-incremented, so the first eligible file receives index 1.
type State struct {
	NextIndex     int
	FolderCounter int
}

// Assignment describes one indexed file.
type Assignment struct {
	Index      int
	Identifier string
	Source     string
	Target     string
	Row        reference.Row
}

// Observer is notified as the traversal progresses.
type Observer interface {
	Assigned(Assignment)
	Skipped(path string)
}

// Options wires an Indexer's collaborators. Only Copier is required.
type Options struct {
	Copier   Copier
	Names    *naming.Generator
	Table    *reference.Table
	Logger   *slog.Logger
	Observer Observer
}

// Indexer performs a single deterministic traversal.
type Indexer struct {
	copier   Copier
	names    *naming.Generator
	table    *reference.Table
	logger   *slog.Logger
	observer Observer
	state    State
}

// New constructs an Indexer with fresh counters.
func New(opts Options) *Indexer {
	ix := &Indexer{
		copier:   opts.Copier,
		names:    opts.Names,
		table:    opts.Table,
		logger:   logging.NewComponentLogger(opts.Logger, "indexer"),
		observer: opts.Observer,
	}
	if ix.copier == nil {
		ix.copier = FileCopier{}
	}
	if ix.names == nil {
		ix.names = naming.NewGenerator(naming.Options{})
	}
	if ix.table == nil {
		ix.table = reference.NewTable()
	}
	return ix
}

// State returns a snapshot of the counters.
func (ix *Indexer) State() State {
	return ix.state
}

// Table returns the table populated by Traverse.
func (ix *Indexer) Table() *reference.Table {
	return ix.table
}

// Traverse indexes every eligible file below root, copying each into the flat
// targetDir. The first error aborts the traversal; files already copied stay
// on the target.
func (ix *Indexer) Traverse(root, targetDir string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotADirectory, root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, root)
	}
	return ix.walk(root, targetDir)
}

func (ix *Indexer) walk(dir, targetDir string) error {
	children, err := readSorted(dir)
	if err != nil {
		return err
	}
	for _, child := range children {
		path := filepath.Join(dir, child.Name())
		if isDir(path, child) {
			ix.state.FolderCounter++
			if err := ix.walk(path, targetDir); err != nil {
				return err
			}
			continue
		}
		if !Eligible(child.Name()) {
			ix.logger.Info("skipping invalid file",
				logging.String("source", path),
				logging.String(logging.FieldEventType, "file_skipped"),
			)
			if ix.observer != nil {
				ix.observer.Skipped(path)
			}
			continue
		}
		if err := ix.assign(dir, path, targetDir); err != nil {
			return err
		}
	}
	return nil
}

func (ix *Indexer) assign(dir, path, targetDir string) error {
	if ix.state.NextIndex >= MaxIndex {
		return fmt.Errorf("%w: %s", ErrIndexOverflow, path)
	}
	ix.state.NextIndex++
	index := ix.state.NextIndex

	target, err := ix.copier.Copy(path, targetDir, index)
	if err != nil {
		ix.logger.Error("copy failed",
			logging.Int("index", index),
			logging.String("source", path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "copy_failed"),
			logging.String(logging.FieldErrorHint, "re-run against a cleared target once the cause is fixed"),
		)
		return err
	}

	folder := filepath.Base(dir)
	file := filepath.Base(path)
	id := ix.names.Derive(folder, file, ix.state.FolderCounter)
	row := ix.table.Append(reference.Row{Identifier: id, Index: index, Folder: folder, File: file})

	ix.logger.Info(reference.Line(row),
		logging.Int("index", index),
		logging.String("identifier", id),
		logging.String("target", target),
		logging.String(logging.FieldEventType, "track_assigned"),
	)
	if ix.observer != nil {
		ix.observer.Assigned(Assignment{
			Index:      index,
			Identifier: id,
			Source:     path,
			Target:     target,
			Row:        row,
		})
	}
	return nil
}

// CountEligible returns how many files Traverse would index below root.
func CountEligible(root string) (int, error) {
	info, err := os.Stat(root)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrNotADirectory, root, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%w: %s", ErrNotADirectory, root)
	}
	return countEligible(root)
}

func countEligible(dir string) (int, error) {
	children, err := readSorted(dir)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, child := range children {
		path := filepath.Join(dir, child.Name())
		if isDir(path, child) {
			n, err := countEligible(path)
			if err != nil {
				return 0, err
			}
			total += n
			continue
		}
		if Eligible(child.Name()) {
			total++
		}
	}
	return total, nil
}

// readSorted lists dir ordered by byte-wise name comparison, independent of
// the order the filesystem returns entries in.
func readSorted(dir string) ([]fs.DirEntry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	slices.SortFunc(entries, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return entries, nil
}

// isDir follows symlinks so linked folders are traversed like real ones.
func isDir(path string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
