package indexer

import (
	"errors"
	"fmt"
)

var (
	// ErrNotADirectory is returned when the traversal root is not a directory.
	ErrNotADirectory = errors.New("not a directory")
	// ErrIOFailure classifies copy failures; CopyError matches it via errors.Is.
	ErrIOFailure = errors.New("i/o failure")
	// ErrIndexOverflow is returned when a run needs more slots than four digits allow.
	ErrIndexOverflow = errors.New("track index exceeds four digits")
)

// CopyError reports a failed copy of Source to Target.
type CopyError struct {
	Source string
	Target string
	Err    error
}

func (e *CopyError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("copy %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("copy %s to %s: %v", e.Source, e.Target, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrIOFailure) match every copy failure.
func (e *CopyError) Is(target error) bool {
	return target == ErrIOFailure
}
