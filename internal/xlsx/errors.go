package xlsx

import (
	"errors"
	"fmt"
)

// ErrArchiveRead indicates the container is missing, the entry does not
// exist, or decompression failed.
var ErrArchiveRead = errors.New("archive read failed")

// ErrArchiveTooLarge indicates a decompressed entry exceeded the safety cap.
var ErrArchiveTooLarge = errors.New("archive entry too large")

// ArchiveError carries the container path and entry name of a failed read.
type ArchiveError struct {
	Path  string
	Entry string
	Err   error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("entry %q in %q: %v", e.Entry, e.Path, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

func newArchiveError(path, entry string, err error) *ArchiveError {
	return &ArchiveError{Path: path, Entry: entry, Err: err}
}
