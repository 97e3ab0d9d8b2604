package xlsx

import (
	"archive/zip"
	"fmt"
	"io"
)

// DefaultMaxEntryBytes caps how much decompressed data a single entry may
// yield. Malformed or hostile containers can declare tiny compressed sizes
// that inflate far beyond the original file.
const DefaultMaxEntryBytes = 20 * 1024 * 1024

// ReadArchiveEntry extracts one named entry from a ZIP-based spreadsheet
// container and returns its decompressed text. maxBytes <= 0 selects
// DefaultMaxEntryBytes.
func ReadArchiveEntry(path, entry string, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxEntryBytes
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", newArchiveError(path, entry, fmt.Errorf("%w: %v", ErrArchiveRead, err))
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != entry {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return "", newArchiveError(path, entry, fmt.Errorf("%w: %v", ErrArchiveRead, err))
		}
		defer rc.Close()

		// Read one byte past the cap so overflow is distinguishable
		// from an exact fit.
		data, err := io.ReadAll(io.LimitReader(rc, maxBytes+1))
		if err != nil {
			return "", newArchiveError(path, entry, fmt.Errorf("%w: %v", ErrArchiveRead, err))
		}
		if int64(len(data)) > maxBytes {
			return "", newArchiveError(path, entry, fmt.Errorf("%w: exceeds %d bytes", ErrArchiveTooLarge, maxBytes))
		}

		return string(data), nil
	}

	return "", newArchiveError(path, entry, fmt.Errorf("%w: entry not found", ErrArchiveRead))
}
