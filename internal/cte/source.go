package cte

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/nathanbarretosilveira-dev/dash/internal/xlsx"
)

// ErrEmptySheet indicates the worksheet parsed to zero rows.
var ErrEmptySheet = errors.New("worksheet has no rows")

// ErrMissingSource indicates neither the spreadsheet nor the fallback JSON
// exists in the data directory.
var ErrMissingSource = errors.New("no data source available")

// SourceType tags which file backs the current request.
type SourceType string

const (
	SourceSpreadsheet SourceType = "planilha"
	SourceJSON        SourceType = "json"
)

// Source describes the active data source, resolved once per request and
// passed down instead of re-checking the filesystem in deeper layers.
type Source struct {
	Type     SourceType
	Path     string
	FileName string
}

// Loader resolves and loads CT-e data from the data directory. It holds no
// state across requests; every Load recomputes from the files on disk.
type Loader struct {
	dir             string
	spreadsheetName string
	fallbackName    string
	maxEntryBytes   int64
}

// NewLoader creates a loader over a data directory. maxEntryBytes <= 0
// selects the default decompression cap.
func NewLoader(dir, spreadsheetName, fallbackName string, maxEntryBytes int64) *Loader {
	return &Loader{
		dir:             dir,
		spreadsheetName: spreadsheetName,
		fallbackName:    fallbackName,
		maxEntryBytes:   maxEntryBytes,
	}
}

// Resolve picks the active source: the spreadsheet when present, else the
// JSON snapshot, else ErrMissingSource.
func (l *Loader) Resolve() (Source, error) {
	sheet := filepath.Join(l.dir, l.spreadsheetName)
	if fileExists(sheet) {
		return Source{Type: SourceSpreadsheet, Path: sheet, FileName: l.spreadsheetName}, nil
	}

	snapshot := filepath.Join(l.dir, l.fallbackName)
	if fileExists(snapshot) {
		return Source{Type: SourceJSON, Path: snapshot, FileName: l.fallbackName}, nil
	}

	return Source{}, fmt.Errorf("%w: neither %s nor %s found in %s",
		ErrMissingSource, l.spreadsheetName, l.fallbackName, l.dir)
}

// Load resolves the active source and produces the aggregates. A
// spreadsheet that fails anywhere in the pipeline falls back to the JSON
// snapshot when one exists; the failure is logged once, here, and never
// retried.
func (l *Loader) Load() (*Aggregates, error) {
	source, err := l.Resolve()
	if err != nil {
		return nil, err
	}

	if source.Type == SourceSpreadsheet {
		data, err := l.BuildFromSpreadsheet(source.Path)
		if err == nil {
			return data, nil
		}

		snapshot := filepath.Join(l.dir, l.fallbackName)
		if !fileExists(snapshot) {
			return nil, err
		}

		log.Printf("[%s] falha ao processar %s: %v; usando fallback %s",
			uuid.New().String(), source.FileName, err, l.fallbackName)
		return l.loadSnapshot(snapshot)
	}

	return l.loadSnapshot(source.Path)
}

// BuildFromSpreadsheet runs the full pipeline against one container:
// archive extraction, shared strings, row parsing, normalization and
// aggregation.
func (l *Loader) BuildFromSpreadsheet(path string) (*Aggregates, error) {
	sstDoc, err := xlsx.ReadArchiveEntry(path, xlsx.SharedStringsEntry, l.maxEntryBytes)
	shared := []string{}
	if err == nil {
		shared = xlsx.ParseSharedStrings(sstDoc)
	} else if errors.Is(err, xlsx.ErrArchiveTooLarge) {
		// A missing shared-strings entry is routine; an oversized one
		// is not.
		return nil, err
	}

	sheetDoc, err := xlsx.ReadArchiveEntry(path, xlsx.WorksheetEntry, l.maxEntryBytes)
	if err != nil {
		return nil, err
	}

	rows, err := xlsx.ParseSheetRows(sheetDoc, shared)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySheet, path)
	}

	records := NormalizeRecords(rows)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return Aggregate(records, info.ModTime()), nil
}

// loadSnapshot substitutes the pre-built JSON snapshot verbatim, re-stamping
// only the "last updated" field from the snapshot file itself.
func (l *Loader) loadSnapshot(path string) (*Aggregates, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	var data Aggregates
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}

	if info, err := os.Stat(path); err == nil {
		data.CriadoEm = FormatTimestamp(info.ModTime())
	}

	return &data, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
