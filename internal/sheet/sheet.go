// Package sheet reads raw payee tables from and writes canonical tables to
// spreadsheet files. The format is chosen by file extension.
package sheet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pensionqa/internal/models"
)

// Sheet I/O errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNotReadable       = errors.New("format can only be written")
	ErrNoSheets          = errors.New("workbook has no sheets")
	ErrNoHeader          = errors.New("input has no header row")
)

// Reader loads a raw table from a file.
type Reader interface {
	Read(path string) (*models.RawTable, error)
}

// Writer stores canonical records in a file.
type Writer interface {
	Write(path string, records []models.CanonicalRecord, opts WriteOptions) error
}

// WriteOptions carries the format-specific output names.
type WriteOptions struct {
	// SheetName names the worksheet of xlsx output.
	SheetName string
	// TableName names the table of SQLite output.
	TableName string
}

func (o WriteOptions) sheetName() string {
	if o.SheetName == "" {
		return "Sheet1"
	}

	return o.SheetName
}

func (o WriteOptions) tableName() string {
	if o.TableName == "" {
		return "payees"
	}

	return o.TableName
}

// format binds a file extension to its codec. reader is nil for output-only formats.
type format struct {
	reader Reader
	writer Writer
}

var formats = map[string]format{
	".xlsx":   {reader: xlsxReader{}, writer: xlsxWriter{}},
	".csv":    {reader: csvReader{}, writer: csvWriter{}},
	".db":     {writer: sqliteWriter{}},
	".sqlite": {writer: sqliteWriter{}},
}

// Extensions lists the supported file extensions.
func Extensions() []string {
	exts := make([]string, 0, len(formats))
	for ext := range formats {
		exts = append(exts, ext)
	}

	sort.Strings(exts)

	return exts
}

func formatFor(path string) (format, error) {
	ext := strings.ToLower(filepath.Ext(path))

	f, ok := formats[ext]
	if !ok {
		return format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	return f, nil
}

// Read loads the first sheet of the file at path. The first row is the header.
func Read(path string) (*models.RawTable, error) {
	f, err := formatFor(path)
	if err != nil {
		return nil, err
	}

	if f.reader == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotReadable, filepath.Ext(path))
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	table, err := f.reader.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return table, nil
}

// Write stores records at path in CanonicalColumns order, creating parent
// directories as needed.
func Write(path string, records []models.CanonicalRecord, opts WriteOptions) error {
	f, err := formatFor(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := f.writer.Write(path, records, opts); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
