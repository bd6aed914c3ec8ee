package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/manav03panchal/studiodesk/internal/logging"
)

// Record is one CSV row keyed by column name.
type Record map[string]string

// SaveHook runs after a table has been written to disk.
type SaveHook func(ctx context.Context, remotePath string, data []byte)

// Table is a CSV file with a fixed column set. Loading is tolerant: missing
// columns read as "", unknown columns are dropped and ragged rows are padded.
type Table struct {
	// Path is the file on disk.
	Path string
	// RemotePath names the file for the mirror, e.g. "data/agenda.csv".
	RemotePath string
	// Columns is the header written on save.
	Columns []string
	// AfterSave, if set, receives every successfully written file.
	AfterSave SaveHook
}

// Load reads every record. A missing or empty file yields no records.
func (t *Table) Load() ([]Record, error) {
	data, err := os.ReadFile(t.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", t.Path, err)
	}
	return t.Parse(data)
}

// Parse decodes CSV bytes into records using the table's columns.
func (t *Table) Parse(data []byte) ([]Record, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", t.Path, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var records []Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", t.Path, err)
		}

		rec := make(Record, len(t.Columns))
		for _, col := range t.Columns {
			if i, ok := index[col]; ok && i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Encode renders records as CSV with the table header.
func (t *Table) Encode(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Columns); err != nil {
		return nil, err
	}
	row := make([]string, len(t.Columns))
	for _, rec := range records {
		for i, col := range t.Columns {
			row[i] = rec[col]
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save replaces the file with records and then runs AfterSave.
func (t *Table) Save(ctx context.Context, records []Record) error {
	data, err := t.Encode(records)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", t.Path, err)
	}

	if err := EnsureDirectory(filepath.Dir(t.Path)); err != nil {
		return err
	}
	if err := SafeWrite(t.Path, data, 0644); err != nil {
		return err
	}

	logging.DebugContext(ctx, "table saved",
		logging.KeyPath, t.Path,
		logging.KeyCount, len(records))

	if t.AfterSave != nil {
		t.AfterSave(ctx, t.RemotePath, data)
	}
	return nil
}

// Append adds one record to the end of the table.
func (t *Table) Append(ctx context.Context, rec Record) error {
	records, err := t.Load()
	if err != nil {
		return err
	}
	return t.Save(ctx, append(records, rec))
}
