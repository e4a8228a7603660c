package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/radekjisa/volby-export/internal/results"
)

// WriteError reports a CSV that could not be written to disk.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// CSVPath forces a .csv extension on path, keeping the directory part.
func CSVPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".csv"
}

// Encode renders the table as UTF-8 CSV: the header first, then one
// record per municipality in table order.
func Encode(w io.Writer, table *results.Table) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(table.Header()); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := cw.Write(table.Record(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile renders the table to path, forcing a .csv extension and
// creating missing parent directories. It returns the path actually
// written.
func WriteFile(path string, table *results.Table) (string, error) {
	path = CSVPath(path)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", &WriteError{Path: path, Err: err}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	if err := Encode(f, table); err != nil {
		f.Close()
		return "", &WriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	return path, nil
}
