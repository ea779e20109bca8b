package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// MissingColumnsError reports every required column absent from the export
// header, not just the first one found.
type MissingColumnsError struct {
	Path    string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns in %s: [%s]",
		filepath.Base(e.Path), strings.Join(e.Columns, ", "))
}

// Load reads the scored transaction export at path into a Dataset.
// The file is comma-delimited with a header row. Row order and any columns
// beyond the required set are preserved. A missing file, an unparsable
// table, or missing required columns all fail the load outright.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return nil, errors.New("data file path not specified")
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(err, "data file not found: %s", filepath.Base(path))
		}
		return nil, errors.Wrapf(err, "error opening data file: %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing data file: %s", filepath.Base(path))
	}
	if len(records) == 0 {
		return nil, errors.Errorf("data file has no header row: %s", filepath.Base(path))
	}

	header := records[0]
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := colIdx[name]; !ok {
			colIdx[name] = i
		}
	}

	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := colIdx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Path: path, Columns: missing}
	}

	idIdx := -1
	if i, ok := colIdx[ColTransactionID]; ok {
		idIdx = i
	}

	return &Dataset{
		Path:    path,
		Columns: header,
		Rows:    records[1:],
		colIdx:  colIdx,
		idIdx:   idIdx,
	}, nil
}
