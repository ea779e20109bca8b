package data

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrTransactionNotFound indicates the chosen identifier or index resolved
// to no row in the dataset.
var ErrTransactionNotFound = errors.New("transaction not found")

// IDs returns the distinct transaction identifiers in first-occurrence
// order, trimmed and stringified. Returns nil when the dataset has no
// identifier column.
func (d *Dataset) IDs() []string {
	if !d.HasIDs() {
		return nil
	}
	seen := make(map[string]bool, len(d.Rows))
	ids := make([]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		id := d.rowID(row)
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// Select resolves an identifier to the first matching row. Duplicate
// identifiers are tolerated, first match wins.
func (d *Dataset) Select(id string) (*Transaction, error) {
	if !d.HasIDs() {
		return nil, errors.New("dataset has no identifier column, select by index")
	}
	id = strings.TrimSpace(id)
	for i, row := range d.Rows {
		if d.rowID(row) == id {
			return d.transaction(i), nil
		}
	}
	return nil, errors.Wrapf(ErrTransactionNotFound, "id: %s", id)
}

// SelectIndex resolves a zero-based row index to a transaction. Used when
// the export carries no identifier column.
func (d *Dataset) SelectIndex(i int) (*Transaction, error) {
	if i < 0 || i >= len(d.Rows) {
		return nil, errors.Wrapf(ErrTransactionNotFound, "index: %d", i)
	}
	return d.transaction(i), nil
}

func (d *Dataset) rowID(row []string) string {
	if d.idIdx < 0 || d.idIdx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[d.idIdx])
}

func (d *Dataset) transaction(i int) *Transaction {
	row := d.Rows[i]
	return &Transaction{
		Index: i,
		ID:    d.rowID(row),
		ds:    d,
		row:   row,
	}
}
