package data

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// DataFileName is the default name of the scored transaction export,
	// expected next to the binary unless overridden by flag or config.
	DataFileName = "final_scores.csv"

	ColTransactionID = "transaction_id"
	ColIsFraud       = "is_fraud"
	ColFinalScore    = "final_moe_score"
	ColRiskLevel     = "fraud_risk_level"
	ColLSTMScore     = "lstm_score"
	ColTransformer   = "transformer_score"
	ColAutoencoder   = "autoencoder_score"
	ColXGBScore      = "xgb_score"
	ColAdaScore      = "ada_score"
)

// RequiredColumns are the headers every export must carry. The identifier
// column is optional, selection falls back to row index without it.
var RequiredColumns = []string{
	ColIsFraud,
	ColFinalScore,
	ColRiskLevel,
	ColLSTMScore,
	ColTransformer,
	ColAutoencoder,
	ColXGBScore,
	ColAdaScore,
}

// Dataset is one full read of the scored transaction export. It is built
// fresh from the source file for every render and never written back.
type Dataset struct {
	Path    string
	Columns []string
	Rows    [][]string

	colIdx map[string]int
	idIdx  int
}

// Len returns the number of transaction rows (header excluded).
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// HasIDs indicates whether the export carries a transaction_id column.
func (d *Dataset) HasIDs() bool {
	return d.idIdx >= 0
}

// Transaction is a single scored row. Typed fields are decoded on access so
// pass-through columns stay untouched.
type Transaction struct {
	Index int
	ID    string

	ds  *Dataset
	row []string
}

// Field returns the raw value of any column carried by the dataset.
func (t *Transaction) Field(col string) (string, bool) {
	i, ok := t.ds.colIdx[col]
	if !ok || i >= len(t.row) {
		return "", false
	}
	return t.row[i], true
}

func (t *Transaction) floatField(col string) (float64, error) {
	raw, ok := t.Field(col)
	if !ok {
		return 0, errors.Errorf("column not present: %s", col)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "non-numeric value in column %s: %q", col, raw)
	}
	return v, nil
}

func (t *Transaction) intField(col string) (int, error) {
	raw, ok := t.Field(col)
	if !ok {
		return 0, errors.Errorf("column not present: %s", col)
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.Wrapf(err, "non-integer value in column %s: %q", col, raw)
	}
	return v, nil
}
