package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDs(t *testing.T) {
	ds := loadTestDataset(t)

	// trimmed, first-occurrence order, duplicates collapsed
	assert.Equal(t, []string{"T100", "T101", "T102"}, ds.IDs())
}

func TestSelect(t *testing.T) {
	ds := loadTestDataset(t)

	txn, err := ds.Select("T101")
	require.NoError(t, err)
	assert.Equal(t, "T101", txn.ID)
	assert.Equal(t, 1, txn.Index)
}

func TestSelect_FirstMatchWins(t *testing.T) {
	ds := loadTestDataset(t)

	// T100 appears twice, the first row wins
	txn, err := ds.Select("T100")
	require.NoError(t, err)
	assert.Equal(t, 0, txn.Index)

	v, ok := txn.Field(ColRiskLevel)
	assert.True(t, ok)
	assert.Equal(t, "HIGH", v)
}

func TestSelect_TrimsQuery(t *testing.T) {
	ds := loadTestDataset(t)

	// id stored with surrounding spaces, query with its own
	txn, err := ds.Select("  T102  ")
	require.NoError(t, err)
	assert.Equal(t, "T102", txn.ID)
	assert.Equal(t, 2, txn.Index)
}

func TestSelect_NotFound(t *testing.T) {
	ds := loadTestDataset(t)

	_, err := ds.Select("T999")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.Contains(t, err.Error(), "T999")
}

func TestSelect_NoIDColumn(t *testing.T) {
	content := `is_fraud,final_moe_score,fraud_risk_level,lstm_score,transformer_score,autoencoder_score,xgb_score,ada_score
1,0.9,HIGH,0.9,0.9,0.9,0.9,0.9
`
	ds, err := Load(writeTestFile(t, content))
	require.NoError(t, err)

	_, err = ds.Select("T100")
	assert.Error(t, err)

	txn, err := ds.SelectIndex(0)
	require.NoError(t, err)
	assert.Equal(t, 0, txn.Index)
	assert.Empty(t, txn.ID)
}

func TestSelectIndex_OutOfRange(t *testing.T) {
	ds := loadTestDataset(t)

	_, err := ds.SelectIndex(-1)
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	_, err = ds.SelectIndex(ds.Len())
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}
