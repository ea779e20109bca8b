package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRiskTier(t *testing.T) {
	tests := []struct {
		in   string
		want RiskTier
	}{
		{"LOW", TierLow},
		{"low", TierLow},
		{" Low ", TierLow},
		{"MEDIUM", TierMedium},
		{"medium", TierMedium},
		{"HIGH", TierHigh},
		{"hIgH", TierHigh},
		{"", TierUnknown},
		{"CRITICAL", TierUnknown},
		{"n/a", TierUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseRiskTier(tt.in), "value: %q", tt.in)
	}
}

func TestRiskTierStatus(t *testing.T) {
	tests := []struct {
		tier     RiskTier
		class    string
		fragment string
	}{
		{TierLow, StatusSuccess, "successful"},
		{TierMedium, StatusWarning, "on hold"},
		{TierHigh, StatusError, "blocked"},
		{TierUnknown, StatusInfo, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			s := tt.tier.Status()
			assert.Equal(t, tt.class, s.Class)
			assert.Contains(t, s.Message, tt.fragment)
		})
	}
}

func TestMakeDecision(t *testing.T) {
	ds := loadTestDataset(t)

	txn, err := ds.Select("T100")
	require.NoError(t, err)

	d, err := MakeDecision(txn)
	require.NoError(t, err)

	assert.Equal(t, "T100", d.TransactionID)
	assert.Equal(t, 0.873, d.FinalScore)
	assert.Equal(t, "HIGH", d.RiskLevel)
	assert.Equal(t, "Yes", d.GroundTruth)
	assert.Equal(t, StatusError, d.Status.Class)

	require.Len(t, d.Experts, 5)
	labels := make([]string, 0, len(d.Experts))
	for _, e := range d.Experts {
		labels = append(labels, e.Label)
	}
	assert.Equal(t, []string{
		"LSTM (Behavioral)",
		"Transformer (Feature Interaction)",
		"Autoencoder (Anomaly)",
		"XGBoost (Tabular)",
		"AdaBoost (Ensemble)",
	}, labels)
	assert.Equal(t, 0.9, d.Experts[0].Score)
	assert.Equal(t, 0.81, d.Experts[4].Score)
}

func TestMakeDecision_GroundTruth(t *testing.T) {
	content := `transaction_id,is_fraud,final_moe_score,fraud_risk_level,lstm_score,transformer_score,autoencoder_score,xgb_score,ada_score
A,1,0.5,LOW,0,0,0,0,0
B,0,0.5,LOW,0,0,0,0,0
C,2,0.5,LOW,0,0,0,0,0
D,-1,0.5,LOW,0,0,0,0,0
`
	ds, err := Load(writeTestFile(t, content))
	require.NoError(t, err)

	tests := map[string]string{
		"A": "Yes",
		"B": "No",
		"C": "No",
		"D": "No",
	}
	for id, want := range tests {
		txn, err := ds.Select(id)
		require.NoError(t, err)
		d, err := MakeDecision(txn)
		require.NoError(t, err)
		assert.Equal(t, want, d.GroundTruth, "id: %s", id)
	}
}

func TestMakeDecision_CaseInsensitiveTier(t *testing.T) {
	ds := loadTestDataset(t)

	// T102 carries "medium" lower-cased, displayed as-is but tiered upper
	txn, err := ds.Select("T102")
	require.NoError(t, err)

	d, err := MakeDecision(txn)
	require.NoError(t, err)
	assert.Equal(t, "medium", d.RiskLevel)
	assert.Equal(t, StatusWarning, d.Status.Class)
}

func TestMakeDecision_TypeErrors(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"non-numeric final score", "X,1,abc,LOW,0,0,0,0,0"},
		{"non-integer label", "X,maybe,0.5,LOW,0,0,0,0,0"},
		{"non-numeric expert score", "X,1,0.5,LOW,0,0,bad,0,0"},
	}

	header := "transaction_id,is_fraud,final_moe_score,fraud_risk_level,lstm_score,transformer_score,autoencoder_score,xgb_score,ada_score\n"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Load(writeTestFile(t, header+tt.row+"\n"))
			require.NoError(t, err)

			txn, err := ds.Select("X")
			require.NoError(t, err)

			_, err = MakeDecision(txn)
			assert.Error(t, err)
		})
	}
}

func TestRound3(t *testing.T) {
	assert.Equal(t, 0.873, Round3(0.8734))
	assert.Equal(t, 0.874, Round3(0.8736))
	assert.Equal(t, 1.0, Round3(0.9996))
	assert.Equal(t, 0.0, Round3(0.0))
	assert.Equal(t, -0.874, Round3(-0.8736))
}
