package data

import (
	"math"
	"strings"
)

// RiskTier is the categorical risk bucket assigned upstream. It is consumed
// here only for display and messaging, never recomputed.
type RiskTier string

const (
	TierLow     RiskTier = "LOW"
	TierMedium  RiskTier = "MEDIUM"
	TierHigh    RiskTier = "HIGH"
	TierUnknown RiskTier = "UNKNOWN"
)

// ParseRiskTier maps a raw risk level value to a tier, case-insensitively.
// Anything outside LOW/MEDIUM/HIGH (including empty) is UNKNOWN.
func ParseRiskTier(v string) RiskTier {
	switch RiskTier(strings.ToUpper(strings.TrimSpace(v))) {
	case TierLow:
		return TierLow
	case TierMedium:
		return TierMedium
	case TierHigh:
		return TierHigh
	default:
		return TierUnknown
	}
}

const (
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusError   = "error"
	StatusInfo    = "info"
)

// Status is the business-facing message shown for a transaction. Exact
// wording comes from the upstream decision platform.
type Status struct {
	Class   string `json:"class" yaml:"class"`
	Message string `json:"message" yaml:"message"`
}

// Status is a pure function of the tier.
func (t RiskTier) Status() Status {
	switch t {
	case TierLow:
		return Status{Class: StatusSuccess, Message: "Your transaction was successful."}
	case TierMedium:
		return Status{Class: StatusWarning, Message: "Your transaction is on hold. Please contact the bank."}
	case TierHigh:
		return Status{Class: StatusError, Message: "Your transaction is blocked. Please contact the bank immediately."}
	default:
		return Status{Class: StatusInfo, Message: "Transaction status unavailable."}
	}
}

// Expert describes one sub-model of the upstream mixture-of-experts
// ensemble: display label, source column, and its role in the decision.
type Expert struct {
	Label  string
	Column string
	Role   string
}

// Experts lists the five sub-models in fixed display order.
var Experts = []Expert{
	{Label: "LSTM (Behavioral)", Column: ColLSTMScore, Role: "analyzes sequential transaction behavior"},
	{Label: "Transformer (Feature Interaction)", Column: ColTransformer, Role: "models complex feature interactions"},
	{Label: "Autoencoder (Anomaly)", Column: ColAutoencoder, Role: "detects anomalous patterns"},
	{Label: "XGBoost (Tabular)", Column: ColXGBScore, Role: "provides strong tabular signals"},
	{Label: "AdaBoost (Ensemble)", Column: ColAdaScore, Role: "provides strong tabular signals"},
}

// CombinerNote describes how the upstream gating network produced the final
// score. Fixed content, not data-derived.
const CombinerNote = "Gating Network (MoE) combines all expert outputs dynamically"

// ExpertScore is one sub-model's output for a selected transaction.
type ExpertScore struct {
	Label string  `json:"label" yaml:"label"`
	Score float64 `json:"score" yaml:"score"`
}

// Decision is the full presentation payload for one selected transaction.
type Decision struct {
	TransactionID string        `json:"transaction_id,omitempty" yaml:"transaction_id,omitempty"`
	Index         int           `json:"index" yaml:"index"`
	FinalScore    float64       `json:"final_score" yaml:"final_score"`
	RiskLevel     string        `json:"risk_level" yaml:"risk_level"`
	GroundTruth   string        `json:"ground_truth" yaml:"ground_truth"`
	Status        Status        `json:"status" yaml:"status"`
	Experts       []ExpertScore `json:"experts" yaml:"experts"`
}

// MakeDecision builds the decision payload for a transaction. Score and
// label coercion failures are fatal for the render, there is no partial
// decision.
func MakeDecision(t *Transaction) (*Decision, error) {
	score, err := t.floatField(ColFinalScore)
	if err != nil {
		return nil, err
	}

	label, err := t.intField(ColIsFraud)
	if err != nil {
		return nil, err
	}
	truth := "No"
	if label == 1 {
		truth = "Yes"
	}

	level, _ := t.Field(ColRiskLevel)

	experts := make([]ExpertScore, 0, len(Experts))
	for _, e := range Experts {
		v, err := t.floatField(e.Column)
		if err != nil {
			return nil, err
		}
		experts = append(experts, ExpertScore{Label: e.Label, Score: v})
	}

	return &Decision{
		TransactionID: t.ID,
		Index:         t.Index,
		FinalScore:    Round3(score),
		RiskLevel:     level,
		GroundTruth:   truth,
		Status:        ParseRiskTier(level).Status(),
		Experts:       experts,
	}, nil
}

// Round3 rounds a score to 3 decimal places for display.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
