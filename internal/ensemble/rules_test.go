package ensemble

import (
	"testing"

	"github.com/satuatap/credit-decision-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(x float64) *float64 { return &x }

func TestEvaluateRulesAllWithinPolicy(t *testing.T) {
	ev := EvaluateRules(Derived{DTI: fptr(0.30), LTV: fptr(0.80), Score: fptr(720)}, DefaultPolicy())
	assert.Equal(t, models.DecisionApprove, ev.Ballot.Decision)
	assert.Equal(t, 0.75, ev.Ballot.Confidence)
	assert.Equal(t, models.SourceRules, ev.Ballot.Source)
	require.Len(t, ev.Ballot.Reasons, 1)
}

func TestEvaluateRulesLowScore(t *testing.T) {
	ev := EvaluateRules(Derived{Score: fptr(650)}, DefaultPolicy())
	assert.Equal(t, models.DecisionReject, ev.Ballot.Decision)
	assert.Equal(t, 0.8, ev.Ballot.Confidence)
	require.NotEmpty(t, ev.Ballot.Reasons)
	assert.Contains(t, ev.Ballot.Reasons[0], "650")
	assert.Contains(t, ev.Ballot.Reasons[0], "700")
}

func TestEvaluateRulesEveryViolationListed(t *testing.T) {
	ev := EvaluateRules(Derived{DTI: fptr(0.50), LTV: fptr(0.95), Score: fptr(650)}, DefaultPolicy())
	assert.Equal(t, models.DecisionReject, ev.Ballot.Decision)
	assert.Len(t, ev.Ballot.Reasons, 3)
}

func TestEvaluateRulesBoundaryIsNotViolation(t *testing.T) {
	// Exactly at the thresholds: score == min, dti == max, ltv == max.
	ev := EvaluateRules(Derived{DTI: fptr(0.45), LTV: fptr(0.90), Score: fptr(700)}, DefaultPolicy())
	assert.Equal(t, models.DecisionApprove, ev.Ballot.Decision)
}

func TestEvaluateRulesMissingMetricsApprove(t *testing.T) {
	// Unknown metrics never trip a threshold.
	ev := EvaluateRules(Derived{}, DefaultPolicy())
	assert.Equal(t, models.DecisionApprove, ev.Ballot.Decision)
	assert.Equal(t, 0.75, ev.Ballot.Confidence)
}
