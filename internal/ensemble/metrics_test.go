package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileDoc(income, installment, loan, propVal any) map[string]any {
	data := map[string]any{}
	if income != nil {
		data["userInfo"] = map[string]any{"monthlyIncome": income}
	}
	if installment != nil {
		data["monthlyInstallment"] = installment
	}
	if loan != nil {
		data["loanAmount"] = loan
	}
	if propVal != nil {
		data["propertyValue"] = propVal
	}
	return map[string]any{"data": data}
}

func TestDeriveMetricsFull(t *testing.T) {
	profile := profileDoc(10_000_000.0, 4_000_000.0, 450_000_000.0, 500_000_000.0)
	score := map[string]any{"score": 712.0}

	d := DeriveMetrics(profile, score)
	require.NotNil(t, d.DTI)
	require.NotNil(t, d.LTV)
	require.NotNil(t, d.Score)
	assert.InDelta(t, 0.4, *d.DTI, 1e-9)
	assert.InDelta(t, 0.9, *d.LTV, 1e-9)
	assert.Equal(t, 712.0, *d.Score)
}

func TestDeriveMetricsAbsentIsNotZero(t *testing.T) {
	d := DeriveMetrics(map[string]any{}, map[string]any{})
	assert.Nil(t, d.DTI)
	assert.Nil(t, d.LTV)
	assert.Nil(t, d.Score)
}

func TestDeriveMetricsZeroOperands(t *testing.T) {
	// Zero installment or loan means "no ratio", not "ratio of zero".
	d := DeriveMetrics(profileDoc(10_000_000.0, 0.0, 0.0, 500_000_000.0), map[string]any{})
	assert.Nil(t, d.DTI)
	assert.Nil(t, d.LTV)

	// A non-positive denominator never produces a ratio.
	d = DeriveMetrics(profileDoc(0.0, 4_000_000.0, 450_000_000.0, -1.0), map[string]any{})
	assert.Nil(t, d.DTI)
	assert.Nil(t, d.LTV)
}

func TestDeriveMetricsNumericStrings(t *testing.T) {
	profile := profileDoc("10000000", "2500000", nil, nil)
	d := DeriveMetrics(profile, map[string]any{"score": "655"})
	require.NotNil(t, d.DTI)
	require.NotNil(t, d.Score)
	assert.InDelta(t, 0.25, *d.DTI, 1e-9)
	assert.Equal(t, 655.0, *d.Score)
}

func TestDeriveMetricsGarbageValues(t *testing.T) {
	profile := profileDoc("not-a-number", 2_500_000.0, nil, nil)
	d := DeriveMetrics(profile, map[string]any{"score": map[string]any{"nested": true}})
	assert.Nil(t, d.DTI)
	assert.Nil(t, d.Score)
}

func TestLookupNonObjectIntermediate(t *testing.T) {
	doc := map[string]any{"data": "flat"}
	_, ok := lookup(doc, "data", "userInfo", "monthlyIncome")
	assert.False(t, ok)
}
