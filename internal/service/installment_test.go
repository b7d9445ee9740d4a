package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateInstallmentAnnuity(t *testing.T) {
	// 100M over 12 months at 12%/yr: the standard annuity table value.
	got := EstimateInstallment(100_000_000, 12.0, 12)
	assert.InDelta(t, 8_884_879, got, 1.0)
}

func TestEstimateInstallmentZeroRate(t *testing.T) {
	got := EstimateInstallment(120_000_000, 0, 12)
	assert.Equal(t, 10_000_000.0, got)
}

func TestEstimateInstallmentInvalidTenor(t *testing.T) {
	assert.Equal(t, 0.0, EstimateInstallment(100_000_000, 12.0, 0))
	assert.Equal(t, 0.0, EstimateInstallment(100_000_000, 12.0, -5))
}

func TestEstimateInstallmentLongerTenorCostsLessPerMonth(t *testing.T) {
	short := EstimateInstallment(450_000_000, 10.5, 120)
	long := EstimateInstallment(450_000_000, 10.5, 240)
	assert.Greater(t, short, long)
}
