// Package scoring implements the educational FICO-like credit score: five
// weighted factor scores on a 0-100 scale mapped into the 300-850 range.
// It is explicitly NOT the real FICO formula.
package scoring

import (
	"math"

	"github.com/satuatap/credit-decision-service/internal/models"
)

// Weights of the five scoring factors. They sum to 1.0.
var Weights = map[string]float64{
	"payment_history": 0.35,
	"amounts_owed":    0.30,
	"length_history":  0.15,
	"new_credit":      0.10,
	"credit_mix":      0.10,
}

// Note attached to every score response to make the educational nature clear.
const Note = "Model edukatif FICO-like (BUKAN rumus FICO asli)."

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func scorePaymentHistory(p models.CreditProfile) float64 {
	s := 100.0
	s -= float64(p.Late30) * 3.0
	s -= float64(p.Late60) * 7.0
	s -= float64(p.Late90Plus) * 15.0
	if p.HasCollection {
		s -= 20.0
	}
	if p.HasBankruptcy {
		s -= 40.0
	}
	if p.MonthsSinceLastDelinquency != nil {
		s += clamp(float64(*p.MonthsSinceLastDelinquency)/24.0*10.0, 0, 10)
	}
	return clamp(s, 0, 100)
}

func scoreAmountsOwed(p models.CreditProfile) float64 {
	s := 100.0
	util := p.RevolvingUtilization
	switch {
	case util <= 0.01:
		s -= 2.0
	case util <= 0.09:
		s += 5.0
	case util <= 0.29:
		// sweet spot, no adjustment
	case util <= 0.49:
		s -= 10.0
	case util <= 0.74:
		s -= 25.0
	default:
		s -= 45.0
	}
	s -= clamp(p.InstallmentBalanceRatio*20.0, 0, 20)
	if p.TotalAccounts < 3 {
		s -= 5.0
	} else if p.TotalAccounts >= 15 {
		s -= 3.0
	}
	return clamp(s, 0, 100)
}

func scoreLengthHistory(p models.CreditProfile) float64 {
	s := clamp(p.AgeOldestAcctYears/20.0*60.0, 0, 60)
	s += clamp(p.AvgAgeYears/10.0*40.0, 0, 40)
	return clamp(s, 0, 100)
}

func scoreNewCredit(p models.CreditProfile) float64 {
	s := 100.0
	switch p.HardInquiries12M {
	case 0:
		s += 3.0
	case 1:
		s -= 5.0
	case 2:
		s -= 10.0
	default:
		s -= 20.0
	}
	switch p.NewAccounts12M {
	case 0:
		s += 2.0
	case 1:
		s -= 5.0
	case 2:
		s -= 10.0
	default:
		s -= 18.0
	}
	return clamp(s, 0, 100)
}

func scoreMix(p models.CreditProfile) float64 {
	s := 50.0
	if p.HasRevolving {
		s += 15.0
	}
	if p.HasInstallment {
		s += 15.0
	}
	if p.HasMortgage {
		s += 10.0
	}
	if p.HasStudentOrAuto {
		s += 5.0
	}
	return clamp(s, 0, 100)
}

// Score computes the weighted FICO-like score in the 300-850 range together
// with the per-factor breakdown.
func Score(p models.CreditProfile) (float64, map[string]float64) {
	ph := scorePaymentHistory(p)
	ao := scoreAmountsOwed(p)
	lh := scoreLengthHistory(p)
	nc := scoreNewCredit(p)
	cm := scoreMix(p)

	weighted := Weights["payment_history"]*ph +
		Weights["amounts_owed"]*ao +
		Weights["length_history"]*lh +
		Weights["new_credit"]*nc +
		Weights["credit_mix"]*cm

	score := math.Round(300 + weighted/100.0*(850-300))
	breakdown := map[string]float64{
		"payment_history":      ph,
		"amounts_owed":         ao,
		"length_history":       lh,
		"new_credit":           nc,
		"credit_mix":           cm,
		"weighted_index_0_100": math.Round(weighted*100) / 100,
	}
	return score, breakdown
}
