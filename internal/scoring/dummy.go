package scoring

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"math/rand"
	"time"

	"github.com/satuatap/credit-decision-service/internal/models"
)

// DummyProfile generates a plausible credit profile. A non-empty seed makes
// the result deterministic: the same seed always yields the same profile, so
// repeated requests for an unknown user see stable data.
func DummyProfile(seed string) models.CreditProfile {
	var rng *rand.Rand
	if seed == "" {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	} else {
		h := sha256.Sum256([]byte(seed))
		n := binary.BigEndian.Uint64(h[:8]) % 100_000_000
		rng = rand.New(rand.NewSource(int64(n)))
	}

	// Payment history
	late30 := weightedChoice(rng, []int{0, 1, 2}, []float64{0.80, 0.15, 0.05})
	late60 := weightedChoice(rng, []int{0, 1}, []float64{0.92, 0.08})
	late90p := weightedChoice(rng, []int{0, 1}, []float64{0.97, 0.03})
	hasCollection := rng.Float64() < 0.06
	hasBankruptcy := rng.Float64() < 0.01
	var monthsSinceDelinquency *int
	if late30+late60+late90p > 0 || hasCollection || hasBankruptcy {
		m := rng.Intn(37)
		monthsSinceDelinquency = &m
	}

	// Amounts owed / utilization
	var revolvingUtilization float64
	if rng.Float64() < 0.7 {
		revolvingUtilization = round2(uniform(rng, 0.02, 0.29))
	} else {
		revolvingUtilization = round2(uniform(rng, 0.30, 0.95))
	}
	installmentBalanceRatio := round2(uniform(rng, 0.10, 0.90))

	// Accounts & ages
	totalAccounts := 3 + rng.Intn(16)
	ageOldest := round1(uniform(rng, 2, 20))
	avgAge := round1(math.Max(0.5, math.Min(ageOldest-uniform(rng, 0.5, 6.0), ageOldest)))

	// New credit
	hardInquiries := weightedChoice(rng, []int{0, 1, 2, 3, 4}, []float64{0.55, 0.25, 0.12, 0.06, 0.02})
	newAccounts := weightedChoice(rng, []int{0, 1, 2, 3}, []float64{0.60, 0.25, 0.12, 0.03})

	// Mix
	hasInstallment := rng.Float64() < 0.75
	hasMortgage := rng.Float64() < 0.35
	hasStudentOrAuto := rng.Float64() < 0.30

	return models.CreditProfile{
		Late30:                     late30,
		Late60:                     late60,
		Late90Plus:                 late90p,
		HasCollection:              hasCollection,
		HasBankruptcy:              hasBankruptcy,
		MonthsSinceLastDelinquency: monthsSinceDelinquency,
		RevolvingUtilization:       revolvingUtilization,
		InstallmentBalanceRatio:    installmentBalanceRatio,
		TotalAccounts:              totalAccounts,
		AgeOldestAcctYears:         ageOldest,
		AvgAgeYears:                avgAge,
		HardInquiries12M:           hardInquiries,
		NewAccounts12M:             newAccounts,
		HasMortgage:                hasMortgage,
		HasInstallment:             hasInstallment,
		HasRevolving:               true,
		HasStudentOrAuto:           hasStudentOrAuto,
	}
}

func weightedChoice(rng *rand.Rand, values []int, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	x := rng.Float64() * total
	for i, w := range weights {
		if x < w {
			return values[i]
		}
		x -= w
	}
	return values[len(values)-1]
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
func round2(x float64) float64 { return math.Round(x*100) / 100 }
