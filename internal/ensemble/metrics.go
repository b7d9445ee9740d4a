package ensemble

import (
	"encoding/json"
	"strconv"
)

// Derived holds the financial ratios extracted from the application documents.
// A nil field means the metric is unknown; unknown is never treated as zero
// and never trips a threshold.
type Derived struct {
	DTI   *float64 `json:"dti"`
	LTV   *float64 `json:"ltv"`
	Score *float64 `json:"score"`
}

// lookup walks a nested document along the given keys. Any missing or
// non-object intermediate yields (nil, false) instead of panicking.
func lookup(doc map[string]any, path ...string) (any, bool) {
	var cur any = doc
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// asNumber coerces a loosely-typed document value to a float64. Numeric
// strings are accepted, everything else is reported as absent.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func numberAt(doc map[string]any, path ...string) (float64, bool) {
	v, ok := lookup(doc, path...)
	if !ok {
		return 0, false
	}
	return asNumber(v)
}

// DeriveMetrics extracts DTI, LTV and the credit score from the application
// profile and the score-response document. Ratios are only produced when both
// operands are present, the numerator is non-zero and the denominator is
// positive.
func DeriveMetrics(profile, scoreResp map[string]any) Derived {
	var d Derived

	income, okIncome := numberAt(profile, "data", "userInfo", "monthlyIncome")
	installment, okInst := numberAt(profile, "data", "monthlyInstallment")
	loan, okLoan := numberAt(profile, "data", "loanAmount")
	propVal, okProp := numberAt(profile, "data", "propertyValue")

	if okInst && okIncome && installment != 0 && income > 0 {
		dti := installment / income
		d.DTI = &dti
	}
	if okLoan && okProp && loan != 0 && propVal > 0 {
		ltv := loan / propVal
		d.LTV = &ltv
	}
	if score, ok := numberAt(scoreResp, "score"); ok {
		d.Score = &score
	}
	return d
}
