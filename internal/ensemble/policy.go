package ensemble

// PolicyConfig holds the three policy thresholds shared by the rule and gate
// evaluators. It is immutable for the duration of a decision.
type PolicyConfig struct {
	MinScore float64
	MaxDTI   float64
	MaxLTV   float64
}

// Widening margins applied by the gate evaluator on top of the policy
// thresholds. The gate only fails egregious breaches.
const (
	gateDTIMargin   = 0.10
	gateLTVMargin   = 0.05
	gateScoreMargin = 50
)

// DefaultPolicy returns the standard thresholds used when none are configured.
func DefaultPolicy() PolicyConfig {
	return PolicyConfig{
		MinScore: 700,
		MaxDTI:   0.45,
		MaxLTV:   0.9,
	}
}

// metricFactors builds the per-evaluator diagnostic entry exposed through
// key_factors.
func metricFactors(d Derived) map[string]any {
	return map[string]any{
		"fico_score": d.Score,
		"dti":        d.DTI,
		"ltv":        d.LTV,
		"red_flags":  []string{},
	}
}
