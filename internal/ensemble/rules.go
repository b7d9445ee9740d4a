package ensemble

import (
	"fmt"

	"github.com/satuatap/credit-decision-service/internal/models"
)

// Confidences emitted by the rule evaluator. A rule violation is asserted
// with more confidence than a clean pass.
const (
	rulesApproveConfidence = 0.75
	rulesRejectConfidence  = 0.8
)

// Evaluation bundles an evaluator's ballot with its diagnostic factors.
type Evaluation struct {
	Ballot     models.Ballot
	KeyFactors map[string]any
}

// EvaluateRules applies the soft policy thresholds. The decision starts as an
// approval and flips to a rejection on the first violation; it never flips
// back. Metrics that could not be derived are skipped, the gate evaluator is
// the safety net for missing data.
func EvaluateRules(d Derived, cfg PolicyConfig) Evaluation {
	approve := true
	var reasons []string

	if d.Score != nil && *d.Score < cfg.MinScore {
		approve = false
		reasons = append(reasons, fmt.Sprintf(
			"Skor kredit sekitar %d berada di bawah kisaran acuan %d.",
			int(*d.Score), int(cfg.MinScore)))
	}
	if d.DTI != nil && *d.DTI > cfg.MaxDTI {
		approve = false
		reasons = append(reasons, fmt.Sprintf(
			"Rasio cicilan terhadap penghasilan (DTI) %s melebihi batas %d%%.",
			pct(d.DTI), int(cfg.MaxDTI*100)))
	}
	if d.LTV != nil && *d.LTV > cfg.MaxLTV {
		approve = false
		reasons = append(reasons, fmt.Sprintf(
			"Rasio pinjaman terhadap nilai properti (LTV) %s melebihi batas %d%%.",
			pct(d.LTV), int(cfg.MaxLTV*100)))
	}

	decision := models.DecisionApprove
	confidence := rulesApproveConfidence
	if !approve {
		decision = models.DecisionReject
		confidence = rulesRejectConfidence
	}
	if len(reasons) == 0 {
		reasons = []string{"Indikator utama berada dalam kisaran kebijakan internal."}
	}

	return Evaluation{
		Ballot: models.Ballot{
			Source:     models.SourceRules,
			Decision:   decision,
			Confidence: confidence,
			Reasons:    reasons,
		},
		KeyFactors: metricFactors(d),
	}
}
