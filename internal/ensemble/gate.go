package ensemble

import (
	"fmt"

	"github.com/satuatap/credit-decision-service/internal/models"
)

// Confidences emitted by the gate evaluator. A hard breach is near-certain,
// the absence of one is only a weak approval signal.
const (
	gateApproveConfidence = 0.7
	gateRejectConfidence  = 0.9
)

// EvaluateGate applies the widened hard limits. It is deliberately less
// sensitive than the rule evaluator and only rejects severe breaches.
func EvaluateGate(d Derived, cfg PolicyConfig) Evaluation {
	hardFail := false
	var reasons []string

	if d.DTI != nil && *d.DTI > cfg.MaxDTI+gateDTIMargin {
		hardFail = true
		reasons = append(reasons, fmt.Sprintf(
			"DTI %s cukup jauh di atas batas %d%%.",
			pct(d.DTI), int(cfg.MaxDTI*100)))
	}
	if d.LTV != nil && *d.LTV > cfg.MaxLTV+gateLTVMargin {
		hardFail = true
		reasons = append(reasons, fmt.Sprintf(
			"LTV %s melampaui batas %d%% dengan margin yang signifikan.",
			pct(d.LTV), int(cfg.MaxLTV*100)))
	}
	if d.Score != nil && *d.Score < cfg.MinScore-gateScoreMargin {
		hardFail = true
		reasons = append(reasons, fmt.Sprintf(
			"Skor %d berada jauh di bawah kisaran yang diharapkan.",
			int(*d.Score)))
	}

	decision := models.DecisionApprove
	confidence := gateApproveConfidence
	if hardFail {
		decision = models.DecisionReject
		confidence = gateRejectConfidence
	} else if len(reasons) == 0 {
		reasons = []string{"Tidak ditemukan pelanggaran batas risiko yang bersifat keras."}
	}

	return Evaluation{
		Ballot: models.Ballot{
			Source:     models.SourceGate,
			Decision:   decision,
			Confidence: confidence,
			Reasons:    reasons,
		},
		KeyFactors: metricFactors(d),
	}
}
