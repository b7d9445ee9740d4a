package ensemble

import (
	"context"

	"github.com/satuatap/credit-decision-service/internal/models"
	"github.com/sirupsen/logrus"
)

// Engine sequences one ensemble decision: derive metrics once, collect the
// three ballots, vote, then compose the user-facing explanation. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	client    ModelClient
	policy    PolicyConfig
	model     string
	fallbacks []string
	log       *logrus.Logger
}

// NewEngine initializes an ensemble engine. The model list is the primary
// advisory model followed by its fallbacks, tried in order.
func NewEngine(client ModelClient, policy PolicyConfig, model string, fallbacks []string, log *logrus.Logger) *Engine {
	return &Engine{
		client:    client,
		policy:    policy,
		model:     model,
		fallbacks: fallbacks,
		log:       log,
	}
}

// Decide runs the full pipeline over the two input documents. It never fails:
// missing metrics degrade to placeholders and an unusable advisory service
// degrades to a conservative synthetic ballot.
func (e *Engine) Decide(ctx context.Context, profile, scoreResp map[string]any) *models.DecisionEnvelope {
	d := DeriveMetrics(profile, scoreResp)

	rules := EvaluateRules(d, e.policy)
	gate := EvaluateGate(d, e.policy)
	advisory := e.EvaluateAdvisory(ctx, profile, scoreResp, d)

	ballots := []models.Ballot{rules.Ballot, gate.Ballot, advisory.Ballot}
	vote := MajorityVote(ballots)

	reasons := ComposeReasons(vote.Final, gate.Ballot.Reasons, rules.Ballot.Reasons, advisory.Ballot.Reasons)
	reasons = append(reasons, MetricBullets(profile, d, e.policy)...)
	if len(reasons) > maxTotalReasons {
		reasons = reasons[:maxTotalReasons]
	}

	result := &models.DecisionResult{
		Decision:   vote.Final,
		Confidence: voteConfidence(vote, len(ballots)),
		Reasons:    reasons,
		KeyFactors: map[string]any{
			"derived": map[string]any{
				"dti":        d.DTI,
				"ltv":        d.LTV,
				"fico_score": d.Score,
			},
			"rules":    rules.KeyFactors,
			"gate":     gate.KeyFactors,
			"llm_hint": advisory.KeyFactors,
		},
		Summary: BuildSummary(vote.Final, d, e.policy, advisory.Notes),
	}

	e.log.Debugf("Ensemble decision: %s (tally %d-%d, advisory model %q)",
		vote.Final, vote.Tally[models.DecisionApprove], vote.Tally[models.DecisionReject], advisory.Model)

	return &models.DecisionEnvelope{
		Source: "ensemble",
		Result: result,
		Model:  advisory.Model,
		Raw:    advisory.Raw,
	}
}
