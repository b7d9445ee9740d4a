package models

import "time"

// Decision is the two-state outcome of an evaluation. There is deliberately no
// third state: anything that is not an approval is a rejection.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

// BallotSource identifies which evaluator produced a ballot.
type BallotSource string

const (
	SourceRules    BallotSource = "rules"
	SourceGate     BallotSource = "gate"
	SourceAdvisory BallotSource = "llm"
)

// Ballot is one evaluator's vote on an application.
type Ballot struct {
	Source     BallotSource `json:"source"`
	Decision   Decision     `json:"decision"`
	Confidence float64      `json:"confidence"`
	Reasons    []string     `json:"reasons"`
}

// VoteResult is the outcome of the majority vote over the three ballots.
// Only ballot decisions participate; confidences and reasons do not.
type VoteResult struct {
	Final Decision         `json:"final"`
	Tally map[Decision]int `json:"tally"`
}

// DecisionResult is the end-user-visible outcome of the ensemble.
type DecisionResult struct {
	Decision   Decision       `json:"decision"`
	Confidence float64        `json:"confidence"`
	Reasons    []string       `json:"reasons"`
	KeyFactors map[string]any `json:"key_factors"`
	Summary    string         `json:"summary"`
}

// DecisionEnvelope wraps a DecisionResult with diagnostics: which advisory
// model actually answered (empty when none did) and its raw response text.
type DecisionEnvelope struct {
	Source string          `json:"source"`
	Result *DecisionResult `json:"result"`
	Model  string          `json:"model,omitempty"`
	Raw    string          `json:"raw,omitempty"`
}

// DecisionRecord is the persisted audit entry for an issued decision.
type DecisionRecord struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id,omitempty"`
	Decision   Decision  `json:"decision"`
	Confidence float64   `json:"confidence"`
	Model      string    `json:"model,omitempty"`
	Result     []byte    `json:"-"` // full DecisionResult as JSON
	CreatedAt  time.Time `json:"created_at"`
}
