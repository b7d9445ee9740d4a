package models

// ScoreSource describes where the profile used for a scoring request came from.
type ScoreSource struct {
	FromDB           bool `json:"from_db"`
	CreatedIfMissing bool `json:"created_if_missing"`
	PersistedChanges bool `json:"persisted_changes"`
}

// ScoreResponse is the payload returned by the credit-score endpoint.
type ScoreResponse struct {
	Success   bool               `json:"success"`
	Source    ScoreSource        `json:"source"`
	UserID    string             `json:"user_id,omitempty"`
	InputUsed CreditProfile      `json:"input_used"`
	Weights   map[string]float64 `json:"weights"`
	Score     float64            `json:"score"`
	Breakdown map[string]float64 `json:"breakdown"`
	Note      string             `json:"note"`
}
