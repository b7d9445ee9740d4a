package models

// RecommendationRequest is the body of the recommendation endpoint. Profile
// and Score are loosely structured documents; Score may be omitted when a
// user id is supplied, in which case it is computed server-side.
type RecommendationRequest struct {
	UserID         string         `json:"user_id,omitempty"`
	ApplicantEmail string         `json:"applicant_email,omitempty"`
	Profile        map[string]any `json:"profile"`
	Score          map[string]any `json:"score"`
}
