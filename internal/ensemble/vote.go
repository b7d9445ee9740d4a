package ensemble

import "github.com/satuatap/credit-decision-service/internal/models"

// Confidence attached to the final decision based on agreement strength, not
// on any evaluator's own confidence.
const (
	unanimousConfidence = 0.9
	majorityConfidence  = 0.8
)

// MajorityVote counts the three ballots' decisions. The application is
// approved iff at least two evaluators approve; with three binary ballots a
// tie cannot occur. Anything that is not an explicit approval counts as a
// rejection.
func MajorityVote(ballots []models.Ballot) models.VoteResult {
	tally := map[models.Decision]int{
		models.DecisionApprove: 0,
		models.DecisionReject:  0,
	}
	for _, b := range ballots {
		if b.Decision == models.DecisionApprove {
			tally[models.DecisionApprove]++
		} else {
			tally[models.DecisionReject]++
		}
	}

	final := models.DecisionReject
	if tally[models.DecisionApprove] >= 2 {
		final = models.DecisionApprove
	}
	return models.VoteResult{Final: final, Tally: tally}
}

// voteConfidence maps agreement strength to the reported confidence:
// unanimous outcomes are asserted at 0.9, split outcomes at 0.8.
func voteConfidence(vote models.VoteResult, total int) float64 {
	if vote.Tally[vote.Final] == total {
		return unanimousConfidence
	}
	return majorityConfidence
}
