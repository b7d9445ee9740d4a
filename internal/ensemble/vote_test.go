package ensemble

import (
	"testing"

	"github.com/satuatap/credit-decision-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func ballot(src models.BallotSource, d models.Decision) models.Ballot {
	return models.Ballot{Source: src, Decision: d, Confidence: 0.5}
}

func TestMajorityVoteUnanimousApprove(t *testing.T) {
	vote := MajorityVote([]models.Ballot{
		ballot(models.SourceRules, models.DecisionApprove),
		ballot(models.SourceGate, models.DecisionApprove),
		ballot(models.SourceAdvisory, models.DecisionApprove),
	})
	assert.Equal(t, models.DecisionApprove, vote.Final)
	assert.Equal(t, 3, vote.Tally[models.DecisionApprove])
	assert.Equal(t, 0.9, voteConfidence(vote, 3))
}

func TestMajorityVoteSplit(t *testing.T) {
	vote := MajorityVote([]models.Ballot{
		ballot(models.SourceRules, models.DecisionApprove),
		ballot(models.SourceGate, models.DecisionReject),
		ballot(models.SourceAdvisory, models.DecisionApprove),
	})
	assert.Equal(t, models.DecisionApprove, vote.Final)
	assert.Equal(t, 0.8, voteConfidence(vote, 3))

	vote = MajorityVote([]models.Ballot{
		ballot(models.SourceRules, models.DecisionReject),
		ballot(models.SourceGate, models.DecisionReject),
		ballot(models.SourceAdvisory, models.DecisionApprove),
	})
	assert.Equal(t, models.DecisionReject, vote.Final)
	assert.Equal(t, 0.8, voteConfidence(vote, 3))
}

func TestMajorityVoteUnknownDecisionCountsAsReject(t *testing.T) {
	vote := MajorityVote([]models.Ballot{
		ballot(models.SourceRules, models.Decision("MAYBE")),
		ballot(models.SourceGate, models.DecisionApprove),
		ballot(models.SourceAdvisory, models.DecisionApprove),
	})
	assert.Equal(t, models.DecisionApprove, vote.Final)
	assert.Equal(t, 1, vote.Tally[models.DecisionReject])
}
