package ensemble

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/satuatap/credit-decision-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideCleanApplicationApproves(t *testing.T) {
	client := &stubClient{responses: map[string]string{
		"primary": `{"decision":"APPROVE","confidence":0.9,"reasons":["Kemampuan bayar memadai."]}`,
	}}
	profile := profileDoc(15_000_000.0, 4_000_000.0, 400_000_000.0, 500_000_000.0)
	score := map[string]any{"score": 740.0}

	env := testEngine(client).Decide(context.Background(), profile, score)

	require.NotNil(t, env.Result)
	assert.Equal(t, "ensemble", env.Source)
	assert.Equal(t, models.DecisionApprove, env.Result.Decision)
	assert.Equal(t, 0.9, env.Result.Confidence)
	assert.Equal(t, "primary", env.Model)
}

func TestDecideMajorityOverridesAdvisory(t *testing.T) {
	// Rules and gate both reject; even a confident advisory approval loses 2-1.
	client := &stubClient{responses: map[string]string{
		"primary": `{"decision":"APPROVE","confidence":0.99,"reasons":["Tetap layak."]}`,
	}}
	profile := profileDoc(10_000_000.0, 6_000_000.0, 480_000_000.0, 500_000_000.0)
	score := map[string]any{"score": 600.0}

	env := testEngine(client).Decide(context.Background(), profile, score)
	assert.Equal(t, models.DecisionReject, env.Result.Decision)
	assert.Equal(t, 0.8, env.Result.Confidence)
}

func TestDecideAdvisoryOutageStillDecides(t *testing.T) {
	client := &stubClient{responses: map[string]string{}}
	profile := profileDoc(15_000_000.0, 4_000_000.0, 400_000_000.0, 500_000_000.0)
	score := map[string]any{"score": 740.0}

	env := testEngine(client, "backup").Decide(context.Background(), profile, score)
	// Two approvals beat the synthetic rejection.
	assert.Equal(t, models.DecisionApprove, env.Result.Decision)
	assert.Equal(t, 0.8, env.Result.Confidence)
}

func TestDecideEmptyDocuments(t *testing.T) {
	client := &stubClient{responses: map[string]string{
		"primary": `{"decision":"APPROVE","confidence":0.7,"reasons":[]}`,
	}}
	env := testEngine(client).Decide(context.Background(), map[string]any{}, map[string]any{})

	require.NotNil(t, env.Result)
	assert.Equal(t, models.DecisionApprove, env.Result.Decision)
	assert.LessOrEqual(t, len(env.Result.Reasons), 10)
	// The metric bullets still render with placeholders.
	assert.Contains(t, env.Result.Reasons[len(env.Result.Reasons)-1], "—")
}

func TestDecideReasonsCappedAtTen(t *testing.T) {
	manyReasons := `{"decision":"REJECT","confidence":0.9,"reasons":["a1","a2","a3","a4"]}`
	client := &stubClient{responses: map[string]string{"primary": manyReasons}}
	profile := profileDoc(10_000_000.0, 6_000_000.0, 480_000_000.0, 500_000_000.0)
	score := map[string]any{"score": 600.0}

	env := testEngine(client).Decide(context.Background(), profile, score)
	assert.LessOrEqual(t, len(env.Result.Reasons), 10)
}

func TestDecideIsDeterministicForFixedAdvisory(t *testing.T) {
	client := &stubClient{responses: map[string]string{
		"primary": `{"decision":"APPROVE","confidence":0.8,"reasons":["Stabil."],"notes":"Catatan tetap."}`,
	}}
	profile := profileDoc(15_000_000.0, 4_000_000.0, 400_000_000.0, 500_000_000.0)
	score := map[string]any{"score": 740.0}
	eng := testEngine(client)

	first := eng.Decide(context.Background(), profile, score)
	second := eng.Decide(context.Background(), profile, score)

	a, err := json.Marshal(first.Result)
	require.NoError(t, err)
	b, err := json.Marshal(second.Result)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestDecideSummaryHidesVoteMechanics(t *testing.T) {
	client := &stubClient{responses: map[string]string{
		"primary": `{"decision":"REJECT","confidence":0.9,"reasons":["Risiko tinggi."]}`,
	}}
	profile := profileDoc(10_000_000.0, 6_000_000.0, 480_000_000.0, 500_000_000.0)
	env := testEngine(client).Decide(context.Background(), profile, map[string]any{"score": 600.0})

	for _, word := range []string{"vote", "ballot", "evaluator", "ensemble", "gate"} {
		assert.NotContains(t, env.Result.Summary, word)
	}
}
