package ensemble

import (
	"context"
	"errors"
	"testing"

	"github.com/satuatap/credit-decision-service/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient returns canned responses per model name, erroring on the rest.
type stubClient struct {
	responses map[string]string
	calls     []string
}

func (s *stubClient) Generate(_ context.Context, model, _ string) (string, error) {
	s.calls = append(s.calls, model)
	if resp, ok := s.responses[model]; ok {
		return resp, nil
	}
	return "", errors.New("model unavailable")
}

func testEngine(client ModelClient, fallbacks ...string) *Engine {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewEngine(client, DefaultPolicy(), "primary", fallbacks, log)
}

func TestExtractJSONFencedBlock(t *testing.T) {
	obj := extractJSON("Berikut hasilnya:\n```json\n{\"decision\": \"APPROVE\"}\n```\nSelesai.")
	require.NotNil(t, obj)
	assert.Equal(t, "APPROVE", obj["decision"])
}

func TestExtractJSONBareFence(t *testing.T) {
	obj := extractJSON("```\n{\"decision\": \"REJECT\"}\n```")
	require.NotNil(t, obj)
	assert.Equal(t, "REJECT", obj["decision"])
}

func TestExtractJSONOutermostBraces(t *testing.T) {
	obj := extractJSON(`keputusan saya adalah {"decision": "APPROVE", "confidence": 0.8} terima kasih`)
	require.NotNil(t, obj)
	assert.Equal(t, 0.8, obj["confidence"])
}

func TestExtractJSONNothingParses(t *testing.T) {
	assert.Nil(t, extractJSON(""))
	assert.Nil(t, extractJSON("tidak ada json di sini"))
	assert.Nil(t, extractJSON("{broken"))
}

func TestEvaluateAdvisoryPrimarySucceeds(t *testing.T) {
	client := &stubClient{responses: map[string]string{
		"primary": `{"decision":"approve","confidence":0.85,"reasons":["Profil baik."],"notes":"Lanjutkan."}`,
	}}
	out := testEngine(client, "backup").EvaluateAdvisory(context.Background(), map[string]any{}, map[string]any{}, Derived{})

	assert.Equal(t, []string{"primary"}, client.calls)
	assert.Equal(t, models.DecisionApprove, out.Ballot.Decision)
	assert.Equal(t, 0.85, out.Ballot.Confidence)
	assert.Equal(t, []string{"Profil baik."}, out.Ballot.Reasons)
	assert.Equal(t, "primary", out.Model)
	assert.Equal(t, "Lanjutkan.", out.Notes)
}

func TestEvaluateAdvisoryFallsBackInOrder(t *testing.T) {
	client := &stubClient{responses: map[string]string{
		"backup2": `{"decision":"REJECT","confidence":0.9,"reasons":[]}`,
	}}
	out := testEngine(client, "backup1", "backup2").EvaluateAdvisory(context.Background(), map[string]any{}, map[string]any{}, Derived{})

	assert.Equal(t, []string{"primary", "backup1", "backup2"}, client.calls)
	assert.Equal(t, models.DecisionReject, out.Ballot.Decision)
	assert.Equal(t, "backup2", out.Model)
}

func TestEvaluateAdvisoryNonJSONTriggersNextModel(t *testing.T) {
	client := &stubClient{responses: map[string]string{
		"primary": "maaf, saya tidak bisa membantu",
		"backup":  `{"decision":"APPROVE","confidence":0.7,"reasons":["ok"]}`,
	}}
	out := testEngine(client, "backup").EvaluateAdvisory(context.Background(), map[string]any{}, map[string]any{}, Derived{})
	assert.Equal(t, "backup", out.Model)
}

func TestEvaluateAdvisoryExhaustionSynthesizesRejection(t *testing.T) {
	client := &stubClient{responses: map[string]string{}}
	out := testEngine(client, "backup").EvaluateAdvisory(context.Background(), map[string]any{}, map[string]any{}, Derived{})

	assert.Equal(t, models.DecisionReject, out.Ballot.Decision)
	assert.Equal(t, 0.6, out.Ballot.Confidence)
	require.Len(t, out.Ballot.Reasons, 1)
	assert.Contains(t, out.Ballot.Reasons[0], "konservatif")
	assert.Empty(t, out.Model)
}

func TestAdvisoryFromParsedCoercions(t *testing.T) {
	// Unknown enum becomes a rejection.
	out := advisoryFromParsed(map[string]any{"decision": "ESCALATE", "confidence": 0.5}, "m", "")
	assert.Equal(t, models.DecisionReject, out.Ballot.Decision)

	// Missing or zero confidence gets the default.
	out = advisoryFromParsed(map[string]any{"decision": "APPROVE"}, "m", "")
	assert.Equal(t, 0.7, out.Ballot.Confidence)
	out = advisoryFromParsed(map[string]any{"decision": "APPROVE", "confidence": 0.0}, "m", "")
	assert.Equal(t, 0.7, out.Ballot.Confidence)

	// Non-string reasons are dropped, not mangled.
	out = advisoryFromParsed(map[string]any{"decision": "APPROVE", "reasons": []any{"ok", 42.0}}, "m", "")
	assert.Equal(t, []string{"ok"}, out.Ballot.Reasons)
}

func TestBuildAdvisoryPromptCarriesBothDocuments(t *testing.T) {
	profile := map[string]any{"data": map[string]any{"loanAmount": 450000000.0}}
	score := map[string]any{"score": 712.0}
	prompt := BuildAdvisoryPrompt(profile, score, DeriveMetrics(profile, score))

	assert.Contains(t, prompt, "[PROFILE_JSON]")
	assert.Contains(t, prompt, "[FICO_JSON]")
	assert.Contains(t, prompt, `"loanAmount":450000000`)
	assert.Contains(t, prompt, "fico_score=712")
	assert.Contains(t, prompt, "dti=null")
	assert.Contains(t, prompt, `"enum":["APPROVE","REJECT"]`)
}
