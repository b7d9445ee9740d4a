package ensemble

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/satuatap/credit-decision-service/internal/models"
)

// ModelClient is the transport capability the advisory evaluator needs from
// the narrative model integration. One call, one model, one prompt.
type ModelClient interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

const (
	// advisoryDefaultConfidence replaces a missing or zero confidence in an
	// otherwise valid model response.
	advisoryDefaultConfidence = 0.7

	// advisoryFallbackConfidence is used for the synthetic ballot after all
	// configured models failed.
	advisoryFallbackConfidence = 0.6

	advisoryFallbackReason = "Saat ini sistem AI tidak memberikan respons yang dapat diandalkan, sehingga kami mengambil pendekatan konservatif."

	notesPlaceholder = "—"
)

const advisorySchema = `{"type":"object","properties":{"decision":{"type":"string","enum":["APPROVE","REJECT"]},"confidence":{"type":"number","minimum":0,"maximum":1},"reasons":{"type":"array","items":{"type":"string"}},"key_factors":{"type":"object","additionalProperties":true},"conditions":{"type":"array","items":{"type":"string"}},"notes":{"type":"string"}},"required":["decision","confidence","reasons"]}`

// advisoryOutcome carries the advisory ballot plus the diagnostics that never
// reach the end-user-visible reasons or summary.
type advisoryOutcome struct {
	Ballot     models.Ballot
	KeyFactors map[string]any
	Notes      string
	Model      string
	Raw        string
}

// BuildAdvisoryPrompt assembles the underwriter prompt: the response schema,
// the pre-derived helper values and both raw input documents.
func BuildAdvisoryPrompt(profile, scoreResp map[string]any, d Derived) string {
	profileJSON, _ := json.Marshal(profile)
	scoreJSON, _ := json.Marshal(scoreResp)

	var b strings.Builder
	b.WriteString("Anda adalah underwriter senior KPR.\n")
	b.WriteString("Evaluasi pengajuan berikut dari 2 JSON di bawah ini.\n")
	b.WriteString("Keluarkan **HANYA** JSON sesuai skema (tanpa teks lain):\n")
	b.WriteString(advisorySchema)
	b.WriteString("\n\nNilai bantu:\n")
	fmt.Fprintf(&b, "- dti=%s\n", numOrNull(d.DTI))
	fmt.Fprintf(&b, "- ltv=%s\n", numOrNull(d.LTV))
	fmt.Fprintf(&b, "- fico_score=%s\n", numOrNull(d.Score))
	b.WriteString("\nGunakan bahasa Indonesia yang komunikatif dan diplomatis. ")
	b.WriteString(`Keputusan hanya "APPROVE" atau "REJECT".` + "\n")
	b.WriteString("Jika menyebut angka (DTI/LTV/skor), jelaskan maknanya secara ringkas.\n")
	b.WriteString("\n[PROFILE_JSON]\n")
	b.Write(profileJSON)
	b.WriteString("\n\n[FICO_JSON]\n")
	b.Write(scoreJSON)
	return b.String()
}

func numOrNull(x *float64) string {
	if x == nil {
		return "null"
	}
	return strconv.FormatFloat(*x, 'g', -1, 64)
}

var fencedBlockPatterns = []*regexp.Regexp{
	regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```"),
	regexp.MustCompile("(?s)```\\s*(\\{.*?\\})\\s*```"),
}

// extractJSON pulls the first parseable JSON object out of the model text,
// preferring fenced code blocks and falling back to the outermost {...} span.
// It returns nil when nothing parses.
func extractJSON(text string) map[string]any {
	if text == "" {
		return nil
	}
	for _, pat := range fencedBlockPatterns {
		for _, m := range pat.FindAllStringSubmatch(text, -1) {
			var obj map[string]any
			if err := json.Unmarshal([]byte(m[1]), &obj); err == nil {
				return obj
			}
		}
	}
	first, last := strings.Index(text, "{"), strings.LastIndex(text, "}")
	if first != -1 && last > first {
		var obj map[string]any
		if err := json.Unmarshal([]byte(text[first:last+1]), &obj); err == nil {
			return obj
		}
	}
	return nil
}

func coerceString(v any) string {
	s, _ := v.(string)
	return s
}

func coerceStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// EvaluateAdvisory runs the model fallback loop: the primary model first, then
// each fallback in order, stopping at the first response that yields a JSON
// object. It never returns an error; exhausting the list produces a synthetic
// conservative rejection so the vote always has three ballots.
func (e *Engine) EvaluateAdvisory(ctx context.Context, profile, scoreResp map[string]any, d Derived) advisoryOutcome {
	prompt := BuildAdvisoryPrompt(profile, scoreResp, d)

	var lastRaw string
	for _, model := range append([]string{e.model}, e.fallbacks...) {
		raw, err := e.client.Generate(ctx, model, prompt)
		if err != nil {
			e.log.Warnf("Advisory model %s failed: %v", model, err)
			continue
		}
		lastRaw = raw
		parsed := extractJSON(raw)
		if parsed == nil {
			e.log.Warnf("Advisory model %s returned empty/non-JSON output", model)
			continue
		}
		return advisoryFromParsed(parsed, model, raw)
	}

	return advisoryOutcome{
		Ballot: models.Ballot{
			Source:     models.SourceAdvisory,
			Decision:   models.DecisionReject,
			Confidence: advisoryFallbackConfidence,
			Reasons:    []string{advisoryFallbackReason},
		},
		KeyFactors: map[string]any{},
		Notes:      notesPlaceholder,
		Raw:        lastRaw,
	}
}

// advisoryFromParsed coerces a loosely-shaped model response into a ballot.
// An unknown or garbled decision enum is a negative signal and becomes a
// rejection, never an error.
func advisoryFromParsed(parsed map[string]any, model, raw string) advisoryOutcome {
	decision := models.DecisionReject
	if strings.ToUpper(coerceString(parsed["decision"])) == string(models.DecisionApprove) {
		decision = models.DecisionApprove
	}

	confidence, ok := asNumber(parsed["confidence"])
	if !ok || confidence == 0 {
		confidence = advisoryDefaultConfidence
	}

	keyFactors, _ := parsed["key_factors"].(map[string]any)
	if keyFactors == nil {
		keyFactors = map[string]any{}
	}

	return advisoryOutcome{
		Ballot: models.Ballot{
			Source:     models.SourceAdvisory,
			Decision:   decision,
			Confidence: confidence,
			Reasons:    coerceStrings(parsed["reasons"]),
		},
		KeyFactors: keyFactors,
		Notes:      coerceString(parsed["notes"]),
		Model:      model,
		Raw:        raw,
	}
}
