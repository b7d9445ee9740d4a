// Package gemini is the REST transport for the Google Generative Language
// API. It knows nothing about prompts or decision semantics; it takes a model
// id and a prompt and returns the raw response text.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/satuatap/credit-decision-service/internal/config"
	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Per-attempt timeout. The fallback loop above tries the next model when an
// attempt times out, so this bounds total blocking at timeout * model count.
const requestTimeout = 30 * time.Second

// Client calls the Gemini generateContent endpoint.
type Client struct {
	http        *resty.Client
	apiKey      string
	temperature float64
	maxTokens   int
	log         *logrus.Logger
}

// NewClient initializes a Gemini client from configuration.
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	client := resty.New()
	client.SetBaseURL(defaultBaseURL)
	client.SetTimeout(requestTimeout)

	return &Client{
		http:        client,
		apiKey:      cfg.GeminiAPIKey,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
		log:         log,
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends the prompt to the given model and returns the concatenated
// candidate text.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not configured")
	}

	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:      c.temperature,
			MaxOutputTokens:  c.maxTokens,
			ResponseMimeType: "application/json",
		},
	}

	var parsed generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(body).
		SetResult(&parsed).
		Post(endpointPath(model))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode(), resp.String())
	}

	text := extractText(parsed)
	c.log.Debugf("Gemini %s responded with %d bytes", model, len(text))
	return text, nil
}

// endpointPath builds the generateContent path; model ids may come with or
// without the "models/" prefix.
func endpointPath(model string) string {
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}
	return "/v1beta/" + model + ":generateContent"
}

// extractText joins every candidate part, mirroring how the API spreads long
// answers over multiple parts.
func extractText(resp generateResponse) string {
	var texts []string
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				texts = append(texts, p.Text)
			}
		}
	}
	return strings.TrimSpace(strings.Join(texts, "\n"))
}
