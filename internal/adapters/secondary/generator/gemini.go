package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/deckgen/deckgen/internal/domain/entities"
	"github.com/deckgen/deckgen/internal/domain/ports"
)

// defaultGeminiBaseURL is the public Generative Language API endpoint.
// Tests point BaseURL at an httptest server instead.
const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient generates slide outlines through the Gemini REST API.
// A failed request is surfaced to the caller immediately; retrying a
// generation would double the wait for an interactive user, so there is none.
type GeminiClient struct {
	apiKey    string
	model     string
	baseURL   string
	chunkSize int
	sampling  entities.GeneratorConfig
	client    *http.Client
}

// NewGeminiClient creates a Gemini-backed outline generator.
func NewGeminiClient(config entities.GeneratorConfig, apiKey string, chunkSize int) *GeminiClient {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}

	return &GeminiClient{
		apiKey:    apiKey,
		model:     config.GetModel(),
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		chunkSize: chunkSize,
		sampling:  config,
		client:    &http.Client{Timeout: config.GetTimeout()},
	}
}

// Wire types for the generateContent endpoint.
type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig geminiGeneration `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGeneration struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

// text concatenates the parts of the first candidate.
func (r geminiResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// GenerateOutline sends the outline prompt to the model and returns its raw
// markup response with surrounding whitespace trimmed.
func (c *GeminiClient) GenerateOutline(ctx context.Context, req ports.OutlineRequest) (string, error) {
	prompt, err := BuildPrompt(req.Title, req.DocumentText, c.chunkSize)
	if err != nil {
		return "", entities.NewGenerationError("structure generation failed", err)
	}

	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGeneration{
			Temperature:     c.sampling.GetTemperature(),
			TopP:            c.sampling.GetTopP(),
			TopK:            c.sampling.GetTopK(),
			MaxOutputTokens: c.sampling.GetMaxOutputTokens(),
		},
	})
	if err != nil {
		return "", entities.NewGenerationError("structure generation failed", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", entities.NewGenerationError("structure generation failed", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", entities.NewGenerationError("structure generation failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", entities.NewGenerationError("structure generation failed",
			fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", entities.NewGenerationError("structure generation failed",
			fmt.Errorf("decoding response: %w", err))
	}

	text := strings.TrimSpace(parsed.text())
	if text == "" {
		return "", entities.NewGenerationError("structure generation failed",
			errors.New("model returned no candidates"))
	}

	return text, nil
}

var _ ports.OutlineGenerator = (*GeminiClient)(nil)
