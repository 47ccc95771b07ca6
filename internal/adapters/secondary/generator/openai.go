package generator

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/deckgen/deckgen/internal/domain/entities"
	"github.com/deckgen/deckgen/internal/domain/ports"
)

// OpenAIClient generates slide outlines through the chat completions API.
// It also serves OpenAI-compatible local servers via the base_url setting.
type OpenAIClient struct {
	client    openai.Client
	model     string
	chunkSize int
	sampling  entities.GeneratorConfig
}

// NewOpenAIClient creates an outline generator backed by the OpenAI SDK.
// SDK retries are disabled; a failed generation is reported right away
// rather than keeping an interactive user waiting.
func NewOpenAIClient(config entities.GeneratorConfig, apiKey string, chunkSize int) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(config.GetTimeout()),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &OpenAIClient{
		client:    openai.NewClient(opts...),
		model:     config.GetModel(),
		chunkSize: chunkSize,
		sampling:  config,
	}
}

// GenerateOutline sends the outline prompt as a single user message and
// returns the first choice with surrounding whitespace trimmed. The chat
// completions API has no top-k parameter, so that setting is not forwarded.
func (c *OpenAIClient) GenerateOutline(ctx context.Context, req ports.OutlineRequest) (string, error) {
	prompt, err := BuildPrompt(req.Title, req.DocumentText, c.chunkSize)
	if err != nil {
		return "", entities.NewGenerationError("structure generation failed", err)
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature:         openai.Float(c.sampling.GetTemperature()),
		TopP:                openai.Float(c.sampling.GetTopP()),
		MaxCompletionTokens: openai.Int(int64(c.sampling.GetMaxOutputTokens())),
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", entities.NewGenerationError("structure generation failed", err)
	}

	if len(completion.Choices) == 0 {
		return "", entities.NewGenerationError("structure generation failed",
			errors.New("model returned no choices"))
	}

	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", entities.NewGenerationError("structure generation failed",
			errors.New("model returned empty content"))
	}

	return text, nil
}

var _ ports.OutlineGenerator = (*OpenAIClient)(nil)
