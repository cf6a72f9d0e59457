// Package ai generates marketing email copy through an OpenAI-compatible
// chat completion API.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"MailDesk/internal/metrics"
	"MailDesk/internal/models"
)

const (
	ProviderOpenRouter = "OpenRouter"
	ProviderOpenAI     = "OpenAI"

	DefaultModel  = "openai/gpt-4o-mini"
	openRouterURL = "https://openrouter.ai/api/v1"
)

const systemPrompt = `You are a professional marketing copywriter.
You must output a valid JSON object with the following keys:
- subject: The email subject line.
- title: A catchy headline for the email body (2-5 words).
- body: The main persuasive email content (2-3 paragraphs). HTML tags like <br> and <b> are allowed.
- cta_text: A short, punchy call-to-action button text (2-4 words).

Do not include markdown formatting (like ` + "```json" + `). Just return the raw JSON string.`

var (
	ErrNotConfigured = errors.New("API key not configured")
	ErrAuth          = errors.New("API authentication failed")
)

type Generator struct {
	// Keys maps provider name to API key.
	Keys  map[string]string
	Model string
	Log   *zap.Logger
	// Options are appended to every client, after the provider defaults.
	Options []option.RequestOption
}

func New(openAIKey, openRouterKey, model string, log *zap.Logger) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{
		Keys: map[string]string{
			ProviderOpenAI:     openAIKey,
			ProviderOpenRouter: openRouterKey,
		},
		Model: model,
		Log:   log,
	}
}

// client builds a chat client for provider. Anything other than OpenRouter
// talks to OpenAI directly.
func (g *Generator) client(provider string) (openai.Client, error) {
	if provider != ProviderOpenRouter {
		provider = ProviderOpenAI
	}

	key := g.Keys[provider]
	if key == "" {
		return openai.Client{}, fmt.Errorf("%s %w", provider, ErrNotConfigured)
	}

	opts := []option.RequestOption{option.WithAPIKey(key)}
	if provider == ProviderOpenRouter {
		opts = append(opts, option.WithBaseURL(openRouterURL))
	}
	opts = append(opts, g.Options...)

	return openai.NewClient(opts...), nil
}

// Generate asks provider for subject, title, body and call to action text
// matching prompt. An empty provider means OpenRouter; an empty model means
// the generator default.
func (g *Generator) Generate(ctx context.Context, provider, model, prompt string) (*models.GeneratedContent, error) {
	log := g.Log
	if log == nil {
		log = zap.NewNop()
	}
	if provider == "" {
		provider = models.DefaultProvider
	}
	if model == "" {
		model = g.Model
	}

	out, err := g.generate(ctx, provider, model, prompt)
	if err != nil {
		metrics.ContentGenerations.WithLabelValues(provider, "error").Inc()
		log.Warn("content generation failed",
			zap.String("provider", provider),
			zap.String("model", model),
			zap.Error(err))
		return nil, err
	}

	metrics.ContentGenerations.WithLabelValues(provider, "ok").Inc()
	return out, nil
}

func (g *Generator) generate(ctx context.Context, provider, model, prompt string) (*models.GeneratedContent, error) {
	client, err := g.client(provider)
	if err != nil {
		return nil, err
	}

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(500),
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: check your %s API key", ErrAuth, provider)
		}
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	return Parse(resp.Choices[0].Message.Content), nil
}

// Parse decodes model output into generated content. Markdown code fences
// are stripped first; output that is not a JSON object becomes the body of
// a stock offer.
func Parse(raw string) *models.GeneratedContent {
	content := strings.TrimSpace(raw)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var out models.GeneratedContent
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return &models.GeneratedContent{
			Subject: "Your Special Offer",
			Title:   "Exclusive Deal",
			Body:    content,
			CTAText: "Learn More",
		}
	}
	return &out
}
