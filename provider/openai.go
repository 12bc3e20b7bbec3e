package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/ZaguanLabs/chattl"
)

// OpenAIProvider implements Provider with a single chat completion per text.
// The API key travels with each request, so a client is built per call.
type OpenAIProvider struct {
	baseURL     string
	httpClient  *http.Client
	model       string
	temperature float32
	maxTokens   int
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	Model       string       // Model to use (default: "gpt-3.5-turbo")
	Temperature float32      // Temperature for generation (default: 0.3)
	MaxTokens   int          // Completion limit (default: 500)
	BaseURL     string       // Custom base URL (optional)
	HTTPClient  *http.Client // Custom HTTP client (optional)
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	model := cfg.Model
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}

	return &OpenAIProvider{
		baseURL:     cfg.BaseURL,
		httpClient:  cfg.HTTPClient,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// Translate translates one text with a fixed instruction prompt.
func (p *OpenAIProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	if req.APIKey == "" {
		return "", &chattl.ProviderError{Provider: chattl.ProviderChatGPT, Message: "missing API key"}
	}

	config := openai.DefaultConfig(req.APIKey)
	if p.baseURL != "" {
		config.BaseURL = p.baseURL
	}
	if p.httpClient != nil {
		config.HTTPClient = p.httpClient
	}
	client := openai.NewClientWithConfig(config)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: req.Text},
		},
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return "", openAIError(ctx, err)
	}

	if len(resp.Choices) == 0 {
		return "", &chattl.ProviderError{
			Provider:  chattl.ProviderChatGPT,
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildSystemPrompt(req TranslateRequest) string {
	prompt := fmt.Sprintf("You are a translator. Translate the following text to %s. Only return the translation, nothing else.",
		chattl.GetLanguageName(req.TargetLang))

	if chattl.SupportsFormality(req.TargetLang) {
		switch req.Formality {
		case chattl.FormalityPreferMore:
			prompt += " Use a formal register."
		case chattl.FormalityPreferLess:
			prompt += " Use an informal register."
		}
	}
	return prompt
}

// openAIError maps client errors to ProviderError, keeping the HTTP status so
// rate limits are recognized by the queue.
func openAIError(ctx context.Context, err error) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return ctx.Err()
	}

	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	return &chattl.ProviderError{
		Provider:  chattl.ProviderChatGPT,
		Status:    status,
		Message:   "OpenAI API call failed",
		Cause:     err,
		Retryable: status == 0 || status == http.StatusTooManyRequests || status >= 500,
	}
}

// Verify OpenAIProvider implements Provider
var _ Provider = (*OpenAIProvider)(nil)
