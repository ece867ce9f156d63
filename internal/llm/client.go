package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Generation defaults for marketing copy
const (
	DefaultTemperature float32 = 0.7
	DefaultMaxTokens   int32   = 4096
)

// Prompt is a single system+user exchange sent to a provider
type Prompt struct {
	System      string
	User        string
	Temperature float32 // zero selects DefaultTemperature
	MaxTokens   int32   // zero selects DefaultMaxTokens
}

func (p Prompt) temperature() float32 {
	if p.Temperature == 0 {
		return DefaultTemperature
	}
	return p.Temperature
}

func (p Prompt) maxTokens() int32 {
	if p.MaxTokens == 0 {
		return DefaultMaxTokens
	}
	return p.MaxTokens
}

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent generates text for the prompt using the specified model tier
	GenerateContent(ctx context.Context, prompt Prompt, tier ModelTier) (string, error)
	// GetModel returns the provider model name for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// GenerateContent generates text for the prompt using the specified model tier
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt Prompt, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(prompt.temperature())
	model.SetMaxOutputTokens(prompt.maxTokens())
	if prompt.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(prompt.System)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt.User))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
