// Package imagegen creates base images for memes, either through the
// OpenAI image API or a procedural offline fallback.
package imagegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/Cronos47/meme-tanker/core"
)

// Provider is the interface for image generation backends.
//
// Generate takes a prompt and returns the URL of the generated image.
// Downloading the image is handled separately by Downloader.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIProvider implements Provider using the OpenAI image API.
//
// Thread Safety: OpenAIProvider is safe for concurrent use. The underlying
// client handles connection pooling.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// IsLocalEndpoint reports whether the endpoint points at a local or LAN
// host. Local inference servers speak the chat API but not the image API,
// so image generation must refuse them early.
func IsLocalEndpoint(endpoint string) bool {
	if endpoint == "" {
		return false
	}
	lower := strings.ToLower(endpoint)
	return strings.Contains(lower, "localhost") ||
		strings.Contains(lower, "127.0.0.1") ||
		strings.Contains(lower, "0.0.0.0") ||
		strings.Contains(lower, "192.168.") ||
		strings.Contains(lower, "10.0.")
}

// NewOpenAIProvider creates an OpenAI image generation provider from the
// service configuration.
//
// Returns an error if the API key is empty or the configured endpoint is
// local.
func NewOpenAIProvider(cfg *core.Config) (*OpenAIProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("imagegen: config cannot be nil")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("imagegen: OpenAI API key is required for image generation")
	}

	endpoint := cfg.ImageLLMURL
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1"
	}
	if IsLocalEndpoint(endpoint) {
		return nil, fmt.Errorf("imagegen: local endpoint (%s) does not support image generation; "+
			"configure IMAGE_LLM_URL to use OpenAI", endpoint)
	}

	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	clientConfig.BaseURL = endpoint
	clientConfig.HTTPClient = core.GetHTTPClient(cfg, cfg.AITimeout)

	model := cfg.OpenAIImageModel
	if model == "" {
		model = "dall-e-3"
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Generate creates an image from the given prompt.
//
// The returned URL is temporary and hosted by OpenAI; it should be
// downloaded promptly (URLs typically expire after about an hour).
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("imagegen: prompt cannot be empty")
	}

	req := openai.ImageRequest{
		Prompt:         prompt,
		Model:          p.model,
		ResponseFormat: openai.CreateImageResponseFormatURL,
		N:              1,
	}
	// Style parameter is DALL-E 3 only
	if p.model == "dall-e-3" {
		req.Style = openai.CreateImageStyleVivid
	}

	response, err := p.client.CreateImage(ctx, req)
	if err != nil {
		return "", fmt.Errorf("imagegen: OpenAI image generation failed: %w", err)
	}
	if len(response.Data) == 0 {
		return "", fmt.Errorf("imagegen: OpenAI returned empty Data array")
	}
	if response.Data[0].URL == "" {
		return "", fmt.Errorf("imagegen: OpenAI returned empty image URL")
	}

	return response.Data[0].URL, nil
}

// Model returns the configured image model name.
func (p *OpenAIProvider) Model() string {
	return p.model
}

var _ Provider = (*OpenAIProvider)(nil)
