package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"voxguard/internal/config"
	"voxguard/internal/interfaces"
	"voxguard/internal/logging"
)

// contentGenerator is the slice of *genai.Models the provider uses
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiProvider handles Gemini-specific operations. It holds one client
// for the life of the process; genai clients are safe for concurrent use.
type GeminiProvider struct {
	models contentGenerator
	model  string
	params config.ModelParams
}

// NewGeminiProvider creates a Gemini provider authenticated with cfg.APIKey
func NewGeminiProvider(ctx context.Context, cfg *config.Config, httpClient *http.Client) (*GeminiProvider, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.Provider.BaseURL != "" {
		clientConfig.HTTPOptions.BaseURL = cfg.Provider.BaseURL
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return newGeminiProvider(client.Models, cfg), nil
}

func newGeminiProvider(models contentGenerator, cfg *config.Config) *GeminiProvider {
	return &GeminiProvider{
		models: models,
		model:  cfg.Provider.Model,
		params: cfg.Provider.Params,
	}
}

// Name identifies the provider in logs
func (g *GeminiProvider) Name() string {
	return "gemini/" + g.model
}

// Generate sends the clip and prompt as one user turn and asks for JSON
// constrained to req.ResponseSchema.
func (g *GeminiProvider) Generate(ctx context.Context, req interfaces.GenerateRequest) (*interfaces.GenerateResult, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(req.Audio, req.MIMEType),
		genai.NewPartFromText(req.Prompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	generationConfig := g.buildConfig(req)
	g.logPayload(req, generationConfig)

	resp, err := g.models.GenerateContent(ctx, g.model, contents, generationConfig)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	if resp == nil {
		return &interfaces.GenerateResult{}, nil
	}

	result := &interfaces.GenerateResult{Text: resp.Text()}
	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		result.FinishReason = string(resp.Candidates[0].FinishReason)
	}
	if resp.PromptFeedback != nil {
		result.BlockReason = string(resp.PromptFeedback.BlockReason)
	}

	logging.Debug("Gemini response: finish_reason=%s block_reason=%s text_bytes=%d",
		result.FinishReason, result.BlockReason, len(result.Text))
	return result, nil
}

// buildConfig prepares a non-streaming, schema-constrained generation config
func (g *GeminiProvider) buildConfig(req interfaces.GenerateRequest) *genai.GenerateContentConfig {
	generationConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.ResponseSchema,
	}

	if req.SystemInstruction != "" {
		generationConfig.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}

	// Apply model-specific parameters
	if g.params.Temperature != nil {
		generationConfig.Temperature = g.params.Temperature
	}
	if g.params.ThinkingBudget != nil {
		generationConfig.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: g.params.ThinkingBudget,
		}
	}

	return generationConfig
}

func (g *GeminiProvider) logPayload(req interfaces.GenerateRequest, generationConfig *genai.GenerateContentConfig) {
	if logging.GetLogLevel() > logging.DEBUG {
		return
	}
	logging.Debug("Gemini request: model=%s", g.model)
	logging.Debug("  Part 0 [%s]: %d bytes", partKind(req.MIMEType), len(req.Audio))
	logging.Debug("  Part 1 [Text]: %s", req.Prompt)
	if generationConfig.Temperature != nil {
		logging.Debug("  Temperature: %f", *generationConfig.Temperature)
	}
	if generationConfig.ThinkingConfig != nil && generationConfig.ThinkingConfig.ThinkingBudget != nil {
		logging.Debug("  ThinkingBudget: %d", *generationConfig.ThinkingConfig.ThinkingBudget)
	}
}

func partKind(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "audio/"):
		return "Audio " + mimeType
	case strings.HasPrefix(mimeType, "video/"):
		return "Video " + mimeType
	default:
		return "Data " + mimeType
	}
}
