// Package llm adapts the gateway's analysis contract to the inference
// provider: it builds the prompts and schema, makes the call, and maps the
// provider's answer or failure back onto analysis types.
package llm

import (
	"context"
	"strings"
	"time"

	"voxguard/internal/analysis"
	"voxguard/internal/config"
	"voxguard/internal/interfaces"
	"voxguard/internal/llm/providers"
	"voxguard/internal/logging"
	"voxguard/internal/metrics"
)

const (
	msgMissingCredential = "Server misconfiguration: API_KEY not found"
	msgEmptyAnalysis     = "model failed to return a valid analysis"
)

// Analyzer is the inference adapter. It is immutable after construction
// and safe for concurrent use.
type Analyzer struct {
	apiKey   string
	timeout  time.Duration
	provider interfaces.Provider
	metrics  *metrics.Metrics
}

// NewAnalyzer creates an analyzer bound to the credential and timeout in cfg
func NewAnalyzer(cfg *config.Config, provider interfaces.Provider, m *metrics.Metrics) *Analyzer {
	return &Analyzer{
		apiKey:   cfg.APIKey,
		timeout:  cfg.GetProviderTimeout(),
		provider: provider,
		metrics:  m,
	}
}

// Analyze classifies one clip with a single provider call. Errors are
// *analysis.Error values carrying the failure kind.
func (a *Analyzer) Analyze(ctx context.Context, audio *analysis.Audio) (*analysis.AnalysisResponse, error) {
	if a.apiKey == "" || a.provider == nil {
		logging.Error("API_KEY is missing from configuration")
		return nil, analysis.NewError(analysis.KindConfiguration, msgMissingCredential, nil)
	}
	if audio == nil || len(audio.Data) == 0 {
		return nil, analysis.NewError(analysis.KindValidation, "audio clip is empty", nil)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	req := interfaces.GenerateRequest{
		SystemInstruction: systemInstruction,
		Prompt:            buildPrompt(audio.LanguageName),
		Audio:             audio.Data,
		MIMEType:          audio.MIMEType,
		ResponseSchema:    responseSchema(),
	}

	start := time.Now()
	result, err := a.provider.Generate(ctx, req)
	a.metrics.RecordProviderCall(time.Since(start))

	if err != nil {
		class := classifyProviderError(err)
		a.metrics.RecordProviderError(class)
		logging.Error("Analysis failed: provider=%s class=%s: %v", a.provider.Name(), class, err)
		return nil, analysis.NewError(analysis.KindProvider, "", err)
	}

	if result == nil || strings.TrimSpace(result.Text) == "" {
		var cause error
		if result != nil && providers.Blocked(result.FinishReason, result.BlockReason) {
			cause = &providers.BlockedResponseError{
				FinishReason: result.FinishReason,
				BlockReason:  result.BlockReason,
			}
		}
		logging.Error("Analysis failed: provider=%s returned no content (cause: %v)", a.provider.Name(), cause)
		return nil, analysis.NewError(analysis.KindInferenceEmpty, msgEmptyAnalysis, cause)
	}

	resp, err := analysis.ParseResponse(result.Text)
	if err != nil {
		logging.Error("Analysis failed: provider=%s output rejected: %v", a.provider.Name(), err)
		return nil, err
	}

	logging.Debug("Analysis complete: classification=%s confidence=%.2f language=%s",
		resp.Classification, resp.ConfidenceScore, resp.DetectedLanguage)
	a.metrics.RecordAnalysis(string(resp.Classification))
	return resp, nil
}
