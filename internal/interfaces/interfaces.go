package interfaces

import (
	"context"

	"google.golang.org/genai"

	"voxguard/internal/analysis"
)

// Analyzer turns a validated clip into a verdict
type Analyzer interface {
	// Analyze runs one classification round trip for audio
	Analyze(ctx context.Context, audio *analysis.Audio) (*analysis.AnalysisResponse, error)
}

// Provider defines the interface for the external inference service
type Provider interface {
	// Generate performs a single, non-streaming generation call
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)

	// Name identifies the provider in logs
	Name() string
}

// GenerateRequest is one multimodal generation call
type GenerateRequest struct {
	SystemInstruction string
	Prompt            string
	Audio             []byte
	MIMEType          string
	ResponseSchema    *genai.Schema
}

// GenerateResult is the provider's answer. Text is empty when the model
// produced nothing usable.
type GenerateResult struct {
	Text         string
	FinishReason string
	BlockReason  string
}
