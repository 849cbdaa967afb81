package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"google.golang.org/genai"

	"voxguard/internal/analysis"
	"voxguard/internal/config"
	"voxguard/internal/interfaces"
	"voxguard/internal/llm/providers"
)

type stubProvider struct {
	mu     sync.Mutex
	calls  int
	last   interfaces.GenerateRequest
	result *interfaces.GenerateResult
	err    error
	wait   bool
}

func (s *stubProvider) Generate(ctx context.Context, req interfaces.GenerateRequest) (*interfaces.GenerateResult, error) {
	s.mu.Lock()
	s.calls++
	s.last = req
	s.mu.Unlock()
	if s.wait {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.result, s.err
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestAnalyzer(apiKey string, provider interfaces.Provider) *Analyzer {
	cfg := &config.Config{APIKey: apiKey}
	return NewAnalyzer(cfg, provider, nil)
}

func englishClip() *analysis.Audio {
	return &analysis.Audio{
		Data:         []byte("RIFF\x24\x00\x00\x00WAVEfmt "),
		MIMEType:     "audio/wav",
		Language:     "English",
		LanguageName: "English",
	}
}

const aiGeneratedJSON = `{"classification":"AI_GENERATED","confidenceScore":0.93,"explanation":"robotic prosody","detectedLanguage":"English","artifacts":["unnatural pitch variance"]}`

func TestAnalyzeReturnsProviderVerdict(t *testing.T) {
	stub := &stubProvider{result: &interfaces.GenerateResult{Text: aiGeneratedJSON, FinishReason: "STOP"}}
	analyzer := newTestAnalyzer("test-key", stub)

	resp, err := analyzer.Analyze(context.Background(), englishClip())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	var expected analysis.AnalysisResponse
	if err := json.Unmarshal([]byte(aiGeneratedJSON), &expected); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(*resp, expected) {
		t.Errorf("Verdict mismatch:\n got  %+v\n want %+v", *resp, expected)
	}

	if stub.Calls() != 1 {
		t.Errorf("Expected exactly one provider call, got %d", stub.Calls())
	}
	if stub.last.MIMEType != "audio/wav" {
		t.Errorf("Expected mime type to be forwarded, got %q", stub.last.MIMEType)
	}
	if string(stub.last.Audio) != string(englishClip().Data) {
		t.Error("Expected audio bytes to be forwarded unchanged")
	}
	if stub.last.SystemInstruction != systemInstruction {
		t.Error("Expected the fixed system instruction")
	}
	if !strings.Contains(stub.last.Prompt, "The expected language is English.") {
		t.Errorf("Expected language in prompt, got %q", stub.last.Prompt)
	}
	if stub.last.ResponseSchema == nil {
		t.Error("Expected a response schema")
	}
}

func TestAnalyzeMissingCredentialFailsFast(t *testing.T) {
	stub := &stubProvider{result: &interfaces.GenerateResult{Text: aiGeneratedJSON}}
	analyzer := newTestAnalyzer("", stub)

	for i := 0; i < 3; i++ {
		_, err := analyzer.Analyze(context.Background(), englishClip())
		if analysis.KindOf(err) != analysis.KindConfiguration {
			t.Fatalf("Expected configuration error, got %v", err)
		}
		if !strings.Contains(err.Error(), "API_KEY") {
			t.Errorf("Expected API_KEY in message, got %q", err.Error())
		}
	}
	if stub.Calls() != 0 {
		t.Errorf("Expected no provider calls without a credential, got %d", stub.Calls())
	}
}

func TestAnalyzeEmptyOutput(t *testing.T) {
	tests := []struct {
		name         string
		result       *interfaces.GenerateResult
		expectCause  bool
		causeContain string
	}{
		{name: "empty text", result: &interfaces.GenerateResult{FinishReason: "STOP"}},
		{name: "whitespace text", result: &interfaces.GenerateResult{Text: "  \n "}},
		{name: "nil result", result: nil},
		{name: "safety stop", result: &interfaces.GenerateResult{FinishReason: "SAFETY"}, expectCause: true, causeContain: "SAFETY"},
		{name: "prompt blocked", result: &interfaces.GenerateResult{BlockReason: "PROHIBITED_CONTENT"}, expectCause: true, causeContain: "PROHIBITED_CONTENT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := newTestAnalyzer("test-key", &stubProvider{result: tt.result})

			resp, err := analyzer.Analyze(context.Background(), englishClip())
			if resp != nil {
				t.Fatalf("Expected no verdict, got %+v", resp)
			}
			if analysis.KindOf(err) != analysis.KindInferenceEmpty {
				t.Fatalf("Expected inference_empty error, got %v", err)
			}
			if !strings.Contains(analysis.Detail(err), "failed to return a valid analysis") {
				t.Errorf("Unexpected detail %q", analysis.Detail(err))
			}

			var blocked *providers.BlockedResponseError
			if errors.As(err, &blocked) != tt.expectCause {
				t.Errorf("Expected blocked cause=%v, got %v", tt.expectCause, err)
			}
			if tt.expectCause && !strings.Contains(err.Error(), tt.causeContain) {
				t.Errorf("Expected %q in error, got %q", tt.causeContain, err.Error())
			}
		})
	}
}

func TestAnalyzeProviderError(t *testing.T) {
	cause := fmt.Errorf("gemini generate content: %w", errors.New("Error 429, Message: Resource has been exhausted, Status: RESOURCE_EXHAUSTED"))
	stub := &stubProvider{err: cause}
	analyzer := newTestAnalyzer("test-key", stub)

	_, err := analyzer.Analyze(context.Background(), englishClip())
	if analysis.KindOf(err) != analysis.KindProvider {
		t.Fatalf("Expected provider error, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("Expected provider error to wrap the cause")
	}
	if !strings.Contains(analysis.Detail(err), "Resource has been exhausted") {
		t.Errorf("Expected underlying message in detail, got %q", analysis.Detail(err))
	}
	if stub.Calls() != 1 {
		t.Errorf("Expected no retries, got %d calls", stub.Calls())
	}
}

func TestAnalyzeSchemaViolation(t *testing.T) {
	stub := &stubProvider{result: &interfaces.GenerateResult{
		Text: `{"classification":"MAYBE","confidenceScore":0.5,"explanation":"x","detectedLanguage":"English"}`,
	}}
	analyzer := newTestAnalyzer("test-key", stub)

	_, err := analyzer.Analyze(context.Background(), englishClip())
	if analysis.KindOf(err) != analysis.KindSchema {
		t.Fatalf("Expected schema error, got %v", err)
	}
}

func TestAnalyzeDefaultsArtifacts(t *testing.T) {
	stub := &stubProvider{result: &interfaces.GenerateResult{
		Text: `{"classification":"HUMAN","confidenceScore":0.71,"explanation":"natural breathing","detectedLanguage":"Tamil"}`,
	}}
	analyzer := newTestAnalyzer("test-key", stub)

	resp, err := analyzer.Analyze(context.Background(), englishClip())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if resp.Artifacts == nil || len(resp.Artifacts) != 0 {
		t.Errorf("Expected empty artifacts, got %#v", resp.Artifacts)
	}
}

func TestAnalyzeRejectsEmptyClip(t *testing.T) {
	stub := &stubProvider{}
	analyzer := newTestAnalyzer("test-key", stub)

	_, err := analyzer.Analyze(context.Background(), &analysis.Audio{MIMEType: "audio/wav"})
	if analysis.KindOf(err) != analysis.KindValidation {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if stub.Calls() != 0 {
		t.Error("Expected no provider call for an empty clip")
	}
}

func TestAnalyzeAppliesTimeout(t *testing.T) {
	cfg := &config.Config{APIKey: "test-key"}
	cfg.Provider.Timeout = 1
	stub := &stubProvider{wait: true}
	analyzer := NewAnalyzer(cfg, stub, nil)

	start := time.Now()
	_, err := analyzer.Analyze(context.Background(), englishClip())
	if analysis.KindOf(err) != analysis.KindProvider {
		t.Fatalf("Expected provider error on timeout, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Timeout took too long: %v", elapsed)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("Malayalam")
	for _, want := range []string{
		"The expected language is Malayalam.",
		"Phonetic nuances specific to Malayalam",
		"HUMAN, AI_GENERATED, INCONCLUSIVE",
		"strictly as JSON",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q, got:\n%s", want, prompt)
		}
	}

	if strings.Contains(buildPrompt(""), "expected language") {
		t.Error("Expected no language line when language is unknown")
	}
}

func TestResponseSchema(t *testing.T) {
	schema := responseSchema()
	if schema.Type != genai.TypeObject {
		t.Fatalf("Expected object schema, got %s", schema.Type)
	}

	expectedRequired := []string{"classification", "confidenceScore", "explanation", "detectedLanguage"}
	if !reflect.DeepEqual(schema.Required, expectedRequired) {
		t.Errorf("Required fields = %v, expected %v", schema.Required, expectedRequired)
	}

	artifacts, ok := schema.Properties["artifacts"]
	if !ok || artifacts.Type != genai.TypeArray || artifacts.Items == nil || artifacts.Items.Type != genai.TypeString {
		t.Errorf("Expected artifacts to be an array of strings, got %+v", artifacts)
	}
	for _, field := range schema.Required {
		if _, ok := schema.Properties[field]; !ok {
			t.Errorf("Required field %q has no property", field)
		}
	}

	classification := schema.Properties["classification"]
	if !reflect.DeepEqual(classification.Enum, []string{"HUMAN", "AI_GENERATED", "INCONCLUSIVE"}) {
		t.Errorf("Unexpected classification enum %v", classification.Enum)
	}
}

func TestClassifyProviderError(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{context.DeadlineExceeded, providerErrorTimeout},
		{fmt.Errorf("wrapped: %w", context.Canceled), providerErrorCanceled},
		{errors.New("Error 429, Status: RESOURCE_EXHAUSTED"), providerErrorRateLimited},
		{errors.New("Error 400, Message: API key not valid. Please pass a valid API key."), providerErrorAuth},
		{errors.New("Error 403, Status: PERMISSION_DENIED"), providerErrorAuth},
		{errors.New("Error 503, Message: The model is overloaded."), providerErrorUnavailable},
		{errors.New("Error 500, Message: An internal error has occurred"), providerErrorInternal},
		{errors.New("Error 400, Status: INVALID_ARGUMENT"), providerErrorBadRequest},
		{errors.New("dial tcp: lookup generativelanguage.googleapis.com: no such host"), providerErrorOther},
	}
	for _, tt := range tests {
		if got := classifyProviderError(tt.err); got != tt.expected {
			t.Errorf("classifyProviderError(%q) = %q, expected %q", tt.err, got, tt.expected)
		}
	}
	if classifyProviderError(nil) != "" {
		t.Error("Expected empty class for nil error")
	}
}
