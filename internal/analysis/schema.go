package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// rawResponse mirrors AnalysisResponse with pointers so missing fields can be
// told apart from zero values.
type rawResponse struct {
	Classification   *string  `json:"classification"`
	ConfidenceScore  *float64 `json:"confidenceScore"`
	Explanation      *string  `json:"explanation"`
	DetectedLanguage *string  `json:"detectedLanguage"`
	Artifacts        []string `json:"artifacts"`
}

// ParseResponse decodes provider output into an AnalysisResponse and checks
// it against the response schema: required fields present, confidence in
// [0, 1] and a known classification. Violations are KindSchema errors.
func ParseResponse(text string) (*AnalysisResponse, error) {
	body := stripCodeFence(text)

	var raw rawResponse
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, NewError(KindSchema, "provider returned malformed JSON", err)
	}

	var missing []string
	if raw.Classification == nil {
		missing = append(missing, FieldClassification)
	}
	if raw.ConfidenceScore == nil {
		missing = append(missing, FieldConfidenceScore)
	}
	if raw.Explanation == nil {
		missing = append(missing, FieldExplanation)
	}
	if raw.DetectedLanguage == nil {
		missing = append(missing, FieldDetectedLanguage)
	}
	if len(missing) > 0 {
		return nil, NewError(KindSchema, fmt.Sprintf("provider response is missing required fields: %s", strings.Join(missing, ", ")), nil)
	}

	classification := Classification(*raw.Classification)
	if !classification.Valid() {
		return nil, NewError(KindSchema, fmt.Sprintf("provider returned unknown classification %q", *raw.Classification), nil)
	}

	score := *raw.ConfidenceScore
	if math.IsNaN(score) || score < 0 || score > 1 {
		return nil, NewError(KindSchema, fmt.Sprintf("provider returned confidenceScore %v outside [0, 1]", score), nil)
	}

	artifacts := raw.Artifacts
	if artifacts == nil {
		artifacts = []string{}
	}

	return &AnalysisResponse{
		Classification:   classification,
		ConfidenceScore:  score,
		Explanation:      *raw.Explanation,
		DetectedLanguage: *raw.DetectedLanguage,
		Artifacts:        artifacts,
	}, nil
}

// stripCodeFence removes a single ```json ... ``` wrapper some models add
// even in JSON mode.
func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if newline := strings.IndexByte(s, '\n'); newline >= 0 && !strings.Contains(s[:newline], "{") {
		s = s[newline+1:]
	}
	return strings.TrimSpace(s)
}
