// Package analysis defines the public request/response contract of the
// gateway: the inbound clip, the verdict returned to clients, the validation
// applied to both, and the error kinds surfaced at the HTTP boundary.
package analysis

// Classification is the verdict label returned for a clip
type Classification string

const (
	ClassificationHuman        Classification = "HUMAN"
	ClassificationAIGenerated  Classification = "AI_GENERATED"
	ClassificationInconclusive Classification = "INCONCLUSIVE"
)

// Classifications lists every accepted label in prompt order
var Classifications = []Classification{
	ClassificationHuman,
	ClassificationAIGenerated,
	ClassificationInconclusive,
}

// Valid reports whether c is one of the accepted labels
func (c Classification) Valid() bool {
	for _, known := range Classifications {
		if c == known {
			return true
		}
	}
	return false
}

// Wire names of the response fields, shared with the provider schema
const (
	FieldClassification   = "classification"
	FieldConfidenceScore  = "confidenceScore"
	FieldExplanation      = "explanation"
	FieldDetectedLanguage = "detectedLanguage"
	FieldArtifacts        = "artifacts"
)

// AnalysisRequest is the JSON body of POST /analyze.
// The snake_case fields are the names older clients send.
type AnalysisRequest struct {
	AudioData string `json:"audioData"`
	MIMEType  string `json:"mimeType"`
	Language  string `json:"language"`

	LegacyAudioBase64 string `json:"audio_base64,omitempty"`
	LegacyMIMEType    string `json:"mime_type,omitempty"`
}

// AnalysisResponse is the verdict returned to clients
type AnalysisResponse struct {
	Classification   Classification `json:"classification"`
	ConfidenceScore  float64        `json:"confidenceScore"`
	Explanation      string         `json:"explanation"`
	DetectedLanguage string         `json:"detectedLanguage"`
	Artifacts        []string       `json:"artifacts"`
}

// Audio is a validated clip ready to be sent to the provider
type Audio struct {
	Data     []byte
	MIMEType string
	// Language is the caller's value, LanguageName the form used in prompts
	Language     string
	LanguageName string
}
