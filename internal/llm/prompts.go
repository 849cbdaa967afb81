package llm

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"voxguard/internal/analysis"
)

// systemInstruction frames every request. It never contains caller input.
const systemInstruction = "You are a world-class audio forensic expert specializing in deepfake detection. " +
	"Analyze the provided audio to determine if it is an authentic human recording " +
	"or AI-generated (synthetic). Look for spectral anomalies, robotic prosody, " +
	"lack of natural breathing, and phase inconsistencies."

// buildPrompt returns the per-request instruction for a clip in languageName
func buildPrompt(languageName string) string {
	labels := make([]string, len(analysis.Classifications))
	for i, c := range analysis.Classifications {
		labels[i] = string(c)
	}

	var b strings.Builder
	b.WriteString("Analyze this audio file and determine if the voice is AI-generated (synthetic/TTS/deepfake) or a real human recording.\n")
	if languageName != "" {
		fmt.Fprintf(&b, "The expected language is %s.\n", languageName)
	}
	b.WriteString("Focus on:\n")
	b.WriteString("1. Spectral consistency and unnatural rhythm.\n")
	b.WriteString("2. Lack of natural breath pauses or emotional variance.\n")
	b.WriteString("3. Artifacts common in neural speech synthesis.\n")
	if languageName != "" {
		fmt.Fprintf(&b, "4. Phonetic nuances specific to %s that AI often struggles with.\n", languageName)
	}
	fmt.Fprintf(&b, "Set classification to exactly one of %s. Use %s when the evidence is insufficient.\n",
		strings.Join(labels, ", "), analysis.ClassificationInconclusive)
	b.WriteString("Return the analysis strictly as JSON.")
	return b.String()
}

// responseSchema is the structured-output contract sent with every call
func responseSchema() *genai.Schema {
	labels := make([]string, len(analysis.Classifications))
	for i, c := range analysis.Classifications {
		labels[i] = string(c)
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			analysis.FieldClassification: {
				Type:        genai.TypeString,
				Format:      "enum",
				Enum:        labels,
				Description: "Must be 'HUMAN', 'AI_GENERATED', or 'INCONCLUSIVE'",
			},
			analysis.FieldConfidenceScore: {
				Type:        genai.TypeNumber,
				Minimum:     genai.Ptr(0.0),
				Maximum:     genai.Ptr(1.0),
				Description: "Score from 0 to 1 representing the certainty of the classification",
			},
			analysis.FieldExplanation: {
				Type:        genai.TypeString,
				Description: "Detailed analysis explaining why this classification was chosen.",
			},
			analysis.FieldDetectedLanguage: {
				Type:        genai.TypeString,
				Description: "The language detected in the audio.",
			},
			analysis.FieldArtifacts: {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Specific technical artifacts or anomalies found.",
			},
		},
		Required: []string{
			analysis.FieldClassification,
			analysis.FieldConfidenceScore,
			analysis.FieldExplanation,
			analysis.FieldDetectedLanguage,
		},
	}
}
