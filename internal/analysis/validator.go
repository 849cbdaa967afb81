package analysis

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const dataURLPrefix = "data:"

// Validate checks an inbound request and decodes its audio payload.
// Any failure is a KindValidation error.
func Validate(req AnalysisRequest) (*Audio, error) {
	encoded := strings.TrimSpace(req.AudioData)
	if encoded == "" {
		encoded = strings.TrimSpace(req.LegacyAudioBase64)
	}
	mimeType := strings.TrimSpace(req.MIMEType)
	if mimeType == "" {
		mimeType = strings.TrimSpace(req.LegacyMIMEType)
	}

	if encoded == "" {
		return nil, NewError(KindValidation, "audioData is required", nil)
	}

	if strings.HasPrefix(encoded, dataURLPrefix) {
		urlMIME, payload, err := splitDataURL(encoded)
		if err != nil {
			return nil, NewError(KindValidation, "audioData is not a valid data URL", err)
		}
		if mimeType == "" {
			mimeType = urlMIME
		}
		encoded = payload
	}

	if mimeType == "" {
		return nil, NewError(KindValidation, "mimeType is required", nil)
	}

	data, err := decodeBase64(encoded)
	if err != nil {
		return nil, NewError(KindValidation, "audioData is not valid base64", err)
	}
	if len(data) == 0 {
		return nil, NewError(KindValidation, "audioData decodes to an empty clip", nil)
	}

	language := strings.TrimSpace(req.Language)
	return &Audio{
		Data:         data,
		MIMEType:     mimeType,
		Language:     language,
		LanguageName: ResolveLanguage(language),
	}, nil
}

// splitDataURL splits "data:<mime>;base64,<payload>"
func splitDataURL(s string) (string, string, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(s, dataURLPrefix), ",")
	if !ok {
		return "", "", fmt.Errorf("missing ',' separator")
	}
	mimeType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return "", "", fmt.Errorf("only base64 data URLs are supported")
	}
	return mimeType, payload, nil
}

// decodeBase64 accepts standard base64 with or without padding
func decodeBase64(s string) ([]byte, error) {
	if strings.ContainsRune(s, '=') || len(s)%4 == 0 {
		return base64.StdEncoding.DecodeString(s)
	}
	return base64.RawStdEncoding.DecodeString(s)
}
