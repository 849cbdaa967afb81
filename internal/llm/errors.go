package llm

import (
	"context"
	"errors"
	"strings"
)

// Provider error classes used in logs and metrics. They never change the
// HTTP status: every provider failure is a server error.
const (
	providerErrorTimeout     = "timeout"
	providerErrorCanceled    = "canceled"
	providerErrorRateLimited = "rate_limited"
	providerErrorAuth        = "auth"
	providerErrorUnavailable = "unavailable"
	providerErrorInternal    = "internal"
	providerErrorBadRequest  = "bad_request"
	providerErrorOther       = "other"
)

// classifyProviderError buckets a provider failure by its message
func classifyProviderError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return providerErrorTimeout
	}
	if errors.Is(err, context.Canceled) {
		return providerErrorCanceled
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case containsAny(errStr, "429", "resource_exhausted", "rate limit", "quota exceeded"):
		return providerErrorRateLimited
	case containsAny(errStr, "401", "403", "api key", "unauthenticated", "permission_denied", "unauthorized"):
		return providerErrorAuth
	case containsAny(errStr, "503", "unavailable", "overloaded", "try again later"):
		return providerErrorUnavailable
	case containsAny(errStr, "500", "internal error", "status: internal"):
		return providerErrorInternal
	case containsAny(errStr, "400", "invalid_argument", "unsupported mime type"):
		return providerErrorBadRequest
	default:
		return providerErrorOther
	}
}

func containsAny(s string, patterns ...string) bool {
	for _, pattern := range patterns {
		if strings.Contains(s, pattern) {
			return true
		}
	}
	return false
}
