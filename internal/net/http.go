// Package net provides the shared HTTP client used for outbound provider calls.
package net

import (
	"net/http"
	"time"

	"voxguard/internal/config"
)

var defaultTransport = &http.Transport{
	Proxy:                 http.ProxyFromEnvironment,
	MaxIdleConns:          config.MaxIdleConns,
	MaxIdleConnsPerHost:   config.MaxIdleConnsPerHost,
	IdleConnTimeout:       config.IdleConnTimeout,
	TLSHandshakeTimeout:   config.TLSHandshakeTimeout,
	ExpectContinueTimeout: config.ExpectContinueTimeout,
	ForceAttemptHTTP2:     true,
}

// NewOptimizedClient returns a client sharing one pooled transport.
// A zero timeout leaves requests bounded only by their context.
func NewOptimizedClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: defaultTransport,
	}
}
