package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"voxguard/internal/analysis"
	"voxguard/internal/logging"
)

// errorResponse is the body of every non-2xx reply
type errorResponse struct {
	Detail string `json:"detail"`
}

// handleAnalyze validates the clip, runs the analyzer and maps the outcome
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	requestID := RequestID(r.Context())

	state := s.state.Load()
	if state.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, state.maxBodyBytes)
	}

	var req analysis.AnalysisRequest
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(&req)
	if err == nil {
		if _, extra := dec.Token(); !errors.Is(extra, io.EOF) {
			err = errors.New("unexpected data after JSON object")
			if extra != nil {
				err = extra
			}
		}
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.metrics.RecordAnalysisFailure(string(analysis.KindValidation))
			logging.Warn("[%s] Request body exceeds %d bytes", requestID, tooLarge.Limit)
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Detail: fmt.Sprintf("Invalid request: body exceeds %d bytes", tooLarge.Limit),
			})
			return
		}
		s.writeError(w, requestID, analysis.NewError(analysis.KindValidation, "malformed JSON body", err))
		return
	}

	audio, err := analysis.Validate(req)
	if err != nil {
		s.writeError(w, requestID, err)
		return
	}
	s.metrics.RecordAudioSize(len(audio.Data))

	logging.Debug("[%s] Analyzing %d bytes of %s (language=%q)", requestID, len(audio.Data), audio.MIMEType, audio.Language)

	// The provider call is not abandoned when the client disconnects.
	ctx := context.WithoutCancel(r.Context())
	result, err := state.analyzer.Analyze(ctx, audio)
	if err != nil {
		s.writeError(w, requestID, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleHealth reports liveness only; dependencies are not checked
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.startTime).Round(time.Second).String(),
	})
}

// writeError logs err and replies with its mapped status and detail
func (s *Server) writeError(w http.ResponseWriter, requestID string, err error) {
	status := analysis.StatusCode(err)
	kind := analysis.KindOf(err)
	s.metrics.RecordAnalysisFailure(string(kind))

	if status >= http.StatusInternalServerError {
		logging.Error("[%s] Analysis Failed (%s): %v", requestID, kind, err)
	} else {
		logging.Warn("[%s] Rejected request (%s): %v", requestID, kind, err)
	}

	writeJSON(w, status, errorResponse{Detail: analysis.Detail(err)})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Warn("Failed to write response body: %v", err)
	}
}
