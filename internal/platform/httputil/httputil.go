// Package httputil provides common HTTP utilities for the thin transport
// layer that exposes the engine's operation surface. No business logic
// lives here; this package only carries the response/error envelope
// conventions the handlers share.
package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"

	platerrors "github.com/novacredit/engine/internal/platform/errors"
	"github.com/novacredit/engine/internal/platform/logging"
)

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func traceIDFromRequestOrResponse(w http.ResponseWriter, r *http.Request) string {
	if r != nil {
		if traceID := logging.GetTraceID(r.Context()); traceID != "" {
			return traceID
		}
		if traceID := r.Header.Get("X-Trace-ID"); traceID != "" {
			return traceID
		}
	}
	return w.Header().Get("X-Trace-ID")
}

// WriteErrorResponse writes a standard JSON error response envelope.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, status int, code, message string, details interface{}) {
	if code == "" {
		code = fmt.Sprintf("HTTP_%d", status)
	}
	traceID := traceIDFromRequestOrResponse(w, r)
	if traceID != "" && w.Header().Get("X-Trace-ID") == "" {
		w.Header().Set("X-Trace-ID", traceID)
	}
	WriteJSON(w, status, ErrorResponse{Code: code, Message: message, Details: details, TraceID: traceID})
}

// WriteServiceError maps a platform ServiceError onto the HTTP response,
// falling back to a 500 for unrecognised errors.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if svcErr := platerrors.Get(err); svcErr != nil {
		WriteErrorResponse(w, r, svcErr.HTTPStatus, string(svcErr.Code), svcErr.Message, svcErr.Details)
		return
	}
	WriteErrorResponse(w, r, http.StatusInternalServerError, "SVC_5001", "internal error", nil)
}
