// Package httputil holds the JSON response helpers shared by every handler.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "escriba/pkg/domain-errors"
	"escriba/pkg/requestcontext"
)

// MaxBodyBytes bounds request bodies decoded by DecodeJSON.
const MaxBodyBytes = 1 << 20

// ErrorResponse is the JSON envelope for every failed request.
type ErrorResponse struct {
	Error            string   `json:"error"`
	ErrorDescription string   `json:"error_description,omitempty"`
	Errors           []string `json:"errors,omitempty"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into the JSON error envelope. Unclassified and
// internal errors never expose their message; an expired request deadline is
// reported as a timeout.
func WriteError(w http.ResponseWriter, err error) {
	de, ok := dErrors.As(err)
	switch {
	case ok:
	case errors.Is(err, context.DeadlineExceeded):
		de = dErrors.New(dErrors.CodeTimeout, "request timed out")
	default:
		de = dErrors.New(dErrors.CodeInternal, "")
	}
	resp := ErrorResponse{Error: string(de.Code)}
	if de.Code != dErrors.CodeInternal {
		resp.ErrorDescription = de.Message
		resp.Errors = de.Fields
	}
	WriteJSON(w, dErrors.ToHTTPStatus(de.Code), resp)
}

// LogAndWriteError logs client errors at warn and everything else at error
// with the request id and any field messages, then writes the envelope.
func LogAndWriteError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, err error, msg string) {
	level := slog.LevelError
	if dErrors.CodeOf(err) != dErrors.CodeInternal {
		level = slog.LevelWarn
	}
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	}
	if de, ok := dErrors.As(err); ok && len(de.Fields) > 0 {
		attrs = append(attrs, "fields", de.Join())
	}
	logger.Log(ctx, level, msg, attrs...)
	WriteError(w, err)
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields and
// trailing data.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return dErrors.New(dErrors.CodeBadRequest, "request body is required")
		}
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
	if dec.More() {
		return dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}
