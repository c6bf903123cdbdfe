package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "escriba/pkg/domain-errors"
	"escriba/pkg/requestcontext"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		var body map[string]any
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "internal_error" {
			t.Fatalf("expected error code internal_error, got %q", body["error"])
		}
		if _, ok := body["error_description"]; ok {
			t.Fatalf("expected error_description to be omitted for internal errors")
		}
	})

	t.Run("unclassified error is rendered as internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("pq: update or delete on table violates foreign key constraint"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}
		if strings.Contains(w.Body.String(), "pq:") {
			t.Fatalf("expected storage detail to stay hidden, got %s", w.Body.String())
		}
	})

	t.Run("deadline is rendered as timeout", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, fmt.Errorf("list situacoes: %w", context.DeadlineExceeded))

		if w.Code != http.StatusGatewayTimeout {
			t.Fatalf("expected status %d, got %d", http.StatusGatewayTimeout, w.Code)
		}
	})

	t.Run("conflict includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeConflict, "record already registered"))

		if w.Code != http.StatusConflict {
			t.Fatalf("expected status %d, got %d", http.StatusConflict, w.Code)
		}

		var body map[string]any
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error_description"] != "record already registered" {
			t.Fatalf("expected error_description to be returned for conflict")
		}
	})

	t.Run("validation lists fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.Validation("one or more fields are invalid", "atribuicoesIds: at least one attribution is required"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}

		var body ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(body.Errors) != 1 || body.Errors[0] != "atribuicoesIds: at least one attribution is required" {
			t.Fatalf("unexpected errors list %v", body.Errors)
		}
	})
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Nome string `json:"nome"`
	}

	t.Run("decodes body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nome":"Ativo"}`))
		var p payload
		if err := DecodeJSON(r, &p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Nome != "Ativo" {
			t.Fatalf("expected nome Ativo, got %q", p.Nome)
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nome":"Ativo","extra":1}`))
		var p payload
		err := DecodeJSON(r, &p)
		if !dErrors.HasCode(err, dErrors.CodeBadRequest) {
			t.Fatalf("expected bad_request, got %v", err)
		}
	})

	t.Run("rejects empty body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		var p payload
		err := DecodeJSON(r, &p)
		if !dErrors.HasCode(err, dErrors.CodeBadRequest) {
			t.Fatalf("expected bad_request, got %v", err)
		}
	})
}

func TestLogAndWriteError(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := requestcontext.WithRequestID(context.Background(), "req-42")

	w := httptest.NewRecorder()
	LogAndWriteError(ctx, logger, w, dErrors.New(dErrors.CodeNotFound, "situacao not found: X"), "failed to get situacao")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
	line := buf.String()
	if !strings.Contains(line, `"level":"WARN"`) || !strings.Contains(line, `"request_id":"req-42"`) {
		t.Fatalf("unexpected log line %s", line)
	}

	if strings.Contains(line, `"fields"`) {
		t.Fatalf("expected no fields attribute, got %s", line)
	}

	buf.Reset()
	LogAndWriteError(ctx, logger, httptest.NewRecorder(),
		dErrors.Validation("one or more fields are invalid", "nome: is required", "id: must be at most 20 characters"),
		"failed to create situacao")
	if !strings.Contains(buf.String(), `"fields":"nome: is required; id: must be at most 20 characters"`) {
		t.Fatalf("expected joined field messages, got %s", buf.String())
	}

	buf.Reset()
	LogAndWriteError(ctx, logger, httptest.NewRecorder(), errors.New("db down"), "failed to list")
	if !strings.Contains(buf.String(), `"level":"ERROR"`) {
		t.Fatalf("expected error level, got %s", buf.String())
	}
}
