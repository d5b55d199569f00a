package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/googleapi"

	"github.com/JaimeStill/errmap/pkg/exceptions"
	"github.com/JaimeStill/errmap/pkg/middleware"
)

func TestSystemOrder(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	mw := middleware.New()
	mw.Use(tag("first"))
	mw.Use(tag("second"))

	h := mw.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	want := []string{"first", "second", "handler"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order: got %v, want %v", order, want)
	}
}

func TestSystemEmpty(t *testing.T) {
	h := middleware.New().Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want 204", rec.Code)
	}
}

func TestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/transactions/commit", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log entry: %v", err)
	}
	if entry["status"] != float64(http.StatusAccepted) {
		t.Errorf("status: got %v, want 202", entry["status"])
	}
	if entry["method"] != http.MethodPost {
		t.Errorf("method: got %v, want POST", entry["method"])
	}
}

func TestRecover(t *testing.T) {
	mapper := exceptions.New(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	tests := []struct {
		name       string
		value      any
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "storage error",
			value:      &googleapi.Error{Code: 1, Message: "Access Denied"},
			wantStatus: http.StatusForbidden,
			wantMsg:    (&googleapi.Error{Code: 1, Message: "Access Denied"}).Error(),
		},
		{
			name:       "plain error",
			value:      errors.New("Unknown"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Unknown",
		},
		{
			name:       "non-error value",
			value:      "index out of range",
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "panic: index out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := middleware.Recover(mapper)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(tt.value)
			}))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}

			var body exceptions.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if body.Error.Message != tt.wantMsg {
				t.Errorf("message: got %q, want %q", body.Error.Message, tt.wantMsg)
			}
		})
	}
}

func TestRecoverAfterWrite(t *testing.T) {
	mapper := exceptions.New(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	h := middleware.Recover(mapper)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("partial"))
		panic(errors.New("stream interrupted"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
	if rec.Body.String() != "partial" {
		t.Errorf("body: got %q, want partial", rec.Body.String())
	}
}

func TestRecoverAbortHandler(t *testing.T) {
	mapper := exceptions.New(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	h := middleware.Recover(mapper)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if v := recover(); v != http.ErrAbortHandler {
			t.Errorf("recovered %v, want http.ErrAbortHandler", v)
		}
	}()

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	t.Error("expected panic to propagate")
}

func TestLoggerWithRecover(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	mapper := exceptions.New(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	mw := middleware.New()
	mw.Use(middleware.Logger(logger))
	mw.Use(middleware.Recover(mapper))

	h := mw.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("Unknown"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log entry: %v", err)
	}
	if entry["status"] != float64(http.StatusInternalServerError) {
		t.Errorf("status: got %v, want 500", entry["status"])
	}
}
