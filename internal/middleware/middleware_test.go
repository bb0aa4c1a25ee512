package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRequestIDGeneratesAndPropagates(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	var seen string
	h := RequestID(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		zerolog.Ctx(r.Context()).Info().Msg("inside")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected generated request id")
	}
	if got := rec.Header().Get("X-Request-ID"); got != seen {
		t.Fatalf("header id = %q, context id = %q", got, seen)
	}
	if !strings.Contains(buf.String(), `"request_id":"`+seen+`"`) {
		t.Fatalf("context logger missing request id: %s", buf.String())
	}
}

func TestRequestIDKeepsCallerValue(t *testing.T) {
	h := RequestID(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := RequestIDFromContext(r.Context()); got != "abc-123" {
			t.Errorf("request id = %q, want abc-123", got)
		}
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)
}

func TestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	h := Logger(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/generate", nil))

	out := buf.String()
	for _, want := range []string{`"status":418`, `"path":"/v1/generate"`, `"method":"POST"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log line %s missing %s", out, want)
		}
	}
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		origins    []string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{name: "allowed origin", origins: []string{"https://app.example.com"}, method: http.MethodGet, origin: "https://app.example.com", wantStatus: http.StatusOK, wantAllow: "https://app.example.com"},
		{name: "unknown origin", origins: []string{"https://app.example.com"}, method: http.MethodGet, origin: "https://evil.example.com", wantStatus: http.StatusOK},
		{name: "preflight", origins: []string{"https://app.example.com"}, method: http.MethodOptions, origin: "https://app.example.com", wantStatus: http.StatusNoContent, wantAllow: "https://app.example.com"},
		{name: "wildcard", origins: []string{"*"}, method: http.MethodGet, origin: "https://any.example.com", wantStatus: http.StatusOK, wantAllow: "*"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/v1/options", nil)
			req.Header.Set("Origin", tc.origin)
			rec := httptest.NewRecorder()
			CORS(tc.origins)(next).ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantAllow {
				t.Fatalf("allow origin = %q, want %q", got, tc.wantAllow)
			}
		})
	}
}

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		want    bool
	}{
		{name: "allowed", origins: []string{"http://localhost:5173"}, origin: "http://localhost:5173", want: true},
		{name: "not allowed", origins: []string{"http://localhost:5173"}, origin: "https://evil.example.com", want: false},
		{name: "no origin header", origins: []string{"http://localhost:5173"}, origin: "", want: true},
		{name: "wildcard", origins: []string{"*"}, origin: "https://any.example.com", want: true},
		{name: "empty allow-list", origins: nil, origin: "http://localhost:5173", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/sessions/x/events", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if got := CheckOrigin(tc.origins)(req); got != tc.want {
				t.Fatalf("CheckOrigin() = %v, want %v", got, tc.want)
			}
		})
	}
}
