package integrations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dashwright/dashwright/pkg/cache"
	"github.com/dashwright/dashwright/pkg/errors"
	"github.com/dashwright/dashwright/pkg/observability"
)

type echo struct {
	Message string `json:"message"`
}

func TestClientGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("auth header = %q", got)
		}
		json.NewEncoder(w).Encode(echo{Message: "hello"})
	}))
	defer server.Close()

	client := NewClient(nil, "test", time.Hour, AuthHeaders("tok"))

	var got echo
	if err := client.Get(context.Background(), server.URL, &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Message != "hello" {
		t.Errorf("message = %q", got.Message)
	}
}

func TestClientPostBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		var body echo
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(echo{Message: body.Message + "!"})
	}))
	defer server.Close()

	client := NewClient(nil, "test", time.Hour, nil)

	var got echo
	if err := client.Post(context.Background(), server.URL, echo{Message: "hi"}, &got); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if got.Message != "hi!" {
		t.Errorf("message = %q", got.Message)
	}
}

func TestClientStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		code   errors.Code
	}{
		{http.StatusNotFound, errors.ErrCodeNotFound},
		{http.StatusUnauthorized, errors.ErrCodeUnauthorized},
		{http.StatusForbidden, errors.ErrCodeForbidden},
		{http.StatusBadRequest, errors.ErrCodeNetwork},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		client := NewClient(nil, "test", time.Hour, nil)
		err := client.Get(context.Background(), server.URL, &echo{})
		if !errors.Is(err, tt.code) {
			t.Errorf("status %d: got %v, want code %s", tt.status, err, tt.code)
		}
		server.Close()
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(echo{Message: "recovered"})
	}))
	defer server.Close()

	client := NewClient(nil, "test", time.Hour, nil)

	var got echo
	if err := client.Get(context.Background(), server.URL, &got); err != nil {
		t.Fatalf("Get after retries: %v", err)
	}
	if got.Message != "recovered" {
		t.Errorf("message = %q", got.Message)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestClientGetCached(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(echo{Message: "fresh"})
	}))
	defer server.Close()

	fileCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer fileCache.Close()

	client := NewClient(fileCache, "test", time.Hour, nil)
	ctx := context.Background()

	var first, second, third echo
	if err := client.GetCached(ctx, server.URL, false, &first); err != nil {
		t.Fatalf("GetCached: %v", err)
	}
	if err := client.GetCached(ctx, server.URL, false, &second); err != nil {
		t.Fatalf("GetCached: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("second read should hit the cache, calls = %d", calls.Load())
	}

	// refresh bypasses the cache
	if err := client.GetCached(ctx, server.URL, true, &third); err != nil {
		t.Fatalf("GetCached refresh: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("refresh should bypass the cache, calls = %d", calls.Load())
	}
}

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://acme.cloud.example.com", "https://acme.cloud.example.com", false},
		{"acme.cloud.example.com", "https://acme.cloud.example.com", false},
		{"https://acme.cloud.example.com/", "https://acme.cloud.example.com", false},
		{" acme.cloud.example.com ", "https://acme.cloud.example.com", false},
		{"", "", true},
		{"ftp://acme", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizeHost(tt.in)
		if tt.wantErr {
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("NormalizeHost(%q): got %v, want invalid config", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeHost(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeHost(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type recordingHTTPHooks struct {
	requests  []string
	responses []int
	errors    int
}

func (h *recordingHTTPHooks) OnRequest(_ context.Context, method, host, path string) {
	h.requests = append(h.requests, method+" "+path)
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, method, host, path string, statusCode int, duration time.Duration) {
	h.responses = append(h.responses, statusCode)
}

func (h *recordingHTTPHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.errors++
}

func TestClientEmitsHTTPHooks(t *testing.T) {
	rec := &recordingHTTPHooks{}
	observability.SetHTTPHooks(rec)
	defer observability.Reset()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(echo{Message: "ok"})
	}))
	defer server.Close()

	client := NewClient(nil, "test", time.Hour, nil)
	var got echo
	if err := client.Get(context.Background(), server.URL+"/v1/thing", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}

	if len(rec.requests) != 1 || rec.requests[0] != "GET /v1/thing" {
		t.Errorf("requests = %v, want [GET /v1/thing]", rec.requests)
	}
	if len(rec.responses) != 1 || rec.responses[0] != http.StatusOK {
		t.Errorf("responses = %v, want [200]", rec.responses)
	}
	if rec.errors != 0 {
		t.Errorf("errors = %d, want 0", rec.errors)
	}
}

func TestClientEmitsHTTPErrorHook(t *testing.T) {
	rec := &recordingHTTPHooks{}
	observability.SetHTTPHooks(rec)
	defer observability.Reset()

	client := NewClient(nil, "test", time.Hour, nil)
	err := client.Get(context.Background(), "http://127.0.0.1:1/unreachable", nil)
	if err == nil {
		t.Fatal("expected a network error")
	}
	if rec.errors == 0 {
		t.Error("network failure did not fire the error hook")
	}
}
