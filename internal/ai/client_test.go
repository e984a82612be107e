package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sidereal-labs/powertrace/internal/config"
	"github.com/sidereal-labs/powertrace/internal/faults"
)

func testConfig(baseURL string) config.AIConfig {
	return config.AIConfig{
		BaseURL: baseURL,
		Model:   "gemini-2.0-flash",
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}
}

func candidateBody(text string) string {
	resp := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{
				"parts": []map[string]any{{"text": text}},
			}},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestExchangeMissingKey(t *testing.T) {
	dialed := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dialed = true
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.APIKey = ""
	c := NewClient(cfg)

	_, err := c.Exchange(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected precondition error")
	}
	if got := faults.CategoryOf(err); got != faults.CategoryPrecondition {
		t.Errorf("category = %q, want precondition", got)
	}
	if dialed {
		t.Error("missing key must be reported before any network call")
	}
}

func TestExchangeSuccess(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(candidateBody("generated text")))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	text, err := c.Exchange(context.Background(), "describe a counter")
	if err != nil {
		t.Fatalf("Exchange() error: %v", err)
	}

	if text != "generated text" {
		t.Errorf("text = %q, want %q", text, "generated text")
	}
	if gotPath != "/v1beta/models/gemini-2.0-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("key query param = %q", gotKey)
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 1 ||
		gotBody.Contents[0].Parts[0].Text != "describe a counter" {
		t.Errorf("unexpected request body: %+v", gotBody)
	}
}

func TestExchangeHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	_, err := c.Exchange(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if got := faults.CategoryOf(err); got != faults.CategoryTransport {
		t.Errorf("category = %q, want transport", got)
	}
}

func TestExchangeNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(testConfig(srv.URL))
	_, err := c.Exchange(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if got := faults.CategoryOf(err); got != faults.CategoryTransport {
		t.Errorf("category = %q, want transport", got)
	}
}

func TestExchangePlaceholder(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no candidates", `{}`},
		{"empty candidates", `{"candidates":[]}`},
		{"no parts", `{"candidates":[{"content":{"parts":[]}}]}`},
		{"empty text", candidateBody("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(testConfig(srv.URL))
			text, err := c.Exchange(context.Background(), "hello")
			if err != nil {
				t.Fatalf("Exchange() error: %v", err)
			}
			if text != Placeholder {
				t.Errorf("text = %q, want placeholder", text)
			}
		})
	}
}

func TestExchangeInvalidResponseJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	_, err := c.Exchange(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected transport error for broken service JSON")
	}
	if got := faults.CategoryOf(err); got != faults.CategoryTransport {
		t.Errorf("category = %q, want transport", got)
	}
}
