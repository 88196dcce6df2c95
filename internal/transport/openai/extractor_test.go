package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/prethrift/prethrift/internal/domain"
)

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		resp := map[string]any{
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{
				{
					"index":   0,
					"message": map[string]any{"role": "assistant", "content": content},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestExtractor(url string) *Extractor {
	return NewExtractor(&ExtractorConfig{
		APIKey:   "test-key",
		BaseURL:  url,
		Model:    "test-model",
		Provider: "test",
		Logger:   zap.NewNop(),
	})
}

func TestExtractor_Extract(t *testing.T) {
	server := chatServer(t, `{"color_primary": ["black"], "style": ["vintage", "grunge"]}`)
	defer server.Close()

	attrs, err := newTestExtractor(server.URL).Extract(context.Background(), "I love black vintage grunge looks")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	want := map[string][]string{
		"color_primary": {"black"},
		"style":         {"vintage", "grunge"},
	}
	if !reflect.DeepEqual(attrs, want) {
		t.Errorf("attrs = %v, want %v", attrs, want)
	}
}

func TestExtractor_StripsMarkdownFences(t *testing.T) {
	server := chatServer(t, "```json\n{\"category\": [\"dress\"]}\n```")
	defer server.Close()

	attrs, err := newTestExtractor(server.URL).Extract(context.Background(), "show me dresses")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got := attrs["category"]; len(got) != 1 || got[0] != "dress" {
		t.Errorf("category = %v, want [dress]", got)
	}
}

func TestExtractor_BareStringBecomesList(t *testing.T) {
	server := chatServer(t, `{"category": "jacket", "fit": 7}`)
	defer server.Close()

	attrs, err := newTestExtractor(server.URL).Extract(context.Background(), "a jacket")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got := attrs["category"]; len(got) != 1 || got[0] != "jacket" {
		t.Errorf("category = %v, want [jacket]", got)
	}
	if _, ok := attrs["fit"]; ok {
		t.Error("non-string value should be dropped")
	}
}

func TestExtractor_NonObjectPayload(t *testing.T) {
	server := chatServer(t, "sure! here are some ideas")
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), "anything")
	if !errors.Is(err, domain.ErrExtractionProviderError) {
		t.Fatalf("error = %v, want ErrExtractionProviderError", err)
	}
}

func TestExtractor_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), "anything")
	if !errors.Is(err, domain.ErrExtractionProviderError) {
		t.Fatalf("error = %v, want ErrExtractionProviderError", err)
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a": 1}`, `{"a": 1}`},
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"  {\"a\": 1}  ", `{"a": 1}`},
	}
	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
