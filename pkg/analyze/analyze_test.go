package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mhaertel/inkboard/pkg/errors"
	"github.com/mhaertel/inkboard/pkg/scene"
)

const validSceneJSON = `{
  "title": "RAG in a Nutshell",
  "type": "rag_pipeline",
  "nodes": [
    {"id": "query", "label": "User Query"},
    {"id": "retriever", "label": "Retriever", "icon": "search"},
    {"id": "llm", "label": "LLM", "icon": "brain"}
  ],
  "connections": [
    {"from": "query", "to": "retriever"},
    {"from": "retriever", "to": "llm", "label": "context"}
  ]
}`

// chatServer returns an httptest server that answers each chat-completions
// request with the next content in sequence.
func chatServer(t *testing.T, contents ...string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		n := int(calls.Add(1)) - 1
		if n >= len(contents) {
			n = len(contents) - 1
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": contents[n]}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	return srv, &calls
}

func testClient(baseURL string) *Client {
	return New("test-key",
		WithBaseURL(baseURL),
		WithRetryDelay(time.Millisecond),
	)
}

func TestAnalyze(t *testing.T) {
	srv, calls := chatServer(t, validSceneJSON)
	defer srv.Close()

	s, err := testClient(srv.URL).Analyze(context.Background(), "explain RAG", "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if s.Type != scene.TypeRAGPipeline {
		t.Errorf("Type = %s", s.Type)
	}
	if len(s.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(s.Nodes))
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestAnalyzeFencedJSON(t *testing.T) {
	fenced := "Here is the scene:\n```json\n" + validSceneJSON + "\n```\nDone."
	srv, _ := chatServer(t, fenced)
	defer srv.Close()

	s, err := testClient(srv.URL).Analyze(context.Background(), "explain RAG", "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if s.Title != "RAG in a Nutshell" {
		t.Errorf("Title = %q", s.Title)
	}
}

func TestAnalyzeRepairsBadJSON(t *testing.T) {
	srv, calls := chatServer(t, `{"title": "broken", "type":`, validSceneJSON)
	defer srv.Close()

	s, err := testClient(srv.URL).Analyze(context.Background(), "explain RAG", "")
	if err != nil {
		t.Fatalf("Analyze should succeed after repair: %v", err)
	}
	if len(s.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(s.Nodes))
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2 (original + repair)", calls.Load())
	}
}

func TestAnalyzeBadJSONAfterRepair(t *testing.T) {
	srv, calls := chatServer(t, "not json", "still not json")
	defer srv.Close()

	_, err := testClient(srv.URL).Analyze(context.Background(), "explain RAG", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errors.ErrCodeAnalyzeBadJSON) {
		t.Errorf("code = %v, want ANALYZE_BAD_JSON", errors.GetCode(err))
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestAnalyzeNoAPIKey(t *testing.T) {
	_, err := New("").Analyze(context.Background(), "explain RAG", "")
	if !errors.Is(err, errors.ErrCodeAnalyzeNoAPIKey) {
		t.Errorf("code = %v, want ANALYZE_NO_API_KEY", errors.GetCode(err))
	}
}

func TestAnalyzeEmptyPrompt(t *testing.T) {
	_, err := New("key").Analyze(context.Background(), "   ", "")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("code = %v, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestAnalyzeRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": validSceneJSON}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Analyze(context.Background(), "explain RAG", "")
	if err != nil {
		t.Fatalf("Analyze should succeed after retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestAnalyzeUnauthorizedNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Analyze(context.Background(), "explain RAG", "")
	if !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Errorf("code = %v, want UNAUTHORIZED", errors.GetCode(err))
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (auth errors are permanent)", calls.Load())
	}
}

func TestSystemPromptHint(t *testing.T) {
	auto := systemPrompt("")
	if !strings.Contains(auto, "Pick the \"type\"") {
		t.Error("auto prompt should ask the model to pick a type")
	}
	pinned := systemPrompt(scene.TypeConceptMap)
	if !strings.Contains(pinned, "is_center") {
		t.Error("concept_map prompt should mention is_center")
	}
	if strings.Contains(pinned, "Pick the \"type\"") {
		t.Error("pinned prompt should not ask the model to pick a type")
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced no lang", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", "Sure!\n{\"a\":1}\nHope that helps.", `{"a":1}`},
		{"unterminated fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"none", "no json here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.in); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseSceneValidates(t *testing.T) {
	// Connection endpoint missing from nodes: Validate rejects it.
	bad := `{"title":"t","type":"process","nodes":[],"connections":[]}`
	if _, err := parseScene(bad); err == nil {
		t.Error("scene with no nodes should fail validation")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("truncate short = %q", got)
	}
	long := truncate(strings.Repeat("x", 300), 5)
	if got, want := long, fmt.Sprintf("%s...", strings.Repeat("x", 5)); got != want {
		t.Errorf("truncate long = %q, want %q", got, want)
	}
}
