package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mhaertel/inkboard/pkg/pipeline"
	"github.com/mhaertel/inkboard/pkg/scene"
	"github.com/mhaertel/inkboard/pkg/store"
)

type stubAnalyzer struct {
	scene *scene.Scene
	err   error
}

func (a *stubAnalyzer) Analyze(ctx context.Context, prompt string, hint scene.Type) (*scene.Scene, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.scene, nil
}

func (a *stubAnalyzer) Model() string { return "stub" }

func sampleScene() *scene.Scene {
	return &scene.Scene{
		Title: "CI Flow",
		Type:  scene.TypeProcess,
		Nodes: []scene.Node{
			{ID: "commit", Label: "Commit"},
			{ID: "test", Label: "Test"},
			{ID: "ship", Label: "Ship"},
		},
	}
}

func testServer(t *testing.T, analyzer pipeline.Analyzer) (*Server, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	runner := pipeline.NewRunner(nil, nil, analyzer, nil)
	return New(Config{Runner: runner, Store: st}), st
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := testServer(t, nil)
	rec := get(s, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("responses should carry a request ID")
	}
}

func TestGenerate(t *testing.T) {
	s, st := testServer(t, &stubAnalyzer{scene: sampleScene()})

	rec := postJSON(t, s, "/api/generate", generateRequest{Prompt: "ci flow", Theme: "dark"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp generateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ID == "" || resp.SceneHash == "" {
		t.Errorf("incomplete response: %+v", resp)
	}
	if resp.Scene == nil || len(resp.Scene.Nodes) != 3 {
		t.Error("response should include the scene")
	}

	// The stored document holds the PNG artifact.
	doc, err := st.Get(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("stored doc: %v", err)
	}
	if len(doc.Artifact) == 0 {
		t.Error("artifact not stored")
	}

	// And the image endpoint serves it.
	img := get(s, resp.ImageURL)
	if img.Code != http.StatusOK {
		t.Fatalf("image status = %d", img.Code)
	}
	if got := img.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("Content-Type = %q", got)
	}
	if b := img.Body.Bytes(); len(b) < 8 || string(b[1:4]) != "PNG" {
		t.Error("image endpoint did not return a PNG")
	}
}

func TestGenerateWithoutPrompt(t *testing.T) {
	s, _ := testServer(t, &stubAnalyzer{scene: sampleScene()})
	rec := postJSON(t, s, "/api/generate", generateRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRenderScene(t *testing.T) {
	s, _ := testServer(t, nil)
	rec := postJSON(t, s, "/api/render", renderRequest{Scene: sampleScene(), Theme: "guidebook"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("Content-Type = %q", got)
	}
	if b := rec.Body.Bytes(); len(b) < 8 || string(b[1:4]) != "PNG" {
		t.Error("render endpoint did not return a PNG")
	}
}

func TestRenderInvalidScene(t *testing.T) {
	s, _ := testServer(t, nil)

	// Missing scene entirely.
	rec := postJSON(t, s, "/api/render", renderRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	// Scene failing validation (no nodes).
	rec = postJSON(t, s, "/api/render", renderRequest{
		Scene: &scene.Scene{Title: "empty", Type: scene.TypeProcess},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRenderMalformedBody(t *testing.T) {
	s, _ := testServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/render", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetInfographic(t *testing.T) {
	s, st := testServer(t, nil)

	doc := &store.Infographic{Scene: sampleScene(), Format: "png", Theme: "dark"}
	if err := st.Put(context.Background(), doc); err != nil {
		t.Fatal(err)
	}

	rec := get(s, "/api/infographics/"+doc.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got store.Infographic
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != doc.ID || got.Scene == nil {
		t.Errorf("unexpected document: %+v", got)
	}
}

func TestGetInfographicNotFound(t *testing.T) {
	s, _ := testServer(t, nil)
	rec := get(s, "/api/infographics/unknown")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["code"] != "INFOGRAPHIC_NOT_FOUND" {
		t.Errorf("code = %q", body["code"])
	}
}

func TestListInfographics(t *testing.T) {
	s, st := testServer(t, nil)
	for i := 0; i < 3; i++ {
		if err := st.Put(context.Background(), &store.Infographic{Scene: sampleScene()}); err != nil {
			t.Fatal(err)
		}
	}

	rec := get(s, "/api/infographics?limit=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Infographics []store.Infographic `json:"infographics"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Infographics) != 2 {
		t.Errorf("len = %d, want 2", len(body.Infographics))
	}

	rec = get(s, "/api/infographics?limit=bogus")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", rec.Code)
	}
}

func TestDeleteInfographic(t *testing.T) {
	s, st := testServer(t, nil)
	doc := &store.Infographic{Scene: sampleScene()}
	if err := st.Put(context.Background(), doc); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/infographics/"+doc.ID, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec := get(s, "/api/infographics/" + doc.ID); rec.Code != http.StatusNotFound {
		t.Error("document should be gone after delete")
	}
}
