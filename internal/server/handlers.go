package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mhaertel/inkboard/pkg/errors"
	"github.com/mhaertel/inkboard/pkg/pipeline"
	"github.com/mhaertel/inkboard/pkg/scene"
	"github.com/mhaertel/inkboard/pkg/store"
)

// maxBodyBytes caps request bodies; scenes are small and prompts smaller.
const maxBodyBytes = 1 << 20

// generateRequest is the POST /api/generate body.
type generateRequest struct {
	Prompt    string `json:"prompt"`
	SceneType string `json:"scene_type,omitempty"`
	Theme     string `json:"theme,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Seed      uint64 `json:"seed,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`
}

// generateResponse is the POST /api/generate reply.
type generateResponse struct {
	ID        string       `json:"id"`
	SceneHash string       `json:"scene_hash"`
	Scene     *scene.Scene `json:"scene"`
	ImageURL  string       `json:"image_url"`
	Cached    bool         `json:"cached"`
}

// renderRequest is the POST /api/render body.
type renderRequest struct {
	Scene  *scene.Scene `json:"scene"`
	Theme  string       `json:"theme,omitempty"`
	Width  int          `json:"width,omitempty"`
	Height int          `json:"height,omitempty"`
	Cols   int          `json:"cols,omitempty"`
	Seed   uint64       `json:"seed,omitempty"`
	NoCrop bool         `json:"no_crop,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !s.decode(w, r, &req) {
		return
	}

	opts := pipeline.Options{
		Prompt:    req.Prompt,
		SceneType: req.SceneType,
		Theme:     req.Theme,
		Width:     req.Width,
		Height:    req.Height,
		Seed:      req.Seed,
		Refresh:   req.Refresh,
		Formats:   []string{pipeline.FormatPNG},
		Logger:    s.logger,
	}
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	doc := &store.Infographic{
		Prompt:    req.Prompt,
		Scene:     result.Scene,
		SceneHash: result.SceneHash,
		Format:    pipeline.FormatPNG,
		Theme:     opts.Theme,
		Width:     opts.Width,
		Height:    opts.Height,
		Artifact:  result.Artifacts[pipeline.FormatPNG],
	}
	if err := s.store.Put(r.Context(), doc); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, generateResponse{
		ID:        doc.ID,
		SceneHash: doc.SceneHash,
		Scene:     doc.Scene,
		ImageURL:  "/api/infographics/" + doc.ID + "/image",
		Cached:    result.CacheInfo.SceneHit && result.CacheInfo.RenderHit,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Scene == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "scene is required"))
		return
	}

	opts := pipeline.Options{
		Scene:   req.Scene,
		Theme:   req.Theme,
		Width:   req.Width,
		Height:  req.Height,
		Cols:    req.Cols,
		Seed:    req.Seed,
		NoCrop:  req.NoCrop,
		Formats: []string{pipeline.FormatPNG},
		Logger:  s.logger,
	}
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[pipeline.FormatPNG])
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid limit: %q", v))
			return
		}
		limit = n
	}

	docs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"infographics": docs})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(doc.Artifact) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "infographic %s has no stored artifact", doc.ID))
		return
	}

	contentType := "image/png"
	if doc.Format == pipeline.FormatGIF {
		contentType = "image/gif"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Artifact)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode reads a JSON body into v, reporting a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps coded errors to HTTP statuses and emits a JSON error body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidScene, errors.ErrCodeInvalidTheme,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidSize, errors.ErrCodeInvalidPath:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeInfographicNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeUnauthorized, errors.ErrCodeAnalyzeNoAPIKey:
		status = http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		status = http.StatusForbidden
	case errors.ErrCodeRateLimited:
		status = http.StatusTooManyRequests
	case errors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	case errors.ErrCodeAnalyzeFailed, errors.ErrCodeAnalyzeBadJSON, errors.ErrCodeNetwork:
		status = http.StatusBadGateway
	}

	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(code),
	})
}
