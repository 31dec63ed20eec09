package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mhaertel/inkboard/pkg/cache"
	"github.com/mhaertel/inkboard/pkg/errors"
	"github.com/mhaertel/inkboard/pkg/observability"
	"github.com/mhaertel/inkboard/pkg/render"
	"github.com/mhaertel/inkboard/pkg/scene"
)

// Analyzer produces scenes from prompts. *analyze.Client satisfies this.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string, hint scene.Type) (*scene.Scene, error)
	Model() string
}

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, renderer, and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Analyzer Analyzer
	Renderer *render.Renderer
	Logger   *log.Logger
}

// NewRunner creates a runner with the given cache, keyer, and analyzer.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
// A nil analyzer is allowed as long as every Execute call supplies a scene.
func NewRunner(c cache.Cache, keyer cache.Keyer, analyzer Analyzer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Analyzer: analyzer,
		Renderer: render.New(render.WithLogger(logger)),
		Logger:   logger,
	}
}

// Execute runs the complete analyze → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Analyze (skipped when a scene was supplied)
	analyzeStart := time.Now()
	s, sceneHit, err := r.AnalyzeWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Scene = s
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	result.Stats.NodeCount = len(s.Nodes)
	result.Stats.EdgeCount = len(s.Connections)
	result.CacheInfo.SceneHit = sceneHit

	if sceneData, err := scene.Marshal(s); err == nil {
		result.SceneHash = cache.Hash(sceneData)
	}

	r.Logger.Info("scene ready",
		"type", s.Type,
		"nodes", len(s.Nodes),
		"edges", len(s.Connections),
		"cached", sceneHit,
		"duration", result.Stats.AnalyzeTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, s, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// AnalyzeWithCacheInfo produces the scene with caching and returns cache hit
// info. A supplied opts.Scene is validated and returned as-is (never a hit).
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, opts Options) (*scene.Scene, bool, error) {
	if err := opts.ValidateForAnalyze(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	if opts.Scene != nil {
		if err := opts.Scene.Validate(); err != nil {
			return nil, false, err
		}
		return opts.Scene, false, nil
	}
	if r.Analyzer == nil {
		return nil, false, errors.New(errors.ErrCodeAnalyzeFailed,
			"no analyzer configured and no scene supplied")
	}

	cacheKey := r.Keyer.SceneKey(opts.Prompt, opts.SceneKeyOpts(r.Analyzer.Model()))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if s, err := scene.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "scene")
				return s, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "scene")
	}

	s, err := r.Analyzer.Analyze(ctx, opts.Prompt, scene.Type(opts.SceneType))
	if err != nil {
		return nil, false, err
	}

	if data, err := scene.Marshal(s); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLScene) == nil {
			observability.Cache().OnCacheSet(ctx, "scene", len(data))
		}
	}
	return s, false, nil
}

// Analyze is a convenience wrapper that discards the cache hit info.
func (r *Runner) Analyze(ctx context.Context, opts Options) (*scene.Scene, error) {
	s, _, err := r.AnalyzeWithCacheInfo(ctx, opts)
	return s, err
}

// RenderWithCacheInfo renders artifacts with caching and returns cache hit
// info (true only when every requested format came from cache).
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s *scene.Scene, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	sceneData, err := scene.Marshal(s)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serializing scene for cache key")
	}
	sceneHash := cache.Hash(sceneData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered, err := r.RenderScene(ctx, s, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact) == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, s *scene.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, s, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
