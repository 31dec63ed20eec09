// Package pipeline provides the analyze → render pipeline for inkboard.
//
// This package implements the complete prompt → scene → artifact flow that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Analyze: Turn free text into a scene graph via the LLM client
//  2. Render: Compose the scene into output artifacts (PNG, GIF, JSON,
//     DOT, SVG)
//
// Each stage can be run independently or as part of the complete pipeline,
// and each stage is cached: scenes by prompt + model, artifacts by scene
// hash + render options.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, analyzer, logger)
//	opts := pipeline.Options{
//	    Prompt:  "how retrieval-augmented generation works",
//	    Theme:   "dark",
//	    Formats: []string{"png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
//
// A pre-built scene skips the analyze stage (and needs no analyzer):
//
//	opts.Scene = myScene
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mhaertel/inkboard/pkg/cache"
	"github.com/mhaertel/inkboard/pkg/errors"
	"github.com/mhaertel/inkboard/pkg/render"
	"github.com/mhaertel/inkboard/pkg/scene"
	"github.com/mhaertel/inkboard/pkg/theme"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultTheme is the theme used when none is requested.
	DefaultTheme = "whiteboard"

	// DefaultWidth is the canvas width in pixels before auto-crop.
	DefaultWidth = render.DefaultWidth

	// DefaultHeight is the canvas height in pixels before auto-crop.
	DefaultHeight = render.DefaultHeight

	// DefaultSeed is the force-directed layout seed for reproducibility.
	DefaultSeed = uint64(42)
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatGIF  = "gif"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatGIF:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Analyze options
	Prompt    string `json:"prompt,omitempty"`
	SceneType string `json:"scene_type,omitempty"` // force a scene type, empty = auto
	Refresh   bool   `json:"refresh,omitempty"`    // bypass the scene cache

	// Render options
	Theme    string   `json:"theme,omitempty"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	Cols     int      `json:"cols,omitempty"`  // grid column override
	Seed     uint64   `json:"seed,omitempty"`  // force-directed seed
	Scale    float64  `json:"scale,omitempty"` // PNG export scaling, 0/1 = off
	NoCrop   bool     `json:"no_crop,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // nodelink: include descriptions
	Formats  []string `json:"formats,omitempty"`

	// Scene skips the analyze stage when set.
	Scene *scene.Scene `json:"-"`

	// Logger is the runtime logger; not serialized.
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the analyzed (or supplied) scene.
	Scene *scene.Scene

	// SceneHash is the content hash of the scene's canonical JSON.
	SceneHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	AnalyzeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SceneHit  bool // Whether the scene came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: png, gif, json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForAnalyze(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForAnalyze checks required fields for the analyze stage.
func (o *Options) ValidateForAnalyze() error {
	if o.Prompt == "" && o.Scene == nil {
		return errors.New(errors.ErrCodeInvalidInput, "prompt or scene is required")
	}
	if o.SceneType != "" && !scene.Type(o.SceneType).Valid() {
		return errors.New(errors.ErrCodeInvalidScene, "unknown scene type: %q", o.SceneType)
	}
	o.setLogger()
	return nil
}

// SetRenderDefaults applies defaults for the render stage.
func (o *Options) SetRenderDefaults() {
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidSize, "scale must be positive, got %v", o.Scale)
	}
	return nil
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// RenderOptions translates pipeline options into render options.
func (o *Options) RenderOptions() render.Options {
	return render.Options{
		Width:  o.Width,
		Height: o.Height,
		Cols:   o.Cols,
		Seed:   o.Seed,
		NoCrop: o.NoCrop,
	}
}

// ResolvedTheme returns the normalized theme for these options.
func (o *Options) ResolvedTheme() theme.Theme {
	return theme.Get(o.Theme)
}

// SceneKeyOpts returns cache key options for the analyze stage.
func (o *Options) SceneKeyOpts(model string) cache.SceneKeyOpts {
	return cache.SceneKeyOpts{
		Model:     model,
		SceneType: o.SceneType,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Theme:    o.Theme,
		Width:    o.Width,
		Height:   o.Height,
		Cols:     o.Cols,
		Scale:    o.Scale,
		Seed:     o.Seed,
		NoCrop:   o.NoCrop,
		Detailed: o.Detailed,
	}
}
