package render

import (
	"image"
	"io"

	"github.com/charmbracelet/log"

	"github.com/mhaertel/inkboard/pkg/geom"
	"github.com/mhaertel/inkboard/pkg/layout"
	"github.com/mhaertel/inkboard/pkg/scene"
	"github.com/mhaertel/inkboard/pkg/text"
	"github.com/mhaertel/inkboard/pkg/theme"
)

// Default canvas size.
const (
	DefaultWidth  = 1600
	DefaultHeight = 1000
)

// Options controls one render.
type Options struct {
	Width  int
	Height int
	Cols   int    // grid column override; 0 picks by node count
	Seed   uint64 // force-directed seed; 0 uses the fixed default
	NoCrop bool   // keep the full canvas instead of auto-cropping
}

func (o *Options) setDefaults() {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Seed == 0 {
		o.Seed = layout.DefaultForceSeed
	}
}

// Renderer renders scenes. It owns a Shaper so font faces are parsed once
// and shared across renders; a Renderer is safe for concurrent use.
type Renderer struct {
	shaper *text.Shaper
	logger *log.Logger
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithLogger attaches a logger; rendering is silent by default.
func WithLogger(logger *log.Logger) RendererOption {
	return func(r *Renderer) { r.logger = logger }
}

// WithShaper substitutes the font shaper, e.g. the embedded-only shaper
// for byte-reproducible output.
func WithShaper(s *text.Shaper) RendererOption {
	return func(r *Renderer) { r.shaper = s }
}

// New returns a Renderer with system font discovery enabled.
func New(opts ...RendererOption) *Renderer {
	r := &Renderer{
		shaper: text.NewShaper(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// sceneFunc composes one scene type onto the canvas below the header.
type sceneFunc func(r *Renderer, c *Canvas, s *scene.Scene, headerH float64, o Options)

// dispatch maps scene types to their composition functions. Timeline
// shares the process treatment, as a timeline is a numbered sequence.
var dispatch = map[scene.Type]sceneFunc{
	scene.TypeArchitecture: (*Renderer).composeArchitecture,
	scene.TypeFlowchart:    (*Renderer).composeFlow,
	scene.TypePipeline:     (*Renderer).composeFlow,
	scene.TypeRAGPipeline:  (*Renderer).composeFlow,
	scene.TypeComparison:   (*Renderer).composeComparison,
	scene.TypeProcess:      (*Renderer).composeProcess,
	scene.TypeTimeline:     (*Renderer).composeProcess,
	scene.TypeInfographic:  (*Renderer).composeProcess,
	scene.TypeConceptMap:   (*Renderer).composeConceptMap,
	scene.TypeMultiAgent:   (*Renderer).composeMultiAgent,
}

// Render composes the scene onto a canvas and returns the image. Content
// problems (dangling edges, unknown icons, overflowing text) degrade
// gracefully; Render itself cannot fail.
func (r *Renderer) Render(s *scene.Scene, th theme.Theme, opts Options) image.Image {
	opts.setDefaults()
	th.Normalize()

	c := NewCanvas(opts.Width, opts.Height, th, r.shaper)

	if th.Variant == theme.Dark {
		c.GradientBar(6)
	}
	c.OuterBorder(th.Variant)

	headerH := r.drawHeader(c, s)

	compose, ok := dispatch[s.Type]
	if !ok {
		compose = (*Renderer).composeProcess
	}
	compose(r, c, s, headerH, opts)

	r.drawFooter(c, s)

	img := c.Image()
	if !opts.NoCrop {
		img = AutoCrop(img, th.BG)
	}
	r.logger.Debug("rendered scene", "type", s.Type, "nodes", len(s.Nodes),
		"w", img.Bounds().Dx(), "h", img.Bounds().Dy())
	return img
}

// RenderWithPaths renders like Render but skips cropping and also returns
// the stroked connection paths, in canvas coordinates, for animation.
func (r *Renderer) RenderWithPaths(s *scene.Scene, th theme.Theme, opts Options) (image.Image, [][]geom.Point) {
	opts.setDefaults()
	th.Normalize()

	c := NewCanvas(opts.Width, opts.Height, th, r.shaper)
	if th.Variant == theme.Dark {
		c.GradientBar(6)
	}
	c.OuterBorder(th.Variant)

	headerH := r.drawHeader(c, s)
	compose, ok := dispatch[s.Type]
	if !ok {
		compose = (*Renderer).composeProcess
	}
	compose(r, c, s, headerH, opts)
	r.drawFooter(c, s)

	return c.Image(), c.EdgePaths()
}

// drawHeader draws title and subtitle per variant, returning the Y where
// scene content starts.
func (r *Renderer) drawHeader(c *Canvas, s *scene.Scene) float64 {
	w, _ := c.Size()
	th := c.Theme()
	cx := w / 2

	titleY := 52.0
	maxW := w - 160

	switch th.Variant {
	case theme.Whiteboard:
		// Boxed title.
		size := c.shaper.FitSize(s.Title, maxW, 30, 16, text.Bold)
		tw := c.shaper.Width(s.Title, size, text.Bold)
		box := geom.Rect{X: cx - tw/2 - 22, Y: titleY - size/2 - 12, W: tw + 44, H: size + 24}
		c.RoundedRect(box, 10, th.BG, th.Accent, 2)
		c.DrawTextLine(s.Title, cx, titleY, maxW, TextOpts{Size: size, Weight: text.Bold, Color: th.Text})
	case theme.Guidebook:
		c.FitTitle(s.Title, cx, titleY, maxW, 30, 16, text.Bold, th.Accent)
	default:
		c.FitTitle(s.Title, cx, titleY, maxW, 30, 16, text.Bold, th.Text)
	}

	headerH := 96.0
	if s.Subtitle != "" {
		c.DrawTextLine(s.Subtitle, cx, titleY+34, maxW, TextOpts{
			Size: 14, Weight: text.Regular, Color: th.TextMuted,
		})
		headerH = 118
	}
	return headerH
}

func (r *Renderer) drawFooter(c *Canvas, s *scene.Scene) {
	if s.Footer == "" {
		return
	}
	w, h := c.Size()
	c.DrawTextLine(s.Footer, w/2, h-outerBorderMargin-14, w-120, TextOpts{
		Size: 11, Weight: text.Regular, Color: c.Theme().TextMuted,
	})
}

// measureStyle picks the card anatomy for a scene type under a variant.
func measureStyle(variant theme.Variant, t scene.Type) layout.MeasureStyle {
	if variant == theme.Guidebook {
		return layout.MeasureHeader
	}
	switch t {
	case scene.TypePipeline, scene.TypeRAGPipeline, scene.TypeFlowchart:
		return layout.MeasurePipeline
	default:
		return layout.MeasurePlain
	}
}

// drawNodeSet draws every node that has a rectangle, in scene order.
func (c *Canvas) drawNodeSet(s *scene.Scene, rects map[string]geom.Rect, style layout.MeasureStyle) {
	for i, n := range s.Nodes {
		r, ok := rects[n.ID]
		if !ok {
			continue
		}
		c.DrawNode(n, r, i, style)
	}
}

// chainConnections returns the scene's connections, or a sequential chain
// when the producer supplied none, so a bare node list still reads as a
// flow.
func chainConnections(s *scene.Scene) []scene.Connection {
	if len(s.Connections) > 0 {
		return s.Connections
	}
	if len(s.Nodes) < 2 {
		return nil
	}
	conns := make([]scene.Connection, 0, len(s.Nodes)-1)
	for i := 0; i+1 < len(s.Nodes); i++ {
		conns = append(conns, scene.Connection{From: s.Nodes[i].ID, To: s.Nodes[i+1].ID})
	}
	return conns
}
