// Package anim builds the animated data-flow view: dots traveling along
// the rendered connection paths over a static base frame.
//
// Frames are composed with the standard image packages and encoded with
// image/gif; the dot math (stagger, pulse, glow) is the interesting part,
// the encoding is commodity.
package anim

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/mhaertel/inkboard/pkg/errors"
	"github.com/mhaertel/inkboard/pkg/geom"
	"github.com/mhaertel/inkboard/pkg/theme"
)

// Animation tuning.
const (
	dotsPerPath = 3
	dotStagger  = 0.15 // phase offset between a path's dots
	leadDotR    = 7.0
	trailDotR   = 5.0
	glowPad     = 4.0 // extra radius of the soft halo
	edgeSkip    = 0.02 // dots this close to either end are hidden
)

// Options controls frame count and timing.
type Options struct {
	Frames  int // default 24
	DelayCS int // per-frame delay in centiseconds; default 6
	Color   string
}

func (o *Options) setDefaults() {
	if o.Frames <= 0 {
		o.Frames = 24
	}
	if o.DelayCS <= 0 {
		o.DelayCS = 6
	}
	if o.Color == "" {
		o.Color = "#3B82F6"
	}
}

// FlowGIF renders traveling dots over base along the given paths and
// returns the assembled GIF. Paths shorter than two points are ignored.
func FlowGIF(base image.Image, paths [][]geom.Point, opts Options) *gif.GIF {
	opts.setDefaults()

	glowHex := theme.Lighten(opts.Color, 0.31) // roughly +80 on each channel
	highlightHex := theme.Lighten(opts.Color, 0.47)

	out := &gif.GIF{LoopCount: 0}
	for f := 0; f < opts.Frames; f++ {
		phase := float64(f) / float64(opts.Frames)
		frame := drawFrame(base, paths, phase, opts.Color, glowHex, highlightHex)
		out.Image = append(out.Image, palettize(frame))
		out.Delay = append(out.Delay, opts.DelayCS)
	}
	return out
}

// EncodeFlowGIF renders and writes the animation in one step.
func EncodeFlowGIF(w io.Writer, base image.Image, paths [][]geom.Point, opts Options) error {
	g := FlowGIF(base, paths, opts)
	if err := gif.EncodeAll(w, g); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encoding GIF")
	}
	return nil
}

func drawFrame(base image.Image, paths [][]geom.Point, phase float64, colorHex, glowHex, highlightHex string) image.Image {
	bounds := base.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, base, bounds.Min, draw.Src)

	dc := gg.NewContextForRGBA(rgba)
	for pi, path := range paths {
		if len(path) < 2 {
			continue
		}
		// Per-path phase shift keeps all edges from pulsing in sync.
		pathPhase := phase + float64(pi)*0.07

		for d := 0; d < dotsPerPath; d++ {
			t := math.Mod(pathPhase+float64(d)*dotStagger, 1)
			if t < edgeSkip || t > 1-edgeSkip {
				continue
			}
			p := geom.PointAt(path, t)

			pulse := 0.8 + 0.2*math.Sin(t*math.Pi)
			r := trailDotR * pulse
			if d == 0 {
				r = leadDotR * pulse
			}

			dc.SetColor(theme.ParseHex(glowHex))
			dc.DrawCircle(p.X, p.Y, r+glowPad)
			dc.Fill()

			dc.SetColor(theme.ParseHex(colorHex))
			dc.DrawCircle(p.X, p.Y, r)
			dc.Fill()

			if d == 0 {
				dc.SetColor(theme.ParseHex(highlightHex))
				dc.DrawCircle(p.X-r*0.25, p.Y-r*0.25, r*0.35)
				dc.Fill()
			}
		}
	}
	return rgba
}

// palettize converts a frame to a 256-color paletted image for GIF.
func palettize(img image.Image) *image.Paletted {
	bounds := img.Bounds()
	pal := buildPalette(img)
	p := image.NewPaletted(bounds, pal)
	draw.FloydSteinberg.Draw(p, bounds, img, bounds.Min)
	return p
}

// buildPalette samples the frame on a grid and collects up to 256 distinct
// colors; infographics use flat fills, so sampling covers them well.
func buildPalette(img image.Image) color.Palette {
	bounds := img.Bounds()
	seen := make(map[color.RGBA]bool)
	pal := make(color.Palette, 0, 256)

	step := maxInt(1, bounds.Dx()/128)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, a := img.At(x, y).RGBA()
			c := color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
			if !seen[c] {
				seen[c] = true
				if len(pal) < 256 {
					pal = append(pal, c)
				}
			}
		}
	}
	if len(pal) == 0 {
		pal = color.Palette{color.White, color.Black}
	}
	return pal
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
