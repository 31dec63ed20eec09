package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/mhaertel/inkboard/pkg/errors"
	"github.com/mhaertel/inkboard/pkg/observability"
	"github.com/mhaertel/inkboard/pkg/render"
	"github.com/mhaertel/inkboard/pkg/render/anim"
	"github.com/mhaertel/inkboard/pkg/render/nodelink"
	"github.com/mhaertel/inkboard/pkg/scene"
)

// RenderScene renders all requested formats for a scene, uncached. Most
// callers want Runner.Render, which adds the artifact cache on top.
func (r *Runner) RenderScene(ctx context.Context, s *scene.Scene, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var err error
	for _, format := range opts.Formats {
		var data []byte
		data, err = r.renderFormat(ctx, s, format, opts)
		if err != nil {
			break
		}
		artifacts[format] = data
	}

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

func (r *Runner) renderFormat(ctx context.Context, s *scene.Scene, format string, opts Options) ([]byte, error) {
	th := opts.ResolvedTheme()

	switch format {
	case FormatPNG:
		img := r.Renderer.Render(s, th, opts.RenderOptions())
		if opts.Scale > 0 && opts.Scale != 1 {
			img = render.Resize(img, opts.Scale)
		}
		var buf bytes.Buffer
		if err := render.EncodePNG(&buf, img); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	case FormatGIF:
		// The animation uses the uncropped frame so the recorded edge
		// paths stay in canvas coordinates.
		img, paths := r.Renderer.RenderWithPaths(s, th, opts.RenderOptions())
		var buf bytes.Buffer
		err := anim.EncodeFlowGIF(&buf, img, paths, anim.Options{Color: th.Accent})
		if err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	case FormatJSON:
		return scene.Marshal(s)

	case FormatDOT:
		dot := nodelink.ToDOT(s, th, nodelink.Options{Detailed: opts.Detailed})
		return []byte(dot), nil

	case FormatSVG:
		dot := nodelink.ToDOT(s, th, nodelink.Options{Detailed: opts.Detailed})
		return nodelink.RenderSVG(ctx, dot)

	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
	}
}
