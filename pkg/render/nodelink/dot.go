// Package nodelink renders the alternative node-link view of a scene:
// Graphviz lays the graph out instead of the scene-type strategies. It is
// the quickest way to eyeball a scene's connectivity without caring about
// the infographic composition.
package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/mhaertel/inkboard/pkg/errors"
	"github.com/mhaertel/inkboard/pkg/scene"
	"github.com/mhaertel/inkboard/pkg/theme"
)

// Options configures node-link rendering.
type Options struct {
	// Detailed includes descriptions and group names in node labels.
	Detailed bool
	// RankDir is the Graphviz layout direction; default "TB".
	RankDir string
}

// ToDOT converts a scene to Graphviz DOT. Node fills follow the theme's
// node palette; connection styles map onto DOT edge attributes. Dangling
// connections are dropped here just as the canvas renderer drops them.
func ToDOT(s *scene.Scene, th theme.Theme, opts Options) string {
	th.Normalize()
	rankDir := opts.RankDir
	if rankDir == "" {
		rankDir = "TB"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankDir)
	fmt.Fprintf(&buf, "  label=%q;\n", s.Title)
	buf.WriteString("  labelloc=t;\n")
	buf.WriteString("  fontsize=24;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=\"rounded,filled\", fontcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	ids := make(map[string]bool, len(s.Nodes))
	for i, n := range s.Nodes {
		ids[n.ID] = true
		fill := n.Color
		if fill == "" {
			fill = th.NodeColor(i)
		}
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)),
			fmt.Sprintf("shape=%s", dotShape(n.EffectiveShape())),
			fmt.Sprintf("fillcolor=%q", fill),
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, c := range s.Connections {
		if !ids[c.From] || !ids[c.To] {
			continue
		}
		attrs := edgeAttrs(c)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", c.From, c.To)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", c.From, c.To, strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n scene.Node, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed {
		return label
	}
	var parts []string
	if n.Description != "" {
		parts = append(parts, n.Description)
	}
	if key := n.GroupKey(); key != "" {
		parts = append(parts, "["+key+"]")
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func dotShape(s scene.Shape) string {
	switch s {
	case scene.ShapeCylinder:
		return "cylinder"
	case scene.ShapeDiamond:
		return "diamond"
	case scene.ShapeCircle, scene.ShapeCloud:
		return "ellipse"
	case scene.ShapeHexagon:
		return "hexagon"
	case scene.ShapeParallelogram:
		return "parallelogram"
	default:
		return "box"
	}
}

func edgeAttrs(c scene.Connection) []string {
	var attrs []string
	if c.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", c.Label))
	}
	switch c.EffectiveStyle() {
	case scene.StyleDashedArrow, scene.StyleDashedLine, scene.StyleCurvedDashed:
		attrs = append(attrs, "style=dashed")
	case scene.StyleBidirectional:
		attrs = append(attrs, "dir=both")
	case scene.StyleLine:
		attrs = append(attrs, "dir=none")
	}
	return attrs
}

// RenderSVG lays the DOT graph out with Graphviz and returns SVG bytes
// with a normalized viewBox.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG, normalizeViewBox)
}

// RenderPNG lays the DOT graph out with Graphviz and rasterizes it.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG, nil)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format, post func([]byte) []byte) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "initializing graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parsing DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "rendering graph")
	}
	if post != nil {
		return post(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
