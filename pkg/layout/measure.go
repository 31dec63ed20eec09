// Package layout computes node positions for every scene type: grid, flow,
// layered, columns, radial, zone, and force-directed strategies, plus the
// overlap resolver that keeps cards from colliding.
//
// All strategies are pure: the same scene, bounds, and seed produce the
// same rectangles. Text measurement goes through an injected text.Shaper.
package layout

import (
	"github.com/mhaertel/inkboard/pkg/scene"
	"github.com/mhaertel/inkboard/pkg/text"
)

// MeasureStyle selects the card anatomy used when measuring content height.
// Each style reserves different space for icons, labels, and padding.
type MeasureStyle int

const (
	// MeasurePlain is a flat card: label and description with the icon
	// inline above the label.
	MeasurePlain MeasureStyle = iota
	// MeasureHeader is a card with a colored header band holding the label.
	MeasureHeader
	// MeasurePipeline is a tall stage card with a large icon on top.
	MeasurePipeline
)

type measureProfile struct {
	base       float64 // top/bottom chrome
	iconH      float64 // vertical allowance when an icon is present
	noIconH    float64 // allowance when there is none
	labelLineH float64 // per wrapped label line
	labelSize  float64
	descSize   float64
	descLineMul float64 // line height multiplier for description text
	descPad    float64  // gap between label block and description
}

var profiles = map[MeasureStyle]measureProfile{
	MeasurePlain:    {base: 18, iconH: 34, noIconH: 0, labelLineH: 26, labelSize: 14, descSize: 12, descLineMul: 1.4, descPad: 12},
	MeasureHeader:   {base: 34, iconH: 28, noIconH: 0, labelLineH: 22, labelSize: 13, descSize: 11, descLineMul: 1.35, descPad: 16},
	MeasurePipeline: {base: 20, iconH: 50, noIconH: 15, labelLineH: 24, labelSize: 14, descSize: 12, descLineMul: 1.4, descPad: 24},
}

// MeasureHeight returns the content-aware card height for a node at the
// given card width, clamped to [minH, maxH]. Height grows monotonically
// with description length: more wrapped lines never yield a shorter card.
func MeasureHeight(sh *text.Shaper, n scene.Node, cardW float64, style MeasureStyle, minH, maxH float64) float64 {
	p := profiles[style]
	textW := cardW - 24

	h := p.base
	if n.Icon != "" {
		h += p.iconH
	} else {
		h += p.noIconH
	}

	labelLines := len(sh.Wrap(n.DisplayLabel(), p.labelSize, text.Bold, textW))
	h += float64(labelLines) * p.labelLineH

	if n.Description != "" {
		descLines := len(sh.Wrap(n.Description, p.descSize, text.Regular, textW))
		h += float64(descLines)*p.descSize*p.descLineMul + p.descPad
	}

	h += 6
	return clamp(h, minH, maxH)
}

// MeasureHeights measures every node at the same card width.
func MeasureHeights(sh *text.Shaper, nodes []scene.Node, cardW float64, style MeasureStyle, minH, maxH float64) []float64 {
	heights := make([]float64, len(nodes))
	for i, n := range nodes {
		heights[i] = MeasureHeight(sh, n, cardW, style, minH, maxH)
	}
	return heights
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
