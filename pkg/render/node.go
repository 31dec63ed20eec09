package render

import (
	"github.com/mhaertel/inkboard/pkg/geom"
	"github.com/mhaertel/inkboard/pkg/layout"
	"github.com/mhaertel/inkboard/pkg/render/icons"
	"github.com/mhaertel/inkboard/pkg/scene"
	"github.com/mhaertel/inkboard/pkg/text"
	"github.com/mhaertel/inkboard/pkg/theme"
)

// DrawNode draws one node card in r. The card anatomy follows the measure
// style the layout used, so text landed where the measurement reserved
// room for it; colors follow the theme variant. colorIdx picks the
// palette slot when the node has no explicit color.
func (c *Canvas) DrawNode(n scene.Node, r geom.Rect, colorIdx int, style layout.MeasureStyle) {
	switch c.th.Variant {
	case theme.Guidebook:
		if style == layout.MeasureHeader {
			c.drawHeaderNode(n, r, colorIdx)
			return
		}
		c.drawPlainNode(n, r, colorIdx, style)
	default:
		c.drawPlainNode(n, r, colorIdx, style)
	}
}

// accentFor resolves the node's accent color: explicit color first, then
// the theme's node palette.
func (c *Canvas) accentFor(n scene.Node, colorIdx int) string {
	if n.Color != "" {
		return n.Color
	}
	return c.th.NodeColor(colorIdx)
}

func (c *Canvas) drawPlainNode(n scene.Node, r geom.Rect, colorIdx int, style layout.MeasureStyle) {
	accent := c.accentFor(n, colorIdx)

	var fill, border, labelColor, descColor string
	switch c.th.Variant {
	case theme.Whiteboard:
		sc := c.th.Section(colorIdx)
		fill, border = sc.Fill, accent
		labelColor, descColor = sc.Text, c.th.TextMuted
	case theme.Guidebook:
		fill, border = c.th.Card, c.th.Border
		labelColor, descColor = c.th.Text, c.th.TextMuted
	default:
		fill, border = c.th.Card, accent
		labelColor, descColor = c.th.Text, c.th.TextMuted
	}

	shape := n.EffectiveShape()
	if c.th.Variant == theme.Whiteboard && shape == scene.ShapeRoundedRect {
		shape = scene.ShapeDashedRect
	}
	c.Shape(shape, r, fill, border, 2)

	// Content stack mirrors the measurement profile for this style.
	var iconSize, labelSize, descSize, labelLineH, descMul, topPad float64
	switch style {
	case layout.MeasurePipeline:
		iconSize, labelSize, descSize = 40, 14, 12
		labelLineH, descMul, topPad = 24, 1.4, 14
	default:
		iconSize, labelSize, descSize = 26, 14, 12
		labelLineH, descMul, topPad = 26, 1.4, 10
	}

	textW := r.W - 24
	y := r.Y + topPad
	if n.Icon != "" {
		icons.Draw(c.dc, n.Icon, r.Center().X, y+iconSize/2, iconSize, accent)
		y += iconSize + 6
	}

	labelLines := c.shaper.WrapCapped(n.DisplayLabel(), labelSize, text.Bold, textW, 2)
	c.useFace(labelSize, text.Bold)
	c.setHex(labelColor)
	for _, line := range labelLines {
		c.dc.DrawStringAnchored(line, r.Center().X, y+labelLineH/2, 0.5, 0.5)
		y += labelLineH
	}

	if n.Description != "" {
		y += 4
		c.DrawTextBlock(n.Description, geom.Rect{X: r.X + 12, Y: y, W: textW, H: r.MaxY() - y - 6}, TextOpts{
			Size: descSize, Weight: text.Regular, Color: descColor, LineMul: descMul, MaxLines: 4,
		})
	}
}

// drawHeaderNode draws the editorial card: a colored header band carrying
// the label, body text beneath.
func (c *Canvas) drawHeaderNode(n scene.Node, r geom.Rect, colorIdx int) {
	headerBG := c.th.Section(colorIdx).HeaderBG
	if n.Color != "" {
		headerBG = n.Color
	}

	const headerH = 34

	c.RoundedRect(r, 10, c.th.Card, c.th.Border, 1.5)

	// Band with squared bottom corners.
	c.dc.DrawRoundedRectangle(r.X, r.Y, r.W, headerH+10, 10)
	c.setHex(headerBG)
	c.dc.Fill()
	c.dc.DrawRectangle(r.X, r.Y+headerH-4, r.W, 14)
	c.setHex(c.th.Card)
	c.dc.Fill()
	c.dc.DrawRectangle(r.X, r.Y+headerH-4, r.W, 4)
	c.setHex(headerBG)
	c.dc.Fill()

	labelX := r.Center().X
	labelW := r.W - 20
	if n.Icon != "" {
		icons.Draw(c.dc, n.Icon, r.X+18, r.Y+headerH/2, 20, "#FFFFFF")
		labelX = r.X + 32 + (r.W-38)/2
		labelW = r.W - 44
	}
	c.DrawTextLine(n.DisplayLabel(), labelX, r.Y+headerH/2, labelW, TextOpts{
		Size: 13, Weight: text.Bold, Color: "#FFFFFF",
	})

	if n.Description != "" {
		body := geom.Rect{X: r.X + 12, Y: r.Y + headerH + 8, W: r.W - 24, H: r.H - headerH - 14}
		c.DrawTextBlock(n.Description, body, TextOpts{
			Size: 11, Weight: text.Regular, Color: c.th.TextMuted, LineMul: 1.35, MaxLines: 5,
		})
	}
}
