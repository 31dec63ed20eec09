package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/mhaertel/inkboard/pkg/geom"
	"github.com/mhaertel/inkboard/pkg/scene"
	"github.com/mhaertel/inkboard/pkg/text"
	"github.com/mhaertel/inkboard/pkg/theme"
)

func testRenderer() *Renderer {
	return New(WithShaper(text.NewEmbeddedShaper()))
}

func sampleScene(t scene.Type, n int) *scene.Scene {
	s := &scene.Scene{Title: "Sample", Type: t}
	for i := 0; i < n; i++ {
		s.Nodes = append(s.Nodes, scene.Node{
			ID:          fmt.Sprintf("n%d", i),
			Label:       fmt.Sprintf("Stage %d", i),
			Description: "Does one thing well",
			Icon:        "gear",
		})
	}
	for i := 0; i+1 < n; i++ {
		s.Connections = append(s.Connections, scene.Connection{
			From: fmt.Sprintf("n%d", i), To: fmt.Sprintf("n%d", i+1),
		})
	}
	return s
}

func TestRenderAllTypesAndThemes(t *testing.T) {
	r := testRenderer()
	for _, typ := range scene.Types {
		for _, name := range theme.Names() {
			t.Run(string(typ)+"/"+name, func(t *testing.T) {
				s := sampleScene(typ, 5)
				img := r.Render(s, theme.Get(name), Options{NoCrop: true})
				if img == nil {
					t.Fatal("Render returned nil image")
				}
				b := img.Bounds()
				if b.Dx() != DefaultWidth || b.Dy() != DefaultHeight {
					t.Errorf("uncropped render is %dx%d, want %dx%d", b.Dx(), b.Dy(), DefaultWidth, DefaultHeight)
				}
			})
		}
	}
}

func TestRenderSingleNode(t *testing.T) {
	r := testRenderer()
	for _, typ := range scene.Types {
		s := sampleScene(typ, 1)
		if img := r.Render(s, theme.Get("whiteboard"), Options{}); img == nil {
			t.Errorf("type %s: single-node render failed", typ)
		}
	}
}

func TestRenderDanglingConnections(t *testing.T) {
	r := testRenderer()
	s := sampleScene(scene.TypeFlowchart, 3)
	s.Connections = append(s.Connections,
		scene.Connection{From: "n0", To: "ghost"},
		scene.Connection{From: "phantom", To: "n2"},
	)
	if img := r.Render(s, theme.Get("dark"), Options{}); img == nil {
		t.Fatal("dangling connections must not break a render")
	}
}

func TestRenderDeterministicSize(t *testing.T) {
	r := testRenderer()
	s := sampleScene(scene.TypeMultiAgent, 8)
	s.Zones = nil

	a := r.Render(s, theme.Get("dark"), Options{NoCrop: true})
	b := r.Render(s, theme.Get("dark"), Options{NoCrop: true})

	var bufA, bufB bytes.Buffer
	if err := EncodePNG(&bufA, a); err != nil {
		t.Fatalf("encode a: %v", err)
	}
	if err := EncodePNG(&bufB, b); err != nil {
		t.Fatalf("encode b: %v", err)
	}
	if !bytes.Equal(bufA.Bytes(), bufB.Bytes()) {
		t.Error("two renders of the same scene differ byte for byte")
	}
}

func TestDrawEdgesSkipsDangling(t *testing.T) {
	c := NewCanvas(800, 600, theme.Get("dark"), text.NewEmbeddedShaper())
	rects := map[string]geom.Rect{
		"a": {X: 100, Y: 100, W: 150, H: 90},
		"b": {X: 500, Y: 100, W: 150, H: 90},
		"c": {X: 300, Y: 400, W: 150, H: 90},
	}
	conns := []scene.Connection{
		{From: "a", To: "b"},
		{From: "b", To: "c", Label: "handoff"},
		{From: "a", To: "ghost"},
		{From: "ghost", To: "c"},
	}
	if drawn := c.DrawEdges(conns, rects, EdgeOpts{}); drawn != 2 {
		t.Errorf("drew %d edges, want 2 (dangling skipped)", drawn)
	}
}

func TestDrawEdgesStyles(t *testing.T) {
	c := NewCanvas(800, 600, theme.Get("whiteboard"), text.NewEmbeddedShaper())
	rects := map[string]geom.Rect{
		"a": {X: 60, Y: 60, W: 140, H: 80},
		"b": {X: 520, Y: 60, W: 140, H: 80},
	}
	styles := []scene.ConnStyle{
		scene.StyleArrow, scene.StyleDashedArrow, scene.StyleLine,
		scene.StyleDashedLine, scene.StyleBidirectional, scene.StyleNumbered,
	}
	for _, style := range styles {
		conns := []scene.Connection{{From: "a", To: "b", Style: style, Label: "x"}}
		if drawn := c.DrawEdges(conns, rects, EdgeOpts{Numbered: style == scene.StyleNumbered}); drawn != 1 {
			t.Errorf("style %s: drew %d edges, want 1", style, drawn)
		}
	}
}

func TestDrawEdgesCurvedStylesForceBezier(t *testing.T) {
	// Curved connection styles take the bezier path even when the batch
	// default routes Manhattan elbows.
	rects := map[string]geom.Rect{
		"a": {X: 60, Y: 60, W: 140, H: 80},
		"b": {X: 520, Y: 320, W: 140, H: 80},
	}
	for _, style := range []scene.ConnStyle{scene.StyleCurvedArrow, scene.StyleCurvedDashed} {
		c := NewCanvas(800, 600, theme.Get("whiteboard"), text.NewEmbeddedShaper())
		conns := []scene.Connection{{From: "a", To: "b", Style: style}}
		if drawn := c.DrawEdges(conns, rects, EdgeOpts{}); drawn != 1 {
			t.Fatalf("style %s: drew %d edges, want 1", style, drawn)
		}
		paths := c.EdgePaths()
		if len(paths) != 1 {
			t.Fatalf("style %s: recorded %d paths, want 1", style, len(paths))
		}
		if n := len(paths[0]); n < 20 {
			t.Errorf("style %s: path has %d points, want a sampled bezier", style, n)
		}
	}

	// A plain arrow in the same batch still routes Manhattan.
	c := NewCanvas(800, 600, theme.Get("whiteboard"), text.NewEmbeddedShaper())
	conns := []scene.Connection{{From: "a", To: "b", Style: scene.StyleArrow}}
	c.DrawEdges(conns, rects, EdgeOpts{})
	if paths := c.EdgePaths(); len(paths) != 1 || len(paths[0]) > 5 {
		t.Errorf("plain arrow should stay an elbow path, got %d points", len(paths[0]))
	}
}

func TestDrawEdgesConnectionColorOverride(t *testing.T) {
	c := NewCanvas(800, 600, theme.Get("dark"), text.NewEmbeddedShaper())
	rects := map[string]geom.Rect{
		"a": {X: 60, Y: 60, W: 140, H: 80},
		"b": {X: 520, Y: 60, W: 140, H: 80},
	}
	conns := []scene.Connection{{From: "a", To: "b", Color: "#E05252"}}
	if drawn := c.DrawEdges(conns, rects, EdgeOpts{Color: "#FFFFFF"}); drawn != 1 {
		t.Fatalf("drew %d edges, want 1", drawn)
	}
}

func TestDrawEdgesCoincidentNodes(t *testing.T) {
	c := NewCanvas(400, 300, theme.Get("dark"), text.NewEmbeddedShaper())
	rects := map[string]geom.Rect{
		"a": {X: 100, Y: 100, W: 100, H: 60},
		"b": {X: 100, Y: 100, W: 100, H: 60},
	}
	conns := []scene.Connection{{From: "a", To: "b"}}
	if drawn := c.DrawEdges(conns, rects, EdgeOpts{}); drawn != 0 {
		t.Errorf("coincident nodes should produce no edge, got %d", drawn)
	}
}

func whiteImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func TestAutoCropTopLeftContent(t *testing.T) {
	img := whiteImage(400, 400)
	for y := 50; y < 100; y++ {
		for x := 50; x < 100; x++ {
			img.Set(x, y, color.Black)
		}
	}

	cropped := AutoCrop(img, "#FFFFFF")
	b := cropped.Bounds()
	if b.Dx() != 125 || b.Dy() != 125 {
		t.Errorf("cropped to %dx%d, want 125x125 (content extent + %d margin)", b.Dx(), b.Dy(), cropMargin)
	}
}

func TestAutoCropSkipsMarginalSavings(t *testing.T) {
	img := whiteImage(400, 400)
	for y := 20; y < 390; y++ {
		img.Set(380, y, color.Black)
	}

	cropped := AutoCrop(img, "#FFFFFF")
	if cropped.Bounds() != img.Bounds() {
		t.Errorf("marginal crop applied: %v", cropped.Bounds())
	}
}

func TestAutoCropAllBackground(t *testing.T) {
	img := whiteImage(200, 200)
	if cropped := AutoCrop(img, "#FFFFFF"); cropped.Bounds() != img.Bounds() {
		t.Error("pure background image should be returned untouched")
	}
}

func TestResize(t *testing.T) {
	img := whiteImage(200, 100)
	half := Resize(img, 0.5)
	if b := half.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("resize 0.5 gave %dx%d", b.Dx(), b.Dy())
	}
	if same := Resize(img, 1); same.Bounds() != img.Bounds() {
		t.Error("factor 1 should be a no-op")
	}
	if same := Resize(img, -2); same.Bounds() != img.Bounds() {
		t.Error("negative factor should be a no-op")
	}
}

func TestRenderUnknownTypeFallsBack(t *testing.T) {
	r := testRenderer()
	s := sampleScene(scene.TypeProcess, 4)
	s.Type = "mystery" // bypasses Validate, Render must still cope
	if img := r.Render(s, theme.Get("guidebook"), Options{}); img == nil {
		t.Fatal("unknown scene type should fall back to the process treatment")
	}
}

func TestRenderZonedMultiAgent(t *testing.T) {
	r := testRenderer()
	s := sampleScene(scene.TypeMultiAgent, 6)
	for i := range s.Nodes {
		if i < 3 {
			s.Nodes[i].Zone = "planning"
		} else {
			s.Nodes[i].Zone = "execution"
		}
	}
	if img := r.Render(s, theme.Get("whiteboard"), Options{}); img == nil {
		t.Fatal("zoned multi-agent render failed")
	}
}
