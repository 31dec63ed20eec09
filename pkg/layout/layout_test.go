package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/mhaertel/inkboard/pkg/geom"
	"github.com/mhaertel/inkboard/pkg/scene"
	"github.com/mhaertel/inkboard/pkg/text"
)

const (
	testW       = 1600.0
	testH       = 1000.0
	testHeaderH = 120.0
)

func makeNodes(n int) []scene.Node {
	nodes := make([]scene.Node, n)
	for i := range nodes {
		nodes[i] = scene.Node{
			ID:    fmt.Sprintf("n%02d", i),
			Label: fmt.Sprintf("Component %d", i),
		}
	}
	return nodes
}

func chainScene(n int) *scene.Scene {
	s := &scene.Scene{Title: "t", Type: scene.TypeMultiAgent, Nodes: makeNodes(n)}
	for i := 0; i+1 < n; i++ {
		s.Connections = append(s.Connections, scene.Connection{
			From: s.Nodes[i].ID, To: s.Nodes[i+1].ID,
		})
	}
	return s
}

func checkContained(t *testing.T, rects map[string]geom.Rect, name string) {
	t.Helper()
	for id, r := range rects {
		if r.X < 0 || r.Y < 0 || r.MaxX() > testW || r.MaxY() > testH {
			t.Errorf("%s: node %s at %+v escapes the %gx%g canvas", name, id, r, testW, testH)
		}
		if r.W <= 0 || r.H <= 0 {
			t.Errorf("%s: node %s has degenerate size %+v", name, id, r)
		}
	}
}

// Every strategy must keep every card inside the canvas for 1..50 nodes.
func TestContainmentAcrossStrategies(t *testing.T) {
	sh := text.NewEmbeddedShaper()
	for _, n := range []int{1, 2, 3, 5, 8, 13, 25, 50} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			nodes := makeNodes(n)
			s := chainScene(n)

			checkContained(t, Grid(sh, nodes, testW, testH, testHeaderH, 0, MeasurePlain), "grid")
			checkContained(t, FlowHorizontal(sh, nodes, testW, testH, testHeaderH, MeasurePipeline), "flow_h")
			checkContained(t, FlowVertical(sh, nodes, testW, testH, testHeaderH, MeasurePlain), "flow_v")
			checkContained(t, Layered(sh, s, testW, testH, testHeaderH, MeasurePlain).Nodes, "layered")
			checkContained(t, Columns(sh, s, testW, testH, testHeaderH, MeasurePlain).Nodes, "columns")
			checkContained(t, Zones(sh, s, testW, testH, testHeaderH, MeasurePlain).Nodes, "zones")
			checkContained(t, Force(sh, s, testW, testH, testHeaderH, MeasurePlain), "force")

			if n > 1 {
				center := nodes[0].ID
				outer := make([]string, 0, n-1)
				for _, nd := range nodes[1:] {
					outer = append(outer, nd.ID)
				}
				checkContained(t, Radial(center, outer, testW, testH, testHeaderH), "radial")
			}
		})
	}
}

func TestGridSixNodesThreeCols(t *testing.T) {
	sh := text.NewEmbeddedShaper()
	nodes := makeNodes(6)
	rects := Grid(sh, nodes, testW, testH, testHeaderH, 3, MeasurePlain)

	if len(rects) != 6 {
		t.Fatalf("placed %d nodes, want 6", len(rects))
	}

	// Two rows of three: rows share Y, columns share X.
	row0Y := rects["n00"].Y
	row1Y := rects["n03"].Y
	for i := 0; i < 3; i++ {
		if rects[fmt.Sprintf("n%02d", i)].Y != row0Y {
			t.Errorf("node %d not on first row", i)
		}
		if rects[fmt.Sprintf("n%02d", i+3)].Y != row1Y {
			t.Errorf("node %d not on second row", i+3)
		}
		if rects[fmt.Sprintf("n%02d", i)].X != rects[fmt.Sprintf("n%02d", i+3)].X {
			t.Errorf("column %d misaligned between rows", i)
		}
	}
	if row1Y <= row0Y {
		t.Error("second row should be below the first")
	}

	// Equal widths, increasing X within a row.
	if rects["n00"].X >= rects["n01"].X || rects["n01"].X >= rects["n02"].X {
		t.Error("first row X not increasing")
	}
	if rects["n00"].W != rects["n01"].W {
		t.Error("cards in a grid should share a width")
	}
}

func TestGridDefaultCols(t *testing.T) {
	tests := []struct{ n, want int }{
		{1, 1}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {9, 3},
	}
	for _, tt := range tests {
		if got := GridCols(tt.n); got != tt.want {
			t.Errorf("GridCols(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestFlowHorizontalOrderAndGaps(t *testing.T) {
	sh := text.NewEmbeddedShaper()
	nodes := makeNodes(5)
	rects := FlowHorizontal(sh, nodes, testW, testH, testHeaderH, MeasurePipeline)

	var prev geom.Rect
	for i, n := range nodes {
		r := rects[n.ID]
		if i > 0 {
			gap := r.X - prev.MaxX()
			if gap < flowMinGap-1 || gap > flowMaxGap+1 {
				t.Errorf("gap %d = %v, want within [%d, %d]", i, gap, flowMinGap, flowMaxGap)
			}
		}
		prev = r
	}
}

func TestFlowVerticalStacks(t *testing.T) {
	sh := text.NewEmbeddedShaper()
	nodes := makeNodes(4)
	rects := FlowVertical(sh, nodes, testW, testH, testHeaderH, MeasurePlain)

	for i := 1; i < len(nodes); i++ {
		above := rects[nodes[i-1].ID]
		below := rects[nodes[i].ID]
		if below.Y <= above.MaxY() {
			t.Errorf("node %d does not stack below node %d", i, i-1)
		}
		if below.X != above.X {
			t.Errorf("vertical flow should share a left edge")
		}
	}
}

func TestLayeredBands(t *testing.T) {
	sh := text.NewEmbeddedShaper()
	s := &scene.Scene{
		Title: "arch",
		Type:  scene.TypeArchitecture,
		Nodes: []scene.Node{
			{ID: "web", Label: "Web"},
			{ID: "api", Label: "API"},
			{ID: "db", Label: "DB"},
			{ID: "cache", Label: "Cache"},
		},
		Layers: []scene.Layer{
			{Name: "Frontend", Nodes: []string{"web"}},
			{Name: "Backend", Nodes: []string{"api"}},
			{Name: "Data", Nodes: []string{"db", "cache", "ghost"}},
		},
	}

	res := Layered(sh, s, testW, testH, testHeaderH, MeasurePlain)
	if len(res.Bands) != 3 {
		t.Fatalf("got %d bands, want 3", len(res.Bands))
	}
	if len(res.Nodes) != 4 {
		t.Fatalf("placed %d nodes, want 4 (ghost skipped)", len(res.Nodes))
	}

	for i := 1; i < len(res.Bands); i++ {
		if res.Bands[i].Box.Y <= res.Bands[i-1].Box.Y {
			t.Error("bands should stack top to bottom")
		}
	}

	// Each node sits inside its band.
	for i, want := range map[int][]string{0: {"web"}, 1: {"api"}, 2: {"db", "cache"}} {
		band := res.Bands[i].Box
		for _, id := range want {
			r := res.Nodes[id]
			if r.Y < band.Y || r.MaxY() > band.MaxY()+1 {
				t.Errorf("node %s outside its band", id)
			}
		}
	}
}

func TestLayeredOrphansGoToLastBand(t *testing.T) {
	sh := text.NewEmbeddedShaper()
	s := &scene.Scene{
		Title: "arch",
		Type:  scene.TypeArchitecture,
		Nodes: []scene.Node{
			{ID: "a", Label: "A"},
			{ID: "stray", Label: "Stray"},
		},
		Layers: []scene.Layer{{Name: "Only", Nodes: []string{"a"}}},
	}
	res := Layered(sh, s, testW, testH, testHeaderH, MeasurePlain)
	if _, ok := res.Nodes["stray"]; !ok {
		t.Error("orphan node was dropped instead of placed in the last band")
	}
}

func TestColumnsFromGroups(t *testing.T) {
	sh := text.NewEmbeddedShaper()
	s := &scene.Scene{
		Title: "vs",
		Type:  scene.TypeComparison,
		Nodes: []scene.Node{
			{ID: "a1", Label: "Fast", Group: "SQL"},
			{ID: "a2", Label: "Joins", Group: "SQL"},
			{ID: "b1", Label: "Flexible", Group: "NoSQL"},
			{ID: "b2", Label: "Scale", Group: "NoSQL"},
		},
	}
	res := Columns(sh, s, testW, testH, testHeaderH, MeasurePlain)
	if len(res.Columns) != 2 {
		t.Fatalf("got %d columns, want 2", len(res.Columns))
	}
	if res.Columns[0].Name != "SQL" || res.Columns[1].Name != "NoSQL" {
		t.Errorf("column order = %q, %q; want first-seen group order", res.Columns[0].Name, res.Columns[1].Name)
	}

	left := res.Columns[0].Box
	for _, id := range []string{"a1", "a2"} {
		r := res.Nodes[id]
		if r.X < left.X || r.MaxX() > left.MaxX() {
			t.Errorf("item %s outside its lane", id)
		}
	}
	if res.Nodes["a2"].Y <= res.Nodes["a1"].Y {
		t.Error("lane items should stack downward")
	}
}

func TestRadialFourAtRightAngles(t *testing.T) {
	rects := Radial("hub", []string{"o0", "o1", "o2", "o3"}, testW, testH, testHeaderH)

	hub := rects["hub"].Center()
	wantAngles := []float64{-90, 0, 90, 180}
	for i, id := range []string{"o0", "o1", "o2", "o3"} {
		c := rects[id].Center()
		got := math.Atan2(c.Y-hub.Y, c.X-hub.X) * 180 / math.Pi
		diff := math.Abs(got - wantAngles[i])
		if diff > 180 {
			diff = 360 - diff
		}
		if diff > 5 {
			t.Errorf("outer %s at %.1f degrees, want %v +/- 5", id, got, wantAngles[i])
		}
	}

	// Equal distance from the hub for all four.
	d0 := hub.Dist(rects["o0"].Center())
	for _, id := range []string{"o1", "o2", "o3"} {
		if d := hub.Dist(rects[id].Center()); math.Abs(d-d0) > 1 {
			t.Errorf("outer %s radius %v, want %v", id, d, d0)
		}
	}
}

func TestRadialCenterOnly(t *testing.T) {
	rects := Radial("solo", nil, testW, testH, testHeaderH)
	if len(rects) != 1 {
		t.Fatalf("got %d rects, want 1", len(rects))
	}
	c := rects["solo"].Center()
	if math.Abs(c.X-testW/2) > 1 {
		t.Errorf("center X = %v, want canvas middle", c.X)
	}
}

func TestZonesKeepAllNodes(t *testing.T) {
	sh := text.NewEmbeddedShaper()
	s := &scene.Scene{
		Title: "agents",
		Type:  scene.TypeMultiAgent,
		Nodes: []scene.Node{
			{ID: "p", Label: "Planner", Zone: "control"},
			{ID: "e", Label: "Executor", Zone: "control"},
			{ID: "m", Label: "Memory", Zone: "state"},
			{ID: "free", Label: "Free"},
		},
	}
	res := Zones(sh, s, testW, testH, testHeaderH, MeasurePlain)
	if len(res.Nodes) != 4 {
		t.Fatalf("placed %d nodes, want all 4", len(res.Nodes))
	}
	if len(res.Zones) != 3 {
		t.Fatalf("got %d zones, want 3 (control, state, unzoned)", len(res.Zones))
	}
	for _, z := range res.Zones {
		if z.Box.W <= 0 || z.Box.H <= 0 {
			t.Errorf("zone %q has degenerate box", z.Name)
		}
	}
}

func TestForceDeterministic(t *testing.T) {
	sh := text.NewEmbeddedShaper()
	s := chainScene(8)

	a := Force(sh, s, testW, testH, testHeaderH, MeasurePlain)
	b := Force(sh, s, testW, testH, testHeaderH, MeasurePlain)
	for id, r := range a {
		if b[id] != r {
			t.Fatalf("same seed produced different layouts for %s: %+v vs %+v", id, r, b[id])
		}
	}

	c := Force(sh, s, testW, testH, testHeaderH, MeasurePlain, WithSeed(7))
	same := true
	for id, r := range a {
		if c[id] != r {
			same = false
			break
		}
	}
	if same {
		t.Log("different seeds produced the same layout; legal but unexpected")
	}
}

func TestForceSeparatesNodes(t *testing.T) {
	sh := text.NewEmbeddedShaper()
	s := chainScene(10)
	rects := Force(sh, s, testW, testH, testHeaderH, MeasurePlain)

	ids := make([]string, 0, len(rects))
	for id := range rects {
		ids = append(ids, id)
	}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if rects[ids[i]].Intersects(rects[ids[j]], 0) {
				t.Errorf("nodes %s and %s still overlap after force layout", ids[i], ids[j])
			}
		}
	}
}

func TestForceIgnoresDanglingConnections(t *testing.T) {
	sh := text.NewEmbeddedShaper()
	s := chainScene(4)
	s.Connections = append(s.Connections, scene.Connection{From: "n00", To: "ghost"})
	rects := Force(sh, s, testW, testH, testHeaderH, MeasurePlain)
	if len(rects) != 4 {
		t.Fatalf("dangling connection changed node count: %d", len(rects))
	}
}

func TestResolveConverges(t *testing.T) {
	rects := map[string]geom.Rect{
		"a": {X: 100, Y: 100, W: 120, H: 80},
		"b": {X: 110, Y: 110, W: 120, H: 80},
		"c": {X: 130, Y: 95, W: 120, H: 80},
		"d": {X: 105, Y: 150, W: 120, H: 80},
	}
	bounds := geom.Rect{X: 0, Y: 0, W: 1000, H: 800}
	Resolve(rects, bounds, 10)

	for _, idA := range []string{"a", "b", "c"} {
		for _, idB := range []string{"b", "c", "d"} {
			if idA == idB {
				continue
			}
			if rects[idA].Intersects(rects[idB], 0) {
				t.Errorf("%s and %s still overlap: %+v vs %+v", idA, idB, rects[idA], rects[idB])
			}
		}
	}
	for id, r := range rects {
		if r.X < bounds.X || r.MaxX() > bounds.MaxX() {
			t.Errorf("%s pushed out of bounds: %+v", id, r)
		}
	}
}

func TestResolveIdempotentOnSeparated(t *testing.T) {
	rects := map[string]geom.Rect{
		"a": {X: 50, Y: 50, W: 100, H: 60},
		"b": {X: 300, Y: 50, W: 100, H: 60},
		"c": {X: 50, Y: 300, W: 100, H: 60},
	}
	before := map[string]geom.Rect{}
	for id, r := range rects {
		before[id] = r
	}
	Resolve(rects, geom.Rect{W: 1000, H: 800}, 10)
	for id, r := range rects {
		if r != before[id] {
			t.Errorf("Resolve moved already-separated rect %s: %+v -> %+v", id, before[id], r)
		}
	}
}

func TestResolveDeterministic(t *testing.T) {
	build := func() map[string]geom.Rect {
		return map[string]geom.Rect{
			"a": {X: 100, Y: 100, W: 150, H: 90},
			"b": {X: 120, Y: 105, W: 150, H: 90},
			"c": {X: 140, Y: 110, W: 150, H: 90},
		}
	}
	x := build()
	y := build()
	bounds := geom.Rect{W: 1200, H: 900}
	Resolve(x, bounds, 12)
	Resolve(y, bounds, 12)
	for id := range x {
		if x[id] != y[id] {
			t.Errorf("Resolve nondeterministic for %s", id)
		}
	}
}

func TestMeasureHeightMonotonic(t *testing.T) {
	sh := text.NewEmbeddedShaper()
	base := scene.Node{ID: "n", Label: "Service"}
	long := base
	long.Description = "Streams events from the ingest queue, deduplicates them against the last hour of traffic, and forwards survivors to the scoring workers."

	for _, style := range []MeasureStyle{MeasurePlain, MeasureHeader, MeasurePipeline} {
		hBase := MeasureHeight(sh, base, 200, style, 60, 400)
		hLong := MeasureHeight(sh, long, 200, style, 60, 400)
		if hLong < hBase {
			t.Errorf("style %d: longer description measured shorter (%v < %v)", style, hLong, hBase)
		}
	}
}

func TestMeasureHeightClamped(t *testing.T) {
	sh := text.NewEmbeddedShaper()
	tiny := scene.Node{ID: "n", Label: "X"}
	if h := MeasureHeight(sh, tiny, 200, MeasurePlain, 90, 220); h != 90 {
		t.Errorf("tiny node height %v, want min clamp 90", h)
	}

	huge := scene.Node{ID: "n", Label: "X", Icon: "gear"}
	huge.Description = ""
	for i := 0; i < 40; i++ {
		huge.Description += "a very long description fragment "
	}
	if h := MeasureHeight(sh, huge, 200, MeasurePlain, 90, 220); h != 220 {
		t.Errorf("huge node height %v, want max clamp 220", h)
	}
}

func TestMeasureIconAddsHeight(t *testing.T) {
	sh := text.NewEmbeddedShaper()
	plain := scene.Node{ID: "n", Label: "Queue"}
	iconed := plain
	iconed.Icon = "database"
	hPlain := MeasureHeight(sh, plain, 200, MeasurePipeline, 0, 1000)
	hIcon := MeasureHeight(sh, iconed, 200, MeasurePipeline, 0, 1000)
	if hIcon <= hPlain {
		t.Errorf("icon should add height: %v <= %v", hIcon, hPlain)
	}
}
