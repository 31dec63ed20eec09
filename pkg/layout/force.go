package layout

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/mhaertel/inkboard/pkg/geom"
	"github.com/mhaertel/inkboard/pkg/scene"
	"github.com/mhaertel/inkboard/pkg/text"
)

// Force layout tuning.
const (
	forceMargin     = 50
	forceIterations = 150
	forceRepulseMin = 8000
	forceAttract    = 0.012
	forceCohesion   = 0.03
	forceDamping    = 0.5
	forceSeedRadius = 0.25 // fraction of min(usableW, usableH)
	forceSeedJitter = 40
	forceNodeW      = 170
	forceMinNodeH   = 80
	forceMaxNodeH   = 120
	forceSpreadX    = 0.75 // target horizontal spread fraction
	forceSpreadY    = 0.70
	forceOverlapPad = 15
)

// DefaultForceSeed makes unseeded layouts reproducible run to run.
const DefaultForceSeed = 42

// ForceOption configures the force-directed simulation.
type ForceOption func(*forceConfig)

type forceConfig struct {
	seed uint64
}

// WithSeed fixes the RNG seed for initial placement jitter. Two runs with
// the same scene, bounds, and seed produce identical rectangles.
func WithSeed(seed uint64) ForceOption {
	return func(c *forceConfig) { c.seed = seed }
}

// Force runs a seeded force-directed simulation: nodes repel each other,
// connections pull their endpoints together, and group members cohere
// toward their group centroid. Groups are seeded at distinct angles around
// the canvas center so related nodes start near each other. The result is
// rescaled to use most of the canvas and passed through the overlap
// resolver.
func Force(sh *text.Shaper, s *scene.Scene, canvasW, canvasH, headerH float64, style MeasureStyle, opts ...ForceOption) map[string]geom.Rect {
	cfg := forceConfig{seed: DefaultForceSeed}
	for _, opt := range opts {
		opt(&cfg)
	}

	out := make(map[string]geom.Rect, len(s.Nodes))
	n := len(s.Nodes)
	if n == 0 {
		return out
	}

	usableW := canvasW - 2*forceMargin
	usableH := canvasH - headerH - 2*forceMargin
	cx := canvasW / 2
	cy := headerH + forceMargin + usableH/2

	rng := rand.New(rand.NewPCG(cfg.seed, cfg.seed))
	pos := seedPositions(s.Nodes, rng, cx, cy, minf(usableW, usableH))

	// Adjacency from connections; dangling endpoints are ignored.
	idx := make(map[string]int, n)
	for i, node := range s.Nodes {
		idx[node.ID] = i
	}
	type edge struct{ a, b int }
	var edges []edge
	for _, c := range s.Connections {
		a, okA := idx[c.From]
		b, okB := idx[c.To]
		if okA && okB && a != b {
			edges = append(edges, edge{a, b})
		}
	}

	groups := groupIndices(s.Nodes)
	repulseK := maxf(forceRepulseMin, usableW*usableH/float64(n)*0.5)

	for iter := 0; iter < forceIterations; iter++ {
		temp := 1 - float64(iter)/forceIterations
		if temp < 0.01 {
			break
		}

		disp := make([]geom.Point, n)

		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := pos[i].X - pos[j].X
				dy := pos[i].Y - pos[j].Y
				d2 := dx*dx + dy*dy
				if d2 < 1 {
					d2 = 1
				}
				f := repulseK / d2
				d := math.Sqrt(d2)
				fx, fy := f*dx/d, f*dy/d
				disp[i].X += fx
				disp[i].Y += fy
				disp[j].X -= fx
				disp[j].Y -= fy
			}
		}

		for _, e := range edges {
			dx := pos[e.b].X - pos[e.a].X
			dy := pos[e.b].Y - pos[e.a].Y
			disp[e.a].X += dx * forceAttract
			disp[e.a].Y += dy * forceAttract
			disp[e.b].X -= dx * forceAttract
			disp[e.b].Y -= dy * forceAttract
		}

		for _, members := range groups {
			var gx, gy float64
			for _, i := range members {
				gx += pos[i].X
				gy += pos[i].Y
			}
			gx /= float64(len(members))
			gy /= float64(len(members))
			for _, i := range members {
				disp[i].X += (gx - pos[i].X) * forceCohesion
				disp[i].Y += (gy - pos[i].Y) * forceCohesion
			}
		}

		for i := 0; i < n; i++ {
			pos[i].X += disp[i].X * forceDamping * temp
			pos[i].Y += disp[i].Y * forceDamping * temp
			pos[i].X = clamp(pos[i].X, forceMargin, canvasW-forceMargin)
			pos[i].Y = clamp(pos[i].Y, headerH+forceMargin, canvasH-forceMargin)
		}
	}

	rescaleSpread(pos, cx, cy, usableW*forceSpreadX, usableH*forceSpreadY)

	heights := MeasureHeights(sh, s.Nodes, forceNodeW, style, forceMinNodeH, forceMaxNodeH)
	for i, node := range s.Nodes {
		h := heights[i]
		r := geom.Rect{X: pos[i].X - forceNodeW/2, Y: pos[i].Y - h/2, W: forceNodeW, H: h}
		r.X = clamp(r.X, 10, canvasW-10-r.W)
		r.Y = clamp(r.Y, headerH, canvasH-10-r.H)
		out[node.ID] = r
	}

	Resolve(out, geom.Rect{X: 0, Y: headerH, W: canvasW, H: canvasH - headerH}, forceOverlapPad)
	return out
}

// seedPositions places each group at its own angle on a small ring around
// the center, with per-node jitter so the simulation can separate members.
func seedPositions(nodes []scene.Node, rng *rand.Rand, cx, cy, usableMin float64) []geom.Point {
	groups := groupIndices(nodes)
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	angle := make(map[string]float64, len(names))
	for i, name := range names {
		angle[name] = float64(i) * 2 * math.Pi / float64(len(names))
	}

	radius := usableMin * forceSeedRadius
	pos := make([]geom.Point, len(nodes))
	for i, node := range nodes {
		a := angle[node.GroupKey()]
		pos[i] = geom.Point{
			X: cx + radius*math.Cos(a) + (rng.Float64()*2-1)*forceSeedJitter,
			Y: cy + radius*math.Sin(a) + (rng.Float64()*2-1)*forceSeedJitter,
		}
	}
	return pos
}

func groupIndices(nodes []scene.Node) map[string][]int {
	groups := make(map[string][]int)
	for i, n := range nodes {
		key := n.GroupKey()
		groups[key] = append(groups[key], i)
	}
	return groups
}

// rescaleSpread stretches (or shrinks) positions about the canvas center so
// the cloud covers the target extents instead of huddling in the middle.
func rescaleSpread(pos []geom.Point, cx, cy, targetW, targetH float64) {
	if len(pos) < 2 {
		return
	}
	minX, maxX := pos[0].X, pos[0].X
	minY, maxY := pos[0].Y, pos[0].Y
	for _, p := range pos[1:] {
		minX, maxX = minf(minX, p.X), maxf(maxX, p.X)
		minY, maxY = minf(minY, p.Y), maxf(maxY, p.Y)
	}

	spreadX := maxX - minX
	spreadY := maxY - minY
	scaleX, scaleY := 1.0, 1.0
	if spreadX > 1 && spreadX < targetW*0.6 {
		scaleX = targetW / spreadX
	}
	if spreadY > 1 && spreadY < targetH*0.6 {
		scaleY = targetH / spreadY
	}
	if scaleX == 1 && scaleY == 1 {
		return
	}
	midX := (minX + maxX) / 2
	midY := (minY + maxY) / 2
	for i := range pos {
		pos[i].X = cx + (pos[i].X-midX)*scaleX
		pos[i].Y = cy + (pos[i].Y-midY)*scaleY
	}
}
