// Package icons draws small symbolic glyphs onto a gg context. Icon names
// come from scene producers and are not trusted: unknown names render as a
// tinted disc with the icon's initial, so a misspelled icon still gives
// the node a visual anchor instead of a blank space.
package icons

import (
	"math"
	"strings"
	"unicode"

	"github.com/fogleman/gg"

	"github.com/mhaertel/inkboard/pkg/theme"
)

type drawFunc func(dc *gg.Context, cx, cy, s float64)

// glyphs maps canonical icon names to their draw functions. Aliases are
// resolved in Draw before lookup.
var glyphs = map[string]drawFunc{
	"database": drawDatabase,
	"server":   drawServer,
	"cloud":    drawCloud,
	"user":     drawUser,
	"users":    drawUsers,
	"gear":     drawGear,
	"brain":    drawBrain,
	"document": drawDocument,
	"search":   drawSearch,
	"chart":    drawChart,
	"lock":     drawLock,
	"bolt":     drawBolt,
	"globe":    drawGlobe,
	"mail":     drawMail,
	"chat":     drawChat,
	"queue":    drawQueue,
	"robot":    drawRobot,
	"book":     drawBook,
	"target":   drawTarget,
	"check":    drawCheck,
	"warning":  drawWarning,
	"clock":    drawClock,
	"network":  drawNetwork,
	"code":     drawCode,
}

var aliases = map[string]string{
	"db":        "database",
	"storage":   "database",
	"cache":     "database",
	"api":       "server",
	"backend":   "server",
	"person":    "user",
	"agent":     "robot",
	"llm":       "brain",
	"ai":        "brain",
	"model":     "brain",
	"settings":  "gear",
	"config":    "gear",
	"file":      "document",
	"doc":       "document",
	"docs":      "book",
	"magnifier": "search",
	"retrieval": "search",
	"graph":     "chart",
	"metrics":   "chart",
	"security":  "lock",
	"auth":      "lock",
	"lightning": "bolt",
	"fast":      "bolt",
	"web":       "globe",
	"internet":  "globe",
	"email":     "mail",
	"message":   "chat",
	"team":      "users",
	"time":      "clock",
	"goal":      "target",
	"done":      "check",
	"alert":     "warning",
	"terminal":  "code",
}

// Known reports whether name resolves to a drawn glyph.
func Known(name string) bool {
	_, ok := glyphs[canonical(name)]
	return ok
}

// Draw renders the named icon centered at (cx, cy) with the given diameter
// and stroke color. Unknown names get the tinted-disc fallback.
func Draw(dc *gg.Context, name string, cx, cy, size float64, colorHex string) {
	dc.Push()
	defer dc.Pop()

	dc.SetColor(theme.ParseHex(colorHex))
	dc.SetLineWidth(maxff(1.5, size/14))
	dc.SetLineCapRound()
	dc.SetLineJoinRound()

	if fn, ok := glyphs[canonical(name)]; ok {
		fn(dc, cx, cy, size)
		return
	}
	drawFallback(dc, name, cx, cy, size, colorHex)
}

func canonical(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := aliases[name]; ok {
		return target
	}
	return name
}

// drawFallback draws a soft tinted disc with the icon name's initial.
func drawFallback(dc *gg.Context, name string, cx, cy, size float64, colorHex string) {
	r := size / 2
	dc.SetColor(theme.ParseHex(theme.Lighten(colorHex, 0.75)))
	dc.DrawCircle(cx, cy, r)
	dc.Fill()
	dc.SetColor(theme.ParseHex(colorHex))
	dc.DrawCircle(cx, cy, r)
	dc.Stroke()

	initial := "?"
	for _, ch := range name {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) {
			initial = strings.ToUpper(string(ch))
			break
		}
	}
	dc.DrawStringAnchored(initial, cx, cy, 0.5, 0.5)
}

func drawDatabase(dc *gg.Context, cx, cy, s float64) {
	w, h := s*0.8, s*0.9
	x, y := cx-w/2, cy-h/2
	eh := h / 4
	dc.DrawEllipse(cx, y+eh/2, w/2, eh/2)
	dc.Stroke()
	dc.MoveTo(x, y+eh/2)
	dc.LineTo(x, y+h-eh/2)
	dc.MoveTo(x+w, y+eh/2)
	dc.LineTo(x+w, y+h-eh/2)
	dc.Stroke()
	dc.DrawEllipticalArc(cx, y+h-eh/2, w/2, eh/2, 0, math.Pi)
	dc.Stroke()
	dc.DrawEllipticalArc(cx, cy, w/2, eh/2, 0, math.Pi)
	dc.Stroke()
}

func drawServer(dc *gg.Context, cx, cy, s float64) {
	w, h := s*0.85, s*0.38
	for i := 0; i < 2; i++ {
		y := cy - h + float64(i)*(h+s*0.06)
		dc.DrawRoundedRectangle(cx-w/2, y, w, h, s*0.06)
		dc.Stroke()
		dc.DrawCircle(cx-w/2+s*0.12, y+h/2, s*0.04)
		dc.Fill()
	}
}

func drawCloud(dc *gg.Context, cx, cy, s float64) {
	dc.DrawEllipticalArc(cx, cy+s*0.15, s*0.42, s*0.2, 0, math.Pi)
	dc.DrawEllipticalArc(cx-s*0.18, cy, s*0.2, s*0.2, math.Pi/2, math.Pi*1.5)
	dc.DrawEllipticalArc(cx+s*0.05, cy-s*0.12, s*0.24, s*0.22, math.Pi, math.Pi*2)
	dc.DrawEllipticalArc(cx+s*0.28, cy+0, s*0.16, s*0.16, math.Pi*1.5, math.Pi*2.5)
	dc.Stroke()
}

func drawUser(dc *gg.Context, cx, cy, s float64) {
	dc.DrawCircle(cx, cy-s*0.18, s*0.16)
	dc.Stroke()
	dc.DrawEllipticalArc(cx, cy+s*0.38, s*0.3, s*0.35, math.Pi*1.1, math.Pi*1.9)
	dc.Stroke()
}

func drawUsers(dc *gg.Context, cx, cy, s float64) {
	drawUser(dc, cx-s*0.14, cy, s*0.8)
	drawUser(dc, cx+s*0.18, cy-s*0.05, s*0.7)
}

func drawGear(dc *gg.Context, cx, cy, s float64) {
	outer := s * 0.38
	for i := 0; i < 8; i++ {
		a := float64(i) * math.Pi / 4
		dc.MoveTo(cx+outer*0.8*math.Cos(a), cy+outer*0.8*math.Sin(a))
		dc.LineTo(cx+outer*1.15*math.Cos(a), cy+outer*1.15*math.Sin(a))
	}
	dc.Stroke()
	dc.DrawCircle(cx, cy, outer*0.8)
	dc.Stroke()
	dc.DrawCircle(cx, cy, outer*0.3)
	dc.Stroke()
}

func drawBrain(dc *gg.Context, cx, cy, s float64) {
	dc.DrawEllipse(cx, cy, s*0.36, s*0.3)
	dc.Stroke()
	dc.MoveTo(cx, cy-s*0.3)
	dc.LineTo(cx, cy+s*0.3)
	dc.Stroke()
	for _, side := range []float64{-1, 1} {
		dc.DrawEllipticalArc(cx+side*s*0.18, cy-s*0.08, s*0.1, s*0.08, 0, math.Pi*2)
		dc.Stroke()
		dc.DrawEllipticalArc(cx+side*s*0.15, cy+s*0.12, s*0.08, s*0.06, 0, math.Pi*2)
		dc.Stroke()
	}
}

func drawDocument(dc *gg.Context, cx, cy, s float64) {
	w, h := s*0.6, s*0.8
	x, y := cx-w/2, cy-h/2
	fold := w * 0.3
	dc.MoveTo(x, y)
	dc.LineTo(x+w-fold, y)
	dc.LineTo(x+w, y+fold)
	dc.LineTo(x+w, y+h)
	dc.LineTo(x, y+h)
	dc.ClosePath()
	dc.Stroke()
	for i := 1; i <= 3; i++ {
		ly := y + h*0.35 + float64(i-1)*h*0.18
		dc.MoveTo(x+w*0.18, ly)
		dc.LineTo(x+w*0.82, ly)
	}
	dc.Stroke()
}

func drawSearch(dc *gg.Context, cx, cy, s float64) {
	r := s * 0.26
	dc.DrawCircle(cx-s*0.08, cy-s*0.08, r)
	dc.Stroke()
	dc.MoveTo(cx+r*0.62, cy+r*0.62)
	dc.LineTo(cx+s*0.38, cy+s*0.38)
	dc.Stroke()
}

func drawChart(dc *gg.Context, cx, cy, s float64) {
	x, y := cx-s*0.4, cy+s*0.4
	dc.MoveTo(x, cy-s*0.4)
	dc.LineTo(x, y)
	dc.LineTo(cx+s*0.45, y)
	dc.Stroke()
	heights := []float64{0.35, 0.55, 0.75}
	for i, h := range heights {
		bx := x + s*0.15 + float64(i)*s*0.22
		dc.DrawRectangle(bx, y-s*h, s*0.14, s*h)
	}
	dc.Stroke()
}

func drawLock(dc *gg.Context, cx, cy, s float64) {
	w, h := s*0.55, s*0.42
	dc.DrawRoundedRectangle(cx-w/2, cy-h*0.1, w, h, s*0.06)
	dc.Stroke()
	dc.DrawEllipticalArc(cx, cy-h*0.1, w*0.3, s*0.28, math.Pi, math.Pi*2)
	dc.Stroke()
	dc.DrawCircle(cx, cy+h*0.12, s*0.05)
	dc.Fill()
}

func drawBolt(dc *gg.Context, cx, cy, s float64) {
	dc.MoveTo(cx+s*0.1, cy-s*0.45)
	dc.LineTo(cx-s*0.2, cy+s*0.08)
	dc.LineTo(cx+s*0.02, cy+s*0.08)
	dc.LineTo(cx-s*0.1, cy+s*0.45)
	dc.LineTo(cx+s*0.22, cy-s*0.05)
	dc.LineTo(cx, cy-s*0.05)
	dc.ClosePath()
	dc.Stroke()
}

func drawGlobe(dc *gg.Context, cx, cy, s float64) {
	r := s * 0.4
	dc.DrawCircle(cx, cy, r)
	dc.Stroke()
	dc.DrawEllipse(cx, cy, r*0.45, r)
	dc.Stroke()
	dc.MoveTo(cx-r, cy)
	dc.LineTo(cx+r, cy)
	dc.Stroke()
}

func drawMail(dc *gg.Context, cx, cy, s float64) {
	w, h := s*0.8, s*0.55
	x, y := cx-w/2, cy-h/2
	dc.DrawRoundedRectangle(x, y, w, h, s*0.05)
	dc.Stroke()
	dc.MoveTo(x, y)
	dc.LineTo(cx, cy+h*0.12)
	dc.LineTo(x+w, y)
	dc.Stroke()
}

func drawChat(dc *gg.Context, cx, cy, s float64) {
	w, h := s*0.75, s*0.55
	x, y := cx-w/2, cy-h/2-s*0.05
	dc.DrawRoundedRectangle(x, y, w, h, s*0.12)
	dc.Stroke()
	dc.MoveTo(cx-s*0.1, y+h)
	dc.LineTo(cx-s*0.05, y+h+s*0.15)
	dc.LineTo(cx+s*0.08, y+h)
	dc.Stroke()
}

func drawQueue(dc *gg.Context, cx, cy, s float64) {
	w, h := s*0.22, s*0.5
	for i := 0; i < 3; i++ {
		x := cx - s*0.42 + float64(i)*s*0.32
		dc.DrawRoundedRectangle(x, cy-h/2, w, h, s*0.04)
	}
	dc.Stroke()
}

func drawRobot(dc *gg.Context, cx, cy, s float64) {
	w, h := s*0.6, s*0.5
	dc.DrawRoundedRectangle(cx-w/2, cy-h*0.35, w, h, s*0.08)
	dc.Stroke()
	dc.DrawCircle(cx-w*0.2, cy-h*0.05, s*0.05)
	dc.DrawCircle(cx+w*0.2, cy-h*0.05, s*0.05)
	dc.Fill()
	dc.MoveTo(cx, cy-h*0.35)
	dc.LineTo(cx, cy-h*0.55)
	dc.Stroke()
	dc.DrawCircle(cx, cy-h*0.6, s*0.04)
	dc.Fill()
}

func drawBook(dc *gg.Context, cx, cy, s float64) {
	w, h := s*0.75, s*0.55
	dc.MoveTo(cx, cy-h/2)
	dc.LineTo(cx, cy+h/2)
	dc.Stroke()
	for _, side := range []float64{-1, 1} {
		dc.MoveTo(cx, cy-h/2)
		dc.QuadraticTo(cx+side*w*0.3, cy-h*0.65, cx+side*w/2, cy-h/2)
		dc.LineTo(cx+side*w/2, cy+h/2)
		dc.QuadraticTo(cx+side*w*0.3, cy+h*0.35, cx, cy+h/2)
	}
	dc.Stroke()
}

func drawTarget(dc *gg.Context, cx, cy, s float64) {
	for _, r := range []float64{0.4, 0.26, 0.1} {
		dc.DrawCircle(cx, cy, s*r)
		dc.Stroke()
	}
}

func drawCheck(dc *gg.Context, cx, cy, s float64) {
	dc.DrawCircle(cx, cy, s*0.4)
	dc.Stroke()
	dc.MoveTo(cx-s*0.18, cy)
	dc.LineTo(cx-s*0.04, cy+s*0.15)
	dc.LineTo(cx+s*0.2, cy-s*0.15)
	dc.Stroke()
}

func drawWarning(dc *gg.Context, cx, cy, s float64) {
	dc.MoveTo(cx, cy-s*0.4)
	dc.LineTo(cx+s*0.4, cy+s*0.35)
	dc.LineTo(cx-s*0.4, cy+s*0.35)
	dc.ClosePath()
	dc.Stroke()
	dc.MoveTo(cx, cy-s*0.15)
	dc.LineTo(cx, cy+s*0.1)
	dc.Stroke()
	dc.DrawCircle(cx, cy+s*0.22, s*0.03)
	dc.Fill()
}

func drawClock(dc *gg.Context, cx, cy, s float64) {
	dc.DrawCircle(cx, cy, s*0.4)
	dc.Stroke()
	dc.MoveTo(cx, cy)
	dc.LineTo(cx, cy-s*0.25)
	dc.MoveTo(cx, cy)
	dc.LineTo(cx+s*0.18, cy+s*0.08)
	dc.Stroke()
}

func drawNetwork(dc *gg.Context, cx, cy, s float64) {
	top := [2]float64{cx, cy - s*0.3}
	left := [2]float64{cx - s*0.32, cy + s*0.25}
	right := [2]float64{cx + s*0.32, cy + s*0.25}
	for _, p := range [][2]float64{top, left, right} {
		dc.MoveTo(top[0], top[1])
		dc.LineTo(p[0], p[1])
	}
	dc.MoveTo(left[0], left[1])
	dc.LineTo(right[0], right[1])
	dc.Stroke()
	for _, p := range [][2]float64{top, left, right} {
		dc.DrawCircle(p[0], p[1], s*0.09)
		dc.Fill()
	}
}

func drawCode(dc *gg.Context, cx, cy, s float64) {
	dc.MoveTo(cx-s*0.15, cy-s*0.25)
	dc.LineTo(cx-s*0.38, cy)
	dc.LineTo(cx-s*0.15, cy+s*0.25)
	dc.MoveTo(cx+s*0.15, cy-s*0.25)
	dc.LineTo(cx+s*0.38, cy)
	dc.LineTo(cx+s*0.15, cy+s*0.25)
	dc.Stroke()
}

func maxff(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
