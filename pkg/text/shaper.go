// Package text provides font loading, measurement, wrapping, and
// shrink-to-fit sizing for the rendering pipeline.
//
// All measurement goes through an explicit Shaper owned by the caller
// (typically one per render session). The Shaper memoizes parsed fonts and
// sized faces behind a mutex, so one instance may be shared across renders.
package text

import (
	"os"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Weight selects a font weight/style family.
type Weight string

// Font weights.
const (
	Regular  Weight = "regular"
	Bold     Weight = "bold"
	Semibold Weight = "semibold"
	Mono     Weight = "mono"
)

// System font candidates per weight, tried in order via findfont before
// falling back to the embedded Go fonts.
var systemFonts = map[Weight][]string{
	Regular:  {"Inter-Regular.ttf", "DejaVuSans.ttf", "LiberationSans-Regular.ttf", "Arial.ttf"},
	Bold:     {"Inter-Bold.ttf", "DejaVuSans-Bold.ttf", "LiberationSans-Bold.ttf", "Arial-Bold.ttf"},
	Semibold: {"Inter-SemiBold.ttf", "Inter-Bold.ttf", "DejaVuSans-Bold.ttf"},
	Mono:     {"JetBrainsMono-Regular.ttf", "DejaVuSansMono.ttf", "LiberationMono-Regular.ttf"},
}

// Embedded fallbacks keep rendering deterministic on systems without any
// of the preferred fonts installed (CI, containers).
var embeddedFonts = map[Weight][]byte{
	Regular:  goregular.TTF,
	Bold:     gobold.TTF,
	Semibold: gomedium.TTF,
	Mono:     gomono.TTF,
}

type faceKey struct {
	size   float64
	weight Weight
}

// Shaper loads fonts and memoizes sized faces keyed by (size, weight).
type Shaper struct {
	mu    sync.Mutex
	fonts map[Weight]*truetype.Font
	faces map[faceKey]font.Face

	// systemLookup resolves a font filename to a path; swapped in tests.
	systemLookup func(name string) (string, error)
	// embeddedOnly skips system font discovery entirely.
	embeddedOnly bool
}

// NewShaper returns a Shaper that discovers system fonts via findfont and
// falls back to the embedded Go fonts.
func NewShaper() *Shaper {
	return &Shaper{
		fonts:        make(map[Weight]*truetype.Font),
		faces:        make(map[faceKey]font.Face),
		systemLookup: findfont.Find,
	}
}

// NewEmbeddedShaper returns a Shaper that uses only the embedded Go fonts.
// Output is identical across machines, which matters for golden tests and
// the determinism guarantee of seeded layouts.
func NewEmbeddedShaper() *Shaper {
	s := NewShaper()
	s.embeddedOnly = true
	return s
}

// Face returns a sized font face, creating and caching it on first use.
func (s *Shaper) Face(size float64, weight Weight) font.Face {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := faceKey{size: size, weight: weight}
	if f, ok := s.faces[key]; ok {
		return f
	}

	f := truetype.NewFace(s.fontLocked(weight), &truetype.Options{
		Size: size,
		DPI:  72,
	})
	s.faces[key] = f
	return f
}

// fontLocked loads and caches the truetype font for a weight.
// Callers must hold s.mu.
func (s *Shaper) fontLocked(weight Weight) *truetype.Font {
	if f, ok := s.fonts[weight]; ok {
		return f
	}

	f := s.loadFont(weight)
	s.fonts[weight] = f
	return f
}

func (s *Shaper) loadFont(weight Weight) *truetype.Font {
	if !s.embeddedOnly {
		for _, name := range systemFonts[weight] {
			path, err := s.systemLookup(name)
			if err != nil {
				continue
			}
			if f := parseFontFile(path); f != nil {
				return f
			}
		}
	}

	data, ok := embeddedFonts[weight]
	if !ok {
		data = embeddedFonts[Regular]
	}
	f, err := truetype.Parse(data)
	if err != nil {
		// The embedded Go fonts are known-good; reaching this means the
		// binary itself is corrupt.
		panic("text: embedded font failed to parse: " + err.Error())
	}
	return f
}

func parseFontFile(path string) *truetype.Font {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil
	}
	return f
}

// Measure returns the pixel width and line height of a single-line string.
func (s *Shaper) Measure(str string, size float64, weight Weight) (w, h float64) {
	face := s.Face(size, weight)

	s.mu.Lock()
	defer s.mu.Unlock()
	adv := font.MeasureString(face, str)
	metrics := face.Metrics()
	return float64(adv.Round()), float64(metrics.Height.Round())
}

// Width returns the pixel width of a single-line string.
func (s *Shaper) Width(str string, size float64, weight Weight) float64 {
	w, _ := s.Measure(str, size, weight)
	return w
}

// FitSize finds the largest font size in [minSize, maxSize] at which str
// fits within maxWidth, searching downward. Returns minSize if nothing
// fits; the caller then truncates with Truncate.
func (s *Shaper) FitSize(str string, maxWidth float64, maxSize, minSize float64, weight Weight) float64 {
	if maxSize < minSize {
		maxSize = minSize
	}
	for size := maxSize; size >= minSize; size-- {
		if s.Width(str, size, weight) <= maxWidth {
			return size
		}
	}
	return minSize
}

// Truncate shortens str with a trailing ellipsis until it fits maxWidth at
// the given size. Strings that already fit are returned unchanged.
func (s *Shaper) Truncate(str string, size float64, weight Weight, maxWidth float64) string {
	if s.Width(str, size, weight) <= maxWidth {
		return str
	}
	const ellipsis = ".."
	runes := []rune(str)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + ellipsis
		if s.Width(candidate, size, weight) <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}
