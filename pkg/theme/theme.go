// Package theme provides the visual style tables for rendering: color
// palettes, section color cycles, and the closed set of style variants
// that scene renderers are parameterized by.
package theme

import "maps"

// Variant is the closed set of visual modes. It is resolved once from the
// theme at render time; each scene renderer is a single function
// parameterized by variant.
type Variant int

const (
	// Whiteboard is the light hand-drawn style: dashed borders, colored
	// section cards, boxed titles.
	Whiteboard Variant = iota
	// Guidebook is the editorial style: header-band cards, numbered badges.
	Guidebook
	// Dark is the dark-background style: accent bars and a gradient top bar.
	Dark
)

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case Whiteboard:
		return "whiteboard"
	case Guidebook:
		return "guidebook"
	default:
		return "dark"
	}
}

// SectionColor is one entry of a theme's ordered section palette.
type SectionColor struct {
	Fill     string `json:"fill" toml:"fill"`
	Border   string `json:"border" toml:"border"`
	Text     string `json:"text" toml:"text"`
	HeaderBG string `json:"header_bg" toml:"header_bg"`
}

// Theme is the full color and style contract consumed by renderers.
// All fields are optional in user-supplied themes; Normalize fills gaps
// with sensible defaults so the core never fails on a sparse theme.
type Theme struct {
	Name    string  `json:"name" toml:"name"`
	Variant Variant `json:"-" toml:"-"`

	BG        string `json:"bg" toml:"bg"`
	Card      string `json:"card" toml:"card"`
	Text      string `json:"text" toml:"text"`
	TextMuted string `json:"text_muted" toml:"text_muted"`
	Border    string `json:"border" toml:"border"`
	Accent    string `json:"accent" toml:"accent"`
	Accent2   string `json:"accent2" toml:"accent2"`

	OuterBorder   string `json:"outer_border_color" toml:"outer_border_color"`
	GradientStart string `json:"gradient_start" toml:"gradient_start"`
	GradientEnd   string `json:"gradient_end" toml:"gradient_end"`

	SectionColors []SectionColor `json:"section_colors" toml:"section_colors"`
	NodeColors    []string       `json:"node_colors" toml:"node_colors"`

	// Style flags kept for round-trip with external theme files; Variant is
	// derived from them once via ResolveVariant.
	DashedBorder   bool `json:"dashed_border" toml:"dashed_border"`
	NodeHeaderBand bool `json:"node_header_band" toml:"node_header_band"`
}

// ResolveVariant derives the closed variant from the theme's style flags.
// Header band wins over dashed border; neither means dark.
func (t *Theme) ResolveVariant() Variant {
	switch {
	case t.NodeHeaderBand:
		return Guidebook
	case t.DashedBorder:
		return Whiteboard
	default:
		return Dark
	}
}

// Section returns the i-th section color, cycling through the palette.
func (t *Theme) Section(i int) SectionColor {
	if len(t.SectionColors) == 0 {
		return SectionColor{Fill: "#E3F2FD", Border: "#2B7DE9", Text: "#1565C0", HeaderBG: "#2B7DE9"}
	}
	if i < 0 {
		i = -i
	}
	return t.SectionColors[i%len(t.SectionColors)]
}

// NodeColor returns the i-th node accent color, cycling through the palette.
func (t *Theme) NodeColor(i int) string {
	if len(t.NodeColors) == 0 {
		return t.Accent
	}
	if i < 0 {
		i = -i
	}
	return t.NodeColors[i%len(t.NodeColors)]
}

// Normalize fills any missing optional fields from the dark default theme,
// so sparse user themes still render. It also resolves the variant.
func (t *Theme) Normalize() {
	def := builtins["dark"]
	fill := func(dst *string, fallback string) {
		if *dst == "" {
			*dst = fallback
		}
	}
	fill(&t.BG, def.BG)
	fill(&t.Card, def.Card)
	fill(&t.Text, def.Text)
	fill(&t.TextMuted, def.TextMuted)
	fill(&t.Border, def.Border)
	fill(&t.Accent, def.Accent)
	fill(&t.Accent2, def.Accent2)
	fill(&t.OuterBorder, t.Accent)
	fill(&t.GradientStart, t.Accent)
	fill(&t.GradientEnd, t.Accent2)
	if len(t.SectionColors) == 0 {
		t.SectionColors = def.SectionColors
	}
	if len(t.NodeColors) == 0 {
		t.NodeColors = def.NodeColors
	}
	t.Variant = t.ResolveVariant()
}

// Get returns the named built-in theme, falling back to "whiteboard" for
// unknown names. The returned theme is a copy and safe to mutate.
func Get(name string) Theme {
	t, ok := builtins[name]
	if !ok {
		if alias, found := aliases[name]; found {
			t = builtins[alias]
		} else {
			t = builtins["whiteboard"]
		}
	}
	t.Normalize()
	return t
}

// Names returns the built-in theme names in stable order.
func Names() []string {
	return []string{"whiteboard", "guidebook", "dark"}
}

// Aliases returns the theme alias table (alias -> canonical name).
func Aliases() map[string]string {
	return maps.Clone(aliases)
}

var aliases = map[string]string{
	"tech_blue":   "dark",
	"dark_modern": "dark",
	"clean_white": "whiteboard",
	"swirl":       "whiteboard",
	"editorial":   "guidebook",
}

var builtins = map[string]Theme{
	"whiteboard": {
		Name:         "whiteboard",
		BG:           "#FFFFFF",
		Card:         "#FFFFFF",
		Text:         "#1E293B",
		TextMuted:    "#64748B",
		Border:       "#CBD5E1",
		Accent:       "#2B7DE9",
		Accent2:      "#E8833A",
		OuterBorder:  "#2B7DE9",
		DashedBorder: true,
		SectionColors: []SectionColor{
			{Fill: "#E3F2FD", Border: "#2B7DE9", Text: "#1565C0", HeaderBG: "#2B7DE9"},
			{Fill: "#FFF3E0", Border: "#E8833A", Text: "#B35309", HeaderBG: "#E8833A"},
			{Fill: "#E8F5E9", Border: "#4CAF50", Text: "#2E7D32", HeaderBG: "#4CAF50"},
			{Fill: "#F3E8FD", Border: "#9C4DEB", Text: "#6D28D9", HeaderBG: "#9C4DEB"},
			{Fill: "#FFEBEE", Border: "#E05252", Text: "#B91C1C", HeaderBG: "#E05252"},
			{Fill: "#E0F7FA", Border: "#0EA5B7", Text: "#0E7490", HeaderBG: "#0EA5B7"},
		},
		NodeColors: []string{"#2B7DE9", "#E8833A", "#4CAF50", "#9C4DEB", "#E05252", "#0EA5B7"},
	},
	"guidebook": {
		Name:           "guidebook",
		BG:             "#FDFDFB",
		Card:           "#FFFFFF",
		Text:           "#2D3142",
		TextMuted:      "#8D99AE",
		Border:         "#D8DEE9",
		Accent:         "#5B8DEF",
		Accent2:        "#EF8354",
		OuterBorder:    "#5B8DEF",
		NodeHeaderBand: true,
		SectionColors: []SectionColor{
			{Fill: "#EBF3FF", Border: "#5B8DEF", Text: "#2B5EA7", HeaderBG: "#5B8DEF"},
			{Fill: "#FFF0E8", Border: "#EF8354", Text: "#C05621", HeaderBG: "#EF8354"},
			{Fill: "#EAF7EE", Border: "#48A868", Text: "#276749", HeaderBG: "#48A868"},
			{Fill: "#F4EDFD", Border: "#9B72D8", Text: "#553C9A", HeaderBG: "#9B72D8"},
			{Fill: "#FDEEF0", Border: "#E26D7E", Text: "#97266D", HeaderBG: "#E26D7E"},
		},
		NodeColors: []string{"#5B8DEF", "#EF8354", "#48A868", "#9B72D8", "#E26D7E"},
	},
	"dark": {
		Name:          "dark",
		BG:            "#0F172A",
		Card:          "#1E293B",
		Text:          "#F8FAFC",
		TextMuted:     "#94A3B8",
		Border:        "#334155",
		Accent:        "#3B82F6",
		Accent2:       "#8B5CF6",
		OuterBorder:   "#334155",
		GradientStart: "#3B82F6",
		GradientEnd:   "#8B5CF6",
		SectionColors: []SectionColor{
			{Fill: "#1E293B", Border: "#3B82F6", Text: "#93C5FD", HeaderBG: "#3B82F6"},
			{Fill: "#1E293B", Border: "#8B5CF6", Text: "#C4B5FD", HeaderBG: "#8B5CF6"},
			{Fill: "#1E293B", Border: "#10B981", Text: "#6EE7B7", HeaderBG: "#10B981"},
			{Fill: "#1E293B", Border: "#F59E0B", Text: "#FCD34D", HeaderBG: "#F59E0B"},
			{Fill: "#1E293B", Border: "#EC4899", Text: "#F9A8D4", HeaderBG: "#EC4899"},
		},
		NodeColors: []string{"#3B82F6", "#8B5CF6", "#10B981", "#F59E0B", "#EC4899", "#06B6D4"},
	},
}
