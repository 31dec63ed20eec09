package theme

import (
	"math"
	"testing"
)

func TestGetBuiltins(t *testing.T) {
	for _, name := range Names() {
		th := Get(name)
		if th.Name != name {
			t.Errorf("Get(%q).Name = %q", name, th.Name)
		}
		if th.BG == "" || th.Text == "" || th.Accent == "" {
			t.Errorf("theme %q has empty core colors", name)
		}
		if len(th.SectionColors) == 0 {
			t.Errorf("theme %q has no section colors", name)
		}
	}
}

func TestGetUnknownFallsBack(t *testing.T) {
	th := Get("does_not_exist")
	if th.Name != "whiteboard" {
		t.Errorf("unknown theme fell back to %q, want whiteboard", th.Name)
	}
}

func TestAliases(t *testing.T) {
	if th := Get("tech_blue"); th.Name != "dark" {
		t.Errorf("tech_blue alias resolved to %q", th.Name)
	}
	if th := Get("clean_white"); th.Name != "whiteboard" {
		t.Errorf("clean_white alias resolved to %q", th.Name)
	}
}

func TestResolveVariant(t *testing.T) {
	tests := []struct {
		name string
		th   Theme
		want Variant
	}{
		{"header band wins", Theme{NodeHeaderBand: true, DashedBorder: true}, Guidebook},
		{"dashed only", Theme{DashedBorder: true}, Whiteboard},
		{"neither", Theme{}, Dark},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.th.ResolveVariant(); got != tt.want {
				t.Errorf("ResolveVariant() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuiltinVariants(t *testing.T) {
	if Get("whiteboard").Variant != Whiteboard {
		t.Error("whiteboard theme should resolve to Whiteboard variant")
	}
	if Get("guidebook").Variant != Guidebook {
		t.Error("guidebook theme should resolve to Guidebook variant")
	}
	if Get("dark").Variant != Dark {
		t.Error("dark theme should resolve to Dark variant")
	}
}

func TestNormalizeFillsSparseTheme(t *testing.T) {
	th := Theme{Name: "custom", Accent: "#FF0000"}
	th.Normalize()

	if th.BG == "" || th.Card == "" || th.Text == "" || th.TextMuted == "" || th.Border == "" {
		t.Error("Normalize left core colors empty")
	}
	if th.Accent != "#FF0000" {
		t.Error("Normalize overwrote an explicit color")
	}
	if th.OuterBorder != "#FF0000" {
		t.Errorf("OuterBorder = %q, want accent fallback", th.OuterBorder)
	}
	if len(th.SectionColors) == 0 || len(th.NodeColors) == 0 {
		t.Error("Normalize left palettes empty")
	}
}

func TestSectionCycles(t *testing.T) {
	th := Get("whiteboard")
	n := len(th.SectionColors)
	if th.Section(0) != th.Section(n) {
		t.Error("Section should cycle through the palette")
	}
	// Empty palette still returns something usable.
	empty := Theme{}
	sc := empty.Section(3)
	if sc.Border == "" {
		t.Error("Section on empty palette returned empty color")
	}
}

func TestNodeColorCycles(t *testing.T) {
	th := Get("dark")
	n := len(th.NodeColors)
	if th.NodeColor(1) != th.NodeColor(n+1) {
		t.Error("NodeColor should cycle")
	}
	empty := Theme{Accent: "#123456"}
	if empty.NodeColor(5) != "#123456" {
		t.Error("NodeColor on empty palette should return accent")
	}
}

func TestLuminance(t *testing.T) {
	tests := []struct {
		hex  string
		want float64
	}{
		{"#FFFFFF", 255},
		{"#000000", 0},
		{"#FF0000", 0.299 * 255},
	}
	for _, tt := range tests {
		if got := Luminance(tt.hex); math.Abs(got-tt.want) > 0.5 {
			t.Errorf("Luminance(%q) = %v, want %v", tt.hex, got, tt.want)
		}
	}
}

func TestIsVivid(t *testing.T) {
	// Vivid/medium line colors imply a light background behind them.
	for _, hex := range []string{"#2B7DE9", "#E8833A", "#4CAF50", "#94A3B8"} {
		if !IsVivid(hex) {
			t.Errorf("IsVivid(%q) = false, want true", hex)
		}
	}
	// Very dark colors read as lines on a dark background.
	for _, hex := range []string{"#0F172A", "#1A1A2E"} {
		if IsVivid(hex) {
			t.Errorf("IsVivid(%q) = true, want false", hex)
		}
	}
}

func TestParseHexFallback(t *testing.T) {
	// Invalid input must not panic and must return an opaque color.
	c := ParseHex("not-a-color")
	_, _, _, a := c.RGBA()
	if a == 0 {
		t.Error("fallback color should be opaque")
	}
}

func TestShortHexExpansion(t *testing.T) {
	if got := Luminance("#fff"); math.Abs(got-255) > 0.5 {
		t.Errorf("Luminance(#fff) = %v, want 255", got)
	}
}

func TestBlend(t *testing.T) {
	mid := Blend("#000000", "#FFFFFF", 0.5)
	lum := Luminance(mid)
	if lum < 100 || lum > 155 {
		t.Errorf("Blend midpoint luminance = %v, want ~127", lum)
	}
	if Blend("#000000", "#FFFFFF", 0) != "#000000" {
		t.Error("Blend(t=0) should return the first color")
	}
}

func TestLightenDarken(t *testing.T) {
	base := "#808080"
	if Luminance(Lighten(base, 0.5)) <= Luminance(base) {
		t.Error("Lighten should increase luminance")
	}
	if Luminance(Darken(base, 0.5)) >= Luminance(base) {
		t.Error("Darken should decrease luminance")
	}
}
