package icons

import (
	"testing"

	"github.com/fogleman/gg"
)

func TestKnown(t *testing.T) {
	for _, name := range []string{"database", "brain", "gear", "robot"} {
		if !Known(name) {
			t.Errorf("Known(%q) = false", name)
		}
	}
	for _, alias := range []string{"db", "llm", "settings", "agent", " LLM "} {
		if !Known(alias) {
			t.Errorf("alias %q should resolve to a glyph", alias)
		}
	}
	if Known("definitely-not-an-icon") {
		t.Error("unknown name reported as known")
	}
}

func TestDrawAllGlyphs(t *testing.T) {
	dc := gg.NewContext(64, 64)
	for name := range glyphs {
		Draw(dc, name, 32, 32, 40, "#3B82F6")
	}
}

func TestDrawFallback(t *testing.T) {
	dc := gg.NewContext(64, 64)
	Draw(dc, "mystery_widget", 32, 32, 40, "#E8833A")
	Draw(dc, "", 32, 32, 40, "#E8833A")
	Draw(dc, "123", 32, 32, 40, "#E8833A")
}
