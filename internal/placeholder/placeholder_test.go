package placeholder

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestHashGolden(t *testing.T) {
	tests := []struct {
		label string
		hash  int32
		index int
	}{
		{"Bloodbath", -1081057331, 1},
		{"Sonic Wave", 2106007725, 5},
		{"Level", 73313124, 4},
		{"Tartarus", -365421410, 0},
		{"Acheron", 491651250, 0},
		{"Slaughterhouse", 263325613, 3},
		{"🔥Fire", 726856414, 4},
		{"a", 97, 7},
		{"", 0, 0},
	}
	for _, tt := range tests {
		if got := Hash(tt.label); got != tt.hash {
			t.Errorf("Hash(%q) = %d, want %d", tt.label, got, tt.hash)
		}
		if got := Index(tt.label); got != tt.index {
			t.Errorf("Index(%q) = %d, want %d", tt.label, got, tt.index)
		}
	}
}

func TestForIsDeterministic(t *testing.T) {
	a := For("Bloodbath", 206, 116)
	b := For("Bloodbath", 206, 116)
	if a != b {
		t.Fatalf("For is not deterministic: %+v vs %+v", a, b)
	}
	if a.Gradient.CSS() != "linear-gradient(135deg, #f093fb 0%, #f5576c 100%)" {
		t.Errorf("unexpected gradient %s", a.Gradient.CSS())
	}
	if a.SVG() != b.SVG() {
		t.Error("SVG output differs between identical calls")
	}
}

func TestForDefaults(t *testing.T) {
	p := For("", 0, -1)
	if p.Label != DefaultLabel || p.Width != DefaultWidth || p.Height != DefaultHeight {
		t.Errorf("defaults not applied: %+v", p)
	}
	if p.GlyphSize != 24 || p.TextSize != 10 {
		t.Errorf("wide placeholder sizes = %d/%d, want 24/10", p.GlyphSize, p.TextSize)
	}

	small := For("Level", 120, 68)
	if small.GlyphSize != 18 || small.TextSize != 8 {
		t.Errorf("narrow placeholder sizes = %d/%d, want 18/8", small.GlyphSize, small.TextSize)
	}
}

func TestCaption(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Bloodbath", "Bloodbath"},
		{"exactly fifteen", "exactly fifteen"},
		{"Slaughterhouse Extended", "Slaughterhouse ..."},
		{"ÀÀÀÀÀÀÀÀÀÀÀÀÀÀÀÀ", "ÀÀÀÀÀÀÀÀÀÀÀÀÀÀÀ..."},
	}
	for _, tt := range tests {
		if got := Caption(tt.in); got != tt.want {
			t.Errorf("Caption(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGlyph(t *testing.T) {
	tests := []struct{ in, want string }{
		{"🔥Fire", "🔥"},
		{"😀 smile", "😀"},
		{"🚀", "🚀"},
		{"🇩🇪", "🇩"},
		{"Bloodbath", FallbackGlyph},
		{"⭐ star", FallbackGlyph},
		{"", FallbackGlyph},
	}
	for _, tt := range tests {
		if got := Glyph(tt.in); got != tt.want {
			t.Errorf("Glyph(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDataURI(t *testing.T) {
	p := For("<Sonic & Wave>", 206, 116)
	uri := p.DataURI()
	const prefix = "data:image/svg+xml;base64,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("unexpected data URI prefix: %s", uri[:30])
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	if err != nil {
		t.Fatalf("decode data URI: %v", err)
	}
	svg := string(raw)
	if !strings.Contains(svg, "&lt;Sonic &amp; Wave&gt;") {
		t.Errorf("caption not escaped in %s", svg)
	}
	if !strings.Contains(svg, p.Gradient.From) || !strings.Contains(svg, p.Gradient.To) {
		t.Errorf("gradient stops missing from %s", svg)
	}
}

func TestLazy(t *testing.T) {
	img := Lazy("Bloodbath", "https://img.youtube.com/vi/abc/hqdefault.jpg", 206, 116)
	if !img.Lazy || img.DataSrc == "" {
		t.Fatalf("expected deferred source, got %+v", img)
	}
	if img.Src != For("Bloodbath", 206, 116).DataURI() {
		t.Error("initial source is not the placeholder")
	}
	if !img.Reveal() {
		t.Fatal("Reveal reported no change")
	}
	if img.Src != "https://img.youtube.com/vi/abc/hqdefault.jpg" || img.Lazy {
		t.Errorf("unexpected image after reveal: %+v", img)
	}
	if img.Reveal() {
		t.Error("second Reveal should be a no-op")
	}

	bare := Lazy("Bloodbath", "", 206, 116)
	if bare.Lazy || bare.Reveal() {
		t.Errorf("image without source should not be lazy: %+v", bare)
	}
}
