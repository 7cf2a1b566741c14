// Package placeholder renders the coloured stand-in shown when a level
// thumbnail cannot be loaded.
package placeholder

import (
	"encoding/base64"
	"fmt"
	"html"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

const (
	DefaultLabel  = "Level"
	DefaultWidth  = 206
	DefaultHeight = 116

	// FallbackGlyph is drawn when the label does not start with a pictograph.
	FallbackGlyph = "🎮"

	maxCaption = 15
)

// Gradient is a two-stop diagonal gradient.
type Gradient struct {
	From, To string
}

// CSS renders g as a CSS background value.
func (g Gradient) CSS() string {
	return fmt.Sprintf("linear-gradient(135deg, %s 0%%, %s 100%%)", g.From, g.To)
}

// Palette is the ordered set of gradients labels hash into. The order is part
// of the output: changing it recolours every placeholder.
var Palette = [...]Gradient{
	{"#667eea", "#764ba2"},
	{"#f093fb", "#f5576c"},
	{"#4facfe", "#00f2fe"},
	{"#43e97b", "#38f9d7"},
	{"#fa709a", "#fee140"},
	{"#a8edea", "#fed6e3"},
	{"#ff9a9e", "#fecfef"},
	{"#ffecd2", "#fcb69f"},
	{"#ff8a80", "#ea4c89"},
	{"#8fd3f4", "#84fab0"},
}

// Hash is the 32-bit rolling hash h = h*31 + c over the UTF-16 code units of
// label, wrapping on overflow.
func Hash(label string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(label)) {
		h = h*31 + int32(c)
	}
	return h
}

// Index picks the palette slot for label.
func Index(label string) int {
	h := int64(Hash(label))
	if h < 0 {
		h = -h
	}
	return int(h % int64(len(Palette)))
}

// Placeholder is everything needed to draw one stand-in image.
type Placeholder struct {
	Label     string
	Caption   string
	Glyph     string
	Gradient  Gradient
	Width     int
	Height    int
	GlyphSize int
	TextSize  int
}

// For builds the placeholder for label at the given size. An empty label and
// non-positive sizes fall back to the defaults.
func For(label string, width, height int) Placeholder {
	if label == "" {
		label = DefaultLabel
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	p := Placeholder{
		Label:     label,
		Caption:   Caption(label),
		Glyph:     Glyph(label),
		Gradient:  Palette[Index(label)],
		Width:     width,
		Height:    height,
		GlyphSize: 18,
		TextSize:  8,
	}
	if width > 150 {
		p.GlyphSize, p.TextSize = 24, 10
	}
	return p
}

// Caption shortens label to 15 characters plus an ellipsis.
func Caption(label string) string {
	if utf8.RuneCountInString(label) <= maxCaption {
		return label
	}
	runes := []rune(label)
	return string(runes[:maxCaption]) + "..."
}

// Glyph returns the first character of label when it is a pictograph and the
// fallback glyph otherwise.
func Glyph(label string) string {
	r, _ := utf8.DecodeRuneInString(label)
	if isPictograph(r) {
		return string(r)
	}
	return FallbackGlyph
}

var pictographs = [][2]rune{
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F300, 0x1F5FF}, // symbols and pictographs
	{0x1F680, 0x1F6FF}, // transport and map
	{0x1F1E0, 0x1F1FF}, // regional indicators
}

func isPictograph(r rune) bool {
	for _, rng := range pictographs {
		if r >= rng[0] && r <= rng[1] {
			return true
		}
	}
	return false
}

// SVG renders the placeholder as a standalone SVG document.
func (p Placeholder) SVG() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		p.Width, p.Height, p.Width, p.Height)
	b.WriteString(`<defs><linearGradient id="g" x1="0" y1="0" x2="1" y2="1">`)
	fmt.Fprintf(&b, `<stop offset="0%%" stop-color="%s"/><stop offset="100%%" stop-color="%s"/>`,
		p.Gradient.From, p.Gradient.To)
	b.WriteString(`</linearGradient>`)
	b.WriteString(`<radialGradient id="shine" cx="30%" cy="30%" r="50%">`)
	b.WriteString(`<stop offset="0%" stop-color="#fff" stop-opacity="0.2"/><stop offset="100%" stop-color="#fff" stop-opacity="0"/>`)
	b.WriteString(`</radialGradient></defs>`)
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" rx="8" fill="url(#g)"/>`)
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" rx="8" fill="url(#shine)"/>`)

	mid := p.Height / 2
	fmt.Fprintf(&b, `<text x="50%%" y="%d" font-size="%d" text-anchor="middle">%s</text>`,
		mid, p.GlyphSize, html.EscapeString(p.Glyph))
	fmt.Fprintf(&b, `<text x="50%%" y="%d" font-size="%d" font-weight="bold" fill="#fff" fill-opacity="0.9" text-anchor="middle">%s</text>`,
		mid+p.GlyphSize/2+4+p.TextSize, p.TextSize, html.EscapeString(p.Caption))
	b.WriteString(`</svg>`)
	return b.String()
}

// DataURI encodes the SVG rendering for use as an image source.
func (p Placeholder) DataURI() string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(p.SVG()))
}

// Image is a lazily loaded thumbnail: Src is shown first, DataSrc replaces it
// once the image scrolls into view.
type Image struct {
	Alt     string
	Src     string
	DataSrc string
	Width   int
	Height  int
	Lazy    bool
}

// Lazy wires a thumbnail for deferred loading with the label's placeholder as
// its initial source. Without a real source the placeholder is final.
func Lazy(label, src string, width, height int) Image {
	p := For(label, width, height)
	img := Image{
		Alt:    p.Label,
		Src:    p.DataURI(),
		Width:  p.Width,
		Height: p.Height,
	}
	if src != "" {
		img.DataSrc = src
		img.Lazy = true
	}
	return img
}

// Reveal swaps in the deferred source, as done when the image becomes
// visible. It reports whether anything changed.
func (img *Image) Reveal() bool {
	if !img.Lazy {
		return false
	}
	img.Src, img.DataSrc, img.Lazy = img.DataSrc, "", false
	return true
}
