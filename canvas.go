package laseretch

import (
	"strconv"
	"unicode/utf16"
)

// Glyph geometry defaults. A 0.2 stroke models a single 200µm engraving pass.
const (
	DefaultFontSize    = 48.0
	DefaultStrokeWidth = 0.2
	DefaultPadding     = 20.0
)

// lineHeightTenths is the line height in tenths of an em (1.2em).
const lineHeightTenths = 12

// Canvas holds the geometry derived from a piece of text.
// Every field is computed from the text and the three glyph parameters; nothing is stored.
type Canvas struct {
	Text        string
	FontSize    float64
	LineHeight  float64
	StrokeWidth float64
	Padding     float64
	Width       float64
	Height      float64
}

// NewCanvas derives the canvas for text using the default glyph parameters.
// Empty text yields a width of exactly twice the padding.
func NewCanvas(text string) Canvas {
	return newCanvas(text, DefaultFontSize, DefaultStrokeWidth, DefaultPadding)
}

func newCanvas(text string, fontSize, strokeWidth, padding float64) Canvas {
	lineHeight := lineHeightFor(fontSize)
	return Canvas{
		Text:        text,
		FontSize:    fontSize,
		LineHeight:  lineHeight,
		StrokeWidth: strokeWidth,
		Padding:     padding,
		Width:       float64(GlyphCount(text))*fontSize + 2*padding,
		Height:      lineHeight + 2*padding,
	}
}

// GlyphCount returns the number of monospace cells text occupies, measured
// in UTF-16 code units as a browser measures string length. Characters
// outside the Basic Multilingual Plane, such as most emoji, take two cells.
// Invalid UTF-8 bytes take one cell each.
func GlyphCount(text string) int {
	n := 0
	for _, r := range text {
		n += utf16.RuneLen(r)
	}
	return n
}

// lineHeightFor scales by tenths so that 48 yields 57.6 and not 57.599999999999994.
func lineHeightFor(fontSize float64) float64 {
	return fontSize * lineHeightTenths / 10
}

// formatNumber prints v in its shortest decimal form (280, 97.6, 0.2).
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
