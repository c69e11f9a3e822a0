package laseretch

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"text/template"

	"github.com/alnah/go-laseretch/internal/assets"
)

// Output artifact constants.
const (
	MediaType       = "image/svg+xml"
	DefaultFilename = "laser_etched_text.svg"
)

const (
	xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>`
	svgNamespace   = "http://www.w3.org/2000/svg"
	styleIndent    = "    "
)

// Document is a generated SVG document. It is immutable and carries no identity.
type Document string

// String returns the SVG markup.
func (d Document) String() string { return string(d) }

// Bytes returns the SVG markup as bytes.
func (d Document) Bytes() []byte { return []byte(d) }

// IsEmpty reports whether nothing has been generated.
func (d Document) IsEmpty() bool { return d == "" }

// Composer turns text into SVG documents with fixed glyph parameters.
// The style block is rendered once in NewComposer, so Compose cannot fail.
type Composer struct {
	cfg   composerConfig
	style string
}

// composerConfig holds the glyph parameters and style source.
type composerConfig struct {
	fontSize    float64
	strokeWidth float64
	padding     float64
	styleName   string
	assetPath   string
	loader      assets.AssetLoader
}

// ComposerOption configures a Composer.
type ComposerOption func(*composerConfig)

// WithFontSize sets the glyph size in pixels.
func WithFontSize(size float64) ComposerOption {
	return func(c *composerConfig) { c.fontSize = size }
}

// WithStrokeWidth sets the outline stroke width in pixels.
func WithStrokeWidth(width float64) ComposerOption {
	return func(c *composerConfig) { c.strokeWidth = width }
}

// WithPadding sets the margin around the text on every side.
func WithPadding(padding float64) ComposerOption {
	return func(c *composerConfig) { c.padding = padding }
}

// WithStyle selects a style by name ("laser", "cut", or a custom one).
func WithStyle(name string) ComposerOption {
	return func(c *composerConfig) { c.styleName = name }
}

// WithAssetPath loads styles from {dir}/styles before the embedded ones.
func WithAssetPath(dir string) ComposerOption {
	return func(c *composerConfig) { c.assetPath = dir }
}

// withAssetLoader injects a loader directly. Used by tests.
func withAssetLoader(l assets.AssetLoader) ComposerOption {
	return func(c *composerConfig) { c.loader = l }
}

// NewComposer validates the glyph parameters and renders the style block.
func NewComposer(opts ...ComposerOption) (*Composer, error) {
	cfg := composerConfig{
		fontSize:    DefaultFontSize,
		strokeWidth: DefaultStrokeWidth,
		padding:     DefaultPadding,
		styleName:   assets.DefaultStyleName,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.loader == nil {
		resolver, err := assets.NewAssetResolver(cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		cfg.loader = resolver
	}

	source, err := cfg.loader.LoadStyle(cfg.styleName)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) || errors.Is(err, assets.ErrInvalidAssetName) {
			return nil, fmt.Errorf("%w: %v", ErrStyleNotFound, err)
		}
		return nil, fmt.Errorf("loading style %q: %w", cfg.styleName, err)
	}

	style, err := renderStyle(source, styleParams{
		FontSize:    cfg.fontSize,
		StrokeWidth: cfg.strokeWidth,
		LineHeight:  lineHeightFor(cfg.fontSize),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStyleRender, cfg.styleName, err)
	}

	return &Composer{cfg: cfg, style: style}, nil
}

func (c composerConfig) validate() error {
	if !isFinitePositive(c.fontSize) {
		return fmt.Errorf("%w: %v (must be > 0)", ErrInvalidFontSize, c.fontSize)
	}
	if !isFinitePositive(c.strokeWidth) {
		return fmt.Errorf("%w: %v (must be > 0)", ErrInvalidStrokeWidth, c.strokeWidth)
	}
	if c.padding < 0 || math.IsNaN(c.padding) || math.IsInf(c.padding, 0) {
		return fmt.Errorf("%w: %v (must be >= 0)", ErrInvalidPadding, c.padding)
	}
	return nil
}

func isFinitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Canvas derives the geometry for text with this composer's parameters.
func (c *Composer) Canvas(text string) Canvas {
	return newCanvas(text, c.cfg.fontSize, c.cfg.strokeWidth, c.cfg.padding)
}

// Compose builds the SVG document for text. The text is embedded verbatim:
// markup characters such as < and & are not escaped.
// Identical input always yields a byte-identical document.
func (c *Composer) Compose(text string) Document {
	cv := c.Canvas(text)

	var b strings.Builder
	b.WriteString(xmlDeclaration)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "<svg xmlns=%q width=%q height=%q>\n",
		svgNamespace, formatNumber(cv.Width), formatNumber(cv.Height))
	b.WriteString("  <style>\n")
	b.WriteString(c.style)
	b.WriteString("\n  </style>\n")
	fmt.Fprintf(&b, "  <text x=%q y=%q>%s</text>\n",
		formatNumber(cv.Padding), formatNumber(cv.LineHeight), cv.Text)
	b.WriteString("</svg>")

	return Document(b.String())
}

// defaultComposer uses the embedded laser style, which always renders.
var defaultComposer = sync.OnceValue(func() *Composer {
	c, err := NewComposer()
	if err != nil {
		panic("laseretch: embedded default style: " + err.Error())
	}
	return c
})

// Compose builds the SVG document for text with the default glyph parameters
// (48px monospace, 0.2 stroke, 20px padding).
func Compose(text string) Document {
	return defaultComposer().Compose(text)
}

// styleParams is the data available to style templates.
type styleParams struct {
	FontSize    float64
	StrokeWidth float64
	LineHeight  float64
}

// renderStyle executes a style template and indents it for the <style> element.
func renderStyle(source string, params styleParams) (string, error) {
	tmpl, err := template.New("style").
		Option("missingkey=error").
		Funcs(template.FuncMap{"num": formatNumber}).
		Parse(source)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return "", err
	}

	lines := strings.Split(strings.TrimRight(buf.String(), " \t\r\n"), "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if line != "" {
			line = styleIndent + line
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n"), nil
}
