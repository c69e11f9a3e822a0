package web

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
)

// highlightStyle is the chroma style for the raw-markup viewer.
const highlightStyle = "github"

// highlighter renders SVG source as class-annotated HTML.
type highlighter struct {
	lexer     chroma.Lexer
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

func newHighlighter() *highlighter {
	lexer := lexers.Get("xml")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	style := styles.Get(highlightStyle)
	if style == nil {
		style = styles.Fallback
	}
	return &highlighter{
		lexer:     chroma.Coalesce(lexer),
		style:     style,
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
	}
}

// Highlight returns source as highlighted HTML. Chroma escapes every token,
// so raw markup in the source is shown, never interpreted.
func (h *highlighter) Highlight(source string) (template.HTML, error) {
	it, err := h.lexer.Tokenise(nil, source)
	if err != nil {
		return "", fmt.Errorf("tokenising markup: %w", err)
	}
	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, it); err != nil {
		return "", fmt.Errorf("formatting markup: %w", err)
	}
	return template.HTML(buf.String()), nil // #nosec G203 -- chroma output is escaped
}

// CSS returns the stylesheet for the highlight classes.
func (h *highlighter) CSS() (template.CSS, error) {
	var buf bytes.Buffer
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return template.CSS(buf.String()), nil // #nosec G203 -- generated by chroma
}

// markdown renders the about panel. Fenced code shares the viewer's chroma
// classes, so the one stylesheet from CSS covers both.
var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle(highlightStyle),
			highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
		),
	),
)

// markdownToHTML converts trusted embedded markdown to HTML.
func markdownToHTML(source []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(buf.String()), nil // #nosec G203 -- embedded content, raw HTML disabled
}
