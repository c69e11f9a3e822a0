// Package laseretch turns text into SVG documents styled as laser-etched
// outline glyphs and saves them as local files.
//
// # Quick Start
//
//	doc := laseretch.Compose("LASER")
//
//	host := laseretch.NewFileHost(".", os.Stderr)
//	defer host.Close()
//
//	res := laseretch.NewExporter(host).Export(ctx, doc)
//	fmt.Println(res.Outcome) // primary
//
// # Composition
//
// Compose is pure and total: every string, including the empty one, yields a
// document, and the same text always yields the same bytes. The canvas is
// width = glyphs*fontSize + 2*padding and height = 1.2*fontSize + 2*padding,
// with a 48px monospace font, a 0.2 stroke and 20px padding by default.
//
// The text is embedded verbatim. Markup characters are not escaped, so a
// document built from untrusted text must not be served to other users.
//
// Use NewComposer to change the glyph parameters or the style:
//
//	c, err := laseretch.NewComposer(
//	    laseretch.WithFontSize(72),
//	    laseretch.WithStyle("cut"),
//	    laseretch.WithAssetPath("/path/to/assets"),
//	)
//
// # Export Chain
//
// Exporter tries its strategies in order and stops at the first success:
//
//  1. BlobStrategy: temporary object URL + download anchor; the URL and the
//     anchor are released on every exit path.
//  2. DataURIStrategy: percent-encoded data: URI + download anchor.
//  3. Manual copy: the host's Prompt receives the exact document.
//
// An empty document is reported through the host's Alert and nothing else
// happens. Export never returns an error; tier failures are logged and the
// Result records which exit was taken.
//
// # Hosts
//
// FileHost saves into a local directory and backs object URLs with temp
// files. BrowserHost performs the same steps in headless Chrome via go-rod,
// which downloads a managed Chromium on first run. Set ROD_BROWSER_BIN to use
// an installed browser and ROD_NO_SANDBOX=1 in containers.
package laseretch
