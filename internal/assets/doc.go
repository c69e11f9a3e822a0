// Package assets provides the glyph styles embedded into generated SVG documents.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in styles (laser, cut)
//	    ├── FilesystemLoader  - styles from a custom directory on disk
//	    └── AssetResolver     - custom first, embedded on "not found"
//
// # Style Files
//
// A style is the body of the SVG <style> element, stored as {name}.css:
//
//	{basePath}/
//	└── styles/
//	    └── {name}.css
//
// Style files are text/template sources. They are rendered once per composer
// with FontSize, StrokeWidth and LineHeight, and the "num" function prints a
// number in its shortest decimal form. The text being etched is never part of
// the template data.
//
// # Security
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
