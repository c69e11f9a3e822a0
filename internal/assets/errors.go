package assets

import "errors"

// Sentinel errors for style loading.
var (
	// ErrStyleNotFound means no loader has a {name}.css stylesheet.
	// The resolver treats it as the signal to fall back to embedded styles.
	ErrStyleNotFound = errors.New("style not found")

	// ErrInvalidAssetName rejects style names that are empty or could name a
	// file other than styles/{name}.css (separators, dots, NUL).
	ErrInvalidAssetName = errors.New("invalid style name")

	// ErrInvalidBasePath means --asset-path is missing or not a directory.
	ErrInvalidBasePath = errors.New("invalid asset directory")

	// ErrAssetRead wraps I/O failures while reading or listing stylesheets.
	ErrAssetRead = errors.New("failed to read stylesheet")

	// ErrPathTraversal means a stylesheet, once symlinks are resolved, lies
	// outside the asset directory.
	ErrPathTraversal = errors.New("stylesheet escapes asset directory")
)
