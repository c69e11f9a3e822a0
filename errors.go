package laseretch

import "errors"

// Sentinel errors for library operations.
var (
	// ErrMissingDocument is reported when export is attempted before anything was generated.
	ErrMissingDocument = errors.New("generate an SVG first")

	// Export tier errors. Both are recovered inside Export and only logged.
	ErrPrimaryExport  = errors.New("primary export failed")
	ErrFallbackExport = errors.New("fallback export failed")

	// Composer validation errors.
	ErrInvalidFontSize    = errors.New("invalid font size")
	ErrInvalidStrokeWidth = errors.New("invalid stroke width")
	ErrInvalidPadding     = errors.New("invalid padding")
	ErrStyleNotFound      = errors.New("style not found")
	ErrStyleRender        = errors.New("style template rendering failed")
	ErrInvalidAssetPath   = errors.New("invalid asset path")

	// Host errors.
	ErrObjectURL        = errors.New("failed to create object URL")
	ErrUnknownObjectURL = errors.New("unknown or revoked object URL")
	ErrAnchor           = errors.New("anchor unavailable")
	ErrUnsupportedHref  = errors.New("unsupported anchor href")
	ErrInvalidDataURI   = errors.New("invalid data URI")
	ErrDownload         = errors.New("download failed")
	ErrBrowserConnect   = errors.New("failed to connect to browser")
	ErrPageCreate       = errors.New("failed to create browser page")
)
