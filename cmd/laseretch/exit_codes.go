package main

import (
	"errors"
	"os"

	flag "github.com/spf13/pflag"

	laseretch "github.com/alnah/go-laseretch"
	"github.com/alnah/go-laseretch/internal/config"
)

// Exit codes for the laseretch CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Document generated or saved
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or glyph parameters
	ExitIO      = 3 // Read/write failure, or no save strategy succeeded
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, laseretch.ErrBrowserConnect) ||
		errors.Is(err, laseretch.ErrPageCreate) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, flag.ErrHelp) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidHost) ||
		errors.Is(err, laseretch.ErrMissingDocument) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrFieldRange) ||
		errors.Is(err, config.ErrFieldInvalid) ||
		errors.Is(err, laseretch.ErrInvalidFontSize) ||
		errors.Is(err, laseretch.ErrInvalidStrokeWidth) ||
		errors.Is(err, laseretch.ErrInvalidPadding) ||
		errors.Is(err, laseretch.ErrStyleNotFound) ||
		errors.Is(err, laseretch.ErrStyleRender) ||
		errors.Is(err, laseretch.ErrInvalidAssetPath) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrExportFailed) {
		return ExitIO
	}

	return ExitGeneral
}
