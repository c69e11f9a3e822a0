package assets

import (
	"fmt"
	"strings"
)

// AssetLoader defines the contract for loading glyph styles.
type AssetLoader interface {
	// LoadStyle loads a style template by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// ListStyles returns the names of the available styles, sorted.
	ListStyles() ([]string, error)
}

// ValidateAssetName rejects names that are empty or could escape the styles
// directory or change the extension: separators, dots and NUL.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
