// Package config loads the YAML settings shared by the CLI and the web widget.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-laseretch/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrFieldRange      = errors.New("field out of range")
	ErrFieldInvalid    = errors.New("invalid field value")
)

// appDir is the directory under the user config dir searched by name.
const appDir = "go-laseretch"

// Field length limits.
const (
	MaxTextLength     = 500  // text.default
	MaxStyleLength    = 64   // glyph.style
	MaxPathLength     = 4096 // assets.basePath, export.outputDir, browser.bin
	MaxFilenameLength = 255  // export.filename
	MaxAddrLength     = 255  // server.addr
	MaxDurationLength = 20   // export.timeout
)

// Numeric ranges. Zero means "use the default" for font size and stroke width.
const (
	MaxFontSize    = 1000.0
	MaxStrokeWidth = 100.0
	MaxPadding     = 1000.0
	MaxTimeout     = 10 * time.Minute
)

// Export host names.
const (
	HostFile    = "file"
	HostBrowser = "browser"
)

// Config holds all settings.
type Config struct {
	Text    TextConfig    `yaml:"text"`
	Glyph   GlyphConfig   `yaml:"glyph"`
	Assets  AssetsConfig  `yaml:"assets"`
	Export  ExportConfig  `yaml:"export"`
	Browser BrowserConfig `yaml:"browser"`
	Server  ServerConfig  `yaml:"server"`
}

// TextConfig defines input text options.
type TextConfig struct {
	Default string `yaml:"default"` // Prefilled text (empty = "LASER")
}

// GlyphConfig defines canvas parameters.
type GlyphConfig struct {
	FontSize    float64  `yaml:"fontSize"`    // px (0 = 48)
	StrokeWidth float64  `yaml:"strokeWidth"` // (0 = 0.2)
	Padding     *float64 `yaml:"padding"`     // px (nil = 20; 0 is allowed)
	Style       string   `yaml:"style"`       // "laser", "cut" or a custom name
}

// AssetsConfig defines style loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = embedded styles only
}

// ExportConfig defines how documents are saved.
type ExportConfig struct {
	Host      string `yaml:"host"`      // "file" or "browser" (default: "file")
	OutputDir string `yaml:"outputDir"` // Default: current directory
	Filename  string `yaml:"filename"`  // Default: laser_etched_text.svg
	Timeout   string `yaml:"timeout"`   // Go duration, e.g. "30s"
}

// BrowserConfig defines headless Chrome options for the browser host.
type BrowserConfig struct {
	Bin       string `yaml:"bin"`
	NoSandbox bool   `yaml:"noSandbox"`
}

// ServerConfig defines web widget options.
type ServerConfig struct {
	Addr string `yaml:"addr"` // Default: 127.0.0.1:8080
}

// Validate checks lengths, ranges and enumerations.
// Called automatically by LoadConfig, but available for configs built in code.
func (c *Config) Validate() error {
	if err := validateFieldLength("text.default", c.Text.Default, MaxTextLength); err != nil {
		return err
	}

	if err := validateRange("glyph.fontSize", c.Glyph.FontSize, MaxFontSize); err != nil {
		return err
	}
	if err := validateRange("glyph.strokeWidth", c.Glyph.StrokeWidth, MaxStrokeWidth); err != nil {
		return err
	}
	if c.Glyph.Padding != nil {
		if err := validateRange("glyph.padding", *c.Glyph.Padding, MaxPadding); err != nil {
			return err
		}
	}
	if err := validateFieldLength("glyph.style", c.Glyph.Style, MaxStyleLength); err != nil {
		return err
	}

	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	switch strings.ToLower(c.Export.Host) {
	case "", HostFile, HostBrowser:
		// valid
	default:
		return fmt.Errorf("%w: export.host %q (must be file or browser)", ErrFieldInvalid, c.Export.Host)
	}
	if err := validateFieldLength("export.outputDir", c.Export.OutputDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("export.filename", c.Export.Filename, MaxFilenameLength); err != nil {
		return err
	}
	if c.Export.Filename != "" {
		if err := fileutil.ValidateFilename(c.Export.Filename); err != nil {
			return fmt.Errorf("%w: export.filename: %v", ErrFieldInvalid, err)
		}
	}
	if err := validateFieldLength("export.timeout", c.Export.Timeout, MaxDurationLength); err != nil {
		return err
	}
	if _, err := c.Export.TimeoutDuration(); err != nil {
		return err
	}

	if err := validateFieldLength("browser.bin", c.Browser.Bin, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}

	return nil
}

// TimeoutDuration parses export.timeout. Empty yields 0 (host default).
func (e ExportConfig) TimeoutDuration() (time.Duration, error) {
	if e.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(e.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: export.timeout %q: %v", ErrFieldInvalid, e.Timeout, err)
	}
	if d <= 0 || d > MaxTimeout {
		return 0, fmt.Errorf("%w: export.timeout must be between 0 and %s, got %s", ErrFieldRange, MaxTimeout, d)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateRange checks that v is finite and 0 <= v <= limit.
func validateRange(fieldName string, v, limit float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > limit {
		return fmt.Errorf("%w: %s must be between 0 and %g, got %g", ErrFieldRange, fieldName, limit, v)
	}
	return nil
}

// DefaultConfig returns a configuration where every field means "use the default".
func DefaultConfig() *Config {
	return &Config{
		Export: ExportConfig{Host: HostFile},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := decodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists, in order, the files LoadConfig tries for a config name.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
