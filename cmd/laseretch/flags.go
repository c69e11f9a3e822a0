package main

import (
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// paddingUnset detects if --padding was explicitly set.
// Since 0 is a valid padding, we use an out-of-range sentinel.
const paddingUnset = -1.0

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// glyphFlags holds canvas and style flags.
type glyphFlags struct {
	fontSize    float64 // 0 = config or default
	strokeWidth float64 // 0 = config or default
	padding     float64 // paddingUnset = config or default
	style       string
	assetPath   string
}

// generateFlags holds all flags for the generate command.
type generateFlags struct {
	common commonFlags
	glyph  glyphFlags
	output string
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common    commonFlags
	glyph     glyphFlags
	host      string
	outputDir string
	filename  string
	input     string
	timeout   time.Duration
	noSandbox bool
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common commonFlags
	glyph  glyphFlags
	addr   string
}

// configFlags holds flags for the config command.
type configFlags struct {
	common commonFlags
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	json bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addGlyphFlags adds canvas and style flags to a FlagSet.
func addGlyphFlags(fs *flag.FlagSet, f *glyphFlags) {
	fs.Float64Var(&f.fontSize, "font-size", 0, "glyph cell size in px (default 48)")
	fs.Float64Var(&f.strokeWidth, "stroke-width", 0, "outline stroke width (default 0.2)")
	fs.Float64Var(&f.padding, "padding", paddingUnset, "canvas padding in px (default 20)")
	fs.StringVarP(&f.style, "style", "s", "", "style name: laser, cut, or a custom style")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory holding styles/<name>.css")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, usage func(io.Writer), out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { usage(out) }
	return fs
}

// newGenerateFlagSet registers the generate flags. Parsing and completion share it.
func newGenerateFlagSet(out io.Writer) (*flag.FlagSet, *generateFlags) {
	fs := newFlagSet("generate", printGenerateUsage, out)
	f := &generateFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "write the SVG to this file instead of stdout")
	addCommonFlags(fs, &f.common)
	addGlyphFlags(fs, &f.glyph)
	return fs, f
}

// parseGenerateFlags parses generate command flags and returns positional args.
func parseGenerateFlags(args []string, stderr io.Writer) (*generateFlags, []string, error) {
	fs, f := newGenerateFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// newExportFlagSet registers the export flags.
func newExportFlagSet(out io.Writer) (*flag.FlagSet, *exportFlags) {
	fs := newFlagSet("export", printExportUsage, out)
	f := &exportFlags{}

	fs.StringVar(&f.host, "host", "", "save through: file, browser (default file)")
	fs.StringVarP(&f.outputDir, "output-dir", "o", "", "download directory (default .)")
	fs.StringVar(&f.filename, "filename", "", "download file name (default laser_etched_text.svg)")
	fs.StringVarP(&f.input, "input", "i", "", "export an existing SVG file instead of composing text")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "browser step timeout (e.g., 30s)")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chrome sandbox")
	addCommonFlags(fs, &f.common)
	addGlyphFlags(fs, &f.glyph)
	return fs, f
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string, stderr io.Writer) (*exportFlags, []string, error) {
	fs, f := newExportFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// newServeFlagSet registers the serve flags.
func newServeFlagSet(out io.Writer) (*flag.FlagSet, *serveFlags) {
	fs := newFlagSet("serve", printServeUsage, out)
	f := &serveFlags{}

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default 127.0.0.1:8080)")
	addCommonFlags(fs, &f.common)
	addGlyphFlags(fs, &f.glyph)
	return fs, f
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, []string, error) {
	fs, f := newServeFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// newConfigFlagSet registers the config flags.
func newConfigFlagSet(out io.Writer) (*flag.FlagSet, *configFlags) {
	fs := newFlagSet("config", printConfigUsage, out)
	f := &configFlags{}

	addCommonFlags(fs, &f.common)
	return fs, f
}

// parseConfigFlags parses config command flags.
func parseConfigFlags(args []string, stderr io.Writer) (*configFlags, []string, error) {
	fs, f := newConfigFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// newDoctorFlagSet registers the doctor flags.
func newDoctorFlagSet(out io.Writer) (*flag.FlagSet, *doctorFlags) {
	fs := newFlagSet("doctor", printDoctorUsage, out)
	f := &doctorFlags{}

	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	return fs, f
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, stderr io.Writer) (*doctorFlags, error) {
	fs, f := newDoctorFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
