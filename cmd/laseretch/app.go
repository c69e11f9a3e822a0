package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	flag "github.com/spf13/pflag"

	laseretch "github.com/alnah/go-laseretch"
	"github.com/alnah/go-laseretch/internal/assets"
	"github.com/alnah/go-laseretch/internal/config"
	"github.com/alnah/go-laseretch/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidHost    = errors.New("invalid export host")
	ErrReadInput      = errors.New("failed to read input")
	ErrWriteOutput    = errors.New("failed to write output")
	ErrExportFailed   = errors.New("no save strategy succeeded")
)

// defaultText is composed when neither arguments nor config provide text.
const defaultText = "LASER"

// runMain dispatches a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]

	var err error
	switch cmd {
	case "generate":
		err = runGenerate(ctx, rest, env)
	case "export":
		err = runExport(ctx, rest, env)
	case "serve":
		err = runServe(ctx, rest, env)
	case "config":
		err = runConfig(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "laseretch %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		printUsage(env.Stderr)
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, "error:", err)
	}
	return exitCodeFor(err)
}

// usageError wraps a flag parse error so it maps to ExitUsage.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// newLogger builds the stderr logger. --quiet keeps errors only; --verbose adds debug.
func newLogger(w io.Writer, f commonFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case f.quiet:
		level = slog.LevelError
	case f.verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig returns the config named by --config, or defaults when unset.
func loadConfig(f commonFlags, env *Environment) (*config.Config, error) {
	if f.config == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := env.LoadConfig(f.config)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(config.SearchPaths(f.config)))
		}
		return nil, err
	}
	return cfg, nil
}

// resolveText joins positional args, then falls back to config, then "LASER".
func resolveText(args []string, cfg *config.Config) string {
	if len(args) > 0 {
		return strings.Join(args, " ")
	}
	if cfg.Text.Default != "" {
		return cfg.Text.Default
	}
	return defaultText
}

// composerOptions merges glyph flags over config. Flags win when set.
func composerOptions(g glyphFlags, cfg *config.Config) []laseretch.ComposerOption {
	var opts []laseretch.ComposerOption

	if fs := firstNonZero(g.fontSize, cfg.Glyph.FontSize); fs != 0 {
		opts = append(opts, laseretch.WithFontSize(fs))
	}
	if sw := firstNonZero(g.strokeWidth, cfg.Glyph.StrokeWidth); sw != 0 {
		opts = append(opts, laseretch.WithStrokeWidth(sw))
	}
	switch {
	case g.padding != paddingUnset:
		opts = append(opts, laseretch.WithPadding(g.padding))
	case cfg.Glyph.Padding != nil:
		opts = append(opts, laseretch.WithPadding(*cfg.Glyph.Padding))
	}
	if style := firstNonEmpty(g.style, cfg.Glyph.Style); style != "" {
		opts = append(opts, laseretch.WithStyle(style))
	}
	if path := firstNonEmpty(g.assetPath, cfg.Assets.BasePath); path != "" {
		opts = append(opts, laseretch.WithAssetPath(path))
	}
	return opts
}

// newComposer builds the composer and adds a hint listing styles when the name is unknown.
func newComposer(g glyphFlags, cfg *config.Config) (*laseretch.Composer, error) {
	comp, err := laseretch.NewComposer(composerOptions(g, cfg)...)
	if err == nil {
		return comp, nil
	}
	if errors.Is(err, laseretch.ErrStyleNotFound) {
		path := firstNonEmpty(g.assetPath, cfg.Assets.BasePath)
		if resolver, rerr := assets.NewAssetResolver(path); rerr == nil {
			if names, lerr := resolver.ListStyles(); lerr == nil {
				return nil, fmt.Errorf("%w%s", err, hints.ForStyleNotFound(names))
			}
		}
	}
	return nil, err
}

func firstNonZero(vals ...float64) float64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
