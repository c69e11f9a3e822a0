package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	laseretch "github.com/alnah/go-laseretch"
	"github.com/alnah/go-laseretch/internal/config"
	"github.com/alnah/go-laseretch/internal/hints"
)

// runExport composes text (or reads --input) and saves it through the export chain.
func runExport(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseExportFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}

	cfg, err := loadConfig(flags.common, env)
	if err != nil {
		return err
	}
	logger := newLogger(env.Stderr, flags.common)

	doc, err := exportDocument(flags, positional, cfg)
	if err != nil {
		return err
	}

	host, dir, err := newExportHost(flags, cfg, logger, env)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := host.Close(); cerr != nil {
			logger.Warn("closing export host", "err", cerr)
		}
	}()

	opts := []laseretch.ExportOption{laseretch.WithLogger(logger)}
	if name := firstNonEmpty(flags.filename, cfg.Export.Filename); name != "" {
		opts = append(opts, laseretch.WithFilename(name))
	}
	exporter := laseretch.NewExporter(host, opts...)

	res := exporter.Export(ctx, doc)
	logger.Debug("export finished", "outcome", res.Outcome, "strategy", res.Strategy)

	return exportResultError(res, dir, firstNonEmpty(flags.filename, cfg.Export.Filename, laseretch.DefaultFilename), flags.common.quiet, env)
}

// exportDocument returns the document to save: the --input file as is, or composed text.
func exportDocument(flags *exportFlags, positional []string, cfg *config.Config) (laseretch.Document, error) {
	if flags.input != "" {
		if len(positional) > 0 {
			return "", fmt.Errorf("%w: --input and text arguments are exclusive", ErrUsage)
		}
		data, err := os.ReadFile(flags.input) // #nosec G304 -- user-provided input path
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		return laseretch.Document(data), nil
	}

	comp, err := newComposer(flags.glyph, cfg)
	if err != nil {
		return "", err
	}
	return comp.Compose(resolveText(positional, cfg)), nil
}

// newExportHost builds the host named by --host or export.host.
func newExportHost(flags *exportFlags, cfg *config.Config, logger *slog.Logger, env *Environment) (exportHost, string, error) {
	dir := firstNonEmpty(flags.outputDir, cfg.Export.OutputDir, ".")

	info, err := os.Stat(dir)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}
	if !info.IsDir() {
		return nil, "", fmt.Errorf("%w: %s is not a directory%s", ErrWriteOutput, dir, hints.ForOutputDirectory())
	}

	switch strings.ToLower(firstNonEmpty(flags.host, cfg.Export.Host, config.HostFile)) {
	case config.HostFile:
		return laseretch.NewFileHost(dir, env.Stdout), dir, nil

	case config.HostBrowser:
		timeout := flags.timeout
		if timeout == 0 {
			timeout, err = cfg.Export.TimeoutDuration()
			if err != nil {
				return nil, "", err
			}
		}
		host := env.NewBrowserHost(laseretch.BrowserHostOptions{
			Dir:       dir,
			Out:       env.Stdout,
			Timeout:   timeout,
			Bin:       cfg.Browser.Bin,
			NoSandbox: flags.noSandbox || cfg.Browser.NoSandbox,
			Logger:    logger,
		})
		return host, dir, nil

	default:
		return nil, "", fmt.Errorf("%w: %q (must be file or browser)", ErrInvalidHost, firstNonEmpty(flags.host, cfg.Export.Host))
	}
}

// exportResultError maps an export outcome to a CLI error, with hints for the failed tiers.
func exportResultError(res laseretch.Result, dir, filename string, quiet bool, env *Environment) error {
	switch res.Outcome {
	case laseretch.OutcomePrimary, laseretch.OutcomeFallback:
		if !quiet {
			fmt.Fprintf(env.Stderr, "Saved %s (%s)\n", filepath.Join(dir, filename), res.Strategy)
		}
		return nil

	case laseretch.OutcomeMissingDocument:
		return laseretch.ErrMissingDocument

	default:
		err := fmt.Errorf("%w: %w", ErrExportFailed, errors.Join(res.Errors...))
		var hint string
		switch {
		case errors.Is(err, laseretch.ErrBrowserConnect):
			hint = hints.ForBrowserConnect()
		case errors.Is(err, context.DeadlineExceeded):
			hint = hints.ForTimeout()
		}
		return fmt.Errorf("%w%s%s", err, hint, hints.ForManualCopy())
	}
}
