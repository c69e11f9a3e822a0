package main

import (
	"context"
	"fmt"
	"io"

	laseretch "github.com/alnah/go-laseretch"
	"github.com/alnah/go-laseretch/internal/fileutil"
)

// outputPermissions is rw-r--r-- for written SVG files.
const outputPermissions = 0o644

// runGenerate composes text and prints the document, or writes it with -o.
func runGenerate(_ context.Context, args []string, env *Environment) error {
	flags, positional, err := parseGenerateFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}

	cfg, err := loadConfig(flags.common, env)
	if err != nil {
		return err
	}
	logger := newLogger(env.Stderr, flags.common)

	comp, err := newComposer(flags.glyph, cfg)
	if err != nil {
		return err
	}

	text := resolveText(positional, cfg)
	doc := comp.Compose(text)
	canvas := comp.Canvas(text)
	logger.Debug("composed", "glyphs", laseretch.GlyphCount(text), "width", canvas.Width, "height", canvas.Height)

	if flags.output == "" {
		if _, err := io.WriteString(env.Stdout, doc.String()+"\n"); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return nil
	}

	if err := fileutil.WriteFileAtomic(flags.output, doc.Bytes(), outputPermissions); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteOutput, flags.output, err)
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", flags.output)
	}
	return nil
}
