package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alnah/go-laseretch/internal/web"
)

// runServe starts the web widget and blocks until a shutdown signal.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, _, err := parseServeFlags(args, env.Stderr)
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

	srv, err := web.NewServer(comp,
		web.WithLogger(logger),
		web.WithAddr(firstNonEmpty(flags.addr, cfg.Server.Addr)),
		web.WithDefaultText(cfg.Text.Default),
		web.WithFilename(cfg.Export.Filename),
	)
	if err != nil {
		return err
	}

	logger.Info("serving widget", "addr", "http://"+srv.Addr())
	if err := env.Serve(ctx, srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
