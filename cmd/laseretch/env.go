package main

import (
	"context"
	"io"
	"os"

	"github.com/go-rod/rod/lib/launcher"

	laseretch "github.com/alnah/go-laseretch"
	"github.com/alnah/go-laseretch/internal/config"
	"github.com/alnah/go-laseretch/internal/web"
)

// exportHost is a Host that owns resources released by Close.
type exportHost interface {
	laseretch.Host
	Close() error
}

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer

	// LoadConfig resolves --config.
	LoadConfig func(nameOrPath string) (*config.Config, error)

	// NewBrowserHost builds the headless Chrome host for --host browser.
	NewBrowserHost func(opts laseretch.BrowserHostOptions) exportHost

	// Serve runs the web widget until ctx is canceled.
	Serve func(ctx context.Context, srv *web.Server) error

	// LookPath locates Chrome for doctor.
	LookPath func() (string, bool)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		LoadConfig: config.LoadConfig,
		NewBrowserHost: func(opts laseretch.BrowserHostOptions) exportHost {
			return laseretch.NewBrowserHost(opts)
		},
		Serve: func(ctx context.Context, srv *web.Server) error {
			return srv.ListenAndServe(ctx)
		},
		LookPath: launcher.LookPath,
	}
}
