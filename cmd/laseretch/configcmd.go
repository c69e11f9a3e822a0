package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-laseretch/internal/config"
)

// runConfig prints the effective configuration as YAML: defaults, overlaid
// with the file named by --config when given.
func runConfig(_ context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConfigFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: config takes no arguments", ErrUsage)
	}

	cfg, err := loadConfig(flags.common, env)
	if err != nil {
		return err
	}

	out, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	if _, err := env.Stdout.Write(out); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
