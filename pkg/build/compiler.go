// Package build is a minimal model of a bundler's plugin surface: a compiler
// with an async "after emit" hook, the compilation handed to it and the
// assets it carries. It lets plugins be driven from Go against an output
// directory that a real build already produced.
package build

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// OutputOptions describes where and under which public URL assets live
type OutputOptions struct {
	Path       string // output directory on disk
	PublicPath string // URL or path prefix the assets are served under
}

// Compilation is the result of one build
type Compilation struct {
	Assets map[string]any // emitted asset name -> asset
	Output OutputOptions
}

// Hooks exposed by the compiler
type Hooks struct {
	AfterEmit *AsyncHook
}

// Plugin hooks into a compiler
type Plugin interface {
	Apply(compiler *Compiler)
}

// Compiler owns the hooks plugins tap into
type Compiler struct {
	Hooks  Hooks
	Output OutputOptions
	logger zerolog.Logger
}

// NewCompiler creates a compiler emitting under output
func NewCompiler(output OutputOptions, logger zerolog.Logger) *Compiler {
	return &Compiler{
		Hooks:  Hooks{AfterEmit: &AsyncHook{}},
		Output: output,
		logger: logger,
	}
}

// Use applies plugins in order
func (c *Compiler) Use(plugins ...Plugin) *Compiler {
	for _, p := range plugins {
		p.Apply(c)
	}
	return c
}

// Emit hands assets to the after-emit hook as a finished compilation
func (c *Compiler) Emit(ctx context.Context, assets map[string]any) error {
	compilation := &Compilation{Assets: assets, Output: c.Output}

	start := time.Now()
	c.logger.Info().
		Int("assets", len(assets)).
		Strs("taps", c.Hooks.AfterEmit.Taps()).
		Msg("running after-emit hooks")

	if err := c.Hooks.AfterEmit.CallAsync(ctx, compilation); err != nil {
		c.logger.Error().Err(err).Msg("after-emit hook failed")
		return err
	}

	c.logger.Info().Dur("duration", time.Since(start)).Msg("after-emit hooks completed")
	return nil
}
