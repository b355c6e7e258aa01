// Package pipeline provides the core layout pipeline for Flowline.
//
// This package implements the complete load → resolve → export pipeline that
// can be used by CLI, API, and worker components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read and validate a diagram model from a file or reader
//  2. Resolve: Compute complete container-relative positions for the model
//  3. Export: Write the resolved model as JSON
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:  "checkout.json",
//	    Output: "checkout.resolved.json",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Run individual stages:
//
//	// Load only
//	m, err := runner.Load(ctx, opts)
//
//	// Resolve an already-loaded model
//	resolved, err := runner.ResolveModel(ctx, m, opts)
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/flowline-dev/flowline/pkg/cache"
	"github.com/flowline-dev/flowline/pkg/errors"
	"github.com/flowline-dev/flowline/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

const (
	// DefaultMode is the default layout mode.
	DefaultMode = string(layout.ModeAuto)

	// DefaultDirection is the default flow direction.
	DefaultDirection = string(layout.DirLeftToRight)

	// OutputSuffix is appended to the input basename when no explicit
	// output path is given.
	OutputSuffix = ".resolved.json"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Input string `json:"input,omitempty"` // Path to the model file ("-" for stdin)

	// Resolve options
	Mode      string `json:"mode,omitempty"`      // "auto" or "preserve"
	Direction string `json:"direction,omitempty"` // Flow direction
	NoEngine  bool   `json:"no_engine,omitempty"` // Skip the external engine, use the fallback
	Refresh   bool   `json:"refresh,omitempty"`   // Bypass the cache

	// Export options
	Output string `json:"output,omitempty"` // Path for the resolved model ("-" for stdout)

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if _, err := layout.ParseMode(o.Mode); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidMode, err, "invalid mode %q", o.Mode)
	}
	if _, err := layout.ParseDirection(o.Direction); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDirection, err, "invalid direction %q", o.Direction)
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.Direction == "" {
		o.Direction = DefaultDirection
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// LayoutOptions converts pipeline options to layout options.
// ValidateAndSetDefaults must have been called.
func (o *Options) LayoutOptions() layout.Options {
	mode, _ := layout.ParseMode(o.Mode)
	dir, _ := layout.ParseDirection(o.Direction)
	return layout.Options{
		Mode:          mode,
		Direction:     dir,
		DisableEngine: o.NoEngine,
		Logger:        o.Logger,
	}
}

// LayoutKeyOpts returns cache key options for the resolve stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	opts := cache.LayoutKeyOpts{
		Mode:      o.Mode,
		Direction: o.Direction,
	}
	// The fallback and the engine produce different coordinates for the
	// same model, so they must not share cache entries.
	if o.NoEngine {
		opts.Mode += ":fallback"
	}
	return opts
}
