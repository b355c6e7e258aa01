package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/flowline-dev/flowline/pkg/cache"
	"github.com/flowline-dev/flowline/pkg/model"
	"github.com/flowline-dev/flowline/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Model is the resolved model with complete positions.
	Model *model.Model

	// ModelHash is the content hash of the input model.
	ModelHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ShapeCount     int
	ConnectorCount int
	LoadTime       time.Duration
	ResolveTime    time.Duration
	ExportTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ResolveHit bool // Whether the resolved model came from cache
}

// Execute runs the complete load → resolve → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	m, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.ShapeCount = len(m.Shapes)
	result.Stats.ConnectorCount = len(m.Connectors)

	// Compute model hash for cache keys and API responses
	if data, err := model.MarshalModel(m); err == nil {
		result.ModelHash = cache.Hash(data)
	}

	r.Logger.Info("loaded model",
		"shapes", len(m.Shapes),
		"connectors", len(m.Connectors),
		"duration", result.Stats.LoadTime)

	// Stage 2: Resolve
	resolveStart := time.Now()
	resolved, resolveHit, err := r.ResolveWithCacheInfo(ctx, m, opts)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	result.Model = resolved
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.CacheInfo.ResolveHit = resolveHit

	r.Logger.Info("resolved layout",
		"shapes", len(resolved.Shapes),
		"cached", resolveHit,
		"duration", result.Stats.ResolveTime)

	// Stage 3: Export
	if opts.Output != "" {
		exportStart := time.Now()
		if err := Export(ctx, resolved, opts); err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		result.Stats.ExportTime = time.Since(exportStart)

		r.Logger.Info("exported model",
			"output", opts.Output,
			"duration", result.Stats.ExportTime)
	}

	return result, nil
}

// ResolveWithCacheInfo resolves a model's layout with caching and returns
// cache hit info.
func (r *Runner) ResolveWithCacheInfo(ctx context.Context, m *model.Model, opts Options) (*model.Model, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key
	data, err := model.MarshalModel(m)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(data), opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := model.UnmarshalModel(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	// Resolve
	resolved, err := r.ResolveModel(ctx, m, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if resolvedData, err := model.MarshalModel(resolved); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, resolvedData, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(resolvedData))
	}

	return resolved, false, nil // Cache miss
}

// Resolve is a convenience wrapper that calls ResolveWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Resolve(ctx context.Context, m *model.Model, opts Options) (*model.Model, error) {
	resolved, _, err := r.ResolveWithCacheInfo(ctx, m, opts)
	return resolved, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
