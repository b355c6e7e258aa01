package pipeline

import (
	"context"
	"time"

	"github.com/flowline-dev/flowline/pkg/layout"
	"github.com/flowline-dev/flowline/pkg/model"
	"github.com/flowline-dev/flowline/pkg/observability"
)

// ResolveModel computes complete positions for a model without touching the
// cache. Prefer Resolve, which caches by model hash and options.
func (r *Runner) ResolveModel(ctx context.Context, m *model.Model, opts Options) (*model.Model, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	start := time.Now()
	observability.Pipeline().OnResolveStart(ctx, m.Name, len(m.Shapes))

	resolved := layout.Resolve(m, opts.LayoutOptions())

	observability.Pipeline().OnResolveComplete(ctx, m.Name, time.Since(start), nil)
	return resolved, nil
}
