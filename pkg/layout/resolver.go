package layout

import (
	"github.com/charmbracelet/log"

	"github.com/flowline-dev/flowline/pkg/flowgraph"
	"github.com/flowline-dev/flowline/pkg/model"
)

// Resolve computes a complete position for every shape of the model and
// converts coordinates to container-relative form. The input model is cloned
// on entry and never mutated; the returned model is fully positioned.
//
// Resolve does not fail for well-formed input: every fallible sub-step
// degrades to a deterministic fallback instead of returning an error.
func Resolve(in *model.Model, opts Options) *model.Model {
	opts.setDefaults()

	m := in.Clone()
	r := &resolver{m: m, opts: opts, logger: opts.Logger}
	r.run()
	return m
}

// resolver carries the per-call state: the working copy, the transient flow
// graph and the lookup tables built from the clone. Nothing here survives
// the call.
type resolver struct {
	m      *model.Model
	opts   Options
	logger *log.Logger

	graph   *flowgraph.Graph
	ranks   map[string]int
	parents map[string]Parent
}

func (r *resolver) run() {
	r.applyDefaultSizes()
	r.parents = resolveParents(r.m)

	if r.opts.Mode == ModePreserve && r.preservable() {
		r.logger.Debug("preserve mode: converting coordinate spaces only")
		r.preserveConvert()
		r.fillPreserveGaps()
		return
	}

	r.resolvePoolPositions()

	r.graph = flowgraph.Build(r.m, r.logger)
	r.ranks = r.graph.Ranks(shapeOrder(r.m), r.logger)

	if !r.m.HasExplicitPositions {
		r.layoutWholeModel()
	}
	r.placeByNeighbors()
	r.placeDisconnected()
	r.placeLeftovers()
	r.clearWaypoints()

	r.resolveContainment()
	r.positionBoundaries()
	r.separateSiblings()
}

// applyDefaultSizes fills in missing dimensions from the type defaults.
func (r *resolver) applyDefaultSizes() {
	for _, s := range r.m.Shapes {
		if s.Size == nil {
			sz := model.DefaultSize(s.Type)
			s.Size = &sz
		}
	}
}

// resolvePoolPositions keeps explicitly positioned pools as-is and stacks
// the rest vertically beneath the lowest positioned one, from the top margin
// when none is positioned.
func (r *resolver) resolvePoolPositions() {
	lowest, found := 0.0, false
	for _, p := range r.m.Pools {
		if p.Position == nil {
			continue
		}
		if b := p.Position.Y + poolHeight(p); !found || b > lowest {
			lowest, found = b, true
		}
	}
	bottom := Margin
	if found && lowest+PoolGap > bottom {
		bottom = lowest + PoolGap
	}
	for _, p := range r.m.Pools {
		if p.Position != nil {
			continue
		}
		p.Position = &model.Point{X: Margin, Y: bottom}
		bottom += poolHeight(p) + PoolGap
	}
}

func poolHeight(p *model.Pool) float64 {
	if p.Size != nil {
		return p.Size.Height
	}
	return MinPoolHeight
}

// layoutWholeModel runs the external engine (or the fallback) over every
// flow-connected shape and applies the normalized result, never overwriting
// a position already set. Shapes without flow edges are placed separately
// (sidebar or wrapping row), not as part of the flow.
func (r *resolver) layoutWholeModel() {
	var shapes []*model.Shape
	for _, s := range layoutShapes(r.m) {
		if r.graph.Connected(s.ID) {
			shapes = append(shapes, s)
		}
	}
	if len(shapes) == 0 {
		return
	}

	var positions map[string]model.Point
	if !r.opts.DisableEngine {
		raw, err := graphvizLayout(shapes, r.graph, r.opts.Direction, r.logger)
		if err != nil {
			r.logger.Warn("external layout engine failed, using fallback layout", "err", err)
		} else {
			positions = normalizePositions(raw, true, true)
		}
	}
	if positions == nil {
		raw := flowLayout(shapes, r.graph, r.ranks, r.opts.Direction)
		positions = normalizePositions(raw, false, false)
	}

	for _, s := range shapes {
		if s.HasPosition() {
			continue
		}
		if p, ok := positions[s.ID]; ok {
			s.Position = &model.Point{X: p.X, Y: p.Y}
		}
	}
}

// layoutShapes returns the shapes that participate in flow layout. Boundary
// shapes are excluded; they are positioned on their host's edge during
// containment.
func layoutShapes(m *model.Model) []*model.Shape {
	var shapes []*model.Shape
	for _, s := range m.Shapes {
		if s.IsBoundary() {
			continue
		}
		shapes = append(shapes, s)
	}
	return shapes
}

// shapeOrder returns the model's shape IDs in declared order. All per-call
// iteration over graph nodes uses this order for determinism.
func shapeOrder(m *model.Model) []string {
	ids := make([]string, len(m.Shapes))
	for i, s := range m.Shapes {
		ids[i] = s.ID
	}
	return ids
}

// clearWaypoints drops routing hints from the source format; they are stale
// once positions are recomputed. Preserve mode keeps them.
func (r *resolver) clearWaypoints() {
	for _, c := range r.m.Connectors {
		c.Waypoints = nil
	}
}

// preservable reports whether preserve mode can run: the model must have
// lanes and every lane must carry an absolute position.
func (r *resolver) preservable() bool {
	if len(r.m.Lanes) == 0 {
		return false
	}
	for _, l := range r.m.Lanes {
		if l.Position == nil {
			return false
		}
	}
	return true
}
