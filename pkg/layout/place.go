package layout

import "github.com/flowline-dev/flowline/pkg/model"

// placeByNeighbors positions still-unpositioned, flow-connected shapes next
// to a positioned predecessor or successor. Passes repeat (bounded by twice
// the shape count) because placing one shape may unlock its own neighbors.
// Every candidate goes through collision avoidance against the shapes placed
// so far.
func (r *resolver) placeByNeighbors() {
	idx := r.m.ShapeIndex()

	maxPasses := 2 * len(r.m.Shapes)
	for pass := 0; pass < maxPasses; pass++ {
		progressed := false
		for _, s := range r.m.Shapes {
			if s.HasPosition() || s.IsBoundary() || !r.graph.Connected(s.ID) {
				continue
			}
			candidate, ok := r.neighborCandidate(s, idx)
			if !ok {
				continue
			}
			p := r.avoidOverlap(candidate, s.SizeOrDefault())
			s.Position = &model.Point{X: p.X, Y: p.Y}
			progressed = true
		}
		if !progressed {
			break
		}
	}
}

// neighborCandidate derives a position from a positioned predecessor (to its
// right, wrapping below at the right bound) or, failing that, a positioned
// successor (to its left, wrapping above at the left bound).
func (r *resolver) neighborCandidate(s *model.Shape, idx map[string]*model.Shape) (model.Point, bool) {
	sz := s.SizeOrDefault()

	for _, id := range r.graph.Predecessors(s.ID) {
		pred := idx[id]
		if pred == nil || !pred.HasPosition() {
			continue
		}
		pb := pred.Bounds()
		x := pb.Right() + neighborGap
		y := pb.Y
		if x+sz.Width > MaxRowWidth {
			x = Margin
			y = pb.Bottom() + neighborGap
		}
		return model.Point{X: x, Y: y}, true
	}

	for _, id := range r.graph.Successors(s.ID) {
		succ := idx[id]
		if succ == nil || !succ.HasPosition() {
			continue
		}
		sb := succ.Bounds()
		x := sb.X - neighborGap - sz.Width
		y := sb.Y
		if x < Margin {
			x = Margin
			y = sb.Y - sz.Height - neighborGap
			if y < Margin {
				y = Margin
			}
		}
		return model.Point{X: x, Y: y}, true
	}

	return model.Point{}, false
}

// avoidOverlap searches from the candidate position for a spot free of
// already-placed shapes: shift down on each collision, shift right and reset
// the vertical offset once headroom is exhausted. The search is capped and
// the last candidate is accepted regardless of residual overlap.
func (r *resolver) avoidOverlap(candidate model.Point, sz model.Size) model.Point {
	placed := make([]model.Rect, 0, len(r.m.Shapes))
	for _, other := range r.m.Shapes {
		if other.HasPosition() {
			placed = append(placed, other.Bounds())
		}
	}

	p := candidate
	for attempt := 0; attempt < maxOverlapAttempts; attempt++ {
		box := model.Rect{X: p.X, Y: p.Y, Width: sz.Width, Height: sz.Height}
		if !collides(box, placed) {
			return p
		}
		p.Y += overlapShiftY
		if p.Y-candidate.Y > overlapHeadroom {
			p.X += overlapShiftX
			p.Y = candidate.Y
		}
	}
	return p
}

func collides(box model.Rect, placed []model.Rect) bool {
	for _, other := range placed {
		if box.Overlaps(other) {
			return true
		}
	}
	return false
}

// placeDisconnected positions shapes with no flow edges: data-like shapes
// stack vertically in a sidebar left of the main bounding box, everything
// else goes into a wrapping row beneath the diagram.
func (r *resolver) placeDisconnected() {
	bounds, ok := model.BoundsOf(r.m.Shapes)
	if !ok {
		bounds = model.Rect{X: Margin, Y: Margin}
	}

	sidebarY := bounds.Y
	rowOrigin := model.Point{X: Margin, Y: bounds.Bottom() + RankSep}
	rowIndex := 0

	for _, s := range r.m.Shapes {
		if s.HasPosition() || s.IsBoundary() || r.graph.Connected(s.ID) {
			continue
		}
		sz := s.SizeOrDefault()
		if s.IsData() {
			s.Position = &model.Point{X: bounds.X - NodeSep - sz.Width, Y: sidebarY}
			sidebarY += sz.Height + NodeSep
		} else {
			p := gridPosition(rowOrigin, rowIndex)
			s.Position = &model.Point{X: p.X, Y: p.Y}
			rowIndex++
		}
	}
}

// fillPreserveGaps grid-places shapes the preserve conversion left without a
// position. The conversion only touches lane members, so a shape outside
// every lane (boundary shapes included) that carried no source coordinates
// would otherwise come back with a nil position.
func (r *resolver) fillPreserveGaps() {
	bounds, ok := model.BoundsOf(r.m.Shapes)
	if !ok {
		bounds = model.Rect{X: Margin, Y: Margin}
	}

	origin := model.Point{X: Margin, Y: bounds.Bottom() + RankSep}
	n := 0
	for _, s := range r.m.Shapes {
		if s.HasPosition() {
			continue
		}
		r.logger.Warn("shape has no source coordinates in preserve mode", "shape", s.ID)
		p := gridPosition(origin, n)
		s.Position = &model.Point{X: p.X, Y: p.Y}
		n++
	}
}

// placeLeftovers is the defensive final fallback: anything still without a
// position (boundary shapes excluded, they resolve against their host) gets
// a row-wrapping slot beneath the diagram bounds.
func (r *resolver) placeLeftovers() {
	bounds, ok := model.BoundsOf(r.m.Shapes)
	if !ok {
		bounds = model.Rect{X: Margin, Y: Margin}
	}

	origin := model.Point{X: Margin, Y: bounds.Bottom() + RankSep}
	n := 0
	for _, s := range r.m.Shapes {
		if s.HasPosition() || s.IsBoundary() {
			continue
		}
		p := gridPosition(origin, n)
		s.Position = &model.Point{X: p.X, Y: p.Y}
		n++
	}
}
